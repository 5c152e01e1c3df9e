// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a USD amount in ten-thousandths of a dollar, matching the
// NUMERIC(6,4) cost columns.
type Money int64

// MoneyScale is the number of Money units in one dollar.
const MoneyScale = 10000

// maxMoney is the largest amount Money can hold, in units.
var maxMoney = decimal.NewFromInt(math.MaxInt64)

// Dollars converts a float dollar amount, rounding to the nearest unit.
func Dollars(f float64) Money {
	return Money(decimal.NewFromFloat(f).Shift(4).Round(0).IntPart())
}

// ParseMoney parses a decimal string such as "0.04" or "1.2345". More than
// four significant fractional digits is an error rather than a silent
// rounding.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse money: empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	if !d.Round(4).Equal(d) {
		return 0, fmt.Errorf("parse money %q: more than 4 decimal places", s)
	}
	units := d.Shift(4)
	if units.Abs().GreaterThan(maxMoney) {
		return 0, fmt.Errorf("parse money %q: out of range", s)
	}
	return Money(units.IntPart()), nil
}

// Decimal returns the amount as a decimal number of dollars.
func (m Money) Decimal() decimal.Decimal { return decimal.New(int64(m), -4) }

// String formats the amount with exactly four decimal places.
func (m Money) String() string { return m.Decimal().StringFixed(4) }

// Float returns the amount in dollars.
func (m Money) Float() float64 { return float64(m) / MoneyScale }

// MarshalJSON encodes the amount as a JSON number with four decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	parsed, err := ParseMoney(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case string:
		parsed, err := ParseMoney(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		return m.Scan(string(v))
	case float64:
		*m = Dollars(v)
		return nil
	case int64:
		*m = Money(v * MoneyScale)
		return nil
	default:
		return fmt.Errorf("scan money: unsupported type %T", src)
	}
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
