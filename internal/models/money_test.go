// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "0.04", want: 400},
		{in: "0.0400", want: 400},
		{in: "1.2345", want: 12345},
		{in: "12", want: 120000},
		{in: ".5", want: 5000},
		{in: "-0.01", want: -100},
		{in: "0.12345", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.-5", wantErr: true},
		{in: "1.+5", wantErr: true},
		{in: "--1", wantErr: true},
		{in: "-", wantErr: true},
		{in: ".", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "0.12340", want: 1234},
		{in: "99999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMoney(%q): expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMoney(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := map[Money]string{
		0:     "0.0000",
		400:   "0.0400",
		1200:  "0.1200",
		12345: "1.2345",
		-100:  "-0.0100",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("Money(%d).String() = %q, want %q", int64(m), got, want)
		}
	}
}

func TestDollars(t *testing.T) {
	if got := Dollars(0.04); got != 400 {
		t.Errorf("Dollars(0.04) = %d", got)
	}
	if got := Dollars(0.12); got != 1200 {
		t.Errorf("Dollars(0.12) = %d", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Cost Money `json:"cost"`
	}{Cost: 800})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"cost":0.0800}` {
		t.Errorf("marshal: got %s", b)
	}

	var v struct {
		Cost Money `json:"cost"`
	}
	if err := json.Unmarshal([]byte(`{"cost":0.08}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Cost != 800 {
		t.Errorf("unmarshal: got %d", v.Cost)
	}
}

func TestMoneyJSONRejectsMalformed(t *testing.T) {
	var v struct {
		Cost Money `json:"cost"`
	}
	for _, body := range []string{`{"cost":"1.-5"}`, `{"cost":"--1"}`, `{"cost":"."}`} {
		if err := json.Unmarshal([]byte(body), &v); err == nil {
			t.Errorf("Unmarshal(%s): expected error, got %d", body, v.Cost)
		}
	}
}

func TestMoneyScan(t *testing.T) {
	var m Money
	if err := m.Scan("0.0400"); err != nil || m != 400 {
		t.Errorf("Scan(string) = %d, %v", m, err)
	}
	if err := m.Scan([]byte("1.5000")); err != nil || m != 15000 {
		t.Errorf("Scan([]byte) = %d, %v", m, err)
	}
	if err := m.Scan(nil); err != nil || m != 0 {
		t.Errorf("Scan(nil) = %d, %v", m, err)
	}
	if err := m.Scan(true); err == nil {
		t.Error("Scan(bool): expected error")
	}
}
