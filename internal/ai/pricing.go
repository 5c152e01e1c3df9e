// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import "ecardfactory/internal/models"

// tokenPrice is USD per million tokens.
type tokenPrice struct {
	input, output float64
}

var textPrices = map[string]tokenPrice{
	"llama-3.3-70b-versatile": {input: 0.59, output: 0.79},
	"llama-3.1-8b-instant":    {input: 0.05, output: 0.08},
	"gpt-4o-mini":             {input: 0.15, output: 0.60},
	"gpt-4o":                  {input: 2.50, output: 10.00},
}

// TextCost estimates the price of one completion. Unknown models cost zero.
func TextCost(model string, u Usage) models.Money {
	p, ok := textPrices[model]
	if !ok {
		return 0
	}
	usd := (float64(u.PromptTokens)*p.input + float64(u.CompletionTokens)*p.output) / 1e6
	return models.Dollars(usd)
}
