// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package telegram

import (
	"fmt"
	"html"
	"strings"

	"ecardfactory/internal/models"
)

// PhraseApprovalText lists the candidates for an operator, starring the
// recommended one (best is a 0-based index; -1 stars nothing).
func PhraseApprovalText(cardID int64, phrases []models.CandidatePhrase, best int, themeName, planDate string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>\U0001F3A8 Daily Card Generation: %s</b>\n\n", html.EscapeString(planDate))
	fmt.Fprintf(&b, "<b>Theme:</b> %s\n\n", html.EscapeString(themeName))
	for i, p := range phrases {
		prefix := ""
		if i == best {
			prefix = "⭐ "
		}
		tone := string(p.Tone)
		if tone == "" {
			tone = string(models.ToneBalanced)
		}
		fmt.Fprintf(&b, "%s<b>%d.</b> %s <i>(%s)</i>\n", prefix, i+1, html.EscapeString(p.Text), html.EscapeString(tone))
	}
	fmt.Fprintf(&b, "\nReply with /approve_phrase_%d_N or /reject_phrase_%d", cardID, cardID)
	return b.String()
}

// ImageApprovalCaption captions a generated image.
func ImageApprovalCaption(cardID int64, phrase, themeName string) string {
	return fmt.Sprintf(
		"\U0001F5BC Image for Card #%d\nTheme: %s\nPhrase: \"%s\"\n\n/approve_image_%d or /reject_image_%d",
		cardID, themeName, phrase, cardID, cardID,
	)
}

// FinalApprovalCaption captions the assembled preview with the estimated
// total cost.
func FinalApprovalCaption(cardID int64, phrase, themeName string, cost models.Money) string {
	return fmt.Sprintf(
		"✅ Final Card Preview: Card #%d\nPhrase: \"%s\"\nTheme: %s\nEst. cost: $%s\n\n"+
			"/approve_final_%d: Publish\n/reject_final_%d: Discard\n/regenerate_%d: Regenerate image",
		cardID, phrase, themeName, cost, cardID, cardID, cardID,
	)
}
