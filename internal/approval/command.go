// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package approval

import (
	"regexp"
	"strconv"

	"ecardfactory/internal/workflow"
)

// Action names the outcome of a handled update.
type Action string

const (
	ActionPhraseApproved      Action = "phrase_approved"
	ActionPhraseRejected      Action = "phrase_rejected"
	ActionImageApproved       Action = "image_approved"
	ActionImageRejected       Action = "image_rejected"
	ActionFinalApproved       Action = "final_approved"
	ActionFinalRejected       Action = "final_rejected"
	ActionRegenerateRequested Action = "regenerate_requested"
	ActionIgnored             Action = "ignored"
)

// Command is a parsed operator command.
type Command struct {
	Action      Action
	Event       workflow.Event
	CardID      int64
	PhraseIndex int // 1-based; only set for phrase approval
}

type pattern struct {
	re     *regexp.Regexp
	action Action
	event  workflow.Event
}

var patterns = []pattern{
	{regexp.MustCompile(`^/approve_phrase_(\d+)_(\d+)$`), ActionPhraseApproved, workflow.ApprovePhrase},
	{regexp.MustCompile(`^/reject_phrase_(\d+)$`), ActionPhraseRejected, workflow.RejectPhrase},
	{regexp.MustCompile(`^/approve_image_(\d+)$`), ActionImageApproved, workflow.ApproveImage},
	{regexp.MustCompile(`^/reject_image_(\d+)$`), ActionImageRejected, workflow.RejectImage},
	{regexp.MustCompile(`^/approve_final_(\d+)$`), ActionFinalApproved, workflow.ApproveFinal},
	{regexp.MustCompile(`^/reject_final_(\d+)$`), ActionFinalRejected, workflow.RejectFinal},
	{regexp.MustCompile(`^/regenerate_(\d+)$`), ActionRegenerateRequested, workflow.Regenerate},
}

// ParseCommand matches normalized command text against the known
// commands. Numbers too large to represent do not match.
func ParseCommand(text string) (Command, bool) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Command{}, false
		}
		cmd := Command{Action: p.action, Event: p.event, CardID: id}
		if len(m) > 2 {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return Command{}, false
			}
			cmd.PhraseIndex = n
		}
		return cmd, true
	}
	return Command{}, false
}

// notice is the confirmation sent to the operator after a transition.
func notice(cmd Command) string {
	id := cmd.CardID
	switch cmd.Action {
	case ActionPhraseApproved:
		return "Phrase approved for Card #" + itoa(id) + "."
	case ActionPhraseRejected:
		return "Phrase rejected for Card #" + itoa(id) + ". Send /regenerate_" + itoa(id) + " to retry."
	case ActionImageApproved:
		return "Image approved for Card #" + itoa(id) + "."
	case ActionImageRejected:
		return "Image rejected for Card #" + itoa(id) + ". Send /regenerate_" + itoa(id) + " to try again."
	case ActionFinalApproved:
		return "Final card approved and published for Card #" + itoa(id) + "."
	case ActionFinalRejected:
		return "Final card rejected for Card #" + itoa(id) + "."
	case ActionRegenerateRequested:
		return "Regeneration requested for Card #" + itoa(id) + "."
	}
	return ""
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
