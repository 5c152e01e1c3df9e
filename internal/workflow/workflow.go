// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package workflow holds the card status machine. Statuses only change
// through Transition, which checks the fixed table of legal moves; pipeline
// stages and chat commands each map to one Event.
package workflow

import (
	"ecardfactory/internal/apperr"
)

// Status is a card's position in the production workflow.
type Status string

const (
	PendingPhraseApproval Status = "pending_phrase_approval"
	PhraseApproved        Status = "phrase_approved"
	PendingImage          Status = "pending_image"
	PendingImageApproval  Status = "pending_image_approval"
	ImageApproved         Status = "image_approved"
	PendingAssembly       Status = "pending_assembly"
	AssemblyApproved      Status = "assembly_approved"
	Published             Status = "published"
	Rejected              Status = "rejected"
)

// Initial is the status every new card starts in.
const Initial = PendingPhraseApproval

// Statuses lists every status in workflow order.
var Statuses = []Status{
	PendingPhraseApproval, PhraseApproved, PendingImage, PendingImageApproval,
	ImageApproved, PendingAssembly, AssemblyApproved, Published, Rejected,
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", apperr.New(apperr.Validation, "unsupported status %q", s)
}

// Terminal reports whether no ordinary event leaves the status.
// Regenerate still does.
func (s Status) Terminal() bool {
	return s == Published || s == Rejected
}

// Pending reports whether the card waits on an operator or pipeline stage.
func (s Status) Pending() bool {
	switch s {
	case PendingPhraseApproval, PendingImage, PendingImageApproval, PendingAssembly:
		return true
	}
	return false
}

// Event is something that happened to a card.
type Event string

const (
	PhrasesGenerated Event = "phrases_generated"
	ApprovePhrase    Event = "approve_phrase"
	RejectPhrase     Event = "reject_phrase"
	ImageRequested   Event = "image_requested"
	ImageGenerated   Event = "image_generated"
	ApproveImage     Event = "approve_image"
	RejectImage      Event = "reject_image"
	PreviewCreated   Event = "preview_created"
	AssemblyProduced Event = "assembly_produced"
	ApproveFinal     Event = "approve_final"
	RejectFinal      Event = "reject_final"
	Regenerate       Event = "regenerate"
)

type rule struct {
	from []Status
	to   Status
}

// table maps each event to the statuses it may fire from. A nil from list
// means any status.
var table = map[Event]rule{
	PhrasesGenerated: {from: []Status{PendingPhraseApproval}, to: PendingPhraseApproval},
	ApprovePhrase:    {from: []Status{PendingPhraseApproval}, to: PhraseApproved},
	RejectPhrase:     {from: []Status{PendingPhraseApproval}, to: Rejected},
	ImageRequested:   {from: []Status{PhraseApproved, PendingImage}, to: PendingImage},
	ImageGenerated:   {from: []Status{PhraseApproved, PendingImage, PendingImageApproval}, to: PendingImageApproval},
	ApproveImage:     {from: []Status{PendingImageApproval}, to: ImageApproved},
	RejectImage:      {from: []Status{PendingImageApproval}, to: Rejected},
	PreviewCreated:   {from: []Status{ImageApproved, PendingAssembly}, to: PendingAssembly},
	AssemblyProduced: {from: []Status{ImageApproved, PendingAssembly, AssemblyApproved}, to: AssemblyApproved},
	ApproveFinal:     {from: []Status{PendingAssembly, AssemblyApproved}, to: Published},
	RejectFinal:      {from: []Status{PendingAssembly, AssemblyApproved}, to: Rejected},
	Regenerate:       {from: nil, to: PendingImage},
}

// Transition returns the status a card moves to when ev fires in from.
// Unknown events are validation errors; events not allowed in from are
// conflicts.
func Transition(from Status, ev Event) (Status, error) {
	r, ok := table[ev]
	if !ok {
		return "", apperr.New(apperr.Validation, "unknown workflow event %q", ev)
	}
	if r.from == nil {
		return r.to, nil
	}
	for _, s := range r.from {
		if s == from {
			return r.to, nil
		}
	}
	return "", apperr.New(apperr.Conflict, "cannot %s while card is %s", ev, from)
}

// advanceOrder is the order events are tried by Advance, so that a
// requested target resolves to the forward move before the escape hatch.
var advanceOrder = []Event{
	PhrasesGenerated, ApprovePhrase, ImageRequested, ImageGenerated,
	ApproveImage, PreviewCreated, AssemblyProduced, ApproveFinal,
	RejectPhrase, RejectImage, RejectFinal, Regenerate,
}

// Advance finds the event that moves a card from one status to another.
// It backs the direct status update endpoint, which names a target status
// rather than an event.
func Advance(from, to Status) (Event, error) {
	for _, ev := range advanceOrder {
		if next, err := Transition(from, ev); err == nil && next == to {
			return ev, nil
		}
	}
	return "", apperr.New(apperr.Conflict, "no transition from %s to %s", from, to)
}
