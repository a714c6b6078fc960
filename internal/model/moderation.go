package model

import (
	"fmt"
	"time"
)

// Status is the moderation state of a submitted row. pending is the only
// state that may change; approved and rejected are final.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Active reports whether rows in this state still count for uniqueness
// and interval overlap checks.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// EntityKind tags every moderatable table.
type EntityKind string

const (
	KindTechnician          EntityKind = "technician"
	KindTechnique           EntityKind = "technique"
	KindStyle               EntityKind = "style"
	KindTechnicianTechnique EntityKind = "technician_technique"
	KindTechnicianStyle     EntityKind = "technician_style"
	KindLocation            EntityKind = "location"
	KindAvailability        EntityKind = "availability"
	KindProfileEdit         EntityKind = "profile_edit"
	KindReview              EntityKind = "review"
)

// AllKinds lists every kind in a stable order.
var AllKinds = []EntityKind{
	KindTechnician, KindTechnique, KindStyle,
	KindTechnicianTechnique, KindTechnicianStyle,
	KindLocation, KindAvailability, KindProfileEdit, KindReview,
}

// ParseEntityKind validates a kind coming from a URL or message.
func ParseEntityKind(s string) (EntityKind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// Action is what a moderator does to a pending row.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ParseAction validates a moderator action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionReject:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown moderation action %q", s)
}

// Outcome is the status a row ends in after the action.
func (a Action) Outcome() Status {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// Envelope is the moderation metadata carried by every moderatable row.
//
// Fields:
//  Status      – pending, approved or rejected.
//  SubmittedBy – user who proposed the row.
//  SubmittedAt – when it was proposed.
//  ModeratedBy – moderator who decided it (nil while pending).
//  ModeratedAt – when it was decided (nil while pending).
type Envelope struct {
	Status      Status     `json:"status"`                 // *.status
	SubmittedBy uint64     `json:"submitted_by"`           // *.submitted_by
	SubmittedAt time.Time  `json:"submitted_at"`           // *.submitted_at
	ModeratedBy *uint64    `json:"moderated_by,omitempty"` // *.moderated_by (nullable)
	ModeratedAt *time.Time `json:"moderated_at,omitempty"` // *.moderated_at (nullable)
}

// PendingItem is one row of the moderation queue.
type PendingItem struct {
	Kind         EntityKind `json:"kind"`
	ID           uint64     `json:"id"`
	TechnicianID *uint64    `json:"technician_id,omitempty"`
	Summary      string     `json:"summary"`
	SubmittedBy  uint64     `json:"submitted_by"`
	Submitter    string     `json:"submitter"`
	SubmittedAt  time.Time  `json:"submitted_at"`
}

// Decision describes a completed moderation action.
type Decision struct {
	Kind        EntityKind `json:"kind"`
	ID          uint64     `json:"id"`
	Status      Status     `json:"status"`
	ModeratorID uint64     `json:"moderator_id"`
	DecidedAt   time.Time  `json:"decided_at"`
}
