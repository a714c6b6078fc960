package model

import "encoding/json"

// ProfileEdit is a proposed change to a technician's profile. Patch is a
// JSON object with the fields to overwrite; it is applied when a
// moderator approves the edit.
type ProfileEdit struct {
	ID           uint64          `json:"id"`            // profile_edits.id
	TechnicianID uint64          `json:"technician_id"` // profile_edits.technician_id
	Patch        json.RawMessage `json:"patch"`         // profile_edits.patch
	Envelope
}

// ProfilePatch is the decoded form of ProfileEdit.Patch. Nil fields are
// left unchanged.
type ProfilePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Instagram   *string `json:"instagram,omitempty"`
}
