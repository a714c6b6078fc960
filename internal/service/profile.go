package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

// profilePatchSchema lists the fields a profile edit may touch.
const profilePatchSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": false,
  "properties": {
    "name":        {"type": "string", "minLength": 1, "maxLength": 200},
    "description": {"type": "string", "maxLength": 4000},
    "phone":       {"type": "string", "maxLength": 50},
    "instagram":   {"type": "string", "maxLength": 100}
  }
}`

// ProfileService accepts profile edit proposals.
type ProfileService struct {
	edits  *repository.ProfileEditRepo
	schema *jsonschema.Schema
}

func NewProfileService(edits *repository.ProfileEditRepo) (*ProfileService, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(profilePatchSchema), rs); err != nil {
		return nil, fmt.Errorf("profile patch schema: %w", err)
	}
	return &ProfileService{edits: edits, schema: rs}, nil
}

// ValidatePatch checks patch against the schema and returns it compacted.
func (s *ProfileService) ValidatePatch(ctx context.Context, patch []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, patch); err != nil {
		return nil, fmt.Errorf("%w: patch is not valid JSON", repository.ErrValidation)
	}
	verrs, err := s.schema.ValidateBytes(ctx, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrValidation, err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			msgs = append(msgs, strings.TrimSpace(v.PropertyPath+" "+v.Message))
		}
		return nil, fmt.Errorf("%w: %s", repository.ErrValidation, strings.Join(msgs, "; "))
	}
	return json.RawMessage(buf.Bytes()), nil
}

// ProposeEdit stores a pending edit of technicianID's profile.
func (s *ProfileService) ProposeEdit(ctx context.Context, technicianID, proposerID uint64, patch []byte) (uint64, error) {
	if technicianID == 0 || proposerID == 0 {
		return 0, fmt.Errorf("%w: technician and proposer required", repository.ErrValidation)
	}
	p, err := s.ValidatePatch(ctx, patch)
	if err != nil {
		return 0, err
	}
	return s.edits.Create(ctx, technicianID, proposerID, p)
}
