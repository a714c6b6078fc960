// Package service holds the business operations behind the HTTP handlers:
// submissions, scheduling, moderation, reviews and recommendations.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

// Moderatable is one variant of the moderated-entity union. OnDecide runs
// inside the decision transaction after the row is locked and found
// pending, before its status changes. Returning an error aborts the
// whole decision.
type Moderatable interface {
	Kind() model.EntityKind
	OnDecide(ctx context.Context, tx *sql.Tx, id uint64, action model.Action) error
}

// plainVariant has no side effects beyond the status change. Intervals of
// locations and availabilities need nothing either: a rejected row simply
// stops counting as active.
type plainVariant struct{ kind model.EntityKind }

func (v plainVariant) Kind() model.EntityKind { return v.kind }
func (plainVariant) OnDecide(context.Context, *sql.Tx, uint64, model.Action) error {
	return nil
}

// profileEditVariant applies the patch to the technician on approval.
type profileEditVariant struct {
	edits       *repository.ProfileEditRepo
	technicians *repository.TechnicianRepo
}

func (profileEditVariant) Kind() model.EntityKind { return model.KindProfileEdit }

func (v profileEditVariant) OnDecide(ctx context.Context, tx *sql.Tx, id uint64, action model.Action) error {
	if action != model.ActionApprove {
		return nil
	}
	edit, err := v.edits.GetTx(ctx, tx, id)
	if err != nil {
		return err
	}
	var p model.ProfilePatch
	dec := json.NewDecoder(strings.NewReader(string(edit.Patch)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return fmt.Errorf("%w: decode patch: %v", repository.ErrPatchApplication, err)
	}
	return v.technicians.ApplyPatchTx(ctx, tx, edit.TechnicianID, p)
}

// ModerationService runs the pending queue.
type ModerationService struct {
	db       *database.DB
	repo     *repository.ModerationRepo
	variants map[model.EntityKind]Moderatable
	pub      EventPublisher
	log      *logger.Logger
	now      func() time.Time
}

func NewModerationService(repo *repository.ModerationRepo, edits *repository.ProfileEditRepo,
	technicians *repository.TechnicianRepo, pub EventPublisher, log *logger.Logger) *ModerationService {
	s := &ModerationService{
		db:       repo.DB(),
		repo:     repo,
		variants: map[model.EntityKind]Moderatable{},
		pub:      pub,
		log:      log,
		now:      database.Now,
	}
	for _, k := range model.AllKinds {
		s.Register(plainVariant{kind: k})
	}
	s.Register(profileEditVariant{edits: edits, technicians: technicians})
	return s
}

// Register installs or replaces the variant for its kind.
func (s *ModerationService) Register(v Moderatable) {
	s.variants[v.Kind()] = v
}

// ListPending returns the queue, newest submission first.
func (s *ModerationService) ListPending(ctx context.Context) ([]model.PendingItem, error) {
	return s.repo.ListPending(ctx)
}

// Act approves or rejects one pending row. The lock, the variant hook
// and the status change share a transaction, so a failing hook leaves
// the row pending. The decision event is published after commit and its
// failure does not undo the decision.
func (s *ModerationService) Act(ctx context.Context, kind model.EntityKind, id uint64, action model.Action, moderatorID uint64) (model.Decision, error) {
	v, ok := s.variants[kind]
	if !ok {
		return model.Decision{}, fmt.Errorf("%w: unknown entity kind %q", repository.ErrValidation, kind)
	}
	if action != model.ActionApprove && action != model.ActionReject {
		return model.Decision{}, fmt.Errorf("%w: unknown action %q", repository.ErrValidation, action)
	}
	if id == 0 || moderatorID == 0 {
		return model.Decision{}, fmt.Errorf("%w: id and moderator required", repository.ErrValidation)
	}

	d := model.Decision{Kind: kind, ID: id, Status: action.Outcome(), ModeratorID: moderatorID}
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		status, err := s.repo.LockStatusTx(ctx, tx, kind, id)
		if err != nil {
			return err
		}
		if status != model.StatusPending {
			return fmt.Errorf("%w: %s %d is %s", repository.ErrAlreadyDecided, kind, id, status)
		}
		if err := v.OnDecide(ctx, tx, id, action); err != nil {
			return err
		}
		d.DecidedAt = s.now()
		return s.repo.DecideTx(ctx, tx, kind, id, d.Status, moderatorID, d.DecidedAt)
	})
	if err != nil {
		return model.Decision{}, err
	}

	s.log.Info("moderation decided", "kind", kind, "id", id, "status", d.Status, "moderator_id", moderatorID)
	if err := s.pub.PublishDecision(ctx, d); err != nil {
		s.log.Warn("publish moderation decision failed", "kind", kind, "id", id, "error", err)
	}
	return d, nil
}
