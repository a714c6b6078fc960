package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/interval"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

// SchedulingService proposes locations and availability windows. Each
// proposal reserves its interval and inserts the row in one transaction.
type SchedulingService struct {
	db        *database.DB
	intervals *repository.IntervalStore
	schedule  *repository.ScheduleRepo
	tech      *repository.TechnicianRepo
}

func NewSchedulingService(db *database.DB, intervals *repository.IntervalStore,
	schedule *repository.ScheduleRepo, tech *repository.TechnicianRepo) *SchedulingService {
	return &SchedulingService{db: db, intervals: intervals, schedule: schedule, tech: tech}
}

// LocationInput is a proposed location.
type LocationInput struct {
	TechnicianID uint64
	DisplayName  string
	Lat, Lon     float64
	Interval     interval.Interval
	SubmitterID  uint64
}

func (in LocationInput) validate() error {
	if in.TechnicianID == 0 || in.SubmitterID == 0 {
		return fmt.Errorf("%w: technician and submitter required", repository.ErrValidation)
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return fmt.Errorf("%w: display_name required", repository.ErrValidation)
	}
	if in.Lat < -90 || in.Lat > 90 {
		return fmt.Errorf("%w: lat %v out of range", repository.ErrValidation, in.Lat)
	}
	if in.Lon < -180 || in.Lon > 180 {
		return fmt.Errorf("%w: lon %v out of range", repository.ErrValidation, in.Lon)
	}
	return in.Interval.Validate()
}

// ProposeLocation fails with ErrConflict when the interval overlaps a
// pending or approved location of the same technician.
func (s *SchedulingService) ProposeLocation(ctx context.Context, in LocationInput) (*model.Location, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	loc := &model.Location{
		TechnicianID: in.TechnicianID,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Lat:          in.Lat,
		Lon:          in.Lon,
		Interval:     in.Interval,
		Envelope:     model.Envelope{SubmittedBy: in.SubmitterID},
	}
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.intervals.Reserve(ctx, tx, repository.NamespaceLocations, in.TechnicianID, in.Interval); err != nil {
			return err
		}
		return s.schedule.CreateLocationTx(ctx, tx, loc)
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// AvailabilityInput is a proposed working or non-working window.
type AvailabilityInput struct {
	TechnicianID uint64
	Working      bool
	Interval     interval.Interval
	Note         *string
	SubmitterID  uint64
}

// ProposeAvailability is ProposeLocation for the availability namespace.
func (s *SchedulingService) ProposeAvailability(ctx context.Context, in AvailabilityInput) (*model.Availability, error) {
	if in.TechnicianID == 0 || in.SubmitterID == 0 {
		return nil, fmt.Errorf("%w: technician and submitter required", repository.ErrValidation)
	}
	if err := in.Interval.Validate(); err != nil {
		return nil, err
	}
	a := &model.Availability{
		TechnicianID: in.TechnicianID,
		Working:      in.Working,
		Interval:     in.Interval,
		Note:         in.Note,
		Envelope:     model.Envelope{SubmittedBy: in.SubmitterID},
	}
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.intervals.Reserve(ctx, tx, repository.NamespaceAvailabilities, in.TechnicianID, in.Interval); err != nil {
			return err
		}
		return s.schedule.CreateAvailabilityTx(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SchedulingService) ListLocations(ctx context.Context, technicianID uint64, onlyApproved bool) ([]model.Location, error) {
	if _, err := s.tech.GetByID(ctx, technicianID); err != nil {
		return nil, err
	}
	return s.schedule.ListLocations(ctx, technicianID, onlyApproved)
}

func (s *SchedulingService) ListAvailability(ctx context.Context, technicianID uint64, onlyApproved bool) ([]model.Availability, error) {
	if _, err := s.tech.GetByID(ctx, technicianID); err != nil {
		return nil, err
	}
	return s.schedule.ListAvailability(ctx, technicianID, onlyApproved)
}
