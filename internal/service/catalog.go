package service

import (
	"context"
	"fmt"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

// CatalogService covers technicians, the technique and style catalogs and
// the links between them.
type CatalogService struct {
	technicians *repository.TechnicianRepo
	catalog     *repository.CatalogRepo
	links       *repository.LinkRepo
	schedule    *repository.ScheduleRepo
}

func NewCatalogService(t *repository.TechnicianRepo, c *repository.CatalogRepo,
	l *repository.LinkRepo, s *repository.ScheduleRepo) *CatalogService {
	return &CatalogService{technicians: t, catalog: c, links: l, schedule: s}
}

// SubmitTechnician proposes a new technician.
func (s *CatalogService) SubmitTechnician(ctx context.Context, name string, submitterID uint64) (uint64, error) {
	if submitterID == 0 {
		return 0, fmt.Errorf("%w: submitter required", repository.ErrValidation)
	}
	return s.technicians.Create(ctx, name, submitterID)
}

// SubmitCatalogItem proposes a technique or a style.
func (s *CatalogService) SubmitCatalogItem(ctx context.Context, c model.Catalog, name string, submitterID uint64) (uint64, error) {
	if submitterID == 0 {
		return 0, fmt.Errorf("%w: submitter required", repository.ErrValidation)
	}
	return s.catalog.Create(ctx, c, name, submitterID)
}

// Link proposes a technician's technique or style. Proposing a pair that
// is already pending or approved returns the existing id with
// inserted=false.
func (s *CatalogService) Link(ctx context.Context, c model.Catalog, technicianID, targetID, submitterID uint64) (bool, uint64, error) {
	if technicianID == 0 || targetID == 0 || submitterID == 0 {
		return false, 0, fmt.Errorf("%w: technician, target and submitter required", repository.ErrValidation)
	}
	return s.links.Insert(ctx, c, technicianID, targetID, submitterID)
}

func (s *CatalogService) ListCatalog(ctx context.Context, c model.Catalog) ([]model.CatalogItem, error) {
	return s.catalog.ListApproved(ctx, c)
}

func (s *CatalogService) ListTechnicians(ctx context.Context) ([]model.Technician, error) {
	return s.technicians.ListApproved(ctx)
}

// ListLinks lists a technician's techniques or styles. all includes
// pending and rejected links.
func (s *CatalogService) ListLinks(ctx context.Context, c model.Catalog, technicianID uint64, all bool) ([]model.Link, error) {
	if _, err := s.technicians.GetByID(ctx, technicianID); err != nil {
		return nil, err
	}
	return s.links.ListByTechnician(ctx, c, technicianID, !all)
}

// WithoutLocation lists approved technicians with no current approved
// location.
func (s *CatalogService) WithoutLocation(ctx context.Context) ([]model.Technician, error) {
	return s.technicians.ListWithoutLocation(ctx, database.Now())
}

// Detail is the public profile. Only approved technicians are visible.
func (s *CatalogService) Detail(ctx context.Context, id uint64) (*model.TechnicianDetail, error) {
	t, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != model.StatusApproved {
		return nil, repository.ErrNotFound
	}
	d := &model.TechnicianDetail{Technician: *t, Techniques: []model.CatalogItem{}, Styles: []model.CatalogItem{}}
	for _, c := range []model.Catalog{model.CatalogTechniques, model.CatalogStyles} {
		links, err := s.links.ListByTechnician(ctx, c, id, true)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			item := model.CatalogItem{ID: l.TargetID, Name: l.TargetName}
			if c == model.CatalogStyles {
				d.Styles = append(d.Styles, item)
			} else {
				d.Techniques = append(d.Techniques, item)
			}
		}
	}
	if d.Ratings, err = s.technicians.RatingSummary(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

// Map lists approved technicians at their current location.
func (s *CatalogService) Map(ctx context.Context, f model.MapFilter) ([]model.MapEntry, error) {
	return s.schedule.MapEntries(ctx, f, database.Now())
}
