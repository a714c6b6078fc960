package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mgrozdek22/TBP-nail-app/internal/recommend"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

// RecommendService ranks technicians for a user.
type RecommendService struct {
	technicians *repository.TechnicianRepo
	reviews     *repository.ReviewRepo
	scorer      recommend.Scorer
}

// NewRecommendService uses recommend.AffinityScorer when s is nil.
func NewRecommendService(t *repository.TechnicianRepo, r *repository.ReviewRepo, s recommend.Scorer) *RecommendService {
	if s == nil {
		s = recommend.AffinityScorer{}
	}
	return &RecommendService{technicians: t, reviews: r, scorer: s}
}

// Recommend returns every approved technician userID has not reviewed,
// best first.
func (s *RecommendService) Recommend(ctx context.Context, userID uint64) ([]recommend.Result, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user required", repository.ErrValidation)
	}
	// The loads are independent reads on separate connections, not one
	// snapshot; recommend.Rank copes with the skew.
	var in recommend.Input
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.History, err = s.reviews.ListByAuthor(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		in.Candidates, err = s.technicians.ListApproved(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Reviews, err = s.reviews.ListApprovedOfApprovedTechnicians(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recommend.Rank(s.scorer, in), nil
}
