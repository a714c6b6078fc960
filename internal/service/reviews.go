package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

// ReviewService handles reviews and helpfulness votes.
type ReviewService struct {
	reviews *repository.ReviewRepo
	// Moderated sends new reviews to the moderation queue instead of
	// publishing them right away.
	Moderated bool
}

func NewReviewService(r *repository.ReviewRepo, moderated bool) *ReviewService {
	return &ReviewService{reviews: r, Moderated: moderated}
}

// ReviewInput is a submitted review.
type ReviewInput struct {
	TechnicianID     uint64
	AuthorID         uint64
	TechniqueID      uint64
	StyleID          uint64
	RatingTechnician int
	RatingTechnique  int
	RatingStyle      int
	Text             *string
}

func (in ReviewInput) validate() error {
	if in.TechnicianID == 0 || in.AuthorID == 0 || in.TechniqueID == 0 || in.StyleID == 0 {
		return fmt.Errorf("%w: technician, author, technique and style required", repository.ErrValidation)
	}
	for _, r := range []struct {
		name string
		v    int
	}{{"rating_technician", in.RatingTechnician}, {"rating_technique", in.RatingTechnique}, {"rating_style", in.RatingStyle}} {
		if r.v < 1 || r.v > 5 {
			return fmt.Errorf("%w: %s must be between 1 and 5", repository.ErrValidation, r.name)
		}
	}
	return nil
}

// SubmitReview stores a review. Its technician, technique and style must
// be approved.
func (s *ReviewService) SubmitReview(ctx context.Context, in ReviewInput) (*model.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Text != nil {
		t := strings.TrimSpace(*in.Text)
		if t == "" {
			in.Text = nil
		} else {
			in.Text = &t
		}
	}
	status := model.StatusApproved
	if s.Moderated {
		status = model.StatusPending
	}
	rv := &model.Review{
		TechnicianID:     in.TechnicianID,
		AuthorID:         in.AuthorID,
		TechniqueID:      in.TechniqueID,
		StyleID:          in.StyleID,
		RatingTechnician: in.RatingTechnician,
		RatingTechnique:  in.RatingTechnique,
		RatingStyle:      in.RatingStyle,
		Text:             in.Text,
		Envelope:         model.Envelope{Status: status},
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// Vote records or replaces voterID's verdict and returns the new totals.
func (s *ReviewService) Vote(ctx context.Context, reviewID, voterID uint64, helpful bool) (model.Helpfulness, error) {
	if reviewID == 0 || voterID == 0 {
		return model.Helpfulness{}, fmt.Errorf("%w: review and voter required", repository.ErrValidation)
	}
	if err := s.reviews.Vote(ctx, reviewID, voterID, helpful); err != nil {
		return model.Helpfulness{}, err
	}
	return s.reviews.Helpfulness(ctx, reviewID)
}

func (s *ReviewService) Helpfulness(ctx context.Context, reviewID uint64) (model.Helpfulness, error) {
	return s.reviews.Helpfulness(ctx, reviewID)
}

// ListReviews returns a technician's approved reviews, newest first.
// viewerID 0 means anonymous.
func (s *ReviewService) ListReviews(ctx context.Context, technicianID, viewerID uint64) ([]model.ReviewView, error) {
	return s.reviews.ListByTechnician(ctx, technicianID, viewerID)
}
