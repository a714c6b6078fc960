package model

import "time"

// Review rates a technician for one technique/style combination. An
// author has at most one review per (technician, technique, style).
//
// Fields:
//  RatingTechnician, RatingTechnique, RatingStyle – integers in 1..5.
//  Text – optional comment.
type Review struct {
	ID               uint64    `json:"id"`                     // reviews.id
	TechnicianID     uint64    `json:"technician_id"`          // reviews.technician_id
	AuthorID         uint64    `json:"author_id"`              // reviews.author_id
	TechniqueID      uint64    `json:"technique_id"`           // reviews.technique_id
	StyleID          uint64    `json:"style_id"`               // reviews.style_id
	RatingTechnician int       `json:"rating_technician"`      // reviews.rating_technician
	RatingTechnique  int       `json:"rating_technique"`       // reviews.rating_technique
	RatingStyle      int       `json:"rating_style"`           // reviews.rating_style
	Text             *string   `json:"text,omitempty"`         // reviews.body
	CreatedAt        time.Time `json:"created_at"`             // reviews.created_at
	Envelope
}

// Mean is the average of the three ratings.
func (r Review) Mean() float64 {
	return float64(r.RatingTechnician+r.RatingTechnique+r.RatingStyle) / 3
}

// ReviewView is a review as listed under a technician, with vote
// aggregates computed at read time and the viewer's own vote if any.
type ReviewView struct {
	Review
	AuthorHandle  string `json:"author_handle"`
	TechniqueName string `json:"technique_name"`
	StyleName     string `json:"style_name"`
	HelpfulCount  int    `json:"helpful_count"`
	TotalVotes    int    `json:"total_votes"`
	ViewerVote    *bool  `json:"viewer_vote,omitempty"`
}

// Vote is one user's helpfulness verdict on a review.
type Vote struct {
	ReviewID uint64    `json:"review_id"` // votes.review_id
	VoterID  uint64    `json:"voter_id"`  // votes.voter_id
	Helpful  bool      `json:"helpful"`   // votes.helpful
	VotedAt  time.Time `json:"voted_at"`  // votes.voted_at
}

// Helpfulness aggregates votes on one review.
type Helpfulness struct {
	HelpfulCount int `json:"helpful_count"`
	TotalVotes   int `json:"total_votes"`
}
