// Package recommend ranks technicians for a user from review history.
//
// A user's approved reviews give an affinity per (technique, style) pair:
// the mean of the ratings they gave for that pair. A candidate technician
// is scored by the mean of its rating_technician values weighted by the
// user's affinity for each review's pair. The weighting rule lives behind
// Scorer so it can be swapped.
package recommend

import (
	"sort"

	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// Pair identifies a technique/style combination.
type Pair struct {
	TechniqueID uint64
	StyleID     uint64
}

// Affinity maps pairs to preference weights. A nil Affinity means the
// user has no history and every pair weighs the same.
type Affinity map[Pair]float64

// Weight returns the weight of p: 1 for a cold-start user, 0 for pairs
// the user never reviewed.
func (a Affinity) Weight(p Pair) float64 {
	if a == nil {
		return 1
	}
	return a[p]
}

// BuildAffinity averages the user's approved reviews per pair. It
// returns nil when there are none.
func BuildAffinity(history []model.Review) Affinity {
	sums := map[Pair]float64{}
	counts := map[Pair]int{}
	for _, r := range history {
		if r.Status != model.StatusApproved {
			continue
		}
		p := Pair{r.TechniqueID, r.StyleID}
		sums[p] += r.Mean()
		counts[p]++
	}
	if len(counts) == 0 {
		return nil
	}
	a := make(Affinity, len(counts))
	for p, n := range counts {
		a[p] = sums[p] / float64(n)
	}
	return a
}

// Scorer turns a candidate's reviews into a score.
type Scorer interface {
	Score(a Affinity, reviews []model.Review) float64
}

// AffinityScorer is the default Scorer. When none of the reviews has a
// weighted pair it falls back to the plain mean.
type AffinityScorer struct{}

func (AffinityScorer) Score(a Affinity, reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum, weights, plain float64
	for _, r := range reviews {
		w := a.Weight(Pair{r.TechniqueID, r.StyleID})
		sum += w * float64(r.RatingTechnician)
		weights += w
		plain += float64(r.RatingTechnician)
	}
	if weights == 0 {
		return plain / float64(len(reviews))
	}
	return sum / weights
}

// Result is one ranked technician.
type Result struct {
	TechnicianID uint64  `json:"technician_id"`
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	ReviewCount  int     `json:"review_count"`
}

// Input is everything Rank needs. The three slices are loaded by
// separate queries, so they may disagree at the edges: a review can name
// a technician missing from Candidates, or Candidates can include one
// whose reviews were not yet read. Rank tolerates both.
type Input struct {
	// History is every review the user wrote, in any status.
	History []model.Review
	// Candidates are the approved technicians.
	Candidates []model.Technician
	// Reviews are the approved reviews of approved technicians.
	Reviews []model.Review
}

// Rank scores every candidate the user has not reviewed and sorts by
// score, then review count, both descending, then id ascending.
func Rank(s Scorer, in Input) []Result {
	reviewed := make(map[uint64]bool, len(in.History))
	for _, r := range in.History {
		reviewed[r.TechnicianID] = true
	}
	byTech := make(map[uint64][]model.Review)
	for _, r := range in.Reviews {
		byTech[r.TechnicianID] = append(byTech[r.TechnicianID], r)
	}
	aff := BuildAffinity(in.History)

	out := make([]Result, 0, len(in.Candidates))
	for _, t := range in.Candidates {
		if reviewed[t.ID] || t.Status != model.StatusApproved {
			continue
		}
		rs := byTech[t.ID]
		out = append(out, Result{
			TechnicianID: t.ID,
			Name:         t.Name,
			Score:        s.Score(aff, rs),
			ReviewCount:  len(rs),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].ReviewCount != out[j].ReviewCount {
			return out[i].ReviewCount > out[j].ReviewCount
		}
		return out[i].TechnicianID < out[j].TechnicianID
	})
	return out
}
