package recommend

import (
	"reflect"
	"testing"

	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

func review(tech, author, technique, style uint64, rt, rq, rs int) model.Review {
	r := model.Review{TechnicianID: tech, AuthorID: author, TechniqueID: technique, StyleID: style,
		RatingTechnician: rt, RatingTechnique: rq, RatingStyle: rs}
	r.Status = model.StatusApproved
	return r
}

func tech(id uint64) model.Technician {
	t := model.Technician{ID: id}
	t.Status = model.StatusApproved
	return t
}

func TestBuildAffinity(t *testing.T) {
	pending := review(1, 9, 2, 3, 1, 1, 1)
	pending.Status = model.StatusPending
	a := BuildAffinity([]model.Review{
		review(1, 9, 2, 3, 5, 5, 5),
		review(2, 9, 2, 3, 3, 3, 3),
		review(3, 9, 4, 4, 2, 2, 5),
		pending,
	})
	if got := a[Pair{2, 3}]; got != 4 {
		t.Fatalf("affinity(2,3) = %v, want 4", got)
	}
	if got := a[Pair{4, 4}]; got != 3 {
		t.Fatalf("affinity(4,4) = %v, want 3", got)
	}
	if BuildAffinity(nil) != nil {
		t.Fatal("empty history should give nil affinity")
	}
}

func TestAffinityScorer(t *testing.T) {
	s := AffinityScorer{}
	reviews := []model.Review{
		review(5, 1, 2, 3, 5, 5, 5),
		review(5, 2, 7, 7, 1, 1, 1),
	}
	cases := []struct {
		name string
		aff  Affinity
		want float64
	}{
		{"cold start is plain mean", nil, 3},
		{"only matching pair counts", Affinity{{2, 3}: 4}, 5},
		{"weighted", Affinity{{2, 3}: 3, {7, 7}: 1}, 4},
		{"no matching pair falls back", Affinity{{9, 9}: 5}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Score(tc.aff, reviews); got != tc.want {
				t.Fatalf("Score = %v, want %v", got, tc.want)
			}
		})
	}
	if got := s.Score(Affinity{{2, 3}: 1}, nil); got != 0 {
		t.Fatalf("no reviews should score 0, got %v", got)
	}
}

func TestRankExcludesAndOrders(t *testing.T) {
	const user = 9
	rejected := tech(6)
	rejected.Status = model.StatusRejected
	in := Input{
		History: []model.Review{review(1, user, 2, 3, 4, 4, 4)},
		Candidates: []model.Technician{
			tech(1), tech(2), tech(3), tech(4), tech(5), rejected,
		},
		Reviews: []model.Review{
			review(1, user, 2, 3, 4, 4, 4),
			review(2, 20, 2, 3, 4, 4, 4),
			review(3, 20, 2, 3, 4, 4, 4),
			review(3, 21, 2, 3, 4, 4, 4),
			review(4, 20, 2, 3, 5, 5, 5),
			review(6, 20, 2, 3, 5, 5, 5),
		},
	}
	got := Rank(AffinityScorer{}, in)
	var ids []uint64
	for _, r := range got {
		ids = append(ids, r.TechnicianID)
	}
	// 4 scores 5; 3 and 2 tie at 4 and 3 has more reviews; 5 has none.
	want := []uint64{4, 3, 2, 5}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ranking = %v, want %v", ids, want)
	}
	if got[3].Score != 0 || got[3].ReviewCount != 0 {
		t.Fatalf("unreviewed technician should score 0: %+v", got[3])
	}
}

func TestRankIsDeterministic(t *testing.T) {
	in := Input{
		Candidates: []model.Technician{tech(3), tech(1), tech(2)},
		Reviews: []model.Review{
			review(1, 20, 2, 3, 4, 4, 4),
			review(2, 20, 2, 3, 4, 4, 4),
			review(3, 20, 2, 3, 4, 4, 4),
		},
	}
	first := Rank(AffinityScorer{}, in)
	second := Rank(AffinityScorer{}, in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rankings differ: %v vs %v", first, second)
	}
	if first[0].TechnicianID != 1 || first[2].TechnicianID != 3 {
		t.Fatalf("ties should order by id ascending: %v", first)
	}
}

func TestRankToleratesSkewedInput(t *testing.T) {
	in := Input{
		// 7 is reviewed by the user but no longer a candidate; 8 has a review
		// but was not read as a candidate; 2 has no reviews loaded yet.
		History:    []model.Review{review(7, 9, 2, 3, 5, 5, 5)},
		Candidates: []model.Technician{tech(1), tech(2)},
		Reviews: []model.Review{
			review(1, 20, 2, 3, 4, 4, 4),
			review(8, 20, 2, 3, 5, 5, 5),
		},
	}
	got := Rank(AffinityScorer{}, in)
	if len(got) != 2 || got[0].TechnicianID != 1 || got[1].TechnicianID != 2 {
		t.Fatalf("unexpected ranking %+v", got)
	}
	if got[1].ReviewCount != 0 || got[1].Score != 0 {
		t.Fatalf("technician without loaded reviews should score 0: %+v", got[1])
	}
}
