package model

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Gel  Polish ": "gel polish",
		"FRENCH":         "french",
		"baby\tboomer":   "baby boomer",
		"":               "",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusActive(t *testing.T) {
	if !StatusPending.Active() || !StatusApproved.Active() || StatusRejected.Active() {
		t.Fatal("only pending and approved rows are active")
	}
}

func TestParseEntityKind(t *testing.T) {
	for _, k := range AllKinds {
		got, err := ParseEntityKind(string(k))
		if err != nil || got != k {
			t.Fatalf("ParseEntityKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseEntityKind("cinema"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("approve")
	if err != nil || a.Outcome() != StatusApproved {
		t.Fatalf("approve: %v %v", a, err)
	}
	a, err = ParseAction("reject")
	if err != nil || a.Outcome() != StatusRejected {
		t.Fatalf("reject: %v %v", a, err)
	}
	if _, err := ParseAction("delete"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestCatalogKinds(t *testing.T) {
	if CatalogTechniques.Kind() != KindTechnique || CatalogStyles.Kind() != KindStyle {
		t.Fatal("catalog kind mismatch")
	}
	if CatalogTechniques.LinkKind() != KindTechnicianTechnique || CatalogStyles.LinkKind() != KindTechnicianStyle {
		t.Fatal("link kind mismatch")
	}
}

func TestReviewMean(t *testing.T) {
	r := Review{RatingTechnician: 5, RatingTechnique: 4, RatingStyle: 3}
	if r.Mean() != 4 {
		t.Fatalf("Mean = %v", r.Mean())
	}
}
