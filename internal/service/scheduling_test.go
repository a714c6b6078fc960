package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

func TestProposeLocationValidation(t *testing.T) {
	e := newEnv(t)
	tech := e.technician(t, "Validation", true)
	base := LocationInput{TechnicianID: tech, DisplayName: "Centar", Lat: 45, Lon: 15, Interval: span(0, 2), SubmitterID: e.user}

	cases := []struct {
		name string
		mod  func(*LocationInput)
		want error
	}{
		{"lat too high", func(in *LocationInput) { in.Lat = 90.5 }, repository.ErrValidation},
		{"lon too low", func(in *LocationInput) { in.Lon = -180.1 }, repository.ErrValidation},
		{"blank name", func(in *LocationInput) { in.DisplayName = "  " }, repository.ErrValidation},
		{"empty interval", func(in *LocationInput) { in.Interval = span(3, 3) }, repository.ErrInvalidInterval},
		{"reversed interval", func(in *LocationInput) { in.Interval = span(4, 1) }, repository.ErrInvalidInterval},
		{"unknown technician", func(in *LocationInput) { in.TechnicianID = 4242 }, repository.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mod(&in)
			if _, err := e.sched.ProposeLocation(context.Background(), in); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestProposeLocationOverlapAndAbut(t *testing.T) {
	e := newEnv(t)
	tech := e.technician(t, "Overlap", true)
	if _, err := e.location(tech, span(10, 20)); err != nil {
		t.Fatalf("first: %v", err)
	}
	cases := []struct {
		name     string
		from, to int
		conflict bool
	}{
		{"inside", 12, 14, true},
		{"straddles start", 5, 11, true},
		{"covers", 0, 30, true},
		{"abuts end", 20, 25, false},
		{"abuts start", 5, 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.location(tech, span(tc.from, tc.to))
			if tc.conflict != errors.Is(err, repository.ErrConflict) {
				t.Fatalf("conflict=%v, got %v", tc.conflict, err)
			}
			if !tc.conflict && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAvailabilityIsSeparateNamespace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tech := e.technician(t, "Namespaces", true)
	if _, err := e.location(tech, span(0, 8)); err != nil {
		t.Fatalf("location: %v", err)
	}
	note := "morning shift"
	a, err := e.sched.ProposeAvailability(ctx, AvailabilityInput{TechnicianID: tech, Working: true, Interval: span(0, 8), Note: &note, SubmitterID: e.user})
	if err != nil {
		t.Fatalf("availability over a location interval: %v", err)
	}
	if _, err := e.sched.ProposeAvailability(ctx, AvailabilityInput{TechnicianID: tech, Interval: span(7, 9), SubmitterID: e.user}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	all, err := e.sched.ListAvailability(ctx, tech, false)
	if err != nil || len(all) != 1 || all[0].ID != a.ID || all[0].Note == nil || *all[0].Note != note {
		t.Fatalf("unexpected availability list %+v (err %v)", all, err)
	}
}

func TestProposeAgainstRejectedTechnician(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id, _ := e.catalog.SubmitTechnician(ctx, "Gone", e.user)
	if _, err := e.mod.Act(ctx, "technician", id, "reject", e.admin); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := e.location(id, span(0, 1)); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListLocationsNewestStartFirst(t *testing.T) {
	e := newEnv(t)
	tech := e.technician(t, "Order", true)
	for _, h := range []int{0, 20, 10} {
		if _, err := e.location(tech, span(h, h+5)); err != nil {
			t.Fatalf("propose at %d: %v", h, err)
		}
	}
	got, err := e.sched.ListLocations(context.Background(), tech, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 locations, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Interval.From.After(got[i].Interval.From) {
			t.Fatalf("not ordered by start descending: %v then %v", got[i-1].Interval.From, got[i].Interval.From)
		}
	}
}
