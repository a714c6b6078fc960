package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/database/dbtest"
	"github.com/mgrozdek22/TBP-nail-app/internal/interval"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 1, day, hour, 0, 0, 0, time.UTC)
}

type fixture struct {
	db     *database.DB
	techs  *TechnicianRepo
	cat    *CatalogRepo
	links  *LinkRepo
	store  *IntervalStore
	sched  *ScheduleRepo
	edits  *ProfileEditRepo
	rev    *ReviewRepo
	mod    *ModerationRepo
	users  *UserRepo
	author uint64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	d := dbtest.Open(t)
	techs := NewTechnicianRepo(d)
	return &fixture{
		db:     d,
		techs:  techs,
		cat:    NewCatalogRepo(d),
		links:  NewLinkRepo(d),
		store:  NewIntervalStore(d, techs),
		sched:  NewScheduleRepo(d),
		edits:  NewProfileEditRepo(d),
		rev:    NewReviewRepo(d),
		mod:    NewModerationRepo(d),
		users:  NewUserRepo(d),
		author: dbtest.User(t, d, "ana", model.RoleUser),
	}
}

func (f *fixture) technician(t *testing.T, name string) uint64 {
	t.Helper()
	id, err := f.techs.Create(context.Background(), name, f.author)
	if err != nil {
		t.Fatalf("create technician: %v", err)
	}
	return id
}

func (f *fixture) reserveLocation(t *testing.T, techID uint64, iv interval.Interval) (uint64, error) {
	t.Helper()
	var id uint64
	err := f.db.InTx(context.Background(), func(tx *sql.Tx) error {
		if err := f.store.Reserve(context.Background(), tx, NamespaceLocations, techID, iv); err != nil {
			return err
		}
		l := &model.Location{TechnicianID: techID, DisplayName: "Studio", Lat: 45.8, Lon: 15.97, Interval: iv}
		l.SubmittedBy = f.author
		if err := f.sched.CreateLocationTx(context.Background(), tx, l); err != nil {
			return err
		}
		id = l.ID
		return nil
	})
	return id, err
}

func TestTechnicianActiveNameUniqueness(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.technician(t, "Nail Studio Ana")

	if _, err := f.techs.Create(ctx, "  nail   studio ANA ", f.author); !errors.Is(err, ErrDuplicateActiveName) {
		t.Fatalf("expected ErrDuplicateActiveName, got %v", err)
	}
	if _, err := f.techs.Create(ctx, "   ", f.author); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	dbtest.SetStatus(t, f.db, "technicians", id, "rejected")
	if _, err := f.techs.Create(ctx, "Nail Studio Ana", f.author); err != nil {
		t.Fatalf("rejected name should be reusable: %v", err)
	}
}

func TestCatalogNamespacesAreIndependent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.cat.Create(ctx, model.CatalogTechniques, "Gel", f.author); err != nil {
		t.Fatalf("create technique: %v", err)
	}
	if _, err := f.cat.Create(ctx, model.CatalogStyles, "gel", f.author); err != nil {
		t.Fatalf("style with same name should be allowed: %v", err)
	}
	if _, err := f.cat.Create(ctx, model.CatalogTechniques, "GEL", f.author); !errors.Is(err, ErrDuplicateActiveName) {
		t.Fatalf("expected ErrDuplicateActiveName, got %v", err)
	}
	if _, err := f.cat.Create(ctx, model.Catalog("colors"), "x", f.author); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown catalog, got %v", err)
	}
}

func TestLinkInsertIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	techID := f.technician(t, "Mia")
	gel, _ := f.cat.Create(ctx, model.CatalogTechniques, "Gel", f.author)

	inserted, id1, err := f.links.Insert(ctx, model.CatalogTechniques, techID, gel, f.author)
	if err != nil || !inserted || id1 == 0 {
		t.Fatalf("first insert: inserted=%v id=%d err=%v", inserted, id1, err)
	}
	inserted, id2, err := f.links.Insert(ctx, model.CatalogTechniques, techID, gel, f.author)
	if err != nil || inserted || id2 != id1 {
		t.Fatalf("second insert: inserted=%v id=%d err=%v", inserted, id2, err)
	}

	dbtest.SetStatus(t, f.db, "technician_techniques", id1, "rejected")
	inserted, _, err = f.links.Insert(ctx, model.CatalogTechniques, techID, gel, f.author)
	if err != nil || !inserted {
		t.Fatalf("insert after rejection: inserted=%v err=%v", inserted, err)
	}

	if _, _, err := f.links.Insert(ctx, model.CatalogStyles, techID, 999, f.author); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing style, got %v", err)
	}
	links, err := f.links.ListByTechnician(ctx, model.CatalogTechniques, techID, false)
	if err != nil || len(links) != 2 || links[0].TargetName != "Gel" {
		t.Fatalf("list links: %+v err=%v", links, err)
	}
}

func TestReserveOverlapAndAbutting(t *testing.T) {
	f := setup(t)
	techID := f.technician(t, "Mia")

	if _, err := f.reserveLocation(t, techID, interval.Interval{From: at(10, 10), To: at(10, 12)}); err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	if _, err := f.reserveLocation(t, techID, interval.Interval{From: at(10, 11), To: at(10, 13)}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := f.reserveLocation(t, techID, interval.Interval{From: at(10, 12), To: at(10, 13)}); err != nil {
		t.Fatalf("abutting reservation should succeed: %v", err)
	}
	if _, err := f.reserveLocation(t, techID, interval.Interval{From: at(10, 13), To: at(10, 13)}); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if _, err := f.reserveLocation(t, 999, interval.Interval{From: at(11, 10), To: at(11, 12)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing technician, got %v", err)
	}
}

func TestRejectedIntervalStopsBlocking(t *testing.T) {
	f := setup(t)
	techID := f.technician(t, "Mia")
	iv := interval.Interval{From: at(10, 10), To: at(10, 12)}

	id, err := f.reserveLocation(t, techID, iv)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	dbtest.SetStatus(t, f.db, "locations", id, "approved")
	if _, err := f.reserveLocation(t, techID, iv); !errors.Is(err, ErrConflict) {
		t.Fatalf("approved interval must still block, got %v", err)
	}
	dbtest.SetStatus(t, f.db, "locations", id, "rejected")
	if _, err := f.reserveLocation(t, techID, iv); err != nil {
		t.Fatalf("rejected interval must not block: %v", err)
	}
}

func TestNamespacesDoNotInterfere(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	techID := f.technician(t, "Mia")
	iv := interval.Interval{From: at(10, 10), To: at(10, 12)}
	if _, err := f.reserveLocation(t, techID, iv); err != nil {
		t.Fatalf("reserve location: %v", err)
	}
	err := f.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := f.store.Reserve(ctx, tx, NamespaceAvailabilities, techID, iv); err != nil {
			return err
		}
		a := &model.Availability{TechnicianID: techID, Working: true, Interval: iv}
		a.SubmittedBy = f.author
		return f.sched.CreateAvailabilityTx(ctx, tx, a)
	})
	if err != nil {
		t.Fatalf("availability should not conflict with a location: %v", err)
	}
	avail, err := f.sched.ListAvailability(ctx, techID, false)
	if err != nil || len(avail) != 1 || !avail[0].Working || !avail[0].Interval.From.Equal(iv.From) {
		t.Fatalf("list availability: %+v err=%v", avail, err)
	}
}

func TestListLocationsNewestStartFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	techID := f.technician(t, "Mia")
	first, _ := f.reserveLocation(t, techID, interval.Interval{From: at(10, 8), To: at(10, 9)})
	second, _ := f.reserveLocation(t, techID, interval.Interval{From: at(12, 8), To: at(12, 9)})
	dbtest.SetStatus(t, f.db, "locations", first, "approved")

	all, err := f.sched.ListLocations(ctx, techID, false)
	if err != nil || len(all) != 2 || all[0].ID != second {
		t.Fatalf("all locations: %+v err=%v", all, err)
	}
	approved, err := f.sched.ListLocations(ctx, techID, true)
	if err != nil || len(approved) != 1 || approved[0].ID != first {
		t.Fatalf("approved locations: %+v err=%v", approved, err)
	}
}

func TestReviewUniquenessAndVotes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	techID := f.technician(t, "Mia")
	gel, _ := f.cat.Create(ctx, model.CatalogTechniques, "Gel", f.author)
	french, _ := f.cat.Create(ctx, model.CatalogStyles, "French", f.author)
	ombre, _ := f.cat.Create(ctx, model.CatalogStyles, "Ombre", f.author)
	dbtest.SetStatus(t, f.db, "technicians", techID, "approved")
	dbtest.SetStatus(t, f.db, "techniques", gel, "approved")
	dbtest.SetStatus(t, f.db, "styles", french, "approved")

	newReview := func(style uint64) *model.Review {
		rv := &model.Review{TechnicianID: techID, AuthorID: f.author, TechniqueID: gel, StyleID: style,
			RatingTechnician: 5, RatingTechnique: 4, RatingStyle: 3}
		rv.Status = model.StatusApproved
		return rv
	}
	rv := newReview(french)
	if err := f.rev.Create(ctx, rv); err != nil {
		t.Fatalf("create review: %v", err)
	}
	if err := f.rev.Create(ctx, newReview(french)); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
	if err := f.rev.Create(ctx, newReview(ombre)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unapproved style, got %v", err)
	}

	voter := dbtest.User(t, f.db, "ivo", model.RoleUser)
	if err := f.rev.Vote(ctx, rv.ID, voter, true); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := f.rev.Vote(ctx, rv.ID, voter, false); err != nil {
		t.Fatalf("revote: %v", err)
	}
	h, err := f.rev.Helpfulness(ctx, rv.ID)
	if err != nil || h.TotalVotes != 1 || h.HelpfulCount != 0 {
		t.Fatalf("helpfulness = %+v err=%v", h, err)
	}
	if err := f.rev.Vote(ctx, 999, voter, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	views, err := f.rev.ListByTechnician(ctx, techID, voter)
	if err != nil || len(views) != 1 {
		t.Fatalf("list reviews: %+v err=%v", views, err)
	}
	v := views[0]
	if v.AuthorHandle != "ana" || v.TechniqueName != "Gel" || v.StyleName != "French" || v.TotalVotes != 1 || v.ViewerVote == nil || *v.ViewerVote {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestModerationDecideOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	techID := f.technician(t, "Mia")
	mod := dbtest.User(t, f.db, "moderator", model.RoleModerator)

	decide := func() error {
		return f.db.InTx(ctx, func(tx *sql.Tx) error {
			st, err := f.mod.LockStatusTx(ctx, tx, model.KindTechnician, techID)
			if err != nil {
				return err
			}
			if st != model.StatusPending {
				return ErrAlreadyDecided
			}
			return f.mod.DecideTx(ctx, tx, model.KindTechnician, techID, model.StatusApproved, mod, time.Now())
		})
	}
	if err := decide(); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	if err := decide(); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	tech, err := f.techs.GetByID(ctx, techID)
	if err != nil || tech.Status != model.StatusApproved || tech.ModeratedBy == nil || *tech.ModeratedBy != mod {
		t.Fatalf("technician after approval: %+v err=%v", tech, err)
	}
}

func TestListPendingAcrossKinds(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	techID := f.technician(t, "Mia")
	styleID, _ := f.cat.Create(ctx, model.CatalogStyles, "French", f.author)
	if _, _, err := f.links.Insert(ctx, model.CatalogStyles, techID, styleID, f.author); err != nil {
		t.Fatalf("link: %v", err)
	}
	if _, err := f.reserveLocation(t, techID, interval.Interval{From: at(10, 10), To: at(10, 12)}); err != nil {
		t.Fatalf("location: %v", err)
	}

	items, err := f.mod.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 pending items, got %d: %+v", len(items), items)
	}
	for i := 1; i < len(items); i++ {
		if items[i].SubmittedAt.After(items[i-1].SubmittedAt) {
			t.Fatalf("queue not ordered newest first: %+v", items)
		}
	}
	kinds := map[model.EntityKind]bool{}
	for _, it := range items {
		kinds[it.Kind] = true
		if it.Submitter != "ana" || it.Summary == "" {
			t.Fatalf("unexpected item %+v", it)
		}
	}
	for _, k := range []model.EntityKind{model.KindTechnician, model.KindStyle, model.KindTechnicianStyle, model.KindLocation} {
		if !kinds[k] {
			t.Fatalf("missing %s in queue %+v", k, items)
		}
	}
}

func TestApplyPatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	techID := f.technician(t, "Mia")
	f.technician(t, "Lea")
	name, desc := "Mia Nails", "Gel and acrylic"

	err := f.db.InTx(ctx, func(tx *sql.Tx) error {
		return f.techs.ApplyPatchTx(ctx, tx, techID, model.ProfilePatch{Name: &name, Description: &desc})
	})
	if err != nil {
		t.Fatalf("apply patch: %v", err)
	}
	tech, _ := f.techs.GetByID(ctx, techID)
	if tech.Name != name || tech.Description == nil || *tech.Description != desc {
		t.Fatalf("patch not applied: %+v", tech)
	}

	clash := "lea"
	err = f.db.InTx(ctx, func(tx *sql.Tx) error {
		return f.techs.ApplyPatchTx(ctx, tx, techID, model.ProfilePatch{Name: &clash})
	})
	if !errors.Is(err, ErrPatchApplication) {
		t.Fatalf("expected ErrPatchApplication for name clash, got %v", err)
	}
	err = f.db.InTx(ctx, func(tx *sql.Tx) error {
		return f.techs.ApplyPatchTx(ctx, tx, 999, model.ProfilePatch{Name: &name})
	})
	if !errors.Is(err, ErrPatchApplication) {
		t.Fatalf("expected ErrPatchApplication for missing technician, got %v", err)
	}

	dbtest.SetStatus(t, f.db, "technicians", techID, "rejected")
	desc = "changed after rejection"
	err = f.db.InTx(ctx, func(tx *sql.Tx) error {
		return f.techs.ApplyPatchTx(ctx, tx, techID, model.ProfilePatch{Description: &desc})
	})
	if !errors.Is(err, ErrPatchApplication) {
		t.Fatalf("expected ErrPatchApplication for rejected technician, got %v", err)
	}
	if tech, _ := f.techs.GetByID(ctx, techID); tech.Description == nil || *tech.Description != "Gel and acrylic" {
		t.Fatalf("rejected technician was modified: %+v", tech)
	}
}

func TestUserRepo(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id, err := f.users.Create(ctx, " Ivana ", "", model.RoleUser, 4)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.users.Create(ctx, "ivana", "pw", model.RoleUser, 4); !errors.Is(err, ErrHandleExists) {
		t.Fatalf("expected ErrHandleExists, got %v", err)
	}
	u, err := f.users.LookupUser(ctx, "IVANA")
	if err != nil || u.ID != id || u.PasswordHash != nil {
		t.Fatalf("lookup: %+v err=%v", u, err)
	}
	if _, err := f.users.LookupUser(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapEntriesFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()
	techID := f.technician(t, "Mia")
	dbtest.SetStatus(t, f.db, "technicians", techID, "approved")
	locID, err := f.reserveLocation(t, techID, interval.Interval{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	dbtest.SetStatus(t, f.db, "locations", locID, "approved")
	gel, _ := f.cat.Create(ctx, model.CatalogTechniques, "Gel", f.author)
	french, _ := f.cat.Create(ctx, model.CatalogStyles, "French", f.author)
	dbtest.SetStatus(t, f.db, "techniques", gel, "approved")
	dbtest.SetStatus(t, f.db, "styles", french, "approved")
	_, linkID, _ := f.links.Insert(ctx, model.CatalogTechniques, techID, gel, f.author)
	dbtest.SetStatus(t, f.db, "technician_techniques", linkID, "approved")

	cases := []struct {
		name   string
		filter model.MapFilter
		want   int
	}{
		{"no filter", model.MapFilter{}, 1},
		{"technique", model.MapFilter{TechniqueID: gel}, 1},
		{"style only", model.MapFilter{StyleID: french}, 0},
		{"either", model.MapFilter{TechniqueID: gel, StyleID: french}, 1},
		{"both", model.MapFilter{TechniqueID: gel, StyleID: french, MatchAll: true}, 0},
		{"only available", model.MapFilter{OnlyAvailable: true}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.sched.MapEntries(ctx, tc.filter, now)
			if err != nil {
				t.Fatalf("map: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d entries, want %d", len(got), tc.want)
			}
		})
	}

	without, err := f.techs.ListWithoutLocation(ctx, now.Add(2*time.Hour))
	if err != nil || len(without) != 1 {
		t.Fatalf("without location later: %+v err=%v", without, err)
	}
	without, err = f.techs.ListWithoutLocation(ctx, now)
	if err != nil || len(without) != 0 {
		t.Fatalf("without location now: %+v err=%v", without, err)
	}
}

func TestConcurrentReservationsOneWins(t *testing.T) {
	f := setup(t)
	techID := f.technician(t, "Mia")
	iv := interval.Interval{From: at(10, 10), To: at(10, 12)}

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := f.reserveLocation(t, techID, iv)
			errs <- err
		}()
	}
	var ok, conflicts int
	for i := 0; i < n; i++ {
		switch err := <-errs; {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Fatalf("ok=%d conflicts=%d", ok, conflicts)
	}
}

func TestRefreshTokenConsume(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tokens := NewTokenRepo(f.db)
	future := time.Now().Add(time.Hour)

	if err := tokens.StoreRefresh(ctx, f.author, "live", future); err != nil {
		t.Fatal(err)
	}
	if err := tokens.StoreRefresh(ctx, f.author, "expired", time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}

	uid, err := tokens.Consume(ctx, "live")
	if err != nil || uid != f.author {
		t.Fatalf("consume = %d, %v", uid, err)
	}
	for _, hash := range []string{"live", "expired", "unknown"} {
		if _, err := tokens.Consume(ctx, hash); !errors.Is(err, ErrNotFound) {
			t.Errorf("consume %q: err = %v, want ErrNotFound", hash, err)
		}
	}

	if err := tokens.StoreRefresh(ctx, f.author, "second", future); err != nil {
		t.Fatal(err)
	}
	if err := tokens.RevokeAllForUser(ctx, f.author); err != nil {
		t.Fatal(err)
	}
	if _, err := tokens.Consume(ctx, "second"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("revoked token consumed: %v", err)
	}
}
