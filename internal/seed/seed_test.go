package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/mgrozdek22/TBP-nail-app/internal/database/dbtest"
	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

const doc = `
moderators:
  - handle: Ivana
    password: s3cret-pass
  - handle: marko
techniques: [Gel, Acryl, "  gel "]
styles:
  - French
  - Baby boomer
`

func TestLoadRejectsBadFiles(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "moderators: [{handle: a}]\ncolors: [red]\n",
		"no moderator": "techniques: [Gel]\n",
		"blank handle": "moderators: [{handle: '  '}]\n",
		"not yaml":     "moderators: [",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(in)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func newSeeder(t *testing.T) (*Seeder, *service.CatalogService, *repository.UserRepo) {
	t.Helper()
	db := dbtest.Open(t)
	techs := repository.NewTechnicianRepo(db)
	edits := repository.NewProfileEditRepo(db)
	catalog := service.NewCatalogService(techs, repository.NewCatalogRepo(db), repository.NewLinkRepo(db), repository.NewScheduleRepo(db))
	users := repository.NewUserRepo(db)
	return &Seeder{
		Users:      users,
		Catalog:    catalog,
		Moderation: service.NewModerationService(repository.NewModerationRepo(db), edits, techs, service.NopPublisher{}, logger.Nop()),
		BcryptCost: 4,
		Log:        logger.Nop(),
	}, catalog, users
}

func TestApplyIsRepeatable(t *testing.T) {
	ctx := context.Background()
	s, catalog, users := newSeeder(t)
	f, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	rep, err := s.Apply(ctx, f)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if rep != (Report{Moderators: 2, Techniques: 2, Styles: 2, Skipped: 1}) {
		t.Fatalf("first run: %+v", rep)
	}
	rep, err = s.Apply(ctx, f)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if rep != (Report{Moderators: 2, Skipped: 5}) {
		t.Fatalf("second run: %+v", rep)
	}

	styles, err := catalog.ListCatalog(ctx, model.CatalogStyles)
	if err != nil {
		t.Fatal(err)
	}
	if len(styles) != 2 || styles[0].Status != model.StatusApproved {
		t.Fatalf("styles not approved: %+v", styles)
	}
	u, err := users.LookupUser(ctx, "ivana")
	if err != nil || !u.IsModerator() || u.PasswordHash == nil {
		t.Fatalf("moderator not created: %+v %v", u, err)
	}
}

func TestApplyPromotesExistingUser(t *testing.T) {
	ctx := context.Background()
	s, _, users := newSeeder(t)
	id, err := users.Create(ctx, "marko", "", model.RoleUser, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Apply(ctx, &File{Moderators: []Account{{Handle: "Marko"}}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	u, err := users.GetByID(ctx, id)
	if err != nil || !u.IsModerator() {
		t.Fatalf("user not promoted: %+v %v", u, err)
	}
}
