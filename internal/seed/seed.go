// Package seed bootstraps a fresh database from a YAML file: moderator
// accounts, which the API cannot create, and an approved starting
// catalog of techniques and styles.
//
// Catalog entries go through the normal submit and approve path, so a
// seeded catalog is indistinguishable from a moderated one. Running the
// same file twice is harmless: names that are already active are skipped.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

// File is the seed document.
type File struct {
	Moderators []Account `yaml:"moderators"`
	Techniques []string  `yaml:"techniques"`
	Styles     []string  `yaml:"styles"`
}

// Account is a moderator login. Password may be empty.
type Account struct {
	Handle   string `yaml:"handle"`
	Password string `yaml:"password"`
}

// Load decodes a seed file. Unknown keys are rejected so typos do not
// silently seed nothing.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	if len(f.Moderators) == 0 {
		return nil, errors.New("seed: at least one moderator is required")
	}
	for _, m := range f.Moderators {
		if strings.TrimSpace(m.Handle) == "" {
			return nil, errors.New("seed: moderator handle is empty")
		}
	}
	return &f, nil
}

// Report counts what Apply changed.
type Report struct {
	Moderators int
	Techniques int
	Styles     int
	Skipped    int
}

// Seeder applies a File through the regular services.
type Seeder struct {
	Users      *repository.UserRepo
	Catalog    *service.CatalogService
	Moderation *service.ModerationService
	BcryptCost int
	Log        *logger.Logger
}

// Apply creates or promotes every moderator, then submits and approves
// each catalog name as the first moderator.
func (s *Seeder) Apply(ctx context.Context, f *File) (Report, error) {
	var (
		rep   Report
		modID uint64
	)
	for i, a := range f.Moderators {
		id, err := s.ensureModerator(ctx, a)
		if err != nil {
			return rep, fmt.Errorf("moderator %q: %w", a.Handle, err)
		}
		if i == 0 {
			modID = id
		}
		rep.Moderators++
	}

	for _, group := range []struct {
		catalog model.Catalog
		names   []string
		count   *int
	}{
		{model.CatalogTechniques, f.Techniques, &rep.Techniques},
		{model.CatalogStyles, f.Styles, &rep.Styles},
	} {
		for _, name := range group.names {
			id, err := s.Catalog.SubmitCatalogItem(ctx, group.catalog, name, modID)
			if errors.Is(err, repository.ErrDuplicateActiveName) {
				s.Log.Debug("seed skip", "catalog", group.catalog, "name", name)
				rep.Skipped++
				continue
			}
			if err != nil {
				return rep, fmt.Errorf("%s %q: %w", group.catalog, name, err)
			}
			if _, err := s.Moderation.Act(ctx, group.catalog.Kind(), id, model.ActionApprove, modID); err != nil {
				return rep, fmt.Errorf("approve %s %q: %w", group.catalog, name, err)
			}
			*group.count++
		}
	}
	return rep, nil
}

func (s *Seeder) ensureModerator(ctx context.Context, a Account) (uint64, error) {
	u, err := s.Users.LookupUser(ctx, a.Handle)
	if errors.Is(err, repository.ErrNotFound) {
		return s.Users.Create(ctx, a.Handle, a.Password, model.RoleModerator, s.BcryptCost)
	}
	if err != nil {
		return 0, err
	}
	if u.Role != model.RoleModerator {
		if err := s.Users.SetRole(ctx, u.ID, model.RoleModerator); err != nil {
			return 0, err
		}
		s.Log.Info("promoted to moderator", "handle", u.Handle)
	}
	return u.ID, nil
}
