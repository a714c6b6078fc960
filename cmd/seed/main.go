// Command seed creates moderator accounts and an approved catalog from a
// YAML file. It runs migrations first, so it also works on an empty
// database.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mgrozdek22/TBP-nail-app/internal/config"
	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
	"github.com/mgrozdek22/TBP-nail-app/internal/seed"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

func main() {
	path := flag.String("file", "seed.yaml", "seed file")
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	f, err := os.Open(*path)
	if err != nil {
		lg.Fatal("open seed file", "path", *path, "error", err)
	}
	doc, err := seed.Load(f)
	f.Close()
	if err != nil {
		lg.Fatal("invalid seed file", "path", *path, "error", err)
	}

	ctx := context.Background()
	db, err := openDB(cfg)
	if err != nil {
		lg.Fatal("database open failed", "driver", cfg.DBDriver, "error", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		lg.Fatal("migrations failed", "error", err)
	}

	techs := repository.NewTechnicianRepo(db)
	edits := repository.NewProfileEditRepo(db)
	s := &seed.Seeder{
		Users: repository.NewUserRepo(db),
		Catalog: service.NewCatalogService(techs, repository.NewCatalogRepo(db),
			repository.NewLinkRepo(db), repository.NewScheduleRepo(db)),
		Moderation: service.NewModerationService(repository.NewModerationRepo(db), edits, techs,
			service.NopPublisher{}, lg),
		BcryptCost: cfg.BcryptCost,
		Log:        lg,
	}
	rep, err := s.Apply(ctx, doc)
	if err != nil {
		lg.Fatal("seed failed", "error", err)
	}
	lg.Info("seed applied", "moderators", rep.Moderators, "techniques", rep.Techniques,
		"styles", rep.Styles, "skipped", rep.Skipped)
}

func openDB(cfg config.Config) (*database.DB, error) {
	d, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	if d == database.SQLite {
		return database.OpenSQLite(cfg.SQLitePath)
	}
	return database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
