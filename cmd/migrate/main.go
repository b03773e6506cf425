package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"

	"github.com/JaimeStill/roster/internal/config"
	"github.com/JaimeStill/roster/internal/migrations"
	"github.com/JaimeStill/roster/pkg/database"
)

const envURL = "ROSTER_MIGRATE_URL"

func main() {
	var (
		target  = flag.String("url", "", "Migration URL (pgx5://... or sqlite://...)")
		up      = flag.Bool("up", false, "Run all up migrations")
		down    = flag.Bool("down", false, "Run all down migrations")
		steps   = flag.Int("steps", 0, "Number of migrations (positive=up, negative=down)")
		version = flag.Bool("version", false, "Print current migration version")
		force   = flag.Int("force", -1, "Force set version (use with caution)")
	)
	flag.Parse()

	forceSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			forceSet = true
		}
	})

	if *target == "" {
		*target = os.Getenv(envURL)
	}
	if *target == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		*target = cfg.Database.MigrateURL()
	}

	driver, err := driverFor(*target)
	if err != nil {
		log.Fatal(err)
	}

	files, err := migrations.For(driver)
	if err != nil {
		log.Fatalf("failed to load migrations: %v", err)
	}

	source, err := iofs.New(files, ".")
	if err != nil {
		log.Fatalf("failed to create migration source: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, *target)
	if err != nil {
		log.Fatalf("failed to create migrator: %v", err)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	case forceSet:
		if err := m.Force(*force); err != nil {
			log.Fatalf("failed to force version: %v", err)
		}
		fmt.Printf("forced to version %d\n", *force)
	case *up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run up migrations: %v", err)
		}
		fmt.Println("migrations applied successfully")
	case *down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run down migrations: %v", err)
		}
		fmt.Println("migrations reverted successfully")
	case *steps != 0:
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run migrations: %v", err)
		}
		fmt.Printf("applied %d migration steps\n", *steps)
	default:
		fmt.Println("usage: migrate [-url <migration-url>] [-up|-down|-steps N|-version|-force N]")
		flag.PrintDefaults()
	}
}

// driverFor maps a golang-migrate URL scheme to the driver whose migrations apply.
func driverFor(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid migration url: %w", err)
	}

	switch u.Scheme {
	case "pgx5":
		return database.DriverPostgres, nil
	case "sqlite":
		return database.DriverSQLite, nil
	}
	return "", fmt.Errorf("unsupported migration scheme %q", u.Scheme)
}
