package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ManuelReschke/JobFox/internal/pkg/env"
)

func main() {
	env.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	dbURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		env.GetEnv("DB_USER", "jobfox"),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "jobfox"),
	)
	log.Printf("Verbinde mit Datenbank: %s@%s:%s/%s",
		env.GetEnv("DB_USER", "jobfox"),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "jobfox"),
	)

	m, err := migrate.New("file://"+env.GetEnv("MIGRATIONS_PATH", "migrations"), dbURL)
	if err != nil {
		log.Fatalf("Fehler beim Initialisieren der Migration: %v", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Printf("Fehler beim Schließen der Migrationsressourcen: %v, %v", sourceErr, dbErr)
		}
	}()

	if err := run(m, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func run(m *migrate.Migrate, command string, args []string) error {
	switch command {
	case "up":
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("Keine Änderungen: Datenbank ist bereits auf dem neuesten Stand")
			return nil
		}
		if err != nil {
			return fmt.Errorf("Fehler beim Ausführen der Migrationen: %w", err)
		}
		log.Println("Migrationen erfolgreich ausgeführt")

	case "down":
		if err := m.Steps(-1); err != nil {
			return fmt.Errorf("Fehler beim Zurückrollen der letzten Migration: %w", err)
		}
		log.Println("Letzte Migration erfolgreich zurückgerollt")

	case "goto", "force":
		if len(args) < 1 {
			return errors.New("Bitte geben Sie eine Versionsnummer an")
		}
		version, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("Ungültige Versionsnummer: %w", err)
		}
		if command == "force" {
			if err := m.Force(int(version)); err != nil {
				return fmt.Errorf("Fehler beim Setzen der Version %d: %w", version, err)
			}
			log.Printf("Version %d gesetzt", version)
			return nil
		}
		err = m.Migrate(uint(version))
		if errors.Is(err, migrate.ErrNoChange) {
			log.Printf("Keine Änderungen: Datenbank ist bereits auf Version %d", version)
			return nil
		}
		if err != nil {
			return fmt.Errorf("Fehler beim Migrieren zur Version %d: %w", version, err)
		}
		log.Printf("Migration zur Version %d erfolgreich", version)

	case "status":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Println("Keine Migrationen wurden bisher ausgeführt")
			return nil
		}
		if err != nil {
			return fmt.Errorf("Fehler beim Abrufen der Migrationsversion: %w", err)
		}
		dirtyStatus := ""
		if dirty {
			dirtyStatus = " (dirty)"
		}
		log.Printf("Aktuelle Migrationsversion: %d%s", version, dirtyStatus)

	default:
		printUsage()
		os.Exit(1)
	}
	return nil
}

func printUsage() {
	fmt.Println("Verwendung: go run ./cmd/migrate [command]")
	fmt.Println("Verfügbare Befehle:")
	fmt.Println("  up      - Führe alle ausstehenden Migrationen aus")
	fmt.Println("  down    - Rolle die letzte Migration zurück")
	fmt.Println("  goto N  - Migriere zur Version N")
	fmt.Println("  force N - Setze die Version N ohne Migration (nach Fehlern)")
	fmt.Println("  status  - Zeige aktuelle Migrationsversion an")
}
