package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"taxdesk/internal/config"
)

const usage = "usage: migrate up | down | steps <n> | version"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("open migrations: %v", err)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		report(m.Up(), "schema is up to date")

	case "down":
		report(m.Down(), "schema rolled back")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("steps needs a count")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("steps count %q: %v", os.Args[2], err)
		}
		report(m.Steps(n), fmt.Sprintf("applied %d migration step(s)", n))

	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("read version: %v", err)
		}
		fmt.Printf("version %d dirty=%v\n", v, dirty)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
}

// report treats ErrNoChange as success.
func report(err error, ok string) {
	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println(ok)
}
