package main

import (
	"flag"
	"log"
	"os"

	"ludo_client/internal/migrations"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	if !*apply {
		if err := migrations.Status(dsn); err != nil {
			log.Fatalf("status: %v", err)
		}
		return
	}
	if err := migrations.Up(dsn); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}
