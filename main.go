package main

import (
	"flag"
	"log"

	"github.com/curatehub/chronicle-backend/cmd"
)

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run database migrations")
	shouldRunServer := flag.Bool("server", false, "Run the API server")
	flag.Parse()

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatal(err)
		}
	}
	if *shouldRunServer || !*shouldRunMigrations {
		if err := cmd.RunServer(); err != nil {
			log.Fatal(err)
		}
	}
}
