package main

import (
	"flag"
	"log"
	"os"

	"github.com/InkwellLabs/Inkwell-Backend/internal/auth"
	"github.com/InkwellLabs/Inkwell-Backend/internal/content"
	"github.com/InkwellLabs/Inkwell-Backend/internal/db"
	"github.com/InkwellLabs/Inkwell-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	fixture := flag.String("fixture", "internal/seeds/data/fixtures.yaml", "Path to the YAML seed fixture")
	flag.Parse()

	db.Connect(os.Getenv("DATABASE_URL"))
	auth.Init()
	content.Init()

	if err := seeds.SeedAll(*fixture); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
