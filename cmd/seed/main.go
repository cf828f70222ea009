// Package main provides a CLI for seeding the template and theme catalog.
// Rows are upserted by ID, so reseeding is safe.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"inviteflow/config"
	"inviteflow/internal/domain"
	"inviteflow/internal/repository/postgres"
)

var templates = []*domain.Template{
	{
		ID:          "birthday-elegant",
		Name:        "Elegant Gold",
		Category:    domain.CategoryBirthday,
		Emoji:       "🎂",
		HueA:        45,
		HueB:        30,
		Description: "A sophisticated birthday invitation with elegant gold accents and refined typography.",
		VideoURL:    "/bday cake.mp4",
		IsActive:    true,
	},
	{
		ID:          "wedding-romantic",
		Name:        "Romantic",
		Category:    domain.CategoryWedding,
		Emoji:       "💒",
		HueA:        340,
		HueB:        10,
		Description: "A romantic wedding invitation with soft colors and elegant floral designs.",
		VideoURL:    "/wedding.mp4",
		IsActive:    true,
	},
	{
		ID:          "corporate-modern",
		Name:        "Modern Professional",
		Category:    domain.CategoryCorporate,
		Emoji:       "🏢",
		HueA:        210,
		HueB:        230,
		Description: "A sleek, professional invitation perfect for corporate events and business gatherings.",
		VideoURL:    "/corporate.mp4",
		IsActive:    true,
	},
	{
		ID:          "hangout",
		Name:        "Fun Hangout",
		Category:    domain.CategoryHangout,
		Emoji:       "🎉",
		HueA:        280,
		HueB:        320,
		Description: "A fun and colorful invitation for casual get-togethers and hangouts.",
		VideoURL:    "/hangout.mp4",
		IsActive:    true,
	},
}

var themes = []*domain.Theme{
	{
		ID:             "gold",
		Name:           "Elegant Gold",
		PrimaryColor:   "#FFD700",
		SecondaryColor: "#DAA520",
		BgGradient:     "linear-gradient(135deg, #1a1a2e 0%, #16213e 50%, #0f3460 100%)",
		IsActive:       true,
	},
	{
		ID:             "rose",
		Name:           "Rose Pink",
		PrimaryColor:   "#FF6B9D",
		SecondaryColor: "#C44569",
		BgGradient:     "linear-gradient(135deg, #2d132c 0%, #801336 50%, #c72c41 100%)",
		IsActive:       true,
	},
	{
		ID:             "ocean",
		Name:           "Ocean Blue",
		PrimaryColor:   "#00D9FF",
		SecondaryColor: "#0099CC",
		BgGradient:     "linear-gradient(135deg, #0c0c1e 0%, #1a1a3e 50%, #0d47a1 100%)",
		IsActive:       true,
	},
	{
		ID:             "emerald",
		Name:           "Emerald Green",
		PrimaryColor:   "#00E676",
		SecondaryColor: "#00C853",
		BgGradient:     "linear-gradient(135deg, #0d1b0d 0%, #1b3d1b 50%, #2e7d32 100%)",
		IsActive:       true,
	},
	{
		ID:             "purple",
		Name:           "Royal Purple",
		PrimaryColor:   "#BB86FC",
		SecondaryColor: "#9C27B0",
		BgGradient:     "linear-gradient(135deg, #1a0a2e 0%, #2d1b4e 50%, #4a148c 100%)",
		IsActive:       true,
	},
}

func main() {
	var verbose bool
	flag.BoolVar(&verbose, "v", false, "verbose output")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	templateRepo := postgres.NewTemplateRepository(db)
	for _, t := range templates {
		if err := templateRepo.Upsert(ctx, t); err != nil {
			fmt.Fprintf(os.Stderr, "Error: seed template %s: %v\n", t.ID, err)
			os.Exit(1)
		}
		if verbose {
			fmt.Printf("  upserted template: %s\n", t.Name)
		}
	}

	themeRepo := postgres.NewThemeRepository(db)
	for _, t := range themes {
		if err := themeRepo.Upsert(ctx, t); err != nil {
			fmt.Fprintf(os.Stderr, "Error: seed theme %s: %v\n", t.ID, err)
			os.Exit(1)
		}
		if verbose {
			fmt.Printf("  upserted theme: %s\n", t.Name)
		}
	}

	fmt.Printf("Seeded %d templates and %d themes\n", len(templates), len(themes))
}
