package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"camp-planner/internal/achievements"
	"camp-planner/internal/app"
	"camp-planner/internal/catalog"
	"camp-planner/internal/config"
	"camp-planner/internal/database"
	"camp-planner/internal/directory"
	"camp-planner/internal/llm"
	"camp-planner/internal/session"
	"camp-planner/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// Load .env if present; real environment wins.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	directoryClient := directory.NewClient(cfg)

	geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	snapshots, err := catalog.NewSnapshotStore(cfg.CatalogDir)
	if err != nil {
		log.Fatalf("Failed to initialize catalog store: %v", err)
	}

	adapter := store.NewSQLiteAdapter(db.SQL)
	engine := achievements.NewEngine(session.NewKV(db.SQL, cfg.UserID))

	application := app.NewApp(
		directoryClient,
		geminiClient,
		snapshots,
		adapter,
		engine,
		cfg,
		db,
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		if err := application.IngestCamps(ctx); err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}
	case "seed":
		if err := application.SeedSampleData(ctx); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	case "clear-samples":
		if err := application.ClearSamples(ctx); err != nil {
			log.Fatalf("Clearing sample data failed: %v", err)
		}
	case "plan":
		if err := application.ShowPlan(ctx); err != nil {
			log.Fatalf("Plan display failed: %v", err)
		}
	case "browse":
		browseCmd := flag.NewFlagSet("browse", flag.ExitOnError)
		query := browseCmd.String("q", "", "Deep-link filter query string")
		browseCmd.Parse(os.Args[2:])

		if err := application.Browse(ctx, *query); err != nil {
			log.Fatalf("Browse failed: %v", err)
		}
	case "recommend":
		if err := application.Recommend(ctx); err != nil {
			log.Fatalf("Recommendations failed: %v", err)
		}
	case "export":
		exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
		out := exportCmd.String("o", "summer-plan.ics", "Output iCalendar file")
		exportCmd.Parse(os.Args[2:])

		if err := application.ExportCalendar(ctx, *out); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	case "achievements":
		if err := application.ShowAchievements(ctx); err != nil {
			log.Fatalf("Achievements failed: %v", err)
		}
	case "correct":
		correctCmd := flag.NewFlagSet("correct", flag.ExitOnError)
		campID := correctCmd.String("id", "", "Camp id the correction applies to")
		note := correctCmd.String("note", "", "What is wrong with the listing")
		correctCmd.Parse(os.Args[2:])

		if err := application.SubmitCorrection(*campID, *note); err != nil {
			log.Fatalf("Correction failed: %v", err)
		}
	case "cleanup":
		cleanupCmd := flag.NewFlagSet("cleanup", flag.ExitOnError)
		age := cleanupCmd.Duration("age", 90*24*time.Hour, "Remove session rows older than this")
		cleanupCmd.Parse(os.Args[2:])

		removed, err := session.CleanupStale(db.SQL, *age)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Removed %d stale session row(s).\n", removed)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: camp-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest          Fetch and extract camp listings from the directory")
	fmt.Println("  seed            Create sample children and placements")
	fmt.Println("  clear-samples   Remove the seeded sample data")
	fmt.Println("  plan            Show the week-by-week summer plan and coverage")
	fmt.Println("  browse          Filter and list camps (-q \"cat=Art&age=8\")")
	fmt.Println("  recommend       Show personalized camp recommendations")
	fmt.Println("  export          Write the plan as an iCalendar file (-o file.ics)")
	fmt.Println("  achievements    Show unlocked achievements, streak, and tips")
	fmt.Println("  correct         Report bad listing data (-id camp-1 -note \"...\")")
	fmt.Println("  cleanup         Remove stale session rows (-age 2160h)")
}
