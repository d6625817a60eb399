package app

import (
	"context"
	"fmt"
	"log"

	"camp-planner/internal/plan"
)

func samplePrice(v float64) *float64 { return &v }

// SeedSampleData populates a demo child with a couple of placements so
// a first-time user sees a working calendar. Everything is tagged as
// sample data and removable in one step.
func (a *App) SeedSampleData(ctx context.Context) error {
	fmt.Println("Seeding sample data...")

	child, err := a.adapter.AddChild(ctx, a.cfg.UserID, plan.Child{
		Name:      "Sample Kid",
		Color:     "#f59e0b",
		Age:       9,
		Interests: []string{"art", "swimming"},
		IsSample:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to seed sample child: %w", err)
	}

	placements := []plan.Placement{
		{
			ChildID: child.ID, CampID: "sample-art-camp",
			StartDate: "2026-06-08", EndDate: "2026-06-12",
			Price: samplePrice(295), Status: plan.StatusPlanned,
		},
		{
			ChildID: child.ID, CampID: "sample-swim-camp",
			StartDate: "2026-06-22", EndDate: "2026-06-26",
			Price: samplePrice(340), Status: plan.StatusTentative,
		},
	}
	for _, p := range placements {
		if _, err := a.adapter.AddScheduledCamp(ctx, a.cfg.UserID, p); err != nil {
			log.Printf("Warning: failed to seed placement for %s: %v", p.CampID, err)
		}
	}

	fmt.Println("Sample data ready. Remove it any time with: camp-planner clear-samples")
	return nil
}

// ClearSamples removes everything the seeder created.
func (a *App) ClearSamples(ctx context.Context) error {
	if err := a.adapter.ClearSampleData(ctx, a.cfg.UserID); err != nil {
		return fmt.Errorf("failed to clear sample data: %w", err)
	}
	fmt.Println("Sample data removed.")
	return nil
}
