package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"camp-planner/internal/achievements"
	"camp-planner/internal/calendar"
	"camp-planner/internal/catalog"
	"camp-planner/internal/config"
	"camp-planner/internal/coverage"
	"camp-planner/internal/database"
	"camp-planner/internal/directory"
	"camp-planner/internal/export"
	"camp-planner/internal/filter"
	"camp-planner/internal/llm"
	"camp-planner/internal/plan"
	"camp-planner/internal/recommend"
	"camp-planner/internal/store"
)

// App holds the application's dependencies.
type App struct {
	directoryClient directory.Client
	textGen         llm.TextGenerator
	snapshots       *catalog.SnapshotStore
	adapter         plan.Adapter
	engine          *achievements.Engine
	cfg             *config.Config
	db              *database.DB
}

// NewApp creates and initializes a new App instance.
func NewApp(
	directoryClient directory.Client,
	textGen llm.TextGenerator,
	snapshots *catalog.SnapshotStore,
	adapter plan.Adapter,
	engine *achievements.Engine,
	cfg *config.Config,
	db *database.DB,
) *App {
	return &App{
		directoryClient: directoryClient,
		textGen:         textGen,
		snapshots:       snapshots,
		adapter:         adapter,
		engine:          engine,
		cfg:             cfg,
		db:              db,
	}
}

// IngestCamps fetches listings from the directory, extracts each new
// or updated one into a structured camp, and snapshots it to disk.
func (a *App) IngestCamps(ctx context.Context) error {
	fmt.Println("Fetching and processing camp listings...")

	listings, err := a.directoryClient.FetchListings()
	if err != nil {
		return fmt.Errorf("failed to fetch listings from directory: %w", err)
	}

	fmt.Printf("Successfully fetched %d listings from the directory.\n", len(listings))
	for _, listing := range listings {
		if a.snapshots.Exists(listing.ID, listing.UpdatedAt) {
			log.Printf("Camp '%s' up-to-date. Skipping.", listing.Name)
			continue
		}
		if err := a.snapshots.RemoveStaleVersions(listing.ID); err != nil {
			log.Printf("Warning: failed to clean up stale versions for '%s': %v", listing.Name, err)
		}

		log.Printf("Extracting '%s'...", listing.Name)
		text, err := a.directoryClient.FetchPageText(listing.Website)
		if err != nil {
			log.Printf("Failed to fetch page for '%s': %v", listing.Name, err)
			continue
		}

		camp, err := catalog.ExtractCamp(ctx, a.textGen, catalog.ListingData{
			ID:        listing.ID,
			Name:      listing.Name,
			Website:   listing.Website,
			UpdatedAt: listing.UpdatedAt,
			Text:      text,
		})
		if err != nil {
			log.Printf("Failed to extract '%s': %v", listing.Name, err)
			continue
		}

		if err := a.snapshots.Save(*camp); err != nil {
			log.Printf("Failed to save '%s': %v", listing.Name, err)
			continue
		}
		log.Printf("Successfully processed '%s'.", camp.Name)

		// Wait 5 seconds to stay under Gemini Free Tier Rate Limits (15 RPM)
		time.Sleep(5 * time.Second)
	}
	fmt.Println("Ingestion complete.")
	return nil
}

// LoadCatalog reads every snapshotted camp into the in-memory store.
func (a *App) LoadCatalog() (*catalog.Store, error) {
	camps, err := a.snapshots.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshots: %w", err)
	}
	return catalog.NewStore(camps), nil
}

// loadState builds the per-session planning state and its week grid.
func (a *App) loadState(ctx context.Context) (*plan.State, error) {
	state := plan.NewState(a.adapter, a.cfg.UserID)
	if err := state.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load planning state: %w", err)
	}

	schoolEnd := ""
	if state.Profile != nil {
		schoolEnd = state.Profile.SchoolEnd
	}
	weeks, err := calendar.SummerWeeks(schoolEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to build summer weeks: %w", err)
	}
	state.SetWeeks(weeks)
	return state, nil
}

// ShowPlan prints the week-by-week calendar with placements, blocks,
// and per-child coverage.
func (a *App) ShowPlan(ctx context.Context) error {
	state, err := a.loadState(ctx)
	if err != nil {
		return err
	}
	store, err := a.LoadCatalog()
	if err != nil {
		return err
	}

	childName := make(map[string]string)
	for _, c := range state.Children {
		childName[c.ID] = c.Name
	}

	fmt.Println("\n=== SUMMER PLAN ===")
	for _, w := range state.Weeks() {
		fmt.Printf("%-8s %s\n", w.Label, w.Display)
		for _, p := range state.ScheduleForWeek(w.StartDate, w.EndDate) {
			name := p.CampID
			if c := store.Get(p.CampID); c != nil {
				name = c.Name
			}
			fmt.Printf("  %s: %s [%s]\n", childName[p.ChildID], name, p.Status)
		}
		for _, c := range state.Children {
			if b := state.BlockFor(c.ID, w.Num); b != nil {
				icon, _ := plan.BlockIcon(b.Kind)
				fmt.Printf("  %s: %s %s\n", c.Name, icon, b.Kind)
			}
		}
	}

	fmt.Println("\n=== COVERAGE ===")
	for _, c := range state.Children {
		res := coverage.Analyze(c.ID, state.Weeks(), state.AllDisplay(), state.Blocks)
		fmt.Printf("%-12s %.0f%% covered, %d gap(s), $%.2f\n",
			c.Name, res.CoveragePercent, len(res.Gaps), res.TotalCost)
	}

	sum := coverage.Dashboard(state.Children, state.AllDisplay(), state.Favorites, state.Weeks())
	fmt.Printf("\nFamily total: %d camps across %d weeks, $%.2f\n",
		sum.TotalScheduled, sum.WeeksWithCamps, sum.TotalCost)
	return nil
}

// Browse applies a deep-link filter query to the catalog and prints
// the matching camps.
func (a *App) Browse(ctx context.Context, query string) error {
	state, err := a.loadState(ctx)
	if err != nil {
		return err
	}
	store, err := a.LoadCatalog()
	if err != nil {
		return err
	}

	spec := filter.Decode(query)
	matches := filter.Apply(store.All(), spec, &filter.Context{
		Weeks:   state.Weeks(),
		Profile: state.Profile,
	})

	fmt.Printf("%d camp(s) match (%d active filter(s)):\n", len(matches), spec.ActiveFilterCount())
	for _, c := range matches {
		fav := " "
		if state.IsFavorited(c.ID) {
			fav = "*"
		}
		fmt.Printf("%s %-28s %-10s ages %s  %s\n", fav, c.Name, c.Category, c.AgeLabel(), c.Hours)
	}
	return nil
}

// Recommend prints the personalized homepage sections.
func (a *App) Recommend(ctx context.Context) error {
	state, err := a.loadState(ctx)
	if err != nil {
		return err
	}
	store, err := a.LoadCatalog()
	if err != nil {
		return err
	}

	home := recommend.BuildHomepage(store, a.recommendContext(state, store), time.Now())
	fmt.Println(home.Greeting)
	for _, section := range home.Sections {
		fmt.Printf("\n%s\n", section.Title)
		for _, c := range section.Camps {
			fmt.Printf("  %-28s %-10s ages %s\n", c.Name, c.Category, c.AgeLabel())
		}
	}
	return nil
}

// ExportCalendar writes the plan as an iCalendar file and prints a
// Google Calendar link per placement.
func (a *App) ExportCalendar(ctx context.Context, path string) error {
	state, err := a.loadState(ctx)
	if err != nil {
		return err
	}
	store, err := a.LoadCatalog()
	if err != nil {
		return err
	}

	childName := make(map[string]string)
	for _, c := range state.Children {
		childName[c.ID] = c.Name
	}

	var events []export.Event
	for _, p := range state.Placements {
		if !p.Active() {
			continue
		}
		ev := export.BuildEvent(p, store.Get(p.CampID), childName[p.ChildID])
		events = append(events, ev)
		fmt.Printf("%s\n  %s\n", ev.Title, export.GoogleCalendarURL(ev))
	}

	ics := export.ICal(events, time.Now())
	if err := os.WriteFile(path, []byte(ics), 0644); err != nil {
		return fmt.Errorf("failed to write calendar file: %w", err)
	}
	fmt.Printf("Wrote %d event(s) to %s\n", len(events), path)
	return nil
}

// ShowAchievements evaluates the rule set against current state,
// prints new unlocks, and shows the next applicable tip.
func (a *App) ShowAchievements(ctx context.Context) error {
	state, err := a.loadState(ctx)
	if err != nil {
		return err
	}
	store, err := a.LoadCatalog()
	if err != nil {
		return err
	}

	streak, err := a.engine.RecordVisit(time.Now())
	if err != nil {
		return err
	}

	stats := a.buildStats(state, store, streak)
	fresh, err := a.engine.Evaluate(stats)
	if err != nil {
		return err
	}
	for _, ach := range fresh {
		banner := "Achievement unlocked"
		if ach.Legendary {
			banner = "LEGENDARY achievement unlocked"
		}
		fmt.Printf("%s: %s %s — %s\n", banner, ach.Icon, ach.Title, ach.Description)
	}

	unlocked, err := a.engine.Unlocked()
	if err != nil {
		return err
	}
	fmt.Printf("Unlocked %d of %d achievements. Streak: %d day(s).\n",
		len(unlocked), len(achievements.All()), streak)

	tip, err := a.engine.NextTip(stats)
	if err != nil {
		return err
	}
	if tip != nil {
		fmt.Printf("Tip: %s %s\n", tip.Icon, tip.Text)
	}
	return nil
}

// SubmitCorrection reports bad listing data back to the directory's
// admin API.
func (a *App) SubmitCorrection(campID, note string) error {
	campID = strings.TrimSpace(campID)
	note = store.SanitizeText(note)
	if campID == "" || note == "" {
		return fmt.Errorf("a camp id and a non-empty note are required")
	}
	if err := a.directoryClient.SubmitCorrection(campID, note); err != nil {
		return fmt.Errorf("failed to submit correction for '%s': %w", campID, err)
	}
	fmt.Printf("Correction for '%s' submitted.\n", campID)
	return nil
}

func (a *App) recommendContext(state *plan.State, store *catalog.Store) recommend.Context {
	return recommend.Context{
		Catalog:    store,
		Children:   state.Children,
		Placements: state.AllDisplay(),
		Favorites:  state.Favorites,
		Blocks:     state.Blocks,
		Profile:    state.Profile,
		Weeks:      state.Weeks(),
	}
}

// buildStats projects the planning state into the flat snapshot the
// achievement rules evaluate.
func (a *App) buildStats(state *plan.State, store *catalog.Store, streak int) achievements.Stats {
	stats := achievements.Stats{
		Favorites: len(state.Favorites),
		Streak:    streak,
		Now:       time.Now(),
	}
	if state.Profile != nil {
		stats.Budget = state.Profile.Budget
	}
	stats.DetailViews = a.engine.DetailViews()
	stats.ComparisonUsed = a.engine.ComparisonUsed()

	categories := make(map[string]bool)
	childrenWith := make(map[string]bool)
	for _, p := range state.Placements {
		if !p.Active() {
			continue
		}
		stats.Scheduled++
		childrenWith[p.ChildID] = true
		if c := store.Get(p.CampID); c != nil && c.Category != "" {
			categories[strings.ToLower(c.Category)] = true
		}
	}
	stats.ChildrenWithPlacements = len(childrenWith)
	stats.DistinctCategories = len(categories)
	stats.TotalCost = state.TotalCost()

	// Family-level coverage: covered weeks take the best-covered child,
	// the percent averages across children.
	covered := 0
	percentSum := 0.0
	for _, c := range state.Children {
		res := coverage.Analyze(c.ID, state.Weeks(), state.Placements, state.Blocks)
		percentSum += res.CoveragePercent
		if len(res.CoveredWeeks) > covered {
			covered = len(res.CoveredWeeks)
		}
	}
	stats.CoveredWeeks = covered
	if len(state.Children) > 0 {
		stats.CoveragePercent = percentSum / float64(len(state.Children))
	}

	squads, err := a.adapter.GetSquads(context.Background(), a.cfg.UserID)
	if err != nil {
		log.Printf("Failed to load squads for achievement stats: %v", err)
	} else {
		stats.Squads = len(squads)
	}
	return stats
}
