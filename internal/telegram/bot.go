// Package telegram is a thin chat surface over the planning core. It
// answers a handful of read-mostly commands; all editing happens in
// the main client.
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"camp-planner/internal/achievements"
	"camp-planner/internal/calendar"
	"camp-planner/internal/catalog"
	"camp-planner/internal/config"
	"camp-planner/internal/coverage"
	"camp-planner/internal/plan"
	"camp-planner/internal/recommend"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API and the planning dependencies.
type Bot struct {
	api       *tgbotapi.BotAPI
	adapter   plan.Adapter
	snapshots *catalog.SnapshotStore
	engine    *achievements.Engine
	cfg       *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	adapter plan.Adapter,
	snapshots *catalog.SnapshotStore,
	engine *achievements.Engine,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:       bot,
		adapter:   adapter,
		snapshots: snapshots,
		engine:    engine,
		cfg:       cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()

	command := ""
	if fields := strings.Fields(msg.Text); len(fields) > 0 {
		command = fields[0]
	}

	var text string
	var err error
	switch command {
	case "/plan":
		text, err = b.planMessage(ctx)
	case "/gaps":
		text, err = b.gapsMessage(ctx)
	case "/recommend":
		text, err = b.recommendMessage(ctx)
	case "/tips":
		text, err = b.tipsMessage(ctx)
	default:
		text = helpMessage()
	}
	if err != nil {
		log.Printf("Error handling %q: %v", msg.Text, err)
		text = "❌ Something went wrong. Please try again."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = "Markdown"
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}

// loadState assembles the planning state and week grid for the
// configured user.
func (b *Bot) loadState(ctx context.Context) (*plan.State, *catalog.Store, error) {
	state := plan.NewState(b.adapter, b.cfg.UserID)
	if err := state.Load(ctx); err != nil {
		return nil, nil, err
	}
	schoolEnd := ""
	if state.Profile != nil {
		schoolEnd = state.Profile.SchoolEnd
	}
	weeks, err := calendar.SummerWeeks(schoolEnd)
	if err != nil {
		return nil, nil, err
	}
	state.SetWeeks(weeks)

	camps, err := b.snapshots.LoadAll()
	if err != nil {
		return nil, nil, err
	}
	return state, catalog.NewStore(camps), nil
}

func (b *Bot) planMessage(ctx context.Context) (string, error) {
	state, store, err := b.loadState(ctx)
	if err != nil {
		return "", err
	}
	return formatPlanMarkdown(state, store), nil
}

func (b *Bot) gapsMessage(ctx context.Context) (string, error) {
	state, _, err := b.loadState(ctx)
	if err != nil {
		return "", err
	}
	return formatGapsMarkdown(state), nil
}

func (b *Bot) recommendMessage(ctx context.Context) (string, error) {
	state, store, err := b.loadState(ctx)
	if err != nil {
		return "", err
	}
	rctx := recommend.Context{
		Catalog:    store,
		Children:   state.Children,
		Placements: state.Placements,
		Favorites:  state.Favorites,
		Blocks:     state.Blocks,
		Profile:    state.Profile,
		Weeks:      state.Weeks(),
	}
	ranked := recommend.Rank(store.All(), rctx)
	return formatRecommendationsMarkdown(ranked), nil
}

func (b *Bot) tipsMessage(ctx context.Context) (string, error) {
	state, _, err := b.loadState(ctx)
	if err != nil {
		return "", err
	}

	stats := achievements.Stats{
		Scheduled: len(state.Placements),
		Favorites: len(state.Favorites),
		Now:       time.Now(),
	}
	if state.Profile != nil {
		stats.Budget = state.Profile.Budget
	}
	stats.TotalCost = state.TotalCost()

	tip, err := b.engine.NextTip(stats)
	if err != nil {
		return "", err
	}
	if tip == nil {
		return "No more tips for now — your plan looks good! 🎉", nil
	}
	return fmt.Sprintf("%s *Tip:* %s", tip.Icon, tip.Text), nil
}

func formatPlanMarkdown(state *plan.State, store *catalog.Store) string {
	childName := make(map[string]string)
	for _, c := range state.Children {
		childName[c.ID] = c.Name
	}

	var sb strings.Builder
	sb.WriteString("🏕️ *Summer Plan*\n")
	for _, w := range state.Weeks() {
		entries := state.ScheduleForWeek(w.StartDate, w.EndDate)
		blocked := []string{}
		for _, c := range state.Children {
			if blk := state.BlockFor(c.ID, w.Num); blk != nil {
				icon, _ := plan.BlockIcon(blk.Kind)
				blocked = append(blocked, fmt.Sprintf("%s %s", icon, c.Name))
			}
		}
		if len(entries) == 0 && len(blocked) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n*%s* (%s)\n", w.Label, w.Display))
		for _, p := range entries {
			name := p.CampID
			if c := store.Get(p.CampID); c != nil {
				name = c.Name
			}
			sb.WriteString(fmt.Sprintf("• %s: %s _(%s)_\n", childName[p.ChildID], name, p.Status))
		}
		for _, blk := range blocked {
			sb.WriteString(fmt.Sprintf("• %s\n", blk))
		}
	}
	sb.WriteString(fmt.Sprintf("\n💰 *Total:* $%.2f", state.TotalCost()))
	return sb.String()
}

func formatGapsMarkdown(state *plan.State) string {
	var sb strings.Builder
	sb.WriteString("📅 *Coverage Gaps*\n")
	for _, c := range state.Children {
		res := coverage.Analyze(c.ID, state.Weeks(), state.Placements, state.Blocks)
		sb.WriteString(fmt.Sprintf("\n*%s* — %.0f%% covered\n", c.Name, res.CoveragePercent))
		if len(res.Gaps) == 0 {
			sb.WriteString("No gaps 🎉\n")
			continue
		}
		for _, w := range res.Gaps {
			sb.WriteString(fmt.Sprintf("• %s (%s)\n", w.Label, w.Display))
		}
	}
	return sb.String()
}

func formatRecommendationsMarkdown(ranked []catalog.Camp) string {
	var sb strings.Builder
	sb.WriteString("✨ *Recommended Camps*\n")
	n := len(ranked)
	if n > 5 {
		n = 5
	}
	for _, c := range ranked[:n] {
		sb.WriteString(fmt.Sprintf("• *%s* — %s, ages %s\n", c.Name, c.Category, c.AgeLabel()))
	}
	if n == 0 {
		sb.WriteString("No camps in the catalog yet. Run an ingest first.\n")
	}
	return sb.String()
}

func helpMessage() string {
	return strings.Join([]string{
		"🏕️ *Camp Planner Bot*",
		"",
		"/plan — week-by-week summer plan",
		"/gaps — uncovered weeks per child",
		"/recommend — top camp picks",
		"/tips — next planning tip",
	}, "\n")
}
