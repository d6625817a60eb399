package achievements

import (
	"encoding/json"
	"fmt"
)

// Tip is one contextual planning hint. A tip is shown only while its
// condition holds and it has not been dismissed.
type Tip struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon"`

	applies func(Stats) bool
}

var tips = []Tip{
	{
		ID: "tip_first_camp", Text: "Start by scheduling one camp — the calendar fills in around it.", Icon: "🏕️",
		applies: func(s Stats) bool { return s.Scheduled == 0 },
	},
	{
		ID: "tip_gaps", Text: "You still have uncovered weeks. Check the gap suggestions for quick fills.", Icon: "📅",
		applies: func(s Stats) bool { return s.Scheduled > 0 && s.CoveragePercent < 100 },
	},
	{
		ID: "tip_favorites", Text: "Favorite camps you like while browsing so they are easy to compare later.", Icon: "⭐",
		applies: func(s Stats) bool { return s.Favorites == 0 },
	},
	{
		ID: "tip_budget", Text: "Set a summer budget in your profile to see spending against it.", Icon: "💰",
		applies: func(s Stats) bool { return s.Budget == nil },
	},
	{
		ID: "tip_over_budget", Text: "Your plan is over budget. Sort by price to find cheaper options.", Icon: "📉",
		applies: func(s Stats) bool { return s.Budget != nil && s.TotalCost > *s.Budget },
	},
	{
		ID: "tip_compare", Text: "Select two or three camps to compare them side by side.", Icon: "⚖️",
		applies: func(s Stats) bool { return s.Favorites >= 2 && !s.ComparisonUsed },
	},
	{
		ID: "tip_variety", Text: "Mixing categories keeps the summer interesting — try something new.", Icon: "🎨",
		applies: func(s Stats) bool { return s.Scheduled >= 3 && s.DistinctCategories == 1 },
	},
	{
		ID: "tip_squads", Text: "Join a squad to coordinate camp weeks with friends.", Icon: "👯",
		applies: func(s Stats) bool { return s.Squads == 0 && s.Scheduled >= 1 },
	},
}

// Tips returns the tips currently applicable to the stats, excluding
// dismissed ones, in catalog order.
func (e *Engine) Tips(stats Stats) ([]Tip, error) {
	dismissed, err := e.dismissed()
	if err != nil {
		return nil, err
	}
	var visible []Tip
	for _, t := range tips {
		if dismissed[t.ID] || !t.applies(stats) {
			continue
		}
		visible = append(visible, t)
	}
	return visible, nil
}

// NextTip cycles through the visible tips, advancing one step per
// call. Returns nil when everything applicable has been dismissed.
func (e *Engine) NextTip(stats Stats) (*Tip, error) {
	visible, err := e.Tips(stats)
	if err != nil {
		return nil, err
	}
	if len(visible) == 0 {
		return nil, nil
	}

	raw, _ := e.kv.Get(keyTipCursor)
	cursor := parseIntOr(raw, 0) % len(visible)
	tip := visible[cursor]
	if err := e.kv.Put(keyTipCursor, fmt.Sprintf("%d", cursor+1)); err != nil {
		return nil, err
	}
	return &tip, nil
}

// DismissTip hides a tip permanently.
func (e *Engine) DismissTip(id string) error {
	dismissed, err := e.dismissed()
	if err != nil {
		return err
	}
	if dismissed[id] {
		return nil
	}
	dismissed[id] = true

	ids := make([]string, 0, len(dismissed))
	for _, t := range tips {
		if dismissed[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal dismissed tips: %w", err)
	}
	if err := e.kv.Put(keyDismissedTips, string(data)); err != nil {
		return fmt.Errorf("failed to persist dismissed tips: %w", err)
	}
	return nil
}

func (e *Engine) dismissed() (map[string]bool, error) {
	raw, err := e.kv.Get(keyDismissedTips)
	if err != nil {
		return nil, fmt.Errorf("failed to read dismissed tips: %w", err)
	}
	dismissed := make(map[string]bool)
	if raw == "" {
		return dismissed, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return dismissed, nil
	}
	for _, id := range ids {
		dismissed[id] = true
	}
	return dismissed, nil
}
