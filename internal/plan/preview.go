package plan

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CostImpact summarizes what committing the preview would do to spend.
type CostImpact struct {
	PreviewTotal float64 `json:"preview_total"`
	CurrentTotal float64 `json:"current_total"`
	NewTotal     float64 `json:"new_total"`
	Difference   float64 `json:"difference"`
}

// CommitResult reports the item-wise outcome of a preview commit.
type CommitResult struct {
	Added   int
	Failed  int
	Message string
}

// PreviewMode reports whether the what-if overlay is active.
func (s *State) PreviewMode() bool { return s.previewMode }

// Previews returns the current overlay placements.
func (s *State) Previews() []Placement { return s.previews }

// EnterPreview activates the what-if overlay.
func (s *State) EnterPreview() { s.previewMode = true }

// AddPreview places a virtual placement in the overlay. Preview ids
// carry the preview- prefix so they can never collide with persisted
// ids.
func (s *State) AddPreview(p Placement) (*Placement, error) {
	if err := ValidatePlacement(p); err != nil {
		return nil, err
	}
	p.ID = PreviewIDPrefix + uuid.NewString()
	p.Preview = true
	s.previewMode = true
	s.previews = append(s.previews, p)
	return &p, nil
}

// RemovePreview drops one overlay placement by id.
func (s *State) RemovePreview(id string) {
	for i, p := range s.previews {
		if p.ID == id {
			s.previews = append(s.previews[:i], s.previews[i+1:]...)
			return
		}
	}
}

// Discard clears the overlay without writing anything.
func (s *State) Discard() {
	s.previews = nil
	s.previewMode = false
}

// allDisplay is what the analyzers see: scheduled plus preview when the
// overlay is active, scheduled alone otherwise.
func (s *State) allDisplay() []Placement {
	if !s.previewMode || len(s.previews) == 0 {
		return s.Placements
	}
	out := make([]Placement, 0, len(s.Placements)+len(s.previews))
	out = append(out, s.Placements...)
	out = append(out, s.previews...)
	return out
}

// AllDisplay exposes the composed placement view.
func (s *State) AllDisplay() []Placement { return s.allDisplay() }

// PreviewCostImpact reports the overlay's effect on total cost.
func (s *State) PreviewCostImpact() CostImpact {
	var previewTotal float64
	for _, p := range s.previews {
		if p.Price != nil {
			previewTotal += *p.Price
		}
	}
	var currentTotal float64
	for _, p := range s.Placements {
		if p.Active() && p.Price != nil {
			currentTotal += *p.Price
		}
	}
	return CostImpact{
		PreviewTotal: previewTotal,
		CurrentTotal: currentTotal,
		NewTotal:     currentTotal + previewTotal,
		Difference:   previewTotal,
	}
}

// CommitPreviews persists every overlay placement with status planned.
// Successes and failures are partitioned and reported; the overlay is
// cleared and preview mode exits regardless of the outcome.
func (s *State) CommitPreviews(ctx context.Context) (CommitResult, error) {
	var result CommitResult
	for _, p := range s.previews {
		persisted := p
		persisted.ID = ""
		persisted.Preview = false
		persisted.Status = StatusPlanned
		if _, err := s.adapter.AddScheduledCamp(ctx, s.userID, persisted); err != nil {
			result.Failed++
			continue
		}
		result.Added++
	}

	s.previews = nil
	s.previewMode = false

	result.Message = commitMessage(result.Added, result.Failed)

	if err := s.RefreshPlacements(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func commitMessage(added, failed int) string {
	plural := "s"
	if added == 1 {
		plural = ""
	}
	if failed == 0 {
		return fmt.Sprintf("Added %d camp%s.", added, plural)
	}
	return fmt.Sprintf("Added %d camp%s. %d failed", added, plural, failed)
}
