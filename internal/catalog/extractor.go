package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"camp-planner/internal/llm"
)

// ListingData is the raw material the extractor works from: one camp's
// directory listing with its cleaned page text.
type ListingData struct {
	ID        string
	Name      string
	Website   string
	UpdatedAt string
	Text      string
}

// ExtractCamp uses the LLM to normalize a scraped listing into a
// structured Camp, including declared sessions and availability.
func ExtractCamp(ctx context.Context, textGen llm.TextGenerator, listing ListingData) (*Camp, error) {
	prompt := fmt.Sprintf(`
	You are a helpful assistant that extracts structured summer camp information from directory page text.
	Extract the camp's category (one or two words, e.g. "Beach", "Art", "STEM"), a one-sentence description,
	the age range, the weekly price range in dollars, the daily hours (e.g. "9am-3pm"), the street address,
	the registration status, whether extended care / food / transport / sibling discounts are offered,
	and every dated summer session you can find.

	Return the output as a JSON object with the following structure:
	{
		"category": "Category",
		"description": "One sentence",
		"min_age": 5,
		"max_age": 12,
		"min_price": 250,
		"max_price": 400,
		"hours": "9am-3pm",
		"address": "Street address",
		"registration_status": "open",
		"features": {"extended_care": false, "food_included": false, "transport": false, "sibling_discount": false},
		"extracted": {"sessions": [{"label": "Session 1", "start_date": "2026-06-08", "end_date": "2026-06-12"}], "availability": "open"}
	}

	Dates must be YYYY-MM-DD. Omit min_price and max_price entirely if no price is published.
	Ensure the output is valid JSON. Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

	Page text for "%s":
	%s
	`, listing.Name, listing.Text)

	resp, err := textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get LLM response: %w", err)
	}

	var camp Camp
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp)), &camp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal LLM response into Camp: %w. LLM Response: %s", err, resp)
	}

	camp.ID = listing.ID
	camp.Name = listing.Name
	camp.Website = listing.Website
	camp.UpdatedAt = listing.UpdatedAt

	if err := ValidateID(camp.ID); err != nil {
		return nil, err
	}
	return &camp, nil
}
