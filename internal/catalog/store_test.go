package catalog

import "testing"

func price(v float64) *float64 { return &v }

func testCamps() []Camp {
	return []Camp{
		{ID: "surf-camp", Name: "Surf Camp", Category: "Beach", MinAge: 8, MaxAge: 14, MinPrice: price(400)},
		{ID: "art-studio", Name: "Art Studio", Category: "Art", MinAge: 5, MaxAge: 12, MinPrice: price(250)},
		{ID: "dance-week", Name: "Dance Week", Category: "Dance", MinAge: 6, MaxAge: 10, MinPrice: price(300)},
	}
}

func TestStoreGet(t *testing.T) {
	s := NewStore(testCamps())

	c := s.Get("surf-camp")
	if c == nil {
		t.Fatal("Expected to resolve surf-camp, got nil")
	}
	if c.Name != "Surf Camp" {
		t.Errorf("Expected 'Surf Camp', got '%s'", c.Name)
	}

	t.Run("StableIdentity", func(t *testing.T) {
		if s.Get("surf-camp") != c {
			t.Error("Expected repeated Get to return the same instance")
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if s.Get("no-such-camp") != nil {
			t.Error("Expected nil for unknown id")
		}
	})
}

func TestStoreSearch(t *testing.T) {
	s := NewStore(testCamps())

	t.Run("NameSubstring", func(t *testing.T) {
		got := s.Search("surf")
		if len(got) != 1 || got[0].ID != "surf-camp" {
			t.Errorf("Expected [surf-camp], got %v", got)
		}
	})

	t.Run("CategoryCaseInsensitive", func(t *testing.T) {
		got := s.Search("ART")
		if len(got) != 1 || got[0].ID != "art-studio" {
			t.Errorf("Expected [art-studio], got %v", got)
		}
	})

	t.Run("EmptyMatchesAll", func(t *testing.T) {
		if got := s.Search(""); len(got) != 3 {
			t.Errorf("Expected all 3 camps, got %d", len(got))
		}
	})

	t.Run("NoDescriptionMatch", func(t *testing.T) {
		s := NewStore([]Camp{{ID: "a", Name: "Alpha", Category: "Outdoors", Description: "surfing lessons"}})
		if got := s.Search("surfing"); len(got) != 0 {
			t.Errorf("Expected description not to be searched, got %d results", len(got))
		}
	})
}

func TestValidateID(t *testing.T) {
	valid := []string{"surf-camp", "a", "camp2026", "x-y-z"}
	for _, id := range valid {
		if err := ValidateID(id); err != nil {
			t.Errorf("Expected '%s' to be valid: %v", id, err)
		}
	}

	invalid := []string{"", "-surf", "surf-", "Surf-Camp", "surf camp", "café"}
	for _, id := range invalid {
		if err := ValidateID(id); err == nil {
			t.Errorf("Expected '%s' to be invalid", id)
		}
	}
}

func TestCampAgeRange(t *testing.T) {
	c := Camp{MinAge: 0, MaxAge: 0}
	min, max := c.AgeRange()
	if min != 0 || max != 100 {
		t.Errorf("Expected open bounds [0,100], got [%d,%d]", min, max)
	}
	if !c.FitsAge(8) {
		t.Error("Expected open-bounded camp to fit any age")
	}

	c = Camp{MinAge: 8, MaxAge: 14}
	if c.FitsAge(7) || !c.FitsAge(8) || !c.FitsAge(14) || c.FitsAge(15) {
		t.Error("Age bounds should be inclusive")
	}
}
