package taxonomy

import "testing"

func TestCategory(t *testing.T) {
	testCases := []struct {
		tag  string
		want string
	}{
		{"bluestone", CategoryHardscape},
		{"pergola", CategoryStructures},
		{"uplighting", CategoryLighting},
		{"naturalistic", CategoryPlanting},
		{"low_maintenance", CategoryMaintenance},
		{"courtyard", CategoryLayout},
		{"cedar", CategoryMaterials},
		{"modern_minimalist", CategoryStyle},
		{"no_such_tag", CategoryUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.tag, func(t *testing.T) {
			if got := Category(tc.tag); got != tc.want {
				t.Errorf("Category(%q) = %q, want %q", tc.tag, got, tc.want)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	if !Known("fire_pit") {
		t.Error("fire_pit should be in the vocabulary")
	}
	if Known("flying_car") {
		t.Error("flying_car should not be in the vocabulary")
	}
}

func TestLabel(t *testing.T) {
	testCases := []struct {
		tag  string
		want string
	}{
		{"modern_minimalist", "Modern Minimalist"},
		{"large_format_pavers", "Large-Format Pavers"}, // hand-tuned
		{"pollinator_friendly", "Pollinator-Friendly"},
		{"gravel", "Gravel"},
	}

	for _, tc := range testCases {
		if got := Label(tc.tag); got != tc.want {
			t.Errorf("Label(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestTagsBelongToExactlyOneCategory(t *testing.T) {
	seen := make(map[string]string)
	for category, tags := range Taxonomy {
		for _, tag := range tags {
			if prior, ok := seen[tag]; ok {
				t.Errorf("tag %q in both %q and %q", tag, prior, category)
			}
			seen[tag] = category
		}
	}
}

func TestCategoryTags(t *testing.T) {
	tags := CategoryTags(CategoryMaintenance)
	if len(tags) != 3 {
		t.Errorf("maintenance_level has %d tags, want 3", len(tags))
	}
	if CategoryTags("nope") != nil {
		t.Error("unknown category should return nil")
	}
}
