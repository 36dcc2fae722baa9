// Package taxonomy defines the controlled vocabulary used to classify
// landscape portfolio images. Nine category groups cover hardscape,
// structures, lighting, water features, planting style, maintenance level,
// layout, materials, and overall style.
package taxonomy

import "strings"

// Category names.
const (
	CategoryHardscape   = "hardscape"
	CategoryStructures  = "structures"
	CategoryLighting    = "lighting"
	CategoryWater       = "water_features"
	CategoryPlanting    = "planting_style"
	CategoryMaintenance = "maintenance_level"
	CategoryLayout      = "layout"
	CategoryMaterials   = "materials"
	CategoryStyle       = "style"

	// CategoryUnknown is returned for tags outside the vocabulary.
	CategoryUnknown = "unknown"
)

// Taxonomy maps each category to its controlled tags.
var Taxonomy = map[string][]string{
	CategoryHardscape: {
		"large_format_pavers",
		"small_pavers",
		"natural_stone",
		"bluestone",
		"concrete_pavers",
		"gravel",
		"decomposed_granite",
		"retaining_wall",
		"linear_steps",
		"curved_steps",
		"raised_beds",
		"metal_edging",
		"stone_edging",
	},
	CategoryStructures: {
		"pergola",
		"fence",
		"privacy_screen",
		"seating_wall",
		"fire_pit",
		"outdoor_kitchen",
		"arbor",
		"trellis",
		"deck",
		"patio_cover",
	},
	CategoryLighting: {
		"uplighting",
		"path_lights",
		"string_lights",
		"step_lights",
		"accent_lighting",
		"moonlighting",
		"landscape_spotlights",
	},
	CategoryWater: {
		"pondless_waterfall",
		"fountain",
		"reflecting_pool",
		"stream",
		"pond",
	},
	CategoryPlanting: {
		"formal",
		"naturalistic",
		"layered",
		"minimalist",
		"pollinator_friendly",
		"evergreen_heavy",
		"seasonal_color",
		"ornamental_grasses",
		"perennial_borders",
		"mass_planting",
		"mixed_borders",
	},
	CategoryMaintenance: {
		"low_maintenance",
		"moderate_care",
		"high_detail_gardening",
	},
	CategoryLayout: {
		"courtyard",
		"patio_centric",
		"meandering_path",
		"strong_axis",
		"terracing",
		"enclosed_space",
		"open_lawn",
		"garden_rooms",
	},
	CategoryMaterials: {
		"wood_heavy",
		"metal_accents",
		"dark_metal",
		"cedar",
		"black_aluminum",
		"warm_tones",
		"cool_tones",
	},
	CategoryStyle: {
		"modern_minimalist",
		"warm_modern",
		"traditional",
		"cottage_garden",
		"rustic",
		"contemporary",
	},
}

// labels holds hand-tuned display names where title-casing the tag is not
// good enough.
var labels = map[string]string{
	"large_format_pavers":   "Large-Format Pavers",
	"pollinator_friendly":   "Pollinator-Friendly",
	"evergreen_heavy":       "Evergreen-Heavy",
	"layered":               "Layered Planting",
	"high_detail_gardening": "High-Detail Gardening",
	"patio_centric":         "Patio-Centric",
	"wood_heavy":            "Wood-Heavy",
}

var tagCategory = map[string]string{}

func init() {
	for category, tags := range Taxonomy {
		for _, tag := range tags {
			tagCategory[tag] = category
		}
	}
}

// Category returns the category for a tag, or CategoryUnknown.
func Category(tag string) string {
	if c, ok := tagCategory[tag]; ok {
		return c
	}
	return CategoryUnknown
}

// Known reports whether a tag belongs to the controlled vocabulary.
func Known(tag string) bool {
	_, ok := tagCategory[tag]
	return ok
}

// Label returns the human-readable label for a tag.
func Label(tag string) string {
	if l, ok := labels[tag]; ok {
		return l
	}
	words := strings.Split(tag, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CategoryTags returns all tags for a category.
func CategoryTags(category string) []string {
	return Taxonomy[category]
}

// AllTags returns the flattened vocabulary.
func AllTags() []string {
	var all []string
	for _, tags := range Taxonomy {
		all = append(all, tags...)
	}
	return all
}
