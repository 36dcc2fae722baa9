package vision

import (
	"fmt"
	"strings"
)

// renderSalesBrief formats the analysis as a plain-text client profile with
// a fixed section order.
func renderSalesBrief(a *Analysis) string {
	var b strings.Builder

	b.WriteString("CLIENT DESIGN PROFILE\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(a.Themes) > 0 {
		b.WriteString("PRIMARY THEMES:\n")
		for i, theme := range a.Themes {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "• %s (%.0f%% of selections)\n", theme.Name, theme.Confidence*100)
		}
		b.WriteString("\n")
	}

	if len(a.TopElements) > 0 {
		b.WriteString("TOP DESIGN ELEMENTS:\n")
		for i, elem := range a.TopElements {
			if i == 8 {
				break
			}
			fmt.Fprintf(&b, "• %s (%d images, %.0f%%)\n", elem.Label, elem.Count, elem.Percentage)
		}
		b.WriteString("\n")
	}

	if len(a.Materials) > 0 {
		fmt.Fprintf(&b, "MATERIAL PREFERENCES: %s\n\n", strings.Join(a.Materials, ", "))
	}
	if len(a.PlantingSignals) > 0 {
		fmt.Fprintf(&b, "PLANTING STYLE: %s\n\n", strings.Join(a.PlantingSignals, ", "))
	}
	if a.MaintenanceVibe != "" {
		fmt.Fprintf(&b, "MAINTENANCE EXPECTATION: %s\n\n", a.MaintenanceVibe)
	}

	if len(a.Insights) > 0 {
		b.WriteString("KEY INSIGHTS:\n")
		for _, insight := range a.Insights {
			fmt.Fprintf(&b, "- %s\n", insight)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func lowerLabel(label string) string {
	return strings.ToLower(label)
}
