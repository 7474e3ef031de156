package config

// defaultMoveKinds seeds the slicer-token -> kind-id mapping with upper-case
// TYPE: tokens, mostly Cura's spellings plus a few PrusaSlicer-style names.
// A token with no entry here is accounted under its own name; only a move
// with no kind set at all is accounted as "Other".
func defaultMoveKinds() map[string]string {
	return map[string]string{
		"WALL-OUTER":     "Outer wall",
		"WALL-INNER":     "Inner wall",
		"PERIMETER":      "Perimeter",
		"EXTERNAL PERIM": "Outer wall",
		"FILL":           "Infill",
		"SOLID-INFILL":   "Solid infill",
		"TOP-SOLID-INFILL": "Top solid infill",
		"SKIN":           "Top/bottom",
		"SKIRT":          "Skirt",
		"BRIM":           "Brim",
		"SUPPORT":        "Support",
		"SUPPORT-MATERIAL": "Support",
		"SUPPORT-INTERFACE": "Support interface",
		"BRIDGE":         "Bridge",
		"GAP-FILL":       "Gap fill",
		"CUSTOM":         "Custom",
	}
}
