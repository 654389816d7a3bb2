package cards

import "strings"

var classStyles = map[string]string{
	"ninja":    "stealthy ninja, shadowy figure, dark atmosphere",
	"warrior":  "brave warrior, armored fighter, epic battlefield",
	"wizard":   "mystical wizard, magical energy, arcane symbols",
	"ranger":   "skilled ranger, nature background, bow and arrow",
	"guardian": "protective guardian, shield and armor, defensive stance",
}

// ArtPrompt derives an image-generation prompt from a card's class, name and
// rules text.
func ArtPrompt(rec Record) string {
	var parts []string
	if style, ok := classStyles[rec.Class()]; ok {
		parts = append(parts, style)
	}
	if name := rec.Name(); name != "" {
		parts = append(parts, "themed around "+name)
	}

	rules := strings.ToLower(rec.Get(ColRules))
	switch {
	case strings.Contains(rules, "damage"):
		parts = append(parts, "dynamic action scene")
	case strings.Contains(rules, "defense"), strings.Contains(rules, "prevent"):
		parts = append(parts, "defensive posture")
	}

	parts = append(parts, "fantasy card game art", "high quality", "detailed illustration")
	return strings.Join(parts, ", ")
}
