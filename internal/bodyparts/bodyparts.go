package bodyparts

import (
	"fmt"
	"strings"

	"github.com/2beens/workoutdash/internal/workouts"
)

// Map assigns a body part to an exercise name.
type Map map[string]workouts.BodyPart

// Region maps Legs to Lower and every other known part to Upper.
func Region(bp workouts.BodyPart) workouts.BodyRegion {
	switch bp {
	case workouts.BodyPartUnknown:
		return workouts.BodyRegionUnknown
	case workouts.BodyPartLegs:
		return workouts.BodyRegionLower
	default:
		return workouts.BodyRegionUpper
	}
}

// ParseBodyPart canonicalizes a category name, ignoring case and surrounding space.
func ParseBodyPart(s string) (workouts.BodyPart, bool) {
	s = strings.TrimSpace(s)
	for _, bp := range workouts.BodyParts {
		if strings.EqualFold(s, string(bp)) {
			return bp, true
		}
	}
	return workouts.BodyPartUnknown, false
}

type MatchKind int

const (
	MatchContains MatchKind = iota
	MatchExact
)

// Rule forces a body part for exercise names matching Pattern (case-insensitive).
type Rule struct {
	Kind     MatchKind
	Pattern  string
	BodyPart workouts.BodyPart
}

var DefaultRules = []Rule{
	{Kind: MatchContains, Pattern: "deadlift", BodyPart: workouts.BodyPartLegs},
	{Kind: MatchContains, Pattern: "leg extension", BodyPart: workouts.BodyPartLegs},
	{Kind: MatchExact, Pattern: "Cable Pull Through", BodyPart: workouts.BodyPartLegs},
}

func (r Rule) Matches(exerciseName string) bool {
	switch r.Kind {
	case MatchExact:
		return strings.EqualFold(strings.TrimSpace(exerciseName), r.Pattern)
	default:
		return strings.Contains(strings.ToLower(exerciseName), strings.ToLower(r.Pattern))
	}
}

func (r Rule) String() string {
	if r.Kind == MatchExact {
		return fmt.Sprintf("%q should be %s", r.Pattern, r.BodyPart)
	}
	return fmt.Sprintf("Any exercise with %q should be classified as %s", r.Pattern, r.BodyPart)
}

// ApplyRules returns the body part of the first matching rule.
func ApplyRules(exerciseName string, rules []Rule) (workouts.BodyPart, bool) {
	for _, r := range rules {
		if r.Matches(exerciseName) {
			return r.BodyPart, true
		}
	}
	return workouts.BodyPartUnknown, false
}

// RulesText renders the allowed categories and the rules as prompt text.
func RulesText(rules []Rule) string {
	parts := make([]string, 0, len(workouts.BodyParts))
	for _, bp := range workouts.BodyParts {
		parts = append(parts, string(bp))
	}

	var sb strings.Builder
	sb.WriteString("Use only the following categories: ")
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(".\n")
	if len(rules) > 0 {
		sb.WriteString("\nRules:\n")
		for _, r := range rules {
			sb.WriteString("- ")
			sb.WriteString(r.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
