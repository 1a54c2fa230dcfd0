package candidate

import (
	"strings"

	"github.com/cognicore/koncept/pkg/koncept/pattern"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// RelevantTo reports whether this composition could have mattered in an
// episode: all component predicates were present, the pattern was actionable
// given what was done, it relates to how the episode ended, and the episode
// shows enough activity for timing to plausibly apply.
func (c *Candidate) RelevantTo(ep Evidence) bool {
	set := predicate.NewSet(ep.Predicates...)
	return c.allComponentsPresent(set) &&
		c.actionableInContext(set, ep.Actions) &&
		c.relatesToOutcome(ep.Outcome) &&
		temporallyRelevant(set, ep.Actions)
}

// allComponentsPresent checks each template independently against the set,
// with variables as wildcards; negated templates must match nothing.
func (c *Candidate) allComponentsPresent(set *predicate.Set) bool {
	for _, t := range c.Pattern.Templates {
		if templateMatchesAny(t, set) == t.Negated {
			return false
		}
	}
	return true
}

func templateMatchesAny(t pattern.Template, set *predicate.Set) bool {
	for _, p := range set.GetByName(t.Name) {
		if len(p.Args) != len(t.Args) {
			continue
		}
		ok := true
		for i, a := range t.Args {
			if !a.Variable && a.Value != p.Args[i].Value {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (c *Candidate) actionableInContext(set *predicate.Set, actions []string) bool {
	name := strings.ToLower(c.Pattern.Name)
	switch {
	case strings.Contains(name, "accessibility"):
		return anyActionKeyword(actions, manipulationKeywords) &&
			anyPredicateName(set, "near", "color", "type", "movable", "openable")
	case strings.Contains(name, "safety"):
		return anyActionKeyword(actions, navigationKeywords) &&
			anyPredicateName(set, "path", "dangerous", "safe", "blocked", "clear")
	}
	return anyPredicateName(set,
		"near", "far", "accessible", "blocked", "open", "closed",
		"movable", "fixed", "available", "busy", "reachable")
}

func (c *Candidate) relatesToOutcome(outcome string) bool {
	name := strings.ToLower(c.Pattern.Name)
	lower := strings.ToLower(outcome)
	switch {
	case strings.Contains(name, "accessibility"):
		return containsAny(lower, "unlock", "open", "reach", "obtain", "get", "pickup",
			"success", "goal", "complete", "achieve")
	case strings.Contains(name, "safety"):
		return containsAny(lower, "safe", "danger", "avoid", "navigate", "reach", "arrive",
			"path", "route", "travel")
	}
	return strings.TrimSpace(outcome) != ""
}

// temporallyRelevant is a coarse gate: enough predicates and at least one
// action indicate the pattern could have informed a decision.
func temporallyRelevant(set *predicate.Set, actions []string) bool {
	return set.Size() >= 2 && len(actions) >= 1
}

var manipulationKeywords = []string{
	"pickup", "grab", "take", "use", "move", "approach",
	"open", "unlock", "interact", "reach", "get",
}

var navigationKeywords = []string{
	"move", "go", "navigate", "walk", "travel", "path", "route",
}

func anyActionKeyword(actions []string, keywords []string) bool {
	for _, action := range actions {
		if containsAny(strings.ToLower(action), keywords...) {
			return true
		}
	}
	return false
}

func anyPredicateName(set *predicate.Set, names ...string) bool {
	for _, name := range names {
		if len(set.GetByName(name)) > 0 {
			return true
		}
	}
	return false
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
