package persistence

import (
	"fmt"
	"maps"
	"strings"

	"academycore/internal/core"
)

// MergePolicy decides how a persisted collection is combined with the seed
// copy of the same collection on load.
type MergePolicy string

const (
	// Replace keeps the persisted collection as is.
	Replace MergePolicy = "replace"
	// UnionByID keeps every persisted record and appends each seed record
	// whose ID is not already present.
	UnionByID MergePolicy = "union"
)

// Policies maps collections to their merge policy. Collections without an
// entry use Replace.
type Policies map[core.Collection]MergePolicy

// DefaultPolicies returns the built-in policies: coaches, payments and class
// plans are unioned with seed, everything else is replaced.
func DefaultPolicies() Policies {
	return Policies{
		core.CollectionCoaches:    UnionByID,
		core.CollectionPayments:   UnionByID,
		core.CollectionClassPlans: UnionByID,
	}
}

// For returns the policy applied to c.
func (p Policies) For(c core.Collection) MergePolicy {
	if policy, ok := p[c]; ok {
		return policy
	}
	return Replace
}

// ParsePolicies applies overrides in the form "collection=replace|union,..."
// on top of base. An empty string returns a copy of base.
func ParsePolicies(overrides string, base Policies) (Policies, error) {
	out := maps.Clone(base)
	if out == nil {
		out = Policies{}
	}
	known := make(map[core.Collection]bool)
	for _, c := range core.Collections() {
		known[c] = true
	}
	for _, part := range strings.Split(overrides, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("merge policy %q: expected collection=policy", part)
		}
		c := core.Collection(strings.TrimSpace(name))
		if !known[c] {
			return nil, fmt.Errorf("merge policy %q: unknown collection %q", part, c)
		}
		switch policy := MergePolicy(strings.ToLower(strings.TrimSpace(value))); policy {
		case Replace, UnionByID:
			out[c] = policy
		default:
			return nil, fmt.Errorf("merge policy %q: unknown policy %q", part, value)
		}
	}
	return out, nil
}
