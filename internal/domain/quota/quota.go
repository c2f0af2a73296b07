// Package quota decides whether an owner may create another record of a
// given kind. It is pure and has no access to storage; callers supply the
// current count.
package quota

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tatame-api/internal/domain"
)

// Resource is a quota-gated record kind.
type Resource string

// Quota-gated resources.
const (
	Session   Resource = "session"
	Technique Resource = "technique"
	Goal      Resource = "goal"
)

// Resources lists every gated resource.
var Resources = []Resource{Session, Technique, Goal}

// Default free-tier limits. The goal limit applies to goals in progress.
const (
	DefaultSessionLimit   = 10
	DefaultTechniqueLimit = 15
	DefaultGoalLimit      = 3
)

// ErrExceeded is the sentinel behind every ExceededError.
var ErrExceeded = errors.New("quota exceeded")

// ExceededError reports that a free-tier owner reached the limit for a
// resource. It is an upsell condition, not a system fault.
type ExceededError struct {
	Resource Resource
	Limit    int
}

// Error implements the error interface.
func (e *ExceededError) Error() string {
	return fmt.Sprintf("%s limit of %d reached", e.Resource, e.Limit)
}

// Unwrap returns ErrExceeded.
func (e *ExceededError) Unwrap() error { return ErrExceeded }

// Policy holds the free-tier limit for each resource.
type Policy struct {
	Limits map[Resource]int
}

// NewDefaultPolicy returns the standard free-tier limits.
func NewDefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Resource]int{
			Session:   DefaultSessionLimit,
			Technique: DefaultTechniqueLimit,
			Goal:      DefaultGoalLimit,
		},
	}
}

var defaultPolicy = NewDefaultPolicy()

// Limit returns the free-tier limit for r, or 0 for an unknown resource.
func (p *Policy) Limit(r Resource) int {
	return p.Limits[r]
}

// Limited reports whether tier is subject to limits at all. Only the
// literal free tier is; expired and cancelled subscriptions are treated
// as unlimited, matching long-standing behavior.
func Limited(tier domain.Tier) bool {
	return tier == domain.TierFree
}

// CanCreate reports whether an owner on tier holding count relevant records
// of kind r may create one more. For goals, count must only include goals
// in progress.
func (p *Policy) CanCreate(r Resource, tier domain.Tier, count int) bool {
	if !Limited(tier) {
		return true
	}
	return count < p.Limit(r)
}

// Check is CanCreate returning an *ExceededError on refusal.
func (p *Policy) Check(r Resource, tier domain.Tier, count int) error {
	if p.CanCreate(r, tier, count) {
		return nil
	}
	return &ExceededError{Resource: r, Limit: p.Limit(r)}
}

// CanCreate applies the default policy.
func CanCreate(r Resource, tier domain.Tier, count int) bool {
	return defaultPolicy.CanCreate(r, tier, count)
}

// Usage describes how much of a quota an owner has used. Limit is nil
// when the tier is unlimited.
type Usage struct {
	Resource Resource `json:"resource"`
	Used     int      `json:"used"`
	Limit    *int     `json:"limit"`
	Reached  bool     `json:"reached"`
}

// Usage reports quota usage for r.
func (p *Policy) Usage(r Resource, tier domain.Tier, count int) Usage {
	u := Usage{Resource: r, Used: count}
	if Limited(tier) {
		limit := p.Limit(r)
		u.Limit = &limit
		u.Reached = count >= limit
	}
	return u
}
