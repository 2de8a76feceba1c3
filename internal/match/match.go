// Package match decides whether a job's service address falls inside a
// provider's declared service area.
package match

import (
	"strings"

	"github.com/suleigolden/sulber-core/internal/entity"
)

// Normalize lowers and trims an address field so that comparisons ignore
// case and surrounding whitespace. Absent fields normalize to "".
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// InServiceArea matches job and provider addresses: same country AND
// (same state OR same city OR same street). Country is the mandatory
// anchor; any one finer-grained overlap is enough. This is a deliberately
// loose locality filter, not hierarchical containment.
//
// A job with no country set never matches — both sides of the anchor must
// be non-empty. That is a documented policy choice, not an oversight.
func InServiceArea(job, provider entity.Address) bool {
	jobCountry := Normalize(job.Country)
	providerCountry := Normalize(provider.Country)
	if jobCountry == "" || providerCountry == "" || jobCountry != providerCountry {
		return false
	}

	same := func(a, b string) bool {
		a, b = Normalize(a), Normalize(b)
		return a != "" && b != "" && a == b
	}

	return same(job.State, provider.State) ||
		same(job.City, provider.City) ||
		same(job.Street, provider.Street)
}

// Available reports whether a job can be offered to the given provider
// address: still pending, not yet assigned, and inside the service area.
// A nil provider address matches nothing.
func Available(j *entity.Job, provider *entity.Address) bool {
	if provider == nil {
		return false
	}
	if j.Status != entity.StatusPending || j.ProviderID != nil {
		return false
	}
	return InServiceArea(j.Address, *provider)
}
