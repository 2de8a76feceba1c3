package match_test

import (
	"testing"

	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/match"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Toronto ": "toronto",
		"ON":         "on",
		"":           "",
		"   ":        "",
	}
	for in, want := range cases {
		if got := match.Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInServiceArea_CaseAndWhitespaceInsensitive(t *testing.T) {
	job := entity.Address{Country: "Canada", State: "ON", City: "Toronto"}
	provider := entity.Address{Country: "  CANADA ", State: "on"}

	if !match.InServiceArea(job, provider) {
		t.Fatalf("expected match regardless of case/whitespace")
	}

	canonical := entity.Address{Country: "canada", State: "on"}
	if match.InServiceArea(job, provider) != match.InServiceArea(job, canonical) {
		t.Fatalf("normalized and raw pair must agree")
	}
}

func TestInServiceArea_CountryIsMandatoryAnchor(t *testing.T) {
	provider := entity.Address{Country: "Canada", State: "ON"}

	// same state but no job country: never matches
	job := entity.Address{State: "ON", City: "Toronto"}
	if match.InServiceArea(job, provider) {
		t.Fatalf("job without country must not match")
	}

	// provider without country
	if match.InServiceArea(entity.Address{Country: "Canada", State: "ON"}, entity.Address{State: "ON"}) {
		t.Fatalf("provider without country must not match")
	}

	// different countries
	if match.InServiceArea(entity.Address{Country: "USA", State: "ON"}, provider) {
		t.Fatalf("different countries must not match")
	}
}

func TestInServiceArea_AnyRegionOverlapSuffices(t *testing.T) {
	job := entity.Address{Country: "Canada", State: "ON", City: "Toronto", Street: "1 King St"}

	cases := []struct {
		name     string
		provider entity.Address
		want     bool
	}{
		{"state only", entity.Address{Country: "Canada", State: "ON"}, true},
		{"city only", entity.Address{Country: "Canada", City: "toronto"}, true},
		{"street only", entity.Address{Country: "Canada", Street: "1 KING ST"}, true},
		{"country only", entity.Address{Country: "Canada"}, false},
		{"no overlap", entity.Address{Country: "Canada", State: "BC", City: "Vancouver"}, false},
	}
	for _, tc := range cases {
		if got := match.InServiceArea(job, tc.provider); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAvailable(t *testing.T) {
	addr := entity.Address{Country: "Canada", State: "ON"}
	providerID := "p1"

	pending := &entity.Job{Status: entity.StatusPending, Address: entity.Address{Country: "Canada", State: "ON", City: "Toronto"}}
	if !match.Available(pending, &addr) {
		t.Fatalf("pending unassigned matching job must be available")
	}

	if match.Available(pending, nil) {
		t.Fatalf("nil provider address must match nothing")
	}

	assigned := &entity.Job{Status: entity.StatusPending, ProviderID: &providerID, Address: pending.Address}
	if match.Available(assigned, &addr) {
		t.Fatalf("assigned job must not be available")
	}

	accepted := &entity.Job{Status: entity.StatusAccepted, Address: pending.Address}
	if match.Available(accepted, &addr) {
		t.Fatalf("non-pending job must not be available")
	}
}
