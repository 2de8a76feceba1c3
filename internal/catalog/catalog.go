// Package catalog holds the static service catalog: display metadata per
// service type. Loaded once per process, never mutated.
package catalog

import (
	"github.com/suleigolden/sulber-core/internal/entity"
)

type Entry struct {
	Type                    entity.ServiceType `json:"type"`
	Title                   string             `json:"title"`
	PriceCents              int64              `json:"priceCents"`
	Currency                string             `json:"currency"`
	Included                []string           `json:"included"`
	RequirementsForCustomer []string           `json:"requirements_for_customer"`
	RequirementsForProvider []string           `json:"requirements_for_provider"`
}

var services = []Entry{
	{
		Type:       entity.ServiceDrivewayCarWash,
		Title:      "Driveway Car Wash",
		PriceCents: 4500,
		Currency:   "CAD",
		Included: []string{
			"Exterior hand wash and rinse",
			"Wheel and tire cleaning",
			"Window wipe-down",
		},
		RequirementsForCustomer: []string{
			"Vehicle parked in an accessible driveway",
			"Access to an outdoor water tap",
		},
		RequirementsForProvider: []string{
			"Own wash supplies and hose",
		},
	},
	{
		Type:       entity.ServiceSnowShoveling,
		Title:      "Snow Shoveling",
		PriceCents: 6000,
		Currency:   "CAD",
		Included: []string{
			"Driveway and walkway clearing",
			"Salting of cleared surfaces",
		},
		RequirementsForCustomer: []string{
			"Driveway free of parked vehicles",
		},
		RequirementsForProvider: []string{
			"Own shovel and salt",
		},
	},
	{
		Type:       entity.ServiceParkingLotCleaning,
		Title:      "Parking Lot Cleaning",
		PriceCents: 12000,
		Currency:   "CAD",
		Included: []string{
			"Debris and litter removal",
			"Sweeping of the full lot surface",
			"Drain grate clearing",
		},
		RequirementsForCustomer: []string{
			"Lot sections closed off during cleaning",
		},
		RequirementsForProvider: []string{
			"Commercial sweeping equipment",
		},
	},
}

// All returns the full catalog.
func All() []Entry {
	out := make([]Entry, len(services))
	copy(out, services)
	return out
}

// Lookup returns the entry for a service type. ok is false for unknown
// codes; callers must handle that case and fall back to the raw code.
func Lookup(t entity.ServiceType) (Entry, bool) {
	for _, s := range services {
		if s.Type == t {
			return s, true
		}
	}
	return Entry{}, false
}

// DisplayTitle resolves the human title for a type, degrading to the raw
// code string when the type is not in the catalog.
func DisplayTitle(t entity.ServiceType) string {
	if e, ok := Lookup(t); ok {
		return e.Title
	}
	return string(t)
}
