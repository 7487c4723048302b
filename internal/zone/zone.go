package zone

import (
	"strings"

	"github.com/google/uuid"
)

// Address is the destination a tax or shipping zone is matched against. Addresses
// live in an external address book; the pricing core only reads them.
type Address struct {
	ID         uuid.UUID `json:"id"`
	CountryID  uuid.UUID `json:"countryId"`
	StateName  string    `json:"stateName"` // full name or abbreviation, matched case-insensitively
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
}

// State is one member of a state-based zone.
type State struct {
	ID           uuid.UUID `json:"id"`
	CountryID    uuid.UUID `json:"countryId"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
}

// Zone is a geographic matching unit used to decide whether a tax or shipping rule
// applies to an address. A zone is either country-based, matched on its country set,
// or state-based, matched on individual states. Default marks the fallback zone that
// applies when no address is known.
type Zone struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	CountryBased bool        `json:"countryBased"`
	Default      bool        `json:"default"`
	CountryIDs   []uuid.UUID `json:"countryIds"`
	States       []State     `json:"states"`
}

// Matches reports whether the zone applies to the given address. A nil address is a
// distinct branch rather than an empty-set match: only a Default zone matches it,
// which lets a designated fallback zone apply to carts without a confirmed
// destination.
func (z Zone) Matches(addr *Address) bool {
	if addr == nil {
		return z.Default
	}
	if z.CountryBased {
		for _, id := range z.CountryIDs {
			if id == addr.CountryID {
				return true
			}
		}
		return false
	}
	for _, st := range z.States {
		if st.CountryID != addr.CountryID {
			continue
		}
		if strings.EqualFold(st.Name, addr.StateName) || strings.EqualFold(st.Abbreviation, addr.StateName) {
			return true
		}
	}
	return false
}
