// Package models defines the contractor aggregate shared by the registry
// client, the store, and the service layer.
package models

// Contractor is a business entity identified by its tax id (NIP), enriched
// from the national whitelist registry and persisted with its bank account
// numbers as one aggregate.
//
// RegistrationNumber (REGON), CourtRegistryID (KRS) and both addresses are
// pointers because the registry schema does not guarantee them; absence is
// meaningful (e.g. a nil CourtRegistryID means the entity is not
// court-registered) and must survive the round trip through storage.
type Contractor struct {
	// ID is the storage-generated identifier. Zero for contractors that have
	// not been persisted yet (e.g. fresh registry lookups).
	ID                 int64    `json:"id,omitempty"`
	Name               string   `json:"name"`
	TaxID              string   `json:"tax_id"`
	VATStatus          string   `json:"vat_status"`
	RegistrationNumber *string  `json:"registration_number,omitempty"`
	CourtRegistryID    *string  `json:"court_registry_id,omitempty"`
	ResidenceAddress   *string  `json:"residence_address,omitempty"`
	WorkingAddress     *string  `json:"working_address,omitempty"`
	Accounts           []string `json:"accounts"`
}
