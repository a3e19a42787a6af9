package handler

import "whitelist/internal/contractor/models"

// SaveContractorRequest is the JSON body for POST /contractors.
type SaveContractorRequest struct {
	Name               string   `json:"name"`
	TaxID              string   `json:"tax_id"`
	VATStatus          string   `json:"vat_status"`
	RegistrationNumber *string  `json:"registration_number"`
	CourtRegistryID    *string  `json:"court_registry_id"`
	ResidenceAddress   *string  `json:"residence_address"`
	WorkingAddress     *string  `json:"working_address"`
	Accounts           []string `json:"accounts"`
}

func (r *SaveContractorRequest) toModel() *models.Contractor {
	accounts := r.Accounts
	if accounts == nil {
		accounts = []string{}
	}
	return &models.Contractor{
		Name:               r.Name,
		TaxID:              r.TaxID,
		VATStatus:          r.VATStatus,
		RegistrationNumber: r.RegistrationNumber,
		CourtRegistryID:    r.CourtRegistryID,
		ResidenceAddress:   r.ResidenceAddress,
		WorkingAddress:     r.WorkingAddress,
		Accounts:           accounts,
	}
}
