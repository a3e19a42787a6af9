package handler

import "whitelist/internal/contractor/models"

// ContractorResponse is the JSON shape of a single contractor.
type ContractorResponse struct {
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

// ContractorListResponse is the JSON shape of one search page.
type ContractorListResponse struct {
	Contractors []ContractorResponse `json:"contractors"`
	Page        uint                 `json:"page"`
	Count       int                  `json:"count"`
}

func toContractorResponse(c *models.Contractor) ContractorResponse {
	accounts := c.Accounts
	if accounts == nil {
		accounts = []string{}
	}
	return ContractorResponse{
		ID:                 c.ID,
		Name:               c.Name,
		TaxID:              c.TaxID,
		VATStatus:          c.VATStatus,
		RegistrationNumber: c.RegistrationNumber,
		CourtRegistryID:    c.CourtRegistryID,
		ResidenceAddress:   c.ResidenceAddress,
		WorkingAddress:     c.WorkingAddress,
		Accounts:           accounts,
	}
}

func toContractorListResponse(contractors []*models.Contractor, page uint) ContractorListResponse {
	out := make([]ContractorResponse, 0, len(contractors))
	for _, c := range contractors {
		out = append(out, toContractorResponse(c))
	}
	return ContractorListResponse{Contractors: out, Page: page, Count: len(out)}
}
