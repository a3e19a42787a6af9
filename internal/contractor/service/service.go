// Package service composes the registry client and the contractor store
// behind the three operations the transport layer exposes: lookup by tax id,
// save, and paginated listing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	contractormetrics "whitelist/internal/contractor/metrics"
	"whitelist/internal/contractor/models"
	"whitelist/internal/contractor/registry"
	"whitelist/internal/sentinel"
	dErrors "whitelist/pkg/domain-errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RegistryClient looks up a contractor in the external registry.
// found is false with a nil error when the registry has no subject for the
// tax id; that outcome is not a failure.
type RegistryClient interface {
	Lookup(ctx context.Context, taxID string) (c *models.Contractor, found bool, err error)
}

// Store persists contractor aggregates.
type Store interface {
	Save(ctx context.Context, contractor *models.Contractor) error
	Search(ctx context.Context, page, pageSize uint, filter string) ([]*models.Contractor, error)
}

// Service orchestrates contractor operations. Lookup never writes storage;
// the caller decides whether a looked-up contractor gets saved.
type Service struct {
	registry RegistryClient
	store    Store
	logger   *slog.Logger
	metrics  *contractormetrics.Metrics
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithMetrics attaches prometheus metrics to the service.
func WithMetrics(m *contractormetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a contractor service.
func New(registryClient RegistryClient, store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		registry: registryClient,
		store:    store,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LookupContractor queries the external registry for the given tax id.
// Not-found surfaces as CodeNotFound, registry outages as CodeUnavailable,
// and schema mismatches as CodeInternal, so the shell can keep them apart.
func (s *Service) LookupContractor(ctx context.Context, taxID string) (*models.Contractor, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tax id is required")
	}

	contractor, found, err := s.registry.Lookup(ctx, taxID)
	if err != nil {
		s.incrementLookup("error")
		if registry.IsKind(err, registry.KindDecode) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registry response did not match expected schema")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry lookup failed")
	}
	if !found {
		s.incrementLookup("not_found")
		return nil, dErrors.New(dErrors.CodeNotFound, "no contractor registered for this tax id")
	}

	s.incrementLookup("found")
	return contractor, nil
}

// SaveContractor persists the contractor with its account numbers.
func (s *Service) SaveContractor(ctx context.Context, contractor *models.Contractor) error {
	if contractor == nil {
		return dErrors.New(dErrors.CodeBadRequest, "contractor is required")
	}
	if strings.TrimSpace(contractor.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "contractor name is required")
	}
	if strings.TrimSpace(contractor.TaxID) == "" {
		return dErrors.New(dErrors.CodeValidation, "contractor tax id is required")
	}

	if err := s.store.Save(ctx, contractor); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return dErrors.New(dErrors.CodeConflict, "contractor with this tax id already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contractor")
	}

	if s.metrics != nil {
		s.metrics.IncrementSaved()
	}
	return nil
}

// ListContractors returns one page of stored contractors. Page size defaults
// to 20 and is capped at 100; page 0 behaves like page 1.
func (s *Service) ListContractors(ctx context.Context, page, pageSize uint, filter string) ([]*models.Contractor, error) {
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	start := time.Now()
	contractors, err := s.store.Search(ctx, page, pageSize, strings.TrimSpace(filter))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search contractors")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(start)
	}
	return contractors, nil
}

func (s *Service) incrementLookup(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLookup(outcome)
	}
}
