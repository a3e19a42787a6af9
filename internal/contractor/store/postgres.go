// Package store persists contractor aggregates. A contractor row owns zero or
// more account_numbers rows; save writes both as one transaction and search
// rebuilds aggregates from the joined rows.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"whitelist/internal/contractor/models"
	"whitelist/internal/sentinel"
)

// PostgresStore persists contractors in PostgreSQL. It owns no connections
// itself; the process-wide pool is injected at construction.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed contractor store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save inserts the contractor and all of its account numbers as a single
// atomic unit. The deferred rollback guarantees no partial state survives a
// failure at any stage; a concurrent Search can never observe the parent row
// without its children because the transaction commits only after every child
// insert succeeded.
//
// Tax ids are unique; saving the same tax id twice returns
// sentinel.ErrAlreadyUsed.
func (s *PostgresStore) Save(ctx context.Context, contractor *models.Contractor) error {
	if contractor == nil {
		return fmt.Errorf("contractor is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is a no-op
	}()

	var contractorID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO contractors (name, tax_id, vat_status, registration_number, court_registry_id, residence_address, working_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		contractor.Name,
		contractor.TaxID,
		contractor.VATStatus,
		contractor.RegistrationNumber,
		contractor.CourtRegistryID,
		contractor.ResidenceAddress,
		contractor.WorkingAddress,
	).Scan(&contractorID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tax id must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert contractor: %w", err)
	}

	for _, account := range contractor.Accounts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO account_numbers (contractor_id, account_number)
			VALUES ($1, $2)
		`, contractorID, account); err != nil {
			return fmt.Errorf("insert account number: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}

	contractor.ID = contractorID
	return nil
}

// Search returns one page of contractors with their full account lists,
// optionally filtered by a case-insensitive substring over name or tax id.
// An empty filter matches everything.
//
// Pages are 1-based; page 0 behaves like page 1. The filter applies before
// pagination, so pageSize bounds the number of contractors, not joined rows.
// Ordering by contractor id ascending (insertion order) is what makes paging
// stable across calls.
func (s *PostgresStore) Search(ctx context.Context, page, pageSize uint, filter string) ([]*models.Contractor, error) {
	offset := uint(0)
	if page > 1 {
		offset = (page - 1) * pageSize
	}

	// The inner query selects the page of matching contractor ids first;
	// joining against account_numbers afterwards fans out one row per
	// account (or a single NULL row for contractors without accounts).
	rows, err := s.db.QueryContext(ctx, `
		WITH page AS (
			SELECT id
			FROM contractors
			WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR tax_id ILIKE '%' || $1 || '%'
			ORDER BY id ASC
			LIMIT $2 OFFSET $3
		)
		SELECT c.id, c.name, c.tax_id, c.vat_status, c.registration_number, c.court_registry_id, c.residence_address, c.working_address, a.account_number
		FROM contractors c
		JOIN page ON page.id = c.id
		LEFT JOIN account_numbers a ON a.contractor_id = c.id
		ORDER BY c.id ASC, a.id ASC
	`, escapeLike(filter), int64(pageSize), int64(offset))
	if err != nil {
		return nil, fmt.Errorf("search contractors: %w", err)
	}
	defer rows.Close()

	contractors, err := foldRows(rows)
	if err != nil {
		return nil, fmt.Errorf("search contractors: %w", err)
	}
	return contractors, nil
}

// foldRows regroups the flat contractor/account row stream into one aggregate
// per distinct contractor id. Accumulation is keyed by id, so grouping stays
// correct even if the query ever returned rows for the same contractor
// non-consecutively; output preserves first-seen order.
func foldRows(rows *sql.Rows) ([]*models.Contractor, error) {
	byID := make(map[int64]*models.Contractor)
	order := make([]int64, 0)

	for rows.Next() {
		var c models.Contractor
		var account sql.NullString
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.TaxID,
			&c.VATStatus,
			&c.RegistrationNumber,
			&c.CourtRegistryID,
			&c.ResidenceAddress,
			&c.WorkingAddress,
			&account,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		agg, ok := byID[c.ID]
		if !ok {
			c.Accounts = []string{}
			agg = &c
			byID[c.ID] = agg
			order = append(order, c.ID)
		}
		if account.Valid {
			agg.Accounts = append(agg.Accounts, account.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	contractors := make([]*models.Contractor, 0, len(order))
	for _, id := range order {
		contractors = append(contractors, byID[id])
	}
	return contractors, nil
}

// escapeLike neutralizes LIKE metacharacters so the filter is matched as a
// literal substring.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
