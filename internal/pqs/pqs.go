// Package pqs reads the ledger's active-contract sets from the Participant
// Query Store, a Postgres projection exposing one active(template) row set
// per template with contract_id and JSONB payload columns. Reads reflect the
// store's view at call time; there is no snapshot isolation across calls.
package pqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("no active contract")

type Contract[T any] struct {
	ContractID string
	Payload    T
}

type Pqs struct{ DB *pgxpool.Pool }

func New(db *pgxpool.Pool) *Pqs { return &Pqs{DB: db} }

// ActiveWhere returns the active contracts of a template matching the given
// predicate. The template name is bound as $1; predicate placeholders start
// at $2.
func ActiveWhere[T any](ctx context.Context, p *Pqs, template, where string, args ...any) ([]Contract[T], error) {
	sql := `SELECT contract_id, payload FROM active($1) WHERE ` + where
	qargs := append([]any{template}, args...)
	rows, err := p.DB.Query(ctx, sql, qargs...)
	if err != nil {
		return nil, fmt.Errorf("pqs query %s: %w", template, err)
	}
	defer rows.Close()
	var out []Contract[T]
	for rows.Next() {
		var cid string
		var payload []byte
		if err := rows.Scan(&cid, &payload); err != nil {
			return nil, fmt.Errorf("pqs scan %s: %w", template, err)
		}
		c := Contract[T]{ContractID: cid}
		if err := json.Unmarshal(payload, &c.Payload); err != nil {
			return nil, fmt.Errorf("pqs payload %s: %w", template, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pqs query %s: %w", template, err)
	}
	return out, nil
}

// ByContractID returns the active contract with the given id, or ErrNotFound
// if it is archived or was never visible.
func ByContractID[T any](ctx context.Context, p *Pqs, template, contractID string) (Contract[T], error) {
	var c Contract[T]
	var payload []byte
	err := p.DB.QueryRow(ctx,
		`SELECT contract_id, payload FROM active($1) WHERE contract_id = $2`,
		template, contractID,
	).Scan(&c.ContractID, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, fmt.Errorf("%s %s: %w", template, contractID, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("pqs query %s: %w", template, err)
	}
	if err := json.Unmarshal(payload, &c.Payload); err != nil {
		return c, fmt.Errorf("pqs payload %s: %w", template, err)
	}
	return c, nil
}

// Query runs a raw correlation query and streams rows to scan. Any failure
// fails the whole call; no partial results escape.
func (p *Pqs) Query(ctx context.Context, sql string, args []any, scan func(rows pgx.Rows) error) error {
	rows, err := p.DB.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("pqs query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("pqs query: %w", err)
	}
	return nil
}
