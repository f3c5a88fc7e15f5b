package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/price"
)

// HistoryStore implements domain.PriceHistoryStore on PostgreSQL, used when a
// durable archive is configured. Prices and volumes are stored as fixed-point
// integers, matching the in-process representation.
type HistoryStore struct {
	pool *pgxpool.Pool
}

var _ domain.PriceHistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a HistoryStore backed by the given connection pool.
func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

// Append inserts one price point and returns it with the assigned ID.
func (s *HistoryStore) Append(ctx context.Context, p domain.PricePoint) (domain.PricePoint, error) {
	const query = `
		INSERT INTO price_history (contract_id, price, volume, observed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		p.ContractID, int64(p.Price), int64(p.Volume), p.At,
	).Scan(&p.ID)
	if err != nil {
		return domain.PricePoint{}, fmt.Errorf("postgres: append price point for contract %d: %w", p.ContractID, err)
	}
	return p, nil
}

// ListByContract returns points newest first, at most limit (0 = all).
func (s *HistoryStore) ListByContract(ctx context.Context, contractID int64, limit int) ([]domain.PricePoint, error) {
	query := `
		SELECT id, contract_id, price, volume, observed_at
		FROM price_history
		WHERE contract_id = $1
		ORDER BY observed_at DESC, id DESC`
	args := []any{contractID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list price points for contract %d: %w", contractID, err)
	}
	defer rows.Close()

	var out []domain.PricePoint
	for rows.Next() {
		var (
			p       domain.PricePoint
			pv, vol int64
		)
		if err := rows.Scan(&p.ID, &p.ContractID, &pv, &vol, &p.At); err != nil {
			return nil, fmt.Errorf("postgres: scan price point: %w", err)
		}
		p.Price = price.Price(pv)
		p.Volume = price.Price(vol)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate price points: %w", err)
	}
	return out, nil
}
