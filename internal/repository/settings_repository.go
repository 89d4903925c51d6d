package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Settings document keys.
const (
	SettingsKeyGeneral = "general"
	SettingsKeyEmail   = "email"
)

// SettingsRepository stores singleton configuration documents as raw JSON and
// the per-priority SLA targets.
type SettingsRepository interface {
	GetDocument(ctx context.Context, key string) ([]byte, error)
	// MergeDocument upserts the document, merging fields into any existing
	// value rather than replacing it wholesale.
	MergeDocument(ctx context.Context, key string, value []byte) error

	ListSLAConfig(ctx context.Context) ([]domain.SLAConfig, error)
	GetSLAConfig(ctx context.Context, id string) (*domain.SLAConfig, error)
	UpdateSLAConfig(ctx context.Context, cfg *domain.SLAConfig) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a Postgres-backed implementation.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) GetDocument(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key=$1`, key).Scan(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func (r *settingsRepository) MergeDocument(ctx context.Context, key string, value []byte) error {
	const query = `
        INSERT INTO settings (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = settings.value || EXCLUDED.value, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}

func (r *settingsRepository) ListSLAConfig(ctx context.Context) ([]domain.SLAConfig, error) {
	const query = `
        SELECT id, priority, response_hours, resolution_hours, updated_at
        FROM sla_config ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAConfig
	for rows.Next() {
		var cfg domain.SLAConfig
		if err := rows.Scan(&cfg.ID, &cfg.Priority, &cfg.ResponseHours, &cfg.ResolutionHours, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, cfg)
	}
	return result, rows.Err()
}

func (r *settingsRepository) GetSLAConfig(ctx context.Context, id string) (*domain.SLAConfig, error) {
	const query = `
        SELECT id, priority, response_hours, resolution_hours, updated_at
        FROM sla_config WHERE id=$1`
	var cfg domain.SLAConfig
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&cfg.ID, &cfg.Priority, &cfg.ResponseHours, &cfg.ResolutionHours, &cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *settingsRepository) UpdateSLAConfig(ctx context.Context, cfg *domain.SLAConfig) error {
	const query = `
        UPDATE sla_config SET response_hours=$1, resolution_hours=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query, cfg.ResponseHours, cfg.ResolutionHours, cfg.ID).Scan(&cfg.UpdatedAt); err != nil {
		return err
	}
	return nil
}
