package mysql

import (
	"context"
	"database/sql"

	"nevado_reviews/internal/domain"
)

func (r *Repo) AllConfig(ctx context.Context) ([]domain.ConfigEntry, error) {
	rows, err := r.db.QueryContext(ctx, allConfigSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConfigEntry
	for rows.Next() {
		var e domain.ConfigEntry
		if err := rows.Scan(&e.Key, &e.Value, &e.Description, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) GetConfig(ctx context.Context, key string) (domain.ConfigEntry, error) {
	var e domain.ConfigEntry
	err := r.db.QueryRowContext(ctx, getConfigSQL, key).
		Scan(&e.Key, &e.Value, &e.Description, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.ConfigEntry{}, domain.ErrNotFound
	}
	return e, err
}

func (r *Repo) UpsertConfig(ctx context.Context, e domain.ConfigEntry) error {
	_, err := r.db.ExecContext(ctx, upsertConfigSQL, e.Key, e.Value, e.Description, e.UpdatedAt)
	return err
}

func (r *Repo) DeleteConfig(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, deleteConfigSQL, key)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
