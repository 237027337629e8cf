package medicine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/medibook/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const medCols = `id, name, manufacturer, description, price, stock, expiry_date,
	category, created_by, created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.Name, &m.Manufacturer, &m.Description, &m.Price, &m.Stock, &m.ExpiryDate,
		&m.Category, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medicines (id, name, manufacturer, description, price, stock, expiry_date, category, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.Name, m.Manufacturer, m.Description, m.Price, m.Stock, m.ExpiryDate, m.Category, m.CreatedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return scanMedicine(r.pool.QueryRow(ctx, `SELECT `+medCols+` FROM medicines WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, pg pagination.Params) ([]*Medicine, int, error) {
	where := []string{}
	args := []interface{}{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicines`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pg.Limit, pg.Offset)
	query := fmt.Sprintf(`SELECT `+medCols+` FROM medicines%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Manufacturer, &m.Description, &m.Price, &m.Stock, &m.ExpiryDate,
			&m.Category, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &m)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ApplyUpdate(ctx context.Context, id uuid.UUID, upd *Update) (*Medicine, error) {
	parts := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		args = append(args, val)
		parts = append(parts, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Manufacturer != nil {
		add("manufacturer", *upd.Manufacturer)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.Stock != nil {
		add("stock", *upd.Stock)
	}
	if upd.ExpiryDate != nil {
		add("expiry_date", *upd.ExpiryDate)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if len(parts) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE medicines SET %s, updated_at = NOW() WHERE id = $%d RETURNING `+medCols,
		strings.Join(parts, ", "), len(args))
	return scanMedicine(r.pool.QueryRow(ctx, query, args...))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ReduceStock(ctx context.Context, id uuid.UUID, qty int) (*Medicine, error) {
	m, err := scanMedicine(r.pool.QueryRow(ctx, `
		UPDATE medicines SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING `+medCols, id, qty))
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing row from a failed stock guard.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInsufficientStock
	}
	return m, err
}
