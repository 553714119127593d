package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

const uniqueViolation = "23505"

// Collection is one logical collection inside the documents table.
type Collection struct {
	pool *pgxpool.Pool
	name string
}

var _ store.Collection = (*Collection)(nil)

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func encode(doc any) ([]byte, string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, "", fmt.Errorf("pgstore: encode document: %w", err)
	}
	var head struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, "", fmt.Errorf("pgstore: read _id: %w", err)
	}
	return body, head.ID, nil
}

func (c *Collection) Insert(ctx context.Context, doc any) error {
	body, id, err := encode(doc)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("pgstore: insert: document has no _id")
	}
	_, err = c.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`,
		c.name, id, json.RawMessage(body))
	return wrapError(err)
}

func (c *Collection) FindOne(ctx context.Context, preds []query.Predicate, dst any) error {
	var b builder
	where, err := b.where(c.name, preds)
	if err != nil {
		return err
	}
	var body []byte
	err = c.pool.QueryRow(ctx, "SELECT body FROM documents WHERE "+where+" ORDER BY seq LIMIT 1", b.args...).Scan(&body)
	if err != nil {
		return wrapError(err)
	}
	return json.Unmarshal(body, dst)
}

func (c *Collection) Find(ctx context.Context, spec query.Spec, dst any) error {
	var b builder
	sql, err := b.selectSQL(c.name, spec)
	if err != nil {
		return err
	}

	rows, err := c.pool.Query(ctx, sql, b.args...)
	if err != nil {
		return wrapError(err)
	}
	bodies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (json.RawMessage, error) {
		var body []byte
		err := row.Scan(&body)
		return body, err
	})
	if err != nil {
		return wrapError(err)
	}
	if bodies == nil {
		bodies = []json.RawMessage{}
	}

	raw, err := json.Marshal(bodies)
	if err != nil {
		return fmt.Errorf("pgstore: collect rows: %w", err)
	}
	return json.Unmarshal(raw, dst)
}

func (c *Collection) Count(ctx context.Context, preds []query.Predicate) (int64, error) {
	var b builder
	where, err := b.where(c.name, preds)
	if err != nil {
		return 0, err
	}
	var n int64
	err = c.pool.QueryRow(ctx, "SELECT count(*) FROM documents WHERE "+where, b.args...).Scan(&n)
	return n, wrapError(err)
}

func (c *Collection) Replace(ctx context.Context, id string, doc any) error {
	body, _, err := encode(doc)
	if err != nil {
		return err
	}
	tag, err := c.pool.Exec(ctx,
		`UPDATE documents SET body = $3::jsonb || jsonb_build_object('_id', $2::text)
		 WHERE collection = $1 AND id = $2`,
		c.name, id, json.RawMessage(body))
	if err != nil {
		return wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, c.name, id)
	if err != nil {
		return wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Collection) DeleteMany(ctx context.Context, preds []query.Predicate) (int64, error) {
	var b builder
	where, err := b.where(c.name, preds)
	if err != nil {
		return 0, err
	}
	tag, err := c.pool.Exec(ctx, "DELETE FROM documents WHERE "+where, b.args...)
	if err != nil {
		return 0, wrapError(err)
	}
	return tag.RowsAffected(), nil
}
