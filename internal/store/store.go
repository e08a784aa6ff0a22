// Package store is a typed CRUD client for the partitioned entity table.
// Entities are addressed by (partition, row key) and stored as JSON.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Partition names map one partition per entity kind.
const (
	PartitionCustomer = "Customer"
	PartitionProduct  = "Product"
	PartitionOrder    = "Order"
)

var ErrNotFound = errors.New("entity not found")

type Client struct{ DB *pgxpool.Pool }

// EnsureSchema creates the entity table if it does not exist yet.
func (c *Client) EnsureSchema(ctx context.Context) error {
	_, err := c.DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS entities (
			partition  TEXT        NOT NULL,
			row_key    TEXT        NOT NULL,
			data       JSONB       NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (partition, row_key)
		)`)
	if err != nil {
		return fmt.Errorf("ensure entities table: %w", err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, partition, rowKey string) ([]byte, error) {
	var data []byte
	err := c.DB.QueryRow(ctx,
		`SELECT data FROM entities WHERE partition=$1 AND row_key=$2`,
		partition, rowKey).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", partition, rowKey, err)
	}
	return data, nil
}

func (c *Client) GetAll(ctx context.Context, partition string) ([][]byte, error) {
	rows, err := c.DB.Query(ctx,
		`SELECT data FROM entities WHERE partition=$1 ORDER BY row_key`, partition)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", partition, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list %s: %w", partition, err)
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

func (c *Client) Insert(ctx context.Context, partition, rowKey string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", partition, rowKey, err)
	}
	_, err = c.DB.Exec(ctx,
		`INSERT INTO entities(partition, row_key, data) VALUES ($1,$2,$3)`,
		partition, rowKey, data)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", partition, rowKey, err)
	}
	return nil
}

// Replace upserts the entity unconditionally. There is no concurrency
// token: the last writer wins, matching the wildcard-ETag writes of the
// original storage layer.
func (c *Client) Replace(ctx context.Context, partition, rowKey string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", partition, rowKey, err)
	}
	_, err = c.DB.Exec(ctx, `
		INSERT INTO entities(partition, row_key, data) VALUES ($1,$2,$3)
		ON CONFLICT (partition, row_key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		partition, rowKey, data)
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", partition, rowKey, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, partition, rowKey string) error {
	_, err := c.DB.Exec(ctx,
		`DELETE FROM entities WHERE partition=$1 AND row_key=$2`, partition, rowKey)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", partition, rowKey, err)
	}
	return nil
}

func (c *Client) Count(ctx context.Context, partition string) (int, error) {
	var n int
	err := c.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM entities WHERE partition=$1`, partition).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", partition, err)
	}
	return n, nil
}
