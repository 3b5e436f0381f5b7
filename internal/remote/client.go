// Package remote talks to the shared relational backend: one table per entity
// collection, each row shaped {id, data}, plus per-table change notifications.
package remote

import (
	"context"

	"github.com/tair/fabstock/internal/domain"
)

// Client is per-table access to the remote backend.
type Client interface {
	// SelectAll returns every row of table.
	SelectAll(ctx context.Context, table string) ([]domain.Record, error)
	// Upsert inserts or replaces rows by id. A failure anywhere in the batch is reported as one error.
	Upsert(ctx context.Context, table string, rows []domain.Record) error
	// DeleteByID removes one row. Deleting a missing id is not an error.
	DeleteByID(ctx context.Context, table, id string) error
	// Subscribe calls onChange whenever any row of table changes, including changes made by this process.
	Subscribe(table string, onChange func()) (unsubscribe func(), err error)
	Close() error
}

// Connector builds a Client from an endpoint URL and an API key.
type Connector func(ctx context.Context, url, key string) (Client, error)
