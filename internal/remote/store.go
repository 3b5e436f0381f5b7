package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

const upsertBatchSize = 100

// tableRow is the storage shape shared by every collection table.
type tableRow struct {
	ID   string `gorm:"column:id;primaryKey"`
	Data string `gorm:"column:data;type:jsonb;not null"`
}

// EnsureTables creates the collection tables when missing.
func EnsureTables(db *gorm.DB) error {
	for _, c := range domain.Collections {
		if err := db.Table(c.Table()).AutoMigrate(&tableRow{}); err != nil {
			return fmt.Errorf("failed to migrate table %s: %w", c.Table(), err)
		}
	}
	return nil
}

// Store is a Client over GORM.
type Store struct {
	db       *gorm.DB
	notifier Notifier
	breaker  *Breaker
	closers  []func() error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBreaker guards every table operation with a circuit breaker.
func WithBreaker(b *Breaker) StoreOption {
	return func(s *Store) { s.breaker = b }
}

// WithCloser registers a function run by Close, after the notifier is closed.
func WithCloser(fn func() error) StoreOption {
	return func(s *Store) { s.closers = append(s.closers, fn) }
}

// NewStore creates a Store. Writes are announced on notifier after they succeed.
func NewStore(db *gorm.DB, notifier Notifier, opts ...StoreOption) *Store {
	s := &Store{db: db, notifier: notifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) guard(fn func() error) error {
	if s.breaker == nil {
		return fn()
	}
	return s.breaker.Call(fn)
}

// SelectAll returns every row of table ordered by id.
func (s *Store) SelectAll(ctx context.Context, table string) ([]domain.Record, error) {
	var rows []tableRow
	err := s.guard(func() error {
		return s.db.WithContext(ctx).Table(table).Order("id").Find(&rows).Error
	})
	if err != nil {
		return nil, &domain.RemoteError{Op: "select", Table: table, Err: err}
	}

	records := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.Record{ID: r.ID, Data: json.RawMessage(r.Data)})
	}
	return records, nil
}

// Upsert inserts or replaces rows by id in batches.
func (s *Store) Upsert(ctx context.Context, table string, rows []domain.Record) error {
	if len(rows) == 0 {
		return nil
	}

	batch := make([]tableRow, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, tableRow{ID: r.ID, Data: string(r.Data)})
	}

	err := s.guard(func() error {
		return s.db.WithContext(ctx).Table(table).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"data"}),
			}).
			CreateInBatches(&batch, upsertBatchSize).Error
	})
	if err != nil {
		return &domain.RemoteError{Op: "upsert", Table: table, Err: err}
	}

	s.announce(ctx, table)
	return nil
}

// DeleteByID removes the row with the given id.
func (s *Store) DeleteByID(ctx context.Context, table, id string) error {
	err := s.guard(func() error {
		return s.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(&tableRow{}).Error
	})
	if err != nil {
		return &domain.RemoteError{Op: "delete", Table: table, Err: err}
	}

	s.announce(ctx, table)
	return nil
}

// Subscribe registers onChange for table on the store's notifier.
func (s *Store) Subscribe(table string, onChange func()) (func(), error) {
	unsubscribe, err := s.notifier.Subscribe(table, onChange)
	if err != nil {
		return nil, &domain.RemoteError{Op: "subscribe", Table: table, Err: err}
	}
	return unsubscribe, nil
}

// Close stops notifications and releases the connection.
func (s *Store) Close() error {
	var firstErr error
	if err := s.notifier.Close(); err != nil {
		firstErr = err
	}
	for _, fn := range s.closers {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Store) announce(ctx context.Context, table string) {
	if err := s.notifier.Publish(ctx, table); err != nil {
		logger.Warn(ctx).Err(err).Str("table", table).Msg("Failed to announce table change")
	}
}
