package provider

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/remote"
)

var errUnreachable = errors.New("connection reset by peer")

// fakeRemote is an in-memory remote.Client with per-table failure injection.
type fakeRemote struct {
	mu         sync.Mutex
	tables     map[string]map[string]json.RawMessage
	failSelect map[string]error
	failUpsert map[string]error
	failDelete map[string]error
	failSub    map[string]error
	upserts    map[string]int
	closed     int
	hub        *remote.Hub
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		tables:     make(map[string]map[string]json.RawMessage),
		failSelect: make(map[string]error),
		failUpsert: make(map[string]error),
		failDelete: make(map[string]error),
		failSub:    make(map[string]error),
		upserts:    make(map[string]int),
		hub:        remote.NewHub(),
	}
}

func (f *fakeRemote) connector() remote.Connector {
	return func(context.Context, string, string) (remote.Client, error) {
		return f, nil
	}
}

func (f *fakeRemote) put(table string, records []domain.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tables[table] == nil {
		f.tables[table] = make(map[string]json.RawMessage)
	}
	for _, r := range records {
		f.tables[table][r.ID] = r.Data
	}
}

func (f *fakeRemote) ids(table string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.tables[table]))
	for id := range f.tables[table] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeRemote) setFailure(m map[string]error, table string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(m, table)
		return
	}
	m[table] = err
}

func (f *fakeRemote) upsertCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts[table]
}

func (f *fakeRemote) SelectAll(_ context.Context, table string) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failSelect[table]; err != nil {
		return nil, &domain.RemoteError{Op: "select", Table: table, Err: err}
	}
	ids := make([]string, 0, len(f.tables[table]))
	for id := range f.tables[table] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, domain.Record{ID: id, Data: f.tables[table][id]})
	}
	return rows, nil
}

func (f *fakeRemote) Upsert(_ context.Context, table string, rows []domain.Record) error {
	f.mu.Lock()
	if err := f.failUpsert[table]; err != nil {
		f.mu.Unlock()
		return &domain.RemoteError{Op: "upsert", Table: table, Err: err}
	}
	f.upserts[table]++
	if f.tables[table] == nil {
		f.tables[table] = make(map[string]json.RawMessage)
	}
	for _, r := range rows {
		f.tables[table][r.ID] = r.Data
	}
	f.mu.Unlock()

	f.hub.Notify(table)
	return nil
}

func (f *fakeRemote) DeleteByID(_ context.Context, table, id string) error {
	f.mu.Lock()
	if err := f.failDelete[table]; err != nil {
		f.mu.Unlock()
		return &domain.RemoteError{Op: "delete", Table: table, Err: err}
	}
	delete(f.tables[table], id)
	f.mu.Unlock()

	f.hub.Notify(table)
	return nil
}

func (f *fakeRemote) Subscribe(table string, onChange func()) (func(), error) {
	f.mu.Lock()
	err := f.failSub[table]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.hub.Subscribe(table, onChange)
}

func (f *fakeRemote) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeRemote) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
