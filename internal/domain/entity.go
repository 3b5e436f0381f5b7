package domain

import (
	"encoding/json"
	"fmt"
)

// Entity is anything matched by id on update and delete.
type Entity interface {
	EntityID() string
}

// Find returns the record with the given id.
func Find[T Entity](records []T, id string) (T, bool) {
	for _, r := range records {
		if r.EntityID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Without returns a new slice with every record matching id removed.
func Without[T Entity](records []T, id string) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.EntityID() != id {
			out = append(out, r)
		}
	}
	return out
}

// Replace returns a new slice with the record sharing updated's id swapped in.
func Replace[T Entity](records []T, updated T) ([]T, bool) {
	out := make([]T, len(records))
	found := false
	for i, r := range records {
		if r.EntityID() == updated.EntityID() {
			out[i] = updated
			found = true
			continue
		}
		out[i] = r
	}
	return out, found
}

// Prepend returns a new slice with record in front.
func Prepend[T any](records []T, record T) []T {
	out := make([]T, 0, len(records)+1)
	out = append(out, record)
	return append(out, records...)
}

// EncodeRecords converts entities to storage records.
func EncodeRecords[T Entity](records []T) ([]Record, error) {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %s: %w", r.EntityID(), err)
		}
		out = append(out, Record{ID: r.EntityID(), Data: data})
	}
	return out, nil
}

// DecodeRecords decodes JSON elements into entities.
func DecodeRecords[T any](elems []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(elems))
	for i, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// RecordData extracts the payloads of the records.
func RecordData(records []Record) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		out = append(out, r.Data)
	}
	return out
}
