package domain

import (
	"encoding/json"
	"fmt"
)

// Collection names one of the four entity collections.
type Collection string

const (
	CollectionInventory   Collection = "inventory"
	CollectionMachines    Collection = "machines"
	CollectionMaintenance Collection = "maintenance"
	CollectionTeam        Collection = "team"
)

// Collections lists the entity collections in load order.
var Collections = []Collection{
	CollectionInventory,
	CollectionMachines,
	CollectionMaintenance,
	CollectionTeam,
}

// Local storage keys.
const (
	KeyInventory   = "fabstock_inventory"
	KeyMachines    = "fabstock_machines"
	KeyMaintenance = "fabstock_maintenance"
	KeyTeam        = "fabstock_team"
	KeySettings    = "fabstock_settings"
)

// Table is the remote table holding the collection.
func (c Collection) Table() string {
	return string(c)
}

// StorageKey is the local storage key holding the collection.
func (c Collection) StorageKey() string {
	switch c {
	case CollectionInventory:
		return KeyInventory
	case CollectionMachines:
		return KeyMachines
	case CollectionMaintenance:
		return KeyMaintenance
	case CollectionTeam:
		return KeyTeam
	}
	return "fabstock_" + string(c)
}

// Record is an entity in storage form: its id and its JSON encoding.
type Record struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Snapshot holds all four collections.
type Snapshot struct {
	Items    []InventoryItem     `json:"inventory"`
	Machines []Machine           `json:"machines"`
	Tickets  []MaintenanceTicket `json:"maintenance"`
	Team     []TeamMember        `json:"team"`
}

// Len returns the number of records in a collection.
func (s Snapshot) Len(c Collection) int {
	switch c {
	case CollectionInventory:
		return len(s.Items)
	case CollectionMachines:
		return len(s.Machines)
	case CollectionMaintenance:
		return len(s.Tickets)
	case CollectionTeam:
		return len(s.Team)
	}
	return 0
}

// Records encodes one collection into storage records.
func (s Snapshot) Records(c Collection) ([]Record, error) {
	switch c {
	case CollectionInventory:
		return EncodeRecords(s.Items)
	case CollectionMachines:
		return EncodeRecords(s.Machines)
	case CollectionMaintenance:
		return EncodeRecords(s.Tickets)
	case CollectionTeam:
		return EncodeRecords(s.Team)
	}
	return nil, fmt.Errorf("unknown collection %q", c)
}

// Decode replaces one collection with the decoded elements. On error s is left unchanged.
func (s *Snapshot) Decode(c Collection, elems []json.RawMessage) error {
	var err error
	switch c {
	case CollectionInventory:
		var v []InventoryItem
		if v, err = DecodeRecords[InventoryItem](elems); err == nil {
			s.Items = v
		}
	case CollectionMachines:
		var v []Machine
		if v, err = DecodeRecords[Machine](elems); err == nil {
			s.Machines = v
		}
	case CollectionMaintenance:
		var v []MaintenanceTicket
		if v, err = DecodeRecords[MaintenanceTicket](elems); err == nil {
			s.Tickets = v
		}
	case CollectionTeam:
		var v []TeamMember
		if v, err = DecodeRecords[TeamMember](elems); err == nil {
			s.Team = v
		}
	default:
		return fmt.Errorf("unknown collection %q", c)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", c, err)
	}
	return nil
}

// CopyFrom replaces collection c with the one held by src.
func (s *Snapshot) CopyFrom(c Collection, src Snapshot) {
	switch c {
	case CollectionInventory:
		s.Items = src.Items
	case CollectionMachines:
		s.Machines = src.Machines
	case CollectionMaintenance:
		s.Tickets = src.Tickets
	case CollectionTeam:
		s.Team = src.Team
	}
}

// Clone returns a snapshot whose slices do not alias s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Items:    clone(s.Items),
		Machines: clone(s.Machines),
		Tickets:  clone(s.Tickets),
		Team:     clone(s.Team),
	}
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
