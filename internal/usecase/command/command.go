// Package command holds the state-changing operations on the fab lab collections.
// Every handler applies its change through domain.Store, which owns the collections.
package command

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tair/fabstock/internal/domain"
)

var (
	now   = time.Now
	newID = uuid.NewString
)

func requireStockManager(actor domain.TeamMember, capability string) error {
	if !actor.CanManageStock {
		return &domain.PermissionError{Member: actor.Name, Capability: capability}
	}
	return nil
}

func requireAdmin(actor domain.TeamMember, capability string) error {
	if !actor.IsAdmin() {
		return &domain.PermissionError{Member: actor.Name, Capability: capability}
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &domain.ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func nonNegative(field string, v int) error {
	if v < 0 {
		return &domain.ValidationError{Field: field, Message: "cannot be negative"}
	}
	return nil
}

func nonNegativePrice(field string, v *float64) error {
	if v != nil && *v < 0 {
		return &domain.ValidationError{Field: field, Message: "cannot be negative"}
	}
	return nil
}
