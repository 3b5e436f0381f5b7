package command

import (
	"context"

	"github.com/tair/fabstock/internal/domain"
)

// DeleteItemCommand represents the command to delete an inventory item
type DeleteItemCommand struct {
	Actor domain.TeamMember
	ID    string
}

// DeleteItemHandler handles delete item command
type DeleteItemHandler struct {
	store domain.Store
}

// NewDeleteItemHandler creates a new delete item handler
func NewDeleteItemHandler(store domain.Store) *DeleteItemHandler {
	return &DeleteItemHandler{store: store}
}

// Handle executes the delete item command. Deleting an unknown id is a no-op.
func (h *DeleteItemHandler) Handle(ctx context.Context, cmd DeleteItemCommand) error {
	if err := requireStockManager(cmd.Actor, "delete items"); err != nil {
		return err
	}
	if err := required("id", cmd.ID); err != nil {
		return err
	}

	h.store.RemoveItem(ctx, cmd.ID)
	return nil
}
