package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/fabstock/internal/domain"
)

func TestAdjustQuantityAppendsMovement(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	h := NewAdjustQuantityHandler(store)

	item, err := h.Handle(context.Background(), AdjustQuantityCommand{Actor: manager, ItemID: "1", Delta: 3})

	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)
	assert.Equal(t, fixedNow, item.LastUpdated)
	require.Len(t, item.History, 2)
	last := item.History[1]
	assert.Equal(t, domain.MovementAddition, last.Type)
	assert.Equal(t, 3, last.QuantityChange)
	assert.Equal(t, 15, last.RemainingQuantity)
	assert.Equal(t, "Alex", last.User)

	stored, _ := domain.Find(store.Items(), "1")
	assert.Equal(t, *item, stored)
}

func TestAdjustQuantityClampsAndRecordsEffectiveChange(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	h := NewAdjustQuantityHandler(store)

	// PLA starts at 3 with a threshold of 4.
	item, err := h.Handle(context.Background(), AdjustQuantityCommand{Actor: manager, ItemID: "2", Delta: -5})

	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	last := item.History[len(item.History)-1]
	assert.Equal(t, domain.MovementRemoval, last.Type)
	assert.Equal(t, -3, last.QuantityChange)
	assert.Equal(t, 0, last.RemainingQuantity)
	assert.Equal(t, domain.StockOutOfStock, item.Status())
}

func TestAdjustQuantityNoopAtZero(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	h := NewAdjustQuantityHandler(store)
	ctx := context.Background()

	_, err := h.Handle(ctx, AdjustQuantityCommand{Actor: manager, ItemID: "2", Delta: -10})
	require.NoError(t, err)
	writes := store.writeCount(domain.CollectionInventory)

	item, err := h.Handle(ctx, AdjustQuantityCommand{Actor: manager, ItemID: "2", Delta: -1})

	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	assert.Len(t, item.History, 2)
	assert.Equal(t, writes, store.writeCount(domain.CollectionInventory), "an unchanged quantity is not written")
}

func TestAdjustQuantitySequenceMatchesNetChange(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	h := NewAdjustQuantityHandler(store)
	ctx := context.Background()

	deltas := []int{-4, 7, -20, -1, 0, 2, 5, -3, -10, 1}
	qty, effective := 12, 0
	for _, d := range deltas {
		item, err := h.Handle(ctx, AdjustQuantityCommand{Actor: manager, ItemID: "1", Delta: d})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, item.Quantity, 0)

		next := max(0, qty+d)
		if next != qty {
			effective++
		}
		qty = next
		assert.Equal(t, qty, item.Quantity)
		assert.Len(t, item.History, effective+1)
	}
}

func TestAdjustQuantityRequiresStockCapability(t *testing.T) {
	store := newMemStore()
	h := NewAdjustQuantityHandler(store)

	_, err := h.Handle(context.Background(), AdjustQuantityCommand{Actor: intern, ItemID: "1", Delta: 1})

	var permErr *domain.PermissionError
	require.True(t, errors.As(err, &permErr))
	assert.Equal(t, "Robin", permErr.Member)
	assert.Equal(t, 0, store.writeCount(domain.CollectionInventory))
}

func TestAdjustQuantityUnknownItem(t *testing.T) {
	h := NewAdjustQuantityHandler(newMemStore())

	_, err := h.Handle(context.Background(), AdjustQuantityCommand{Actor: manager, ItemID: "404", Delta: 1})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateItemPrependsWithCreationEntry(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	h := NewCreateItemHandler(store)
	price := 2.5

	item, err := h.Handle(context.Background(), CreateItemCommand{
		Actor:        manager,
		Name:         "Gaine thermo",
		Category:     domain.CategoryConsumables,
		Quantity:     40,
		MinQuantity:  10,
		Location:     "Tiroir 3",
		PricePerUnit: &price,
	})

	require.NoError(t, err)
	assert.Equal(t, "id-1", item.ID)
	require.Len(t, item.History, 1)
	assert.Equal(t, domain.CreationEntry("id-2", fixedNow, 40, "Alex"), item.History[0])
	assert.Equal(t, "id-1", store.Items()[0].ID)
	assert.Len(t, store.Items(), 6)
}

func TestCreateItemValidation(t *testing.T) {
	h := NewCreateItemHandler(newMemStore())
	ctx := context.Background()
	negative := -1.0

	tests := []struct {
		name  string
		cmd   CreateItemCommand
		field string
	}{
		{"missing name", CreateItemCommand{Actor: manager, Quantity: 1}, "name"},
		{"negative quantity", CreateItemCommand{Actor: manager, Name: "x", Quantity: -1}, "quantity"},
		{"unknown category", CreateItemCommand{Actor: manager, Name: "x", Category: "food"}, "category"},
		{"negative price", CreateItemCommand{Actor: manager, Name: "x", PricePerUnit: &negative}, "pricePerUnit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(ctx, tt.cmd)
			var validationErr *domain.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestUpdateItemKeepsHistoryWithoutQuantityChange(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	h := NewUpdateItemHandler(store)

	item, err := h.Handle(context.Background(), UpdateItemCommand{
		Actor:       intern,
		ID:          "1",
		Name:        "Arduino Uno R4",
		Category:    domain.CategoryElectronics,
		Quantity:    12,
		MinQuantity: 6,
		Location:    "Armoire B",
	})

	require.NoError(t, err)
	assert.Equal(t, "Arduino Uno R4", item.Name)
	assert.Equal(t, 6, item.MinQuantity)
	assert.Len(t, item.History, 1)
}

func TestUpdateItemQuantityChangeRecordsAdjustment(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	h := NewUpdateItemHandler(store)
	ctx := context.Background()
	cmd := UpdateItemCommand{ID: "4", Name: "Contreplaqué", Category: domain.CategoryRawMaterials, Quantity: 40, MinQuantity: 20}

	cmd.Actor = intern
	_, err := h.Handle(ctx, cmd)
	var permErr *domain.PermissionError
	require.True(t, errors.As(err, &permErr))

	cmd.Actor = manager
	item, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 40, item.Quantity)
	last := item.History[len(item.History)-1]
	assert.Equal(t, domain.MovementAdjustment, last.Type)
	assert.Equal(t, -5, last.QuantityChange)
	assert.Equal(t, 40, last.RemainingQuantity)
}

func TestDeleteItem(t *testing.T) {
	store := newMemStore()
	h := NewDeleteItemHandler(store)
	ctx := context.Background()

	var permErr *domain.PermissionError
	require.True(t, errors.As(h.Handle(ctx, DeleteItemCommand{Actor: intern, ID: "1"}), &permErr))

	require.NoError(t, h.Handle(ctx, DeleteItemCommand{Actor: manager, ID: "1"}))
	_, found := domain.Find(store.Items(), "1")
	assert.False(t, found)

	require.NoError(t, h.Handle(ctx, DeleteItemCommand{Actor: manager, ID: "missing"}))
	assert.Len(t, store.Items(), 4)
}
