package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/export"
	"github.com/tair/fabstock/internal/usecase/command"
	"github.com/tair/fabstock/internal/usecase/query"
	"github.com/tair/fabstock/pkg/logger"
)

type itemRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     domain.Category `json:"category"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"minQuantity"`
	Location     string          `json:"location"`
	PricePerUnit *float64        `json:"pricePerUnit"`
}

// GetDashboard handles GET /api/dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.dashboard.Handle())
}

// ListItems handles GET /api/items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	lowOnly, _ := strconv.ParseBool(params.Get("lowStock"))

	items := h.listItems.Handle(query.ListItemsQuery{
		Search:       params.Get("search"),
		Category:     domain.Category(params.Get("category")),
		LowStockOnly: lowOnly,
	})
	respondData(w, http.StatusOK, items)
}

// GetItem handles GET /api/items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.getItem.Handle(mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, item)
}

// GetItemHistory handles GET /api/items/{id}/history
func (h *Handler) GetItemHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.itemHistory.Handle(mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, history)
}

// CreateItem handles POST /api/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.createItem.Handle(r.Context(), command.CreateItemCommand{
		Actor:        actor(r),
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
		Location:     req.Location,
		PricePerUnit: req.PricePerUnit,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}

	logger.Info(r.Context()).Str("item_id", item.ID).Str("name", item.Name).Msg("Item created")
	respondMessage(w, http.StatusCreated, "Item created successfully", item)
}

// UpdateItem handles PUT /api/items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.updateItem.Handle(r.Context(), command.UpdateItemCommand{
		Actor:        actor(r),
		ID:           mux.Vars(r)["id"],
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
		Location:     req.Location,
		PricePerUnit: req.PricePerUnit,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Item updated successfully", item)
}

// DeleteItem handles DELETE /api/items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	err := h.deleteItem.Handle(r.Context(), command.DeleteItemCommand{Actor: actor(r), ID: mux.Vars(r)["id"]})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Item deleted successfully", nil)
}

// AdjustQuantity handles POST /api/items/{id}/adjust
func (h *Handler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.adjustQuantity.Handle(r.Context(), command.AdjustQuantityCommand{
		Actor:  actor(r),
		ItemID: mux.Vars(r)["id"],
		Delta:  req.Delta,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, query.ItemView{InventoryItem: *item, Status: item.Status()})
}

// ExportItems handles GET /api/items/export
func (h *Handler) ExportItems(w http.ResponseWriter, r *http.Request) {
	f, err := export.Inventory(h.store.Items())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	if err := f.Write(w); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to stream inventory export")
	}
}
