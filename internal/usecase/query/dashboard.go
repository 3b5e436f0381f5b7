package query

import (
	"github.com/shopspring/decimal"

	"github.com/tair/fabstock/internal/domain"
)

const lowStockPreview = 5

// CategoryCount is the number of items filed under one category.
type CategoryCount struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Count    int             `json:"count"`
}

// DashboardStats summarizes the inventory.
type DashboardStats struct {
	TotalItems    int                    `json:"totalItems"`
	TotalRefs     int                    `json:"totalRefs"`
	LowStockCount int                    `json:"lowStockCount"`
	TotalValue    decimal.Decimal        `json:"totalValue"`
	Categories    []CategoryCount        `json:"categories"`
	LowStockItems []domain.InventoryItem `json:"lowStockItems"`
}

// GetDashboardHandler handles the dashboard query
type GetDashboardHandler struct {
	reader Reader
}

// NewGetDashboardHandler creates a new dashboard handler
func NewGetDashboardHandler(reader Reader) *GetDashboardHandler {
	return &GetDashboardHandler{reader: reader}
}

// Handle computes the dashboard statistics
func (h *GetDashboardHandler) Handle() DashboardStats {
	return ComputeStats(h.reader.Items())
}

// ComputeStats sums quantities and values, counts items per category (non-empty
// categories only) and lists the first low-stock items in collection order.
func ComputeStats(items []domain.InventoryItem) DashboardStats {
	stats := DashboardStats{
		TotalRefs:     len(items),
		TotalValue:    decimal.Zero,
		Categories:    []CategoryCount{},
		LowStockItems: []domain.InventoryItem{},
	}

	perCategory := make(map[domain.Category]int)
	for _, item := range items {
		stats.TotalItems += item.Quantity
		if item.PricePerUnit != nil {
			value := decimal.NewFromFloat(*item.PricePerUnit).Mul(decimal.NewFromInt(int64(item.Quantity)))
			stats.TotalValue = stats.TotalValue.Add(value)
		}
		if item.IsLow() {
			stats.LowStockCount++
			if len(stats.LowStockItems) < lowStockPreview {
				stats.LowStockItems = append(stats.LowStockItems, item)
			}
		}
		perCategory[domain.ParseCategory(string(item.Category))]++
	}
	stats.TotalValue = stats.TotalValue.Round(2)

	for _, c := range domain.Categories {
		if n := perCategory[c]; n > 0 {
			stats.Categories = append(stats.Categories, CategoryCount{Category: c, Label: c.Label(), Count: n})
		}
	}
	return stats
}
