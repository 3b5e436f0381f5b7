package domain

import "time"

// Category classifies inventory items.
type Category string

const (
	CategoryElectronics  Category = "electronics"
	CategoryConsumables  Category = "consumables"
	CategoryTools        Category = "tools"
	CategoryRawMaterials Category = "raw_materials"
	CategoryFurniture    Category = "furniture"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryConsumables,
	CategoryTools,
	CategoryRawMaterials,
	CategoryFurniture,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryElectronics:  "Électronique",
	CategoryConsumables:  "Consommables 3D/CNC",
	CategoryTools:        "Petit Outillage (Main)",
	CategoryRawMaterials: "Matières Premières",
	CategoryFurniture:    "Mobilier",
	CategoryOther:        "Autre",
}

// Shorter names the assistant is known to answer with.
var categoryAliases = map[string]Category{
	"Consommables": CategoryConsumables,
	"Outillage":    CategoryTools,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display name of the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}

// ParseCategory maps a code or a display label to a category, falling back to CategoryOther.
func ParseCategory(s string) Category {
	c := Category(s)
	if c.Valid() {
		return c
	}
	for code, label := range categoryLabels {
		if label == s {
			return code
		}
	}
	if c, ok := categoryAliases[s]; ok {
		return c
	}
	return CategoryOther
}

// MovementType is the kind of a stock movement.
type MovementType string

const (
	MovementCreation   MovementType = "creation"
	MovementAddition   MovementType = "addition"
	MovementRemoval    MovementType = "removal"
	MovementAdjustment MovementType = "adjustment"
)

// StockHistoryEntry records one quantity change. Entries are append-only.
type StockHistoryEntry struct {
	ID                string       `json:"id"`
	Date              time.Time    `json:"date"`
	Type              MovementType `json:"type"`
	QuantityChange    int          `json:"quantityChange"`
	RemainingQuantity int          `json:"remainingQuantity"`
	User              string       `json:"user"`
}

// InventoryItem is a stocked consumable or tool.
type InventoryItem struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Category     Category            `json:"category"`
	Quantity     int                 `json:"quantity"`
	MinQuantity  int                 `json:"minQuantity"`
	Location     string              `json:"location"`
	LastUpdated  time.Time           `json:"lastUpdated"`
	PricePerUnit *float64            `json:"pricePerUnit,omitempty"`
	History      []StockHistoryEntry `json:"history"`
}

func (i InventoryItem) EntityID() string { return i.ID }

// StockStatus is derived from quantity and threshold.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLow        StockStatus = "low_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

// Status derives the stock status of the item.
func (i InventoryItem) Status() StockStatus {
	switch {
	case i.Quantity == 0:
		return StockOutOfStock
	case i.Quantity <= i.MinQuantity:
		return StockLow
	default:
		return StockInStock
	}
}

// IsLow reports whether the item is at or below its threshold.
func (i InventoryItem) IsLow() bool {
	return i.Quantity <= i.MinQuantity
}
