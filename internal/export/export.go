// Package export writes the inventory and its stock movements to an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tair/fabstock/internal/domain"
)

const (
	SheetInventory = "Inventaire"
	SheetHistory   = "Historique"
)

var inventoryHeaders = []string{
	"ID", "Nom", "Description", "Catégorie", "Quantité", "Seuil min.",
	"Emplacement", "Prix unitaire", "Valeur", "Statut", "Mis à jour",
}

var historyHeaders = []string{
	"Article", "Date", "Type", "Variation", "Quantité restante", "Utilisateur",
}

var statusLabels = map[domain.StockStatus]string{
	domain.StockInStock:    "En stock",
	domain.StockLow:        "Stock faible",
	domain.StockOutOfStock: "Rupture",
}

var movementLabels = map[domain.MovementType]string{
	domain.MovementCreation:   "Création",
	domain.MovementAddition:   "Ajout",
	domain.MovementRemoval:    "Retrait",
	domain.MovementAdjustment: "Ajustement",
}

// Filename returns the download name for an export taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("inventaire_%s.xlsx", t.Format("2006-01-02"))
}

// Inventory builds a workbook with one row per item and one row per history entry.
func Inventory(items []domain.InventoryItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetInventory); err != nil {
		return nil, fmt.Errorf("failed to name inventory sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetHistory); err != nil {
		return nil, fmt.Errorf("failed to create history sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, SheetInventory, 1, toCells(inventoryHeaders), headerStyle); err != nil {
		return nil, err
	}
	if err := writeRow(f, SheetHistory, 1, toCells(historyHeaders), headerStyle); err != nil {
		return nil, err
	}

	historyRow := 2
	for i, item := range items {
		var price, value any
		if item.PricePerUnit != nil {
			price = *item.PricePerUnit
			value = *item.PricePerUnit * float64(item.Quantity)
		}
		row := []any{
			item.ID, item.Name, item.Description, item.Category.Label(), item.Quantity, item.MinQuantity,
			item.Location, price, value, statusLabels[item.Status()], formatDate(item.LastUpdated),
		}
		if err := writeRow(f, SheetInventory, i+2, row, 0); err != nil {
			return nil, err
		}

		for _, h := range item.History {
			entry := []any{
				item.Name, formatDate(h.Date), movementLabels[h.Type], h.QuantityChange, h.RemainingQuantity, h.User,
			}
			if err := writeRow(f, SheetHistory, historyRow, entry, 0); err != nil {
				return nil, err
			}
			historyRow++
		}
	}

	widths := []float64{12, 28, 36, 16, 10, 10, 22, 12, 12, 14, 18}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(SheetInventory, col, col, w)
	}
	f.SetColWidth(SheetHistory, "A", "A", 28)
	f.SetColWidth(SheetHistory, "B", "B", 18)
	f.SetColWidth(SheetHistory, "F", "F", 22)

	return f, nil
}

// WriteInventory builds the workbook and writes it to w.
func WriteInventory(w io.Writer, items []domain.InventoryItem) error {
	f, err := Inventory(items)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func toCells(headers []string) []any {
	out := make([]any, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
