package domain

import "time"

// SeedSystemUser is the actor recorded on seeded history entries.
const SeedSystemUser = "Système"

var seedHistoryDate = time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)

// CreationEntry builds the history entry recorded when an item is created.
func CreationEntry(id string, at time.Time, quantity int, user string) StockHistoryEntry {
	return StockHistoryEntry{
		ID:                id,
		Date:              at,
		Type:              MovementCreation,
		QuantityChange:    quantity,
		RemainingQuantity: quantity,
		User:              user,
	}
}

func seedItem(id, name, description string, category Category, qty, minQty int, location string, updated time.Time, price float64) InventoryItem {
	return InventoryItem{
		ID:           id,
		Name:         name,
		Description:  description,
		Category:     category,
		Quantity:     qty,
		MinQuantity:  minQty,
		Location:     location,
		LastUpdated:  updated,
		PricePerUnit: &price,
		History:      []StockHistoryEntry{CreationEntry("hist_init_"+id, seedHistoryDate, qty, SeedSystemUser)},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedSnapshot returns the built-in dataset used on first run in local mode.
func SeedSnapshot() Snapshot {
	return Snapshot{
		Items: []InventoryItem{
			seedItem("1", "Arduino Uno R3", "Microcontrôleur standard pour prototypage.",
				CategoryElectronics, 12, 5, "Armoire A, Étagère 2", day(2023, time.October, 25), 24.00),
			seedItem("2", "PLA Blanc 1.75mm", "Filament PLA standard pour imprimantes Prusa.",
				CategoryConsumables, 3, 4, "Stockage Sec", day(2023, time.October, 28), 19.99),
			seedItem("4", "Contreplaqué Bouleau 3mm", "Plaque 600x400mm pour découpeuse laser.",
				CategoryRawMaterials, 45, 20, "Rack Bois Vertical", day(2023, time.October, 29), 4.50),
			seedItem("5", "Fer à souder Weller", "Station de soudage réglable (Main).",
				CategoryTools, 8, 8, "Zone Électronique", day(2023, time.September, 15), 120.00),
			seedItem("6", "Vis M3 x 10mm", "Boite de 100 vis tête cylindrique.",
				CategoryConsumables, 15, 5, "Organisateur Visserie", day(2023, time.October, 30), 3.20),
		},
		Machines: []Machine{
			{ID: "m1", Name: "Prusa i3 MK3S+", Model: "MK3S+", Status: MachineOperational,
				Location: "Zone Impression 3D", SerialNumber: "CZ-2023-5594"},
			{ID: "m2", Name: "Trotec Speedy 100", Model: "Speedy 100", Status: MachineMaintenanceRequested,
				Location: "Atelier Sale", Notes: "Le filtre commence à être saturé."},
			{ID: "m3", Name: "CNC ShopBot", Model: "Desktop MAX", Status: MachineOperational,
				Location: "Grand Atelier"},
		},
		Tickets: []MaintenanceTicket{
			{
				ID:           "mt1",
				MachineID:    "m2",
				MachineName:  "Trotec Speedy 100",
				DateCreated:  time.Date(2023, time.October, 20, 10, 0, 0, 0, time.UTC),
				Status:       TicketOpen,
				Type:         MaintenancePreventive,
				Description:  "Remplacement du filtre charbon et nettoyage des miroirs.",
				AssignedToID: "u1",
			},
		},
		Team: []TeamMember{
			{ID: "u1", Name: "Fab Admin", Email: SuperAdminEmail, Role: RoleAdmin, CanManageStock: true, AvatarColor: "bg-indigo-500"},
		},
	}
}
