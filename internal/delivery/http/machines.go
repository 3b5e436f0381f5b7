package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/usecase/command"
)

type machineRequest struct {
	Name         string               `json:"name"`
	Model        string               `json:"model"`
	SerialNumber string               `json:"serialNumber"`
	PurchaseDate *time.Time           `json:"purchaseDate"`
	Status       domain.MachineStatus `json:"status"`
	Location     string               `json:"location"`
	Image        string               `json:"image"`
	Notes        string               `json:"notes"`
}

func (req machineRequest) details() command.MachineDetails {
	return command.MachineDetails{
		Name:         req.Name,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		PurchaseDate: req.PurchaseDate,
		Status:       req.Status,
		Location:     req.Location,
		Image:        req.Image,
		Notes:        req.Notes,
	}
}

// ListMachines handles GET /api/machines
func (h *Handler) ListMachines(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.listMachines.Handle(r.URL.Query().Get("search")))
}

// CreateMachine handles POST /api/machines
func (h *Handler) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var req machineRequest
	if !decodeBody(w, r, &req) {
		return
	}

	machine, err := h.createMachine.Handle(r.Context(), command.CreateMachineCommand{
		Actor:          actor(r),
		MachineDetails: req.details(),
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Machine created successfully", machine)
}

// UpdateMachine handles PUT /api/machines/{id}
func (h *Handler) UpdateMachine(w http.ResponseWriter, r *http.Request) {
	var req machineRequest
	if !decodeBody(w, r, &req) {
		return
	}

	machine, err := h.updateMachine.Handle(r.Context(), command.UpdateMachineCommand{
		Actor:          actor(r),
		ID:             mux.Vars(r)["id"],
		MachineDetails: req.details(),
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Machine updated successfully", machine)
}

// DeleteMachine handles DELETE /api/machines/{id}
func (h *Handler) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	err := h.deleteMachine.Handle(r.Context(), command.DeleteMachineCommand{Actor: actor(r), ID: mux.Vars(r)["id"]})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Machine deleted successfully", nil)
}
