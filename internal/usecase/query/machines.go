package query

import "github.com/tair/fabstock/internal/domain"

// ListMachinesHandler handles list machines query
type ListMachinesHandler struct {
	reader Reader
}

// NewListMachinesHandler creates a new list machines handler
func NewListMachinesHandler(reader Reader) *ListMachinesHandler {
	return &ListMachinesHandler{reader: reader}
}

// Handle returns machines whose name or model contains search, ignoring case.
func (h *ListMachinesHandler) Handle(search string) []domain.Machine {
	out := []domain.Machine{}
	for _, m := range h.reader.Machines() {
		if search == "" || containsFold(m.Name, search) || containsFold(m.Model, search) {
			out = append(out, m)
		}
	}
	return out
}
