package http

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RegisterSwaggerDocs serves the swagger UI for the document registered with swag.
// @Summary Swagger documentation
// @Description Swagger API documentation for FabStock
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router) {
	router.PathPrefix("/swagger/").Handler(SwaggerHandler())
}

// SwaggerHandler returns the swagger UI handler pointing at the generated document.
func SwaggerHandler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
}

// Login godoc
// @Summary Sign in
// @Description In local mode returns a session. In remote mode emails a sign-in link.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Member email"
// @Success 200 {object} object{success=bool,data=object}
// @Success 202 {object} object{success=bool,message=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 412 {object} object{success=bool,error=string}
// @Router /api/auth/login [post]
func (h *Handler) LoginDoc() {}

// Verify godoc
// @Summary Confirm a sign-in link
// @Tags Auth
// @Produce json
// @Param token query string true "Link token"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/auth/verify [get]
func (h *Handler) VerifyDoc() {}

// GetDashboard godoc
// @Summary Inventory dashboard
// @Description Totals, value, category distribution and low-stock preview
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/dashboard [get]
func (h *Handler) GetDashboardDoc() {}

// ListItems godoc
// @Summary List items
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name or description contains"
// @Param category query string false "Category code"
// @Param lowStock query bool false "Only items at or below threshold"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/items [get]
func (h *Handler) ListItemsDoc() {}

// CreateItem godoc
// @Summary Create an item
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,category=string,quantity=int,minQuantity=int,location=string,pricePerUnit=number} true "Item"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/items [post]
func (h *Handler) CreateItemDoc() {}

// AdjustQuantity godoc
// @Summary Adjust stock
// @Description Applies a signed delta clamped at zero and records the movement
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body object{delta=int} true "Delta"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/{id}/adjust [post]
func (h *Handler) AdjustQuantityDoc() {}

// ExportItems godoc
// @Summary Export inventory
// @Tags Inventory
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /api/items/export [get]
func (h *Handler) ExportItemsDoc() {}

// CreateTicket godoc
// @Summary Open a maintenance ticket
// @Description Flags the machine as needing maintenance
// @Tags Maintenance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{machineId=string,type=string,description=string,assignedToId=string} true "Ticket"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/tickets [post]
func (h *Handler) CreateTicketDoc() {}

// CloseTicket godoc
// @Summary Close a ticket
// @Description Records the report and returns the machine to service
// @Tags Maintenance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body object{report=string} true "Report"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/tickets/{id}/close [post]
func (h *Handler) CloseTicketDoc() {}

// AddMember godoc
// @Summary Add a team member
// @Tags Team
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,role=string} true "Member"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/team [post]
func (h *Handler) AddMemberDoc() {}

// Extract godoc
// @Summary Suggest an item from free text
// @Tags Assistant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{text=string} true "Description"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 412 {object} object{success=bool,error=string}
// @Failure 429 {object} object{success=bool,error=string}
// @Router /api/assistant/extract [post]
func (h *Handler) ExtractDoc() {}

// SyncStatus godoc
// @Summary Synchronization status
// @Tags Sync
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{state=string,mode=string,error=string,pendingWriteFailed=object}}
// @Router /api/sync/status [get]
func (h *Handler) SyncStatusDoc() {}

// Upload godoc
// @Summary Copy local data to the remote backend (Admin only)
// @Tags Sync
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{remoteUrl=string,remoteKey=string} false "Target overrides"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 412 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/sync/upload [post]
func (h *Handler) UploadDoc() {}

// UpdateSettings godoc
// @Summary Update settings (Admin only)
// @Description Shallow merge. Changing mode, URL or key reloads every collection.
// @Tags Sync
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{mode=string,remoteUrl=string,remoteKey=string,emailServiceId=string,emailTemplateId=string,emailPublicKey=string} true "Patch"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/settings [patch]
func (h *Handler) UpdateSettingsDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description 200 while the store is ready, 503 otherwise
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *Handler) HealthCheckDoc() {}
