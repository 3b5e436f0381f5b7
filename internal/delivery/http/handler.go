package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/fabstock/internal/advisor"
	"github.com/tair/fabstock/internal/auth"
	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/provider"
	"github.com/tair/fabstock/internal/usecase/command"
	"github.com/tair/fabstock/internal/usecase/query"
)

// SyncStore is the orchestrator surface the API needs.
type SyncStore interface {
	domain.Store
	Status() provider.Status
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.AppSettings, error)
	UploadLocalToRemote(ctx context.Context, target domain.AppSettings) error
	DownloadRemoteToLocal(ctx context.Context, target domain.AppSettings) error
}

// Authenticator issues and checks member sessions.
type Authenticator interface {
	Login(ctx context.Context, email string) (*auth.LoginResult, error)
	Verify(ctx context.Context, token string) (*auth.Session, error)
	Authenticate(ctx context.Context, token string) (domain.TeamMember, error)
}

// Assistant answers inventory questions and extracts item suggestions.
type Assistant interface {
	Enabled() bool
	Extract(ctx context.Context, text string) (*advisor.ItemSuggestion, error)
	Advise(ctx context.Context, question string, items []domain.InventoryItem) string
}

// Handler serves the REST API.
type Handler struct {
	// Command handlers
	createItem     *command.CreateItemHandler
	updateItem     *command.UpdateItemHandler
	deleteItem     *command.DeleteItemHandler
	adjustQuantity *command.AdjustQuantityHandler
	createMachine  *command.CreateMachineHandler
	updateMachine  *command.UpdateMachineHandler
	deleteMachine  *command.DeleteMachineHandler
	createTicket   *command.CreateTicketHandler
	startTicket    *command.StartTicketHandler
	closeTicket    *command.CloseTicketHandler
	updateTicket   *command.UpdateTicketHandler
	deleteTicket   *command.DeleteTicketHandler
	addMember      *command.AddMemberHandler
	updateMember   *command.UpdateMemberHandler
	deleteMember   *command.DeleteMemberHandler
	resendInvite   *command.ResendInviteHandler

	// Query handlers
	dashboard    *query.GetDashboardHandler
	listItems    *query.ListItemsHandler
	getItem      *query.GetItemHandler
	itemHistory  *query.GetItemHistoryHandler
	listMachines *query.ListMachinesHandler
	listTickets  *query.ListTicketsHandler
	listTeam     *query.ListTeamHandler

	store     SyncStore
	authn     Authenticator
	assistant Assistant
	limiter   *RateLimiter
	metrics   *Metrics
}

// Options carries the collaborators of a Handler. Inviter, Limiter and Metrics may be nil.
type Options struct {
	Store     SyncStore
	Auth      Authenticator
	Assistant Assistant
	Inviter   command.Inviter
	Limiter   *RateLimiter
	Metrics   *Metrics
}

// NewHandler creates the API handler.
func NewHandler(opts Options) *Handler {
	store := opts.Store
	return &Handler{
		createItem:     command.NewCreateItemHandler(store),
		updateItem:     command.NewUpdateItemHandler(store),
		deleteItem:     command.NewDeleteItemHandler(store),
		adjustQuantity: command.NewAdjustQuantityHandler(store),
		createMachine:  command.NewCreateMachineHandler(store),
		updateMachine:  command.NewUpdateMachineHandler(store),
		deleteMachine:  command.NewDeleteMachineHandler(store),
		createTicket:   command.NewCreateTicketHandler(store),
		startTicket:    command.NewStartTicketHandler(store),
		closeTicket:    command.NewCloseTicketHandler(store),
		updateTicket:   command.NewUpdateTicketHandler(store),
		deleteTicket:   command.NewDeleteTicketHandler(store),
		addMember:      command.NewAddMemberHandler(store, opts.Inviter),
		updateMember:   command.NewUpdateMemberHandler(store),
		deleteMember:   command.NewDeleteMemberHandler(store),
		resendInvite:   command.NewResendInviteHandler(store, opts.Inviter),

		dashboard:    query.NewGetDashboardHandler(store),
		listItems:    query.NewListItemsHandler(store),
		getItem:      query.NewGetItemHandler(store),
		itemHistory:  query.NewGetItemHistoryHandler(store),
		listMachines: query.NewListMachinesHandler(store),
		listTickets:  query.NewListTicketsHandler(store),
		listTeam:     query.NewListTeamHandler(store),

		store:     store,
		authn:     opts.Auth,
		assistant: opts.Assistant,
		limiter:   opts.Limiter,
		metrics:   opts.Metrics,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	authed := AuthMiddleware(h.authn)
	admin := AdminMiddleware(h.authn)
	m := h.metrics.instrument

	api := router.PathPrefix("/api").Subrouter()

	// Authentication
	api.HandleFunc("/auth/login", m("auth_login", h.Login)).Methods("POST")
	api.HandleFunc("/auth/verify", m("auth_verify", h.Verify)).Methods("GET")
	api.HandleFunc("/auth/me", m("auth_me", authed(h.Me))).Methods("GET")

	// Dashboard
	api.HandleFunc("/dashboard", m("dashboard", authed(h.GetDashboard))).Methods("GET")

	// Inventory
	api.HandleFunc("/items", m("list_items", authed(h.ListItems))).Methods("GET")
	api.HandleFunc("/items", m("create_item", authed(h.CreateItem))).Methods("POST")
	api.HandleFunc("/items/export", m("export_items", authed(h.ExportItems))).Methods("GET")
	api.HandleFunc("/items/{id}", m("get_item", authed(h.GetItem))).Methods("GET")
	api.HandleFunc("/items/{id}", m("update_item", authed(h.UpdateItem))).Methods("PUT")
	api.HandleFunc("/items/{id}", m("delete_item", authed(h.DeleteItem))).Methods("DELETE")
	api.HandleFunc("/items/{id}/adjust", m("adjust_quantity", authed(h.AdjustQuantity))).Methods("POST")
	api.HandleFunc("/items/{id}/history", m("item_history", authed(h.GetItemHistory))).Methods("GET")

	// Machines
	api.HandleFunc("/machines", m("list_machines", authed(h.ListMachines))).Methods("GET")
	api.HandleFunc("/machines", m("create_machine", authed(h.CreateMachine))).Methods("POST")
	api.HandleFunc("/machines/{id}", m("update_machine", authed(h.UpdateMachine))).Methods("PUT")
	api.HandleFunc("/machines/{id}", m("delete_machine", authed(h.DeleteMachine))).Methods("DELETE")

	// Maintenance
	api.HandleFunc("/tickets", m("list_tickets", authed(h.ListTickets))).Methods("GET")
	api.HandleFunc("/tickets", m("create_ticket", authed(h.CreateTicket))).Methods("POST")
	api.HandleFunc("/tickets/{id}", m("update_ticket", authed(h.UpdateTicket))).Methods("PUT")
	api.HandleFunc("/tickets/{id}", m("delete_ticket", authed(h.DeleteTicket))).Methods("DELETE")
	api.HandleFunc("/tickets/{id}/start", m("start_ticket", authed(h.StartTicket))).Methods("POST")
	api.HandleFunc("/tickets/{id}/close", m("close_ticket", authed(h.CloseTicket))).Methods("POST")

	// Team
	api.HandleFunc("/team", m("list_team", authed(h.ListTeam))).Methods("GET")
	api.HandleFunc("/team", m("add_member", authed(h.AddMember))).Methods("POST")
	api.HandleFunc("/team/{id}", m("update_member", authed(h.UpdateMember))).Methods("PATCH")
	api.HandleFunc("/team/{id}", m("delete_member", authed(h.DeleteMember))).Methods("DELETE")
	api.HandleFunc("/team/{id}/invite", m("resend_invite", authed(h.ResendInvite))).Methods("POST")

	// Assistant
	api.HandleFunc("/assistant/extract", m("assistant_extract", authed(h.limiter.Middleware(h.Extract)))).Methods("POST")
	api.HandleFunc("/assistant/advice", m("assistant_advice", authed(h.limiter.Middleware(h.Advise)))).Methods("POST")

	// Sync and settings
	api.HandleFunc("/sync/status", m("sync_status", authed(h.SyncStatus))).Methods("GET")
	api.HandleFunc("/sync/upload", m("sync_upload", admin(h.Upload))).Methods("POST")
	api.HandleFunc("/sync/download", m("sync_download", admin(h.Download))).Methods("POST")
	api.HandleFunc("/settings", m("get_settings", admin(h.GetSettings))).Methods("GET")
	api.HandleFunc("/settings", m("update_settings", admin(h.UpdateSettings))).Methods("PATCH")
}

// RegisterHealthCheck registers the liveness endpoint. It reports 503 while the store is not ready.
func (h *Handler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := h.store.Status()
		if status.State != provider.StateReady {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Store is " + string(status.State),
				Data:    status,
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "FabStock is healthy",
			Data:    status,
		})
	}).Methods("GET")
}

// actor returns the member attached by AuthMiddleware.
func actor(r *http.Request) domain.TeamMember {
	m, _ := MemberFromContext(r.Context())
	return m
}
