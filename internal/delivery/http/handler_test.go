package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tair/fabstock/internal/advisor"
	"github.com/tair/fabstock/internal/auth"
	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/localstore"
	"github.com/tair/fabstock/internal/provider"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	router *mux.Router
	store  *provider.Provider
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()

	kv, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	store := provider.New(provider.Options{
		Local:    kv,
		Settings: domain.DefaultSettings(),
		Metrics:  provider.NewMetrics(prometheus.NewRegistry()),
	})
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Start(t.Context()))

	authn, err := auth.NewService(auth.Config{Secret: "test-secret-of-sufficient-length"}, store, nil)
	require.NoError(t, err)

	h := NewHandler(Options{
		Store:     store,
		Auth:      authn,
		Assistant: advisor.New(nil, nil),
		Limiter:   limiter,
		Metrics:   NewMetrics(prometheus.NewRegistry()),
	})

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	h.RegisterHealthCheck(router)
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()

	rec, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)

	var result auth.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotNil(t, result.Session)
	return result.Session.Token
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealthReportsReady(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, nil)

	rec, _ := s.do(t, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/items", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestLoginMeReturnsMember(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, " Admin@FabLab.com ")

	rec, env := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	member := decodeData[domain.TeamMember](t, env)
	assert.Equal(t, "u1", member.ID)
	assert.True(t, member.IsAdmin())
}

func TestItemLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodGet, "/api/items?category=consumables", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]map[string]any](t, env), 2)

	rec, env = s.do(t, http.MethodPost, "/api/items", token, map[string]any{
		"name": "Résine grise", "category": "consumables", "quantity": 4, "minQuantity": 1, "pricePerUnit": 39.9,
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	created := decodeData[domain.InventoryItem](t, env)
	assert.Equal(t, "Résine grise", s.store.Items()[0].Name)

	rec, env = s.do(t, http.MethodPost, "/api/items/"+created.ID+"/adjust", token, map[string]int{"delta": -10})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	adjusted := decodeData[map[string]any](t, env)
	assert.EqualValues(t, 0, adjusted["quantity"])
	assert.Equal(t, string(domain.StockOutOfStock), adjusted["status"])

	rec, env = s.do(t, http.MethodGet, "/api/items/"+created.ID+"/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeData[[]domain.StockHistoryEntry](t, env)
	require.Len(t, history, 2)
	assert.Equal(t, domain.MovementRemoval, history[0].Type)
	assert.Equal(t, -4, history[0].QuantityChange)

	rec, _ = s.do(t, http.MethodDelete, "/api/items/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/items/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateItemValidation(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodPost, "/api/items", token, map[string]any{"name": " ", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "name")

	req := httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	raw := httptest.NewRecorder()
	s.router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestInternCannotAdjustStock(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodPost, "/api/team", admin, map[string]string{
		"name": "Stagiaire", "email": "stage@fablab.com", "role": "intern",
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	assert.Equal(t, "Member added", env.Message)

	intern := s.login(t, "stage@fablab.com")
	rec, _ = s.do(t, http.MethodPost, "/api/items/1/adjust", intern, map[string]int{"delta": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/team", intern, map[string]string{"name": "X", "email": "x@fablab.com"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/api/settings", intern, map[string]string{"mode": "local"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeletedMemberLosesAccess(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodPost, "/api/team", admin, map[string]string{"name": "Léa", "email": "lea@fablab.com"})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	lea := decodeData[struct {
		Member domain.TeamMember `json:"member"`
	}](t, env).Member

	token := s.login(t, "lea@fablab.com")
	rec, _ = s.do(t, http.MethodDelete, "/api/team/"+lea.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/items", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTicketLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodPost, "/api/tickets", token, map[string]string{
		"machineId": "m1", "description": "Buse bouchée", "assignedToId": "u1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	ticket := decodeData[domain.MaintenanceTicket](t, env)
	assert.Equal(t, domain.MaintenanceCorrective, ticket.Type)

	machine, ok := domain.Find(s.store.Machines(), "m1")
	require.True(t, ok)
	assert.Equal(t, domain.MachineMaintenanceRequested, machine.Status)

	rec, _ = s.do(t, http.MethodPost, "/api/tickets/"+ticket.ID+"/close", token, map[string]string{"report": "ok"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/tickets/"+ticket.ID+"/start", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/tickets/"+ticket.ID+"/close", token, map[string]string{"report": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/tickets/"+ticket.ID+"/close", token, map[string]string{"report": "Buse changée"})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	closed := decodeData[domain.MaintenanceTicket](t, env)
	assert.Equal(t, domain.TicketDone, closed.Status)
	assert.Equal(t, "Fab Admin", closed.PerformedBy)

	machine, _ = domain.Find(s.store.Machines(), "m1")
	assert.Equal(t, domain.MachineOperational, machine.Status)

	rec, env = s.do(t, http.MethodGet, "/api/tickets?status=done", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	views := decodeData[[]map[string]any](t, env)
	require.Len(t, views, 1)
	assert.Equal(t, "Fab Admin", views[0]["assigneeName"])
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData[map[string]any](t, env)
	assert.EqualValues(t, 83, stats["totalItems"])
	assert.EqualValues(t, 5, stats["totalRefs"])
	assert.Equal(t, "1558.47", stats["totalValue"])
}

func TestExportItems(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, _ := s.do(t, http.MethodGet, "/api/items/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inventaire_")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Inventaire")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestAssistantWithoutKey(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, _ := s.do(t, http.MethodPost, "/api/assistant/extract", token, map[string]string{"text": "une boite de vis"})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/assistant/advice", token, map[string]string{"question": "Que commander ?"})
	require.Equal(t, http.StatusOK, rec.Code)
	answer := decodeData[map[string]any](t, env)
	assert.Equal(t, advisor.MissingKeyAnswer, answer["answer"])
	assert.Equal(t, false, answer["enabled"])
}

func TestSyncStatusAndSettings(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodGet, "/api/sync/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeData[provider.Status](t, env)
	assert.Equal(t, provider.StateReady, status.State)
	assert.Equal(t, domain.ModeLocal, status.Mode)

	rec, _ = s.do(t, http.MethodPatch, "/api/settings", token, map[string]string{"mode": "cloud"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodPatch, "/api/settings", token, map[string]string{"emailServiceId": "svc", "remoteKey": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	view := decodeData[map[string]any](t, env)
	assert.Equal(t, "svc", view["emailServiceId"])
	assert.NotContains(t, view, "remoteKey")
	assert.Equal(t, true, view["remoteKeySet"])
	assert.Equal(t, "secret", s.store.Settings().RemoteKey)
}

func TestRemoteModeRequiresEmailDispatch(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodPatch, "/api/settings", token, map[string]string{
		"mode":      "remote",
		"remoteUrl": "postgres://db.example.com/fabstock",
		"remoteKey": "service-key",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "email dispatch must be configured")
	assert.Equal(t, domain.ModeLocal, s.store.Settings().Mode)

	// Sign-in keeps working after the rejected switch.
	rec, env = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@fablab.com"})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	assert.NotNil(t, decodeData[auth.LoginResult](t, env).Session)
}

func TestUploadWithoutRemoteConfiguration(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin@fablab.com")

	rec, env := s.do(t, http.MethodPost, "/api/sync/upload", token, nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, env.Error, "remote endpoint URL and API key are required")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	s := newTestServer(t, NewRateLimiter(client, "test:", 1, time.Minute))
	token := s.login(t, "admin@fablab.com")

	for range 3 {
		rec, _ := s.do(t, http.MethodPost, "/api/assistant/advice", token, map[string]string{"question": "?"})
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestNewRateLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewRateLimiter(nil, "", 10, time.Minute))

	var rl *RateLimiter
	called := false
	rl.Middleware(func(http.ResponseWriter, *http.Request) { called = true })(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		&domain.ValidationError{Field: "name", Message: "is required"}: http.StatusBadRequest,
		&domain.PermissionError{Member: "a", Capability: "b"}:          http.StatusForbidden,
		domain.NotFound("item", "x"):                                   http.StatusNotFound,
		domain.ErrInvalidTransition:                                    http.StatusConflict,
		&domain.ConfigurationError{Message: "missing"}:                 http.StatusPreconditionFailed,
		&domain.RemoteError{Op: "select", Err: errors.New("down")}:     http.StatusBadGateway,
		domain.ErrUnknownMember:                                        http.StatusUnauthorized,
		auth.ErrInvalidToken:                                           http.StatusUnauthorized,
		errors.New("boom"):                                             http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}
