package http

import (
	"net/http"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

// settingsView hides the remote key.
type settingsView struct {
	domain.AppSettings
	RemoteKey        string `json:"remoteKey,omitempty"`
	RemoteKeySet     bool   `json:"remoteKeySet"`
	EmailConfigured  bool   `json:"emailConfigured"`
	RemoteConfigured bool   `json:"remoteConfigured"`
}

func viewSettings(s domain.AppSettings) settingsView {
	return settingsView{
		AppSettings:      s,
		RemoteKeySet:     s.RemoteKey != "",
		EmailConfigured:  s.EmailConfigured(),
		RemoteConfigured: s.RemoteConfigured(),
	}
}

// SyncStatus handles GET /api/sync/status
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.store.Status())
}

// GetSettings handles GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, viewSettings(h.store.Settings()))
}

// UpdateSettings handles PATCH /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	settings, err := h.store.UpdateSettings(r.Context(), patch)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Str("mode", string(settings.Mode)).
		Str("member_id", actor(r).ID).
		Msg("Settings updated")
	respondMessage(w, http.StatusOK, "Settings saved", viewSettings(settings))
}

// migrationTarget merges the optional request body onto the current settings.
func (h *Handler) migrationTarget(w http.ResponseWriter, r *http.Request) (domain.AppSettings, bool) {
	target := h.store.Settings()
	if r.ContentLength == 0 {
		return target, true
	}
	var patch domain.SettingsPatch
	if !decodeBody(w, r, &patch) {
		return target, false
	}
	return target.Merge(patch), true
}

// Upload handles POST /api/sync/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	target, ok := h.migrationTarget(w, r)
	if !ok {
		return
	}

	if err := h.store.UploadLocalToRemote(r.Context(), target); err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Local data uploaded to the remote backend", viewSettings(h.store.Settings()))
}

// Download handles POST /api/sync/download
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	target, ok := h.migrationTarget(w, r)
	if !ok {
		return
	}

	if err := h.store.DownloadRemoteToLocal(r.Context(), target); err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Remote data copied to local storage", viewSettings(h.store.Settings()))
}
