package provider

import (
	"context"
	"fmt"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/localstore"
)

// LoadSettings reads the persisted settings, defaulting unset or unreadable content.
func LoadSettings(ctx context.Context, kv localstore.KV) domain.AppSettings {
	s := localstore.Load(ctx, kv, domain.KeySettings, domain.DefaultSettings())
	if s.Mode == "" {
		s.Mode = domain.ModeLocal
	}
	return s
}

func saveSettings(ctx context.Context, kv localstore.KV, s domain.AppSettings) error {
	if err := localstore.Save(ctx, kv, domain.KeySettings, s); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

// Settings returns the current settings.
func (p *Provider) Settings() domain.AppSettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// UpdateSettings shallow-merges patch into the current settings and persists the result.
// When the mode, endpoint or key changed the backend is reinitialized; an initialization
// error is returned alongside the already-saved settings.
func (p *Provider) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.AppSettings, error) {
	p.mu.Lock()
	prev := p.settings
	next := prev.Merge(patch)
	if err := next.Validate(); err != nil {
		p.mu.Unlock()
		return prev, err
	}
	// Remote sign-in needs email dispatch; settings are only reachable with a session.
	if next.RemoteSignInUnavailable() && !prev.RemoteSignInUnavailable() {
		p.mu.Unlock()
		return prev, &domain.ValidationError{Field: "email", Message: "dispatch must be configured before enabling remote mode"}
	}
	p.settings = next
	p.mu.Unlock()

	if err := saveSettings(ctx, p.local, next); err != nil {
		return next, err
	}
	if prev.ConnectionChanged(next) {
		return next, p.initialize(ctx)
	}
	return next, nil
}
