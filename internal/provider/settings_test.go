package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/localstore"
)

func strPtr(s string) *string { return &s }

func TestLoadSettingsDefaults(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	assert.Equal(t, domain.DefaultSettings(), LoadSettings(ctx, kv))

	require.NoError(t, kv.Put(ctx, domain.KeySettings, []byte(`{not json`)))
	assert.Equal(t, domain.ModeLocal, LoadSettings(ctx, kv).Mode)

	require.NoError(t, kv.Put(ctx, domain.KeySettings, []byte(`{"remoteUrl":"postgres://db"}`)))
	s := LoadSettings(ctx, kv)
	assert.Equal(t, domain.ModeLocal, s.Mode)
	assert.Equal(t, "postgres://db", s.RemoteURL)
}

func TestUpdateSettingsMergesAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	p := newTestProvider(t, kv, nil, domain.DefaultSettings())
	require.NoError(t, p.Start(ctx))

	got, err := p.UpdateSettings(ctx, domain.SettingsPatch{EmailServiceID: strPtr("service_abc")})
	require.NoError(t, err)
	assert.Equal(t, "service_abc", got.EmailServiceID)
	assert.Equal(t, domain.ModeLocal, got.Mode)

	got, err = p.UpdateSettings(ctx, domain.SettingsPatch{EmailTemplateID: strPtr("template_1")})
	require.NoError(t, err)
	assert.Equal(t, "service_abc", got.EmailServiceID, "unspecified fields are kept")
	assert.Equal(t, "template_1", got.EmailTemplateID)

	stored := localstore.Load(ctx, kv, domain.KeySettings, domain.AppSettings{})
	assert.Equal(t, got, stored)
	assert.Equal(t, got, p.Settings())
}

func TestUpdateSettingsSwitchesToRemote(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	seedRemote(t, fake, domain.Snapshot{Items: []domain.InventoryItem{{ID: "r1", Name: "Resin"}}})
	p := newTestProvider(t, newTestKV(t), fake.connector(), domain.DefaultSettings())
	require.NoError(t, p.Start(ctx))

	mode := domain.ModeRemote
	_, err := p.UpdateSettings(ctx, domain.SettingsPatch{
		Mode:      &mode,
		RemoteURL: strPtr(remoteSettings.RemoteURL),
		RemoteKey: strPtr(remoteSettings.RemoteKey),

		EmailServiceID:  strPtr("service_fab"),
		EmailTemplateID: strPtr("template_fab"),
		EmailPublicKey:  strPtr("pk_fab"),
	})
	require.NoError(t, err)

	st := p.Status()
	assert.Equal(t, StateReady, st.State)
	assert.Equal(t, domain.ModeRemote, st.Mode)
	require.Len(t, p.Items(), 1)
	assert.Equal(t, "r1", p.Items()[0].ID)
	assert.Empty(t, p.Team())
}

func TestUpdateSettingsEmailOnlyDoesNotReload(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	seedRemote(t, fake, domain.SeedSnapshot())
	p := newTestProvider(t, newTestKV(t), fake.connector(), remoteSettings)
	require.NoError(t, p.Start(ctx))

	// A failing select would surface if the update reinitialized.
	fake.setFailure(fake.failSelect, "inventory", errUnreachable)
	_, err := p.UpdateSettings(ctx, domain.SettingsPatch{EmailPublicKey: strPtr("pk_live")})

	require.NoError(t, err)
	assert.Equal(t, StateReady, p.State())
}

func TestUpdateSettingsRejectsUnknownMode(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, newTestKV(t), nil, domain.DefaultSettings())
	require.NoError(t, p.Start(ctx))

	mode := domain.StorageMode("ftp")
	_, err := p.UpdateSettings(ctx, domain.SettingsPatch{Mode: &mode})

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, domain.ModeLocal, p.Settings().Mode)
}

func TestUpdateSettingsRejectsRemoteWithoutEmail(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	p := newTestProvider(t, newTestKV(t), fake.connector(), domain.DefaultSettings())
	require.NoError(t, p.Start(ctx))

	mode := domain.ModeRemote
	_, err := p.UpdateSettings(ctx, domain.SettingsPatch{
		Mode:           &mode,
		RemoteURL:      strPtr(remoteSettings.RemoteURL),
		RemoteKey:      strPtr(remoteSettings.RemoteKey),
		EmailServiceID: strPtr("service_fab"),
	})

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "email", validationErr.Field)
	assert.Equal(t, domain.DefaultSettings(), p.Settings())
	assert.Equal(t, domain.ModeLocal, p.Mode())
	assert.Equal(t, domain.DefaultSettings(), LoadSettings(ctx, p.local))
}

func TestUpdateSettingsRejectsClearingEmailInRemoteMode(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	seedRemote(t, fake, domain.SeedSnapshot())
	settings := remoteSettings
	settings.EmailServiceID = "service_fab"
	settings.EmailTemplateID = "template_fab"
	settings.EmailPublicKey = "pk_fab"
	p := newTestProvider(t, newTestKV(t), fake.connector(), settings)
	require.NoError(t, p.Start(ctx))

	_, err := p.UpdateSettings(ctx, domain.SettingsPatch{EmailPublicKey: strPtr("")})

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "pk_fab", p.Settings().EmailPublicKey)
}
