package domain

import "strings"

// StorageMode selects the active storage backend.
type StorageMode string

const (
	ModeLocal  StorageMode = "local"
	ModeRemote StorageMode = "remote"
)

// AppSettings is the process-wide application configuration persisted in local storage.
type AppSettings struct {
	Mode            StorageMode `json:"mode"`
	RemoteURL       string      `json:"remoteUrl"`
	RemoteKey       string      `json:"remoteKey"`
	EmailServiceID  string      `json:"emailServiceId"`
	EmailTemplateID string      `json:"emailTemplateId"`
	EmailPublicKey  string      `json:"emailPublicKey"`
}

// DefaultSettings returns the first-run settings.
func DefaultSettings() AppSettings {
	return AppSettings{Mode: ModeLocal}
}

// RemoteConfigured reports whether remote mode has both an endpoint and a key.
func (s AppSettings) RemoteConfigured() bool {
	return s.RemoteURL != "" && s.RemoteKey != ""
}

// EmailConfigured reports whether all email dispatch fields are set. Blank values count as unset.
func (s AppSettings) EmailConfigured() bool {
	return strings.TrimSpace(s.EmailServiceID) != "" &&
		strings.TrimSpace(s.EmailTemplateID) != "" &&
		strings.TrimSpace(s.EmailPublicKey) != ""
}

// RemoteSignInUnavailable reports whether s activates remote mode, where members sign
// in through an emailed link, without a complete email configuration.
func (s AppSettings) RemoteSignInUnavailable() bool {
	return s.Mode == ModeRemote && s.RemoteConfigured() && !s.EmailConfigured()
}

// ConnectionChanged reports whether other selects a different backend than s.
func (s AppSettings) ConnectionChanged(other AppSettings) bool {
	return s.Mode != other.Mode || s.RemoteURL != other.RemoteURL || s.RemoteKey != other.RemoteKey
}

// SettingsPatch is a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	Mode            *StorageMode `json:"mode,omitempty"`
	RemoteURL       *string      `json:"remoteUrl,omitempty"`
	RemoteKey       *string      `json:"remoteKey,omitempty"`
	EmailServiceID  *string      `json:"emailServiceId,omitempty"`
	EmailTemplateID *string      `json:"emailTemplateId,omitempty"`
	EmailPublicKey  *string      `json:"emailPublicKey,omitempty"`
}

// Merge applies a shallow patch and returns the result.
func (s AppSettings) Merge(p SettingsPatch) AppSettings {
	if p.Mode != nil {
		s.Mode = *p.Mode
	}
	if p.RemoteURL != nil {
		s.RemoteURL = *p.RemoteURL
	}
	if p.RemoteKey != nil {
		s.RemoteKey = *p.RemoteKey
	}
	if p.EmailServiceID != nil {
		s.EmailServiceID = *p.EmailServiceID
	}
	if p.EmailTemplateID != nil {
		s.EmailTemplateID = *p.EmailTemplateID
	}
	if p.EmailPublicKey != nil {
		s.EmailPublicKey = *p.EmailPublicKey
	}
	return s
}

// Validate checks the enumerated fields.
func (s AppSettings) Validate() error {
	if s.Mode != ModeLocal && s.Mode != ModeRemote {
		return &ValidationError{Field: "mode", Message: "must be local or remote"}
	}
	return nil
}
