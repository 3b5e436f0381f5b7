// Package auth resolves logins to team members and issues signed sessions.
//
// In local mode a known email is signed in at once. In remote mode the member first
// receives a magic link by email; following it re-checks the address against the
// current team before a session is issued.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

// Directory is where members and the active storage mode are read from.
type Directory interface {
	Team() []domain.TeamMember
	Mode() domain.StorageMode
	Settings() domain.AppSettings
}

// LinkSender emails a sign-in link to a member.
type LinkSender interface {
	SendLoginLink(ctx context.Context, settings domain.AppSettings, member domain.TeamMember, link string) error
}

// Config configures the Service.
type Config struct {
	Secret       string
	SessionTTL   time.Duration
	MagicLinkTTL time.Duration
	// AppURL is the public base URL verification links point to.
	AppURL string
}

// Session is an issued session token.
type Session struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Member    domain.TeamMember `json:"member"`
}

// LoginResult is either a session (local mode) or a notice that a link was sent (remote mode).
type LoginResult struct {
	Session  *Session `json:"session,omitempty"`
	LinkSent bool     `json:"linkSent"`
}

// Service authenticates team members.
type Service struct {
	dir        Directory
	sender     LinkSender
	sessionKey []byte
	linkKey    []byte
	sessionTTL time.Duration
	linkTTL    time.Duration
	appURL     string
	now        func() time.Time
}

// NewService derives the signing keys from cfg.Secret. sender may be nil, which
// disables remote-mode logins.
func NewService(cfg Config, dir Directory, sender LinkSender) (*Service, error) {
	if len(cfg.Secret) < 16 {
		return nil, &domain.ConfigurationError{Message: "JWT secret must be at least 16 characters"}
	}
	sessionKey, err := deriveKey([]byte(cfg.Secret), purposeSession)
	if err != nil {
		return nil, err
	}
	linkKey, err := deriveKey([]byte(cfg.Secret), purposeMagicLink)
	if err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.MagicLinkTTL <= 0 {
		cfg.MagicLinkTTL = 15 * time.Minute
	}

	return &Service{
		dir:        dir,
		sender:     sender,
		sessionKey: sessionKey,
		linkKey:    linkKey,
		sessionTTL: cfg.SessionTTL,
		linkTTL:    cfg.MagicLinkTTL,
		appURL:     strings.TrimRight(cfg.AppURL, "/"),
		now:        time.Now,
	}, nil
}

// Login resolves email to a member. Unknown addresses fail with domain.ErrUnknownMember.
func (s *Service) Login(ctx context.Context, email string) (*LoginResult, error) {
	member, ok := domain.ResolveMember(s.dir.Team(), email)
	if !ok {
		logger.Warn(ctx).Str("email", domain.NormalizeEmail(email)).Msg("Login attempt for unknown email")
		return nil, domain.ErrUnknownMember
	}

	if s.dir.Mode() != domain.ModeRemote {
		session, err := s.issue(member)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx).Str("member_id", member.ID).Msg("Member signed in")
		return &LoginResult{Session: session}, nil
	}

	settings := s.dir.Settings()
	if s.sender == nil || !settings.EmailConfigured() {
		return nil, &domain.ConfigurationError{Message: "email dispatch must be configured for remote sign-in"}
	}
	link, err := s.magicLink(member)
	if err != nil {
		return nil, err
	}
	if err := s.sender.SendLoginLink(ctx, settings, member, link); err != nil {
		return nil, fmt.Errorf("failed to send sign-in link: %w", err)
	}
	logger.Info(ctx).Str("member_id", member.ID).Msg("Sign-in link sent")
	return &LoginResult{LinkSent: true}, nil
}

// Verify confirms a magic link and issues a session if its address still belongs to the team.
func (s *Service) Verify(ctx context.Context, token string) (*Session, error) {
	claims, err := parse(s.linkKey, purposeMagicLink, token, s.now)
	if err != nil {
		return nil, err
	}

	member, ok := domain.ResolveMember(s.dir.Team(), claims.Email)
	if !ok {
		logger.Warn(ctx).Str("email", claims.Email).Msg("Authenticated email is not a team member")
		return nil, &domain.PermissionError{Member: claims.Email, Capability: "sign in without being a team member"}
	}
	return s.issue(member)
}

// Authenticate validates a session token and resolves the member it belongs to
// against the current team, so removed members lose access at once.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.TeamMember, error) {
	claims, err := parse(s.sessionKey, purposeSession, token, s.now)
	if err != nil {
		return domain.TeamMember{}, err
	}

	member, ok := domain.ResolveMemberByID(s.dir.Team(), claims.MemberID)
	if !ok {
		return domain.TeamMember{}, domain.ErrUnknownMember
	}
	return member, nil
}

func (s *Service) issue(member domain.TeamMember) (*Session, error) {
	issued := s.now()
	expires := issued.Add(s.sessionTTL)
	token, err := sign(s.sessionKey, Claims{
		MemberID: member.ID,
		Email:    member.Email,
		Role:     string(member.Role),
		Purpose:  purposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, Member: member}, nil
}

func (s *Service) magicLink(member domain.TeamMember) (string, error) {
	if s.appURL == "" {
		return "", &domain.ConfigurationError{Message: "APP_URL is required for sign-in links"}
	}
	issued := s.now()
	token, err := sign(s.linkKey, Claims{
		Email:   domain.NormalizeEmail(member.Email),
		Purpose: purposeMagicLink,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.linkTTL)),
		},
	})
	if err != nil {
		return "", err
	}
	return s.appURL + "/api/auth/verify?token=" + url.QueryEscape(token), nil
}

// IsAuthError reports whether err should be answered with 401.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, domain.ErrUnknownMember)
}
