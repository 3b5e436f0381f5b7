package command

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

// Inviter delivers invitation emails to new members.
type Inviter interface {
	SendInvite(ctx context.Context, settings domain.AppSettings, member domain.TeamMember) error
}

// AddMemberCommand represents the command to add a team member
type AddMemberCommand struct {
	Actor domain.TeamMember
	Name  string
	Email string
	Role  domain.Role
}

// AddMemberResult carries the new member and the outcome of the invitation.
type AddMemberResult struct {
	Member      domain.TeamMember `json:"member"`
	InviteSent  bool              `json:"inviteSent"`
	InviteError string            `json:"inviteError,omitempty"`
}

// AddMemberHandler handles add member command
type AddMemberHandler struct {
	store   domain.Store
	inviter Inviter
}

// NewAddMemberHandler creates a new add member handler. inviter may be nil.
func NewAddMemberHandler(store domain.Store, inviter Inviter) *AddMemberHandler {
	return &AddMemberHandler{store: store, inviter: inviter}
}

// Handle adds the member and, when email settings are complete, sends an invitation.
// A failed invitation is reported in the result and does not undo the creation.
func (h *AddMemberHandler) Handle(ctx context.Context, cmd AddMemberCommand) (*AddMemberResult, error) {
	if err := requireAdmin(cmd.Actor, "manage the team"); err != nil {
		return nil, err
	}
	if err := required("name", cmd.Name); err != nil {
		return nil, err
	}
	if err := required("email", cmd.Email); err != nil {
		return nil, err
	}
	if cmd.Role == "" {
		cmd.Role = domain.RoleMember
	}
	if !cmd.Role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Message: "is not a known role"}
	}

	member := domain.TeamMember{
		ID:             newID(),
		Name:           cmd.Name,
		Email:          domain.NormalizeEmail(cmd.Email),
		Role:           cmd.Role,
		CanManageStock: cmd.Role != domain.RoleIntern,
		AvatarColor:    domain.AvatarColors[rand.IntN(len(domain.AvatarColors))],
	}

	err := h.store.UpdateTeam(ctx, func(team []domain.TeamMember) ([]domain.TeamMember, bool, error) {
		if _, taken := domain.FindMemberByEmail(team, member.Email); taken {
			return nil, false, &domain.ValidationError{Field: "email", Message: "is already used by another member"}
		}
		return append(team, member), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	result := &AddMemberResult{Member: member}
	settings := h.store.Settings()
	if h.inviter == nil || !settings.EmailConfigured() {
		return result, nil
	}
	if err := h.inviter.SendInvite(ctx, settings, member); err != nil {
		logger.Warn(ctx).Err(err).Str("member_id", member.ID).Msg("Invitation email failed")
		result.InviteError = err.Error()
		return result, nil
	}
	result.InviteSent = true
	return result, nil
}

// UpdateMemberCommand represents a partial edit of a team member. Nil fields are kept.
type UpdateMemberCommand struct {
	Actor          domain.TeamMember
	MemberID       string
	Name           *string
	Email          *string
	Role           *domain.Role
	CanManageStock *bool
}

// UpdateMemberHandler handles update member command
type UpdateMemberHandler struct {
	store domain.Store
}

// NewUpdateMemberHandler creates a new update member handler
func NewUpdateMemberHandler(store domain.Store) *UpdateMemberHandler {
	return &UpdateMemberHandler{store: store}
}

// Handle executes the update member command
func (h *UpdateMemberHandler) Handle(ctx context.Context, cmd UpdateMemberCommand) (*domain.TeamMember, error) {
	if err := requireAdmin(cmd.Actor, "manage the team"); err != nil {
		return nil, err
	}
	if cmd.CanManageStock != nil && cmd.MemberID == cmd.Actor.ID {
		return nil, &domain.PermissionError{Member: cmd.Actor.Name, Capability: "change their own stock permission"}
	}
	if cmd.Name != nil {
		if err := required("name", *cmd.Name); err != nil {
			return nil, err
		}
	}
	if cmd.Email != nil {
		if err := required("email", *cmd.Email); err != nil {
			return nil, err
		}
	}
	if cmd.Role != nil && !cmd.Role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Message: "is not a known role"}
	}

	var result domain.TeamMember
	err := h.store.UpdateTeam(ctx, func(team []domain.TeamMember) ([]domain.TeamMember, bool, error) {
		member, ok := domain.Find(team, cmd.MemberID)
		if !ok {
			return nil, false, domain.NotFound("member", cmd.MemberID)
		}
		if cmd.Name != nil {
			member.Name = *cmd.Name
		}
		if cmd.Email != nil {
			email := domain.NormalizeEmail(*cmd.Email)
			if other, taken := domain.FindMemberByEmail(team, email); taken && other.ID != member.ID {
				return nil, false, &domain.ValidationError{Field: "email", Message: "is already used by another member"}
			}
			member.Email = email
		}
		if cmd.Role != nil {
			member.Role = *cmd.Role
		}
		if cmd.CanManageStock != nil {
			member.CanManageStock = *cmd.CanManageStock
		}
		result = member
		next, _ := domain.Replace(team, member)
		return next, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return &result, nil
}

// DeleteMemberCommand represents the command to remove a team member
type DeleteMemberCommand struct {
	Actor    domain.TeamMember
	MemberID string
}

// DeleteMemberHandler handles delete member command
type DeleteMemberHandler struct {
	store domain.Store
}

// NewDeleteMemberHandler creates a new delete member handler
func NewDeleteMemberHandler(store domain.Store) *DeleteMemberHandler {
	return &DeleteMemberHandler{store: store}
}

// Handle executes the delete member command. Tickets assigned to the member keep the
// dangling reference.
func (h *DeleteMemberHandler) Handle(ctx context.Context, cmd DeleteMemberCommand) error {
	if err := requireAdmin(cmd.Actor, "manage the team"); err != nil {
		return err
	}
	if err := required("id", cmd.MemberID); err != nil {
		return err
	}
	if cmd.MemberID == cmd.Actor.ID {
		return &domain.ValidationError{Field: "id", Message: "cannot remove the signed-in member"}
	}

	h.store.RemoveMember(ctx, cmd.MemberID)
	return nil
}

// ResendInviteCommand represents a new invitation for an existing member
type ResendInviteCommand struct {
	Actor    domain.TeamMember
	MemberID string
}

// ResendInviteHandler handles resend invite command
type ResendInviteHandler struct {
	store   domain.Store
	inviter Inviter
}

// NewResendInviteHandler creates a new resend invite handler
func NewResendInviteHandler(store domain.Store, inviter Inviter) *ResendInviteHandler {
	return &ResendInviteHandler{store: store, inviter: inviter}
}

// Handle executes the resend invite command
func (h *ResendInviteHandler) Handle(ctx context.Context, cmd ResendInviteCommand) error {
	if err := requireAdmin(cmd.Actor, "manage the team"); err != nil {
		return err
	}

	member, ok := domain.Find(h.store.Team(), cmd.MemberID)
	if !ok {
		return domain.NotFound("member", cmd.MemberID)
	}
	settings := h.store.Settings()
	if h.inviter == nil || !settings.EmailConfigured() {
		return &domain.ConfigurationError{Message: "email service id, template id and public key are required"}
	}

	if err := h.inviter.SendInvite(ctx, settings, member); err != nil {
		return fmt.Errorf("failed to send invitation: %w", err)
	}
	return nil
}
