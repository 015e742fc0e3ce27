package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

type inviteService struct {
	inviteRepo db.InviteRepository
	userRepo   db.UserRepository
	notifier   NotificationService
	logger     *zap.Logger
}

// NewInviteService creates a new InviteService instance.
func NewInviteService(inviteRepo db.InviteRepository, userRepo db.UserRepository, notifier NotificationService, logger *zap.Logger) InviteService {
	return &inviteService{inviteRepo: inviteRepo, userRepo: userRepo, notifier: notifier, logger: logger}
}

func (s *inviteService) InviteProvider(ctx context.Context, agency models.Actor, req models.InviteProviderRequest) (*models.Invite, error) {
	if err := requireID("agencyId", agency.ID); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	// The role claim only carries admin, so agency membership comes from the profile.
	sender, err := s.userRepo.GetByID(ctx, agency.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to load inviting user '%s': %w", agency.ID, err)
	}
	if sender.Role != models.RoleAgency {
		return nil, ErrForbidden
	}
	if agency.Name == "" {
		agency.Name = sender.DisplayName
	}

	provider, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account for %s", ErrUserNotFound, req.Email)
		}
		return nil, fmt.Errorf("failed to look up provider by email: %w", err)
	}
	if provider.Role != models.RoleProvider {
		return nil, invalid("email", "%s is not a provider account", req.Email)
	}
	if provider.AgencyID == agency.ID {
		return nil, ErrAlreadyMember
	}

	_, err = s.inviteRepo.FindPending(ctx, agency.ID, provider.ID)
	switch {
	case err == nil:
		return nil, ErrAlreadyInvited
	case !errors.Is(err, db.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing invites: %w", err)
	}

	invite := &models.Invite{
		AgencyID:   agency.ID,
		AgencyName: agency.Name,
		ProviderID: provider.ID,
		Email:      provider.Email,
		Status:     models.InviteStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:  provider.ID,
		Type:    "agency_invite",
		Title:   "Agency invitation",
		Message: fmt.Sprintf("%s invited you to join their agency.", agencyLabel(agency.Name)),
		Link:    "/invites",
	})
	return invite, nil
}

// AcceptInvite links the provider to the agency and removes the invite in one transaction.
func (s *inviteService) AcceptInvite(ctx context.Context, providerID, inviteID string) (*models.Invite, error) {
	if err := requireIDs("inviteId", inviteID, "providerId", providerID); err != nil {
		return nil, err
	}
	invite, err := s.inviteRepo.Accept(ctx, inviteID, func(inv *models.Invite) error {
		if inv.ProviderID != providerID {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		return nil, mapInviteError(err, inviteID)
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:  invite.AgencyID,
		Type:    "invite_accepted",
		Title:   "Invitation accepted",
		Message: fmt.Sprintf("%s joined your agency.", invite.Email),
		Link:    "/agency/providers",
	})
	return invite, nil
}

func (s *inviteService) DeclineInvite(ctx context.Context, providerID, inviteID string) error {
	if err := requireIDs("inviteId", inviteID, "providerId", providerID); err != nil {
		return err
	}
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return mapInviteError(err, inviteID)
	}
	if invite.ProviderID != providerID {
		return ErrForbidden
	}
	if err := s.inviteRepo.Delete(ctx, inviteID); err != nil {
		return mapInviteError(err, inviteID)
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:  invite.AgencyID,
		Type:    "invite_declined",
		Title:   "Invitation declined",
		Message: fmt.Sprintf("%s declined your invitation.", invite.Email),
	})
	return nil
}

func (s *inviteService) CancelInvite(ctx context.Context, agencyID, inviteID string) error {
	if err := requireIDs("inviteId", inviteID, "agencyId", agencyID); err != nil {
		return err
	}
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return mapInviteError(err, inviteID)
	}
	if invite.AgencyID != agencyID {
		return ErrForbidden
	}
	if err := s.inviteRepo.Delete(ctx, inviteID); err != nil {
		return mapInviteError(err, inviteID)
	}
	return nil
}

func (s *inviteService) ListInvitesForProvider(ctx context.Context, providerID string) ([]*models.Invite, error) {
	if err := requireID("providerId", providerID); err != nil {
		return nil, err
	}
	invites, err := s.inviteRepo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invites for provider '%s': %w", providerID, err)
	}
	return invites, nil
}

func (s *inviteService) ListInvitesForAgency(ctx context.Context, agencyID string) ([]*models.Invite, error) {
	if err := requireID("agencyId", agencyID); err != nil {
		return nil, err
	}
	invites, err := s.inviteRepo.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invites for agency '%s': %w", agencyID, err)
	}
	return invites, nil
}

func mapInviteError(err error, inviteID string) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrInviteNotFound
	}
	return fmt.Errorf("invite '%s': %w", inviteID, err)
}

func agencyLabel(name string) string {
	if name == "" {
		return "An agency"
	}
	return name
}
