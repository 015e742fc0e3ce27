package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

const invitesCollection = "invites"

type firestoreInviteRepository struct {
	client *firestore.Client
}

// NewFirestoreInviteRepository creates an InviteRepository backed by Firestore.
func NewFirestoreInviteRepository(client *firestore.Client) InviteRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for InviteRepository.")
	}
	return &firestoreInviteRepository{client: client}
}

func (r *firestoreInviteRepository) Create(ctx context.Context, invite *models.Invite) (string, error) {
	docRef := r.client.Collection(invitesCollection).NewDoc()
	invite.ID = docRef.ID
	if _, err := docRef.Create(ctx, invite); err != nil {
		return "", fmt.Errorf("failed to create invite: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreInviteRepository) GetByID(ctx context.Context, inviteID string) (*models.Invite, error) {
	if inviteID == "" {
		return nil, errors.New("inviteID cannot be empty for GetByID operation")
	}
	snap, err := r.client.Collection(invitesCollection).Doc(inviteID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("invite with ID '%s' not found: %w", inviteID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invite with ID '%s': %w", inviteID, err)
	}
	return decodeInvite(snap)
}

func (r *firestoreInviteRepository) FindPending(ctx context.Context, agencyID, providerID string) (*models.Invite, error) {
	docs, err := r.client.Collection(invitesCollection).
		Where("agencyId", "==", agencyID).
		Where("providerId", "==", providerID).
		Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query pending invite: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no pending invite from agency '%s' to provider '%s': %w", agencyID, providerID, ErrNotFound)
	}
	return decodeInvite(docs[0])
}

func (r *firestoreInviteRepository) ListByProvider(ctx context.Context, providerID string) ([]*models.Invite, error) {
	return r.listBy(ctx, "providerId", providerID)
}

func (r *firestoreInviteRepository) ListByAgency(ctx context.Context, agencyID string) ([]*models.Invite, error) {
	return r.listBy(ctx, "agencyId", agencyID)
}

func (r *firestoreInviteRepository) listBy(ctx context.Context, field, value string) ([]*models.Invite, error) {
	iter := r.client.Collection(invitesCollection).Where(field, "==", value).Documents(ctx)
	defer iter.Stop()

	invites := []*models.Invite{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate invites for %s '%s': %w", field, value, err)
		}
		inv, err := decodeInvite(doc)
		if err != nil {
			log.Printf("Error decoding invite (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		invites = append(invites, inv)
	}
	return invites, nil
}

func (r *firestoreInviteRepository) Delete(ctx context.Context, inviteID string) error {
	_, err := r.client.Collection(invitesCollection).Doc(inviteID).Delete(ctx, firestore.Exists)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("invite with ID '%s' not found for deletion: %w", inviteID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete invite '%s': %w", inviteID, err)
	}
	return nil
}

func (r *firestoreInviteRepository) Accept(ctx context.Context, inviteID string, decide InviteDecision) (*models.Invite, error) {
	inviteRef := r.client.Collection(invitesCollection).Doc(inviteID)
	var accepted *models.Invite

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(inviteRef)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("invite with ID '%s' not found: %w", inviteID, ErrNotFound)
			}
			return err
		}
		invite, err := decodeInvite(snap)
		if err != nil {
			return err
		}
		if err := decide(invite); err != nil {
			return err
		}
		providerRef := r.client.Collection(usersCollection).Doc(invite.ProviderID)
		if err := tx.Update(providerRef, []firestore.Update{
			{Path: "agencyId", Value: invite.AgencyID},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return err
		}
		if err := tx.Delete(inviteRef); err != nil {
			return err
		}
		accepted = invite
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("accepting invite '%s' failed: %w", inviteID, err)
	}
	return accepted, nil
}

func decodeInvite(doc *firestore.DocumentSnapshot) (*models.Invite, error) {
	var inv models.Invite
	if err := doc.DataTo(&inv); err != nil {
		return nil, fmt.Errorf("failed to decode invite data for ID '%s': %w", doc.Ref.ID, err)
	}
	inv.ID = doc.Ref.ID
	return &inv, nil
}
