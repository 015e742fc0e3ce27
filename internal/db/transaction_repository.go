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

const transactionsCollection = "transactions"

type firestoreTransactionRepository struct {
	client *firestore.Client
}

// NewFirestoreTransactionRepository creates a TransactionRepository backed by Firestore.
func NewFirestoreTransactionRepository(client *firestore.Client) TransactionRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for TransactionRepository.")
	}
	return &firestoreTransactionRepository{client: client}
}

func (r *firestoreTransactionRepository) GetByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if transactionID == "" {
		return nil, errors.New("transactionID cannot be empty for GetByID operation")
	}
	snap, err := r.client.Collection(transactionsCollection).Doc(transactionID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("transaction with ID '%s' not found: %w", transactionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction with ID '%s': %w", transactionID, err)
	}
	return decodeTransaction(snap)
}

func (r *firestoreTransactionRepository) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error) {
	iter := r.client.Collection(transactionsCollection).Where("status", "==", string(status)).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	txns := []*models.Transaction{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate transactions with status '%s': %w", status, err)
		}
		t, err := decodeTransaction(doc)
		if err != nil {
			log.Printf("Error decoding transaction (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func (r *firestoreTransactionRepository) CreateForBooking(ctx context.Context, bookingID string, decide PaymentDecision) (*models.Transaction, error) {
	bookingRef := r.client.Collection(bookingsCollection).Doc(bookingID)
	var created *models.Transaction

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(bookingRef)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("booking with ID '%s' not found: %w", bookingID, ErrBookingMissing)
			}
			return err
		}
		booking, err := decodeBooking(snap)
		if err != nil {
			return err
		}
		txn, err := decide(booking)
		if err != nil {
			return err
		}

		txnRef := r.client.Collection(transactionsCollection).NewDoc()
		txn.ID = txnRef.ID
		txn.BookingID = bookingID
		if err := tx.Create(txnRef, txn); err != nil {
			return err
		}
		if err := tx.Update(bookingRef, []firestore.Update{
			{Path: "paymentStatus", Value: string(models.PaymentPendingVerification)},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("payment submission for booking '%s' failed: %w", bookingID, err)
	}
	return created, nil
}

func (r *firestoreTransactionRepository) Resolve(ctx context.Context, transactionID string, decide ResolutionDecision) (*models.Transaction, error) {
	txnRef := r.client.Collection(transactionsCollection).Doc(transactionID)
	var resolved *models.Transaction

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(txnRef)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("transaction with ID '%s' not found: %w", transactionID, ErrNotFound)
			}
			return err
		}
		txn, err := decodeTransaction(snap)
		if err != nil {
			return err
		}
		paymentStatus, err := decide(txn)
		if err != nil {
			return err
		}
		bookingRef := r.client.Collection(bookingsCollection).Doc(txn.BookingID)
		if _, err := tx.Get(bookingRef); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("booking with ID '%s' not found: %w", txn.BookingID, ErrBookingMissing)
			}
			return err
		}

		updates := []firestore.Update{{Path: "status", Value: string(txn.Status)}}
		if txn.VerifiedAt != nil {
			updates = append(updates,
				firestore.Update{Path: "verifiedAt", Value: *txn.VerifiedAt},
				firestore.Update{Path: "verifiedBy", Value: txn.VerifiedBy})
		}
		if txn.RejectedAt != nil {
			updates = append(updates,
				firestore.Update{Path: "rejectedAt", Value: *txn.RejectedAt},
				firestore.Update{Path: "rejectionReason", Value: txn.RejectionReason})
		}
		if err := tx.Update(txnRef, updates); err != nil {
			return err
		}
		if err := tx.Update(bookingRef, []firestore.Update{
			{Path: "paymentStatus", Value: string(paymentStatus)},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return err
		}
		resolved = txn
		return nil
	})
	if err != nil {
		// The transaction document was read inside the transaction, so a NotFound at commit is the booking.
		if isNotFound(err) && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("resolving transaction '%s' failed: %v: %w", transactionID, err, ErrBookingMissing)
		}
		return nil, fmt.Errorf("resolving transaction '%s' failed: %w", transactionID, err)
	}
	return resolved, nil
}

func decodeTransaction(doc *firestore.DocumentSnapshot) (*models.Transaction, error) {
	var t models.Transaction
	if err := doc.DataTo(&t); err != nil {
		return nil, fmt.Errorf("failed to decode transaction data for ID '%s': %w", doc.Ref.ID, err)
	}
	t.ID = doc.Ref.ID
	return &t, nil
}
