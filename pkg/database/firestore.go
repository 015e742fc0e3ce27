package database

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreService implements the FirestoreDB interface.
type FirestoreService struct {
	client *firestore.Client
}

// NewFirestoreService wraps an existing Firestore client.
func NewFirestoreService(client *firestore.Client) *FirestoreService {
	return &FirestoreService{client: client}
}

// Get retrieves a document from a Firestore collection.
func (s *FirestoreService) Get(ctx context.Context, collection string, docID string) (map[string]interface{}, error) {
	doc, err := s.client.Collection(collection).Doc(docID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting document %s/%s: %w", collection, docID, err)
	}
	return doc.Data(), nil
}

// Add adds a new document with a generated ID and returns that ID.
func (s *FirestoreService) Add(ctx context.Context, collection string, data interface{}) (string, error) {
	docRef, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("error adding document to %s: %w", collection, err)
	}
	return docRef.ID, nil
}

// Set creates or overwrites the document docID.
func (s *FirestoreService) Set(ctx context.Context, collection string, docID string, data interface{}) error {
	if _, err := s.client.Collection(collection).Doc(docID).Set(ctx, data); err != nil {
		return fmt.Errorf("error setting document %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Update merges the given top-level fields into an existing document.
func (s *FirestoreService) Update(ctx context.Context, collection string, docID string, data map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(data))
	for path, value := range data {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	if _, err := s.client.Collection(collection).Doc(docID).Update(ctx, updates); err != nil {
		return fmt.Errorf("error updating document %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Delete removes a document from a Firestore collection.
func (s *FirestoreService) Delete(ctx context.Context, collection string, docID string) error {
	if _, err := s.client.Collection(collection).Doc(docID).Delete(ctx); err != nil {
		return fmt.Errorf("error deleting document %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Query runs an equality-filtered query. Each returned map carries the document ID under "id".
func (s *FirestoreService) Query(ctx context.Context, collection string, filters map[string]interface{}) ([]map[string]interface{}, error) {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	q := s.client.Collection(collection).Query
	for _, field := range fields {
		q = q.Where(field, "==", filters[field])
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	results := make([]map[string]interface{}, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error querying %s: %w", collection, err)
		}
		data := doc.Data()
		data["id"] = doc.Ref.ID
		results = append(results, data)
	}
	return results, nil
}

// Close closes the Firestore client.
func (s *FirestoreService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
