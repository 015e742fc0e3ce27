package database

import "context"

// FirestoreDB is a schemaless document API over Firestore, used by tooling that
// writes arbitrary collections (fixture seeding, data repair).
type FirestoreDB interface {
	Get(ctx context.Context, collection string, docID string) (map[string]interface{}, error)
	Add(ctx context.Context, collection string, data interface{}) (string, error)
	// Set writes data under a known document ID, replacing any existing document.
	Set(ctx context.Context, collection string, docID string, data interface{}) error
	Update(ctx context.Context, collection string, docID string, data map[string]interface{}) error
	Delete(ctx context.Context, collection string, docID string) error
	// Query returns documents whose fields equal every value in filters.
	Query(ctx context.Context, collection string, filters map[string]interface{}) ([]map[string]interface{}, error)
	Close() error
}
