// Package seed loads fixture documents into Firestore for development and emulator projects.
package seed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/configs"
	"github.com/randy-rebucas/localpro-backend/pkg/database"
)

// Apply writes every fixture document. Documents with an ID replace any existing document,
// others are added with a generated ID. createdAt and updatedAt default to now.
// It returns the number of documents written.
func Apply(ctx context.Context, store database.FirestoreDB, fixtures *configs.Fixtures, now time.Time, logger *zap.Logger) (int, error) {
	names := make([]string, 0, len(fixtures.Collections))
	for name := range fixtures.Collections {
		names = append(names, name)
	}
	sort.Strings(names)

	written := 0
	for _, name := range names {
		for _, doc := range fixtures.Collections[name] {
			fields := withTimestamps(doc.Fields, now)
			id := doc.ID
			if id == "" {
				newID, err := store.Add(ctx, name, fields)
				if err != nil {
					return written, fmt.Errorf("seed %s: %w", name, err)
				}
				id = newID
			} else if err := store.Set(ctx, name, id, fields); err != nil {
				return written, fmt.Errorf("seed %s/%s: %w", name, id, err)
			}
			written++
			logger.Debug("Seeded document", zap.String("collection", name), zap.String("id", id))
		}
	}
	return written, nil
}

func withTimestamps(fields map[string]interface{}, now time.Time) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	if _, ok := out["createdAt"]; !ok {
		out["createdAt"] = now
	}
	if _, ok := out["updatedAt"]; !ok {
		out["updatedAt"] = out["createdAt"]
	}
	return out
}
