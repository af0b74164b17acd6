package database

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// withTx executes a function within a database transaction.
// It rolls back when fn returns an error and commits otherwise.
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// orderedByPosition sorts rows by their position then creation time, so gaps
// and ties left by concurrent writers still read back in a stable order
func orderedByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}

// bumpVersion is the update expression for optimistic-concurrency counters
var bumpVersion = gorm.Expr("version + 1")

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, translate(err))
}

// encodeJSONFields serializes the named entries of an update map. gorm only
// runs field serializers for struct updates, JSON columns updated through a
// map must already be encoded.
func encodeJSONFields(fields map[string]any, names ...string) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, name := range names {
		v, ok := out[name]
		if !ok {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		out[name] = string(b)
	}
	return out, nil
}
