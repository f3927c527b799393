package services

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a DocumentStore when no document matches.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the remote document database, addressed by
// collection name and document id. Documents are flat field maps.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// FindBy returns the first document whose field equals value.
	FindBy(ctx context.Context, collection, field string, value any) (string, map[string]any, error)
}
