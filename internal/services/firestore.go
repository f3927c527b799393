package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is a DocumentStore backed by Cloud Firestore. The
// client honors FIRESTORE_EMULATOR_HOST.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{
		client: client,
	}, nil
}

func (fs *FirestoreStore) Close() error {
	return fs.client.Close()
}

func (fs *FirestoreStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	snap, err := fs.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	return snap.Data(), nil
}

func (fs *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := fs.client.Collection(collection).Doc(id).Set(ctx, fields)
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}

	return nil
}

func (fs *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := fs.client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}

	return nil
}

func (fs *FirestoreStore) FindBy(ctx context.Context, collection, field string, value any) (string, map[string]any, error) {
	iter := fs.client.Collection(collection).
		Where(field, "==", value).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}

	return doc.Ref.ID, doc.Data(), nil
}
