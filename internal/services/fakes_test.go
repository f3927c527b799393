package services

import (
	"context"
	"io"
	"log/slog"
)

// fakeStore wraps a MemoryStore and lets a test replace single calls.
type fakeStore struct {
	*MemoryStore
	GetFunc func(ctx context.Context, collection, id string) (map[string]any, error)
	SetFunc func(ctx context.Context, collection, id string, fields map[string]any) error

	sets int
}

func newFakeStore() *fakeStore {
	return &fakeStore{MemoryStore: NewMemoryStore()}
}

func (f *fakeStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, collection, id)
	}
	return f.MemoryStore.Get(ctx, collection, id)
}

func (f *fakeStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	f.sets++
	if f.SetFunc != nil {
		return f.SetFunc(ctx, collection, id, fields)
	}
	return f.MemoryStore.Set(ctx, collection, id, fields)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
