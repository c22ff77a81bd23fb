package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/yukikurage/taskboard/internal/metrics"
)

// CollectionRepository persists whole collections as JSON documents on top
// of a KVRepository. Every key is namespaced with a fixed prefix.
type CollectionRepository struct {
	kv     KVRepository
	prefix string
	logger *slog.Logger
}

// NewCollectionRepository creates a new CollectionRepository. A nil logger
// falls back to slog.Default().
func NewCollectionRepository(kv KVRepository, prefix string, logger *slog.Logger) *CollectionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionRepository{
		kv:     kv,
		prefix: prefix,
		logger: logger,
	}
}

// Key returns the storage key for a collection name.
func (r *CollectionRepository) Key(name string) string {
	return r.prefix + name
}

// Load decodes the document stored under name into dst. It reports false when
// the document is absent, unreadable or corrupt; dst is left untouched in
// that case so callers start from an empty collection.
func (r *CollectionRepository) Load(ctx context.Context, name string, dst any) bool {
	raw, err := r.Raw(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			r.logger.Warn("collection unreadable, starting empty",
				slog.String("key", r.Key(name)),
				slog.String("error", err.Error()))
			metrics.ObserveLoadFailure(name, "read")
		}
		return false
	}

	if err := decode(raw, dst); err != nil {
		r.logger.Warn("collection corrupt, starting empty",
			slog.String("key", r.Key(name)),
			slog.String("error", err.Error()))
		metrics.ObserveLoadFailure(name, "decode")
		return false
	}
	return true
}

// Raw returns the stored document bytes without decoding them.
func (r *CollectionRepository) Raw(ctx context.Context, name string) ([]byte, error) {
	return r.kv.Get(ctx, r.Key(name))
}

// Save serializes v and replaces the document stored under name.
func (r *CollectionRepository) Save(ctx context.Context, name string, v any) error {
	start := time.Now()

	data, err := json.Marshal(v)
	if err != nil {
		metrics.ObserveSave(name, "error", time.Since(start))
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := r.kv.Set(ctx, r.Key(name), data); err != nil {
		metrics.ObserveSave(name, "error", time.Since(start))
		return err
	}

	metrics.ObserveSave(name, "ok", time.Since(start))
	return nil
}

// Remove deletes the document stored under name.
func (r *CollectionRepository) Remove(ctx context.Context, name string) error {
	return r.kv.Delete(ctx, r.Key(name))
}

// Exists reports whether a document is stored under name, regardless of
// whether it decodes.
func (r *CollectionRepository) Exists(ctx context.Context, name string) (bool, error) {
	_, err := r.Raw(ctx, name)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// decode unmarshals into a fresh value of dst's type and only assigns it on
// success, so a failed decode never leaves dst half-populated.
func decode(raw []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", dst)
	}

	if string(bytes.TrimSpace(raw)) == "null" {
		return fmt.Errorf("%w: null document", ErrCorruptCollection)
	}

	tmp := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptCollection, err)
	}
	rv.Elem().Set(tmp.Elem())
	return nil
}
