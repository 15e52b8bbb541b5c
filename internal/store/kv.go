// Package store provides the widget's local persistence: a small namespaced
// key-value layer over Pebble holding JSON values. Reads fall back to a
// default on any failure and writes are best-effort; nothing here is ever
// fatal to a caller.
package store

import (
	"encoding/json"
	"errors"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
)

// Namespace prefixes every persisted key so the database can be shared with
// future subsystems without collisions.
const Namespace = "fuadbot:"

// KV wraps an open Pebble database.
type KV struct {
	db *pebble.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*KV, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Log.Error("kv_open_failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("kv_opened", zap.String("path", path))
	return &KV{db: db}, nil
}

// Close closes the underlying database.
func (kv *KV) Close() error {
	if kv == nil || kv.db == nil {
		return nil
	}
	return kv.db.Close()
}

// Get reads and decodes the value under key. A missing key, read error, or
// corrupt value all yield def; corruption is logged and never surfaces.
func Get[T any](kv *KV, key string, def T) T {
	if kv == nil || kv.db == nil {
		return def
	}

	raw, closer, err := kv.db.Get([]byte(Namespace + key))
	if err != nil {
		if !errors.Is(err, pebble.ErrNotFound) {
			logger.Log.Warn("kv_read_failed", zap.String("key", key), zap.Error(err))
		}
		return def
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	if err := closer.Close(); err != nil {
		logger.Log.Warn("kv_close_failed", zap.String("key", key), zap.Error(err))
	}

	var out T
	if err := json.Unmarshal(buf, &out); err != nil {
		logger.Log.Warn("kv_decode_failed", zap.String("key", key), zap.Error(err))
		return def
	}
	return out
}

// Set encodes and writes value under key. Failures are logged no-ops so a
// full disk or encode error never reaches the mutation that triggered the
// write.
func Set[T any](kv *KV, key string, value T) {
	if kv == nil || kv.db == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Log.Warn("kv_encode_failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := kv.db.Set([]byte(Namespace+key), data, pebble.Sync); err != nil {
		logger.Log.Warn("kv_write_failed", zap.String("key", key), zap.Error(err))
	}
}
