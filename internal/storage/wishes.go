// Package storage reads and writes the JSON documents backing the wish service.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/zhouzirui/wish-santa/backend/internal/model/wish"
)

type wishesDocument struct {
	Wishes []json.RawMessage `json:"wishes"`
}

// LoadWishes reads the wish pool from path. A missing or malformed file is
// logged and yields an empty pool; deciding whether that is fatal is up to the caller.
// Entries are decoded one at a time, so a single bad entry is skipped rather
// than emptying the pool.
func LoadWishes(path string, logger *zap.Logger) []wish.Wish {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("could not open wishes file", zap.String("path", path), zap.Error(err))
		return []wish.Wish{}
	}

	var doc wishesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Error("could not parse wishes file", zap.String("path", path), zap.Error(err))
		return []wish.Wish{}
	}

	wishes := make([]wish.Wish, 0, len(doc.Wishes))
	for i, raw := range doc.Wishes {
		item, err := decodeWish(raw)
		if err != nil {
			logger.Warn("skipping wish entry",
				zap.String("path", path),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		wishes = append(wishes, item)
	}
	return wishes
}

// decodeWish reads one entry. Missing fields are empty, scalar fields of any
// JSON type are taken as their text.
func decodeWish(raw json.RawMessage) (wish.Wish, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return wish.Wish{}, fmt.Errorf("entry is not an object: %w", err)
	}

	var item wish.Wish
	targets := map[string]*string{
		"name":    &item.Name,
		"trigram": &item.Trigram,
		"wish":    &item.Wish,
	}
	for key, target := range targets {
		value, ok := fields[key]
		if !ok {
			continue
		}
		text, err := scalarText(value)
		if err != nil {
			return wish.Wish{}, fmt.Errorf("field %q: %w", key, err)
		}
		*target = text
	}
	return item, nil
}

func scalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("expected a scalar, got %s", trimmed)
	default:
		// numbers and booleans keep their literal text
		return string(trimmed), nil
	}
}
