// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package favorites holds the favorites document, the location catalog and the
// local file store backing them.
package favorites

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

const favoritesKey = "favorites"

// Document is the persisted favorites list.
// Keys other than "favorites" are kept verbatim in Extra so a document received
// from the server survives a local load/save cycle unchanged.
type Document struct {
	Favorites []string
	Extra     map[string]json.RawMessage
}

// Empty returns a document with an empty, non-nil favorites list.
func Empty() Document {
	return Document{Favorites: []string{}}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := Document{Favorites: slices.Clone(d.Favorites)}
	if out.Favorites == nil {
		out.Favorites = []string{}
	}
	if len(d.Extra) > 0 {
		out.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = slices.Clone(v)
		}
	}
	return out
}

// Contains reports whether location is already a favorite.
func (d Document) Contains(location string) bool {
	return slices.Contains(d.Favorites, location)
}

// Append adds location at the end of the list.
func (d *Document) Append(location string) {
	d.Favorites = append(d.Favorites, location)
}

// RemoveAt removes the entry at the 1-based position and returns it.
func (d *Document) RemoveAt(position int) (string, error) {
	if position < 1 || position > len(d.Favorites) {
		return "", fmt.Errorf("position %d out of range 1-%d", position, len(d.Favorites))
	}
	removed := d.Favorites[position-1]
	d.Favorites = slices.Delete(d.Favorites, position-1, position)
	return removed, nil
}

// Clear empties the list.
func (d *Document) Clear() {
	d.Favorites = []string{}
}

// MarshalJSON writes the favorites key plus any preserved extra keys.
func (d Document) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(d.Extra)+1)
	for k, v := range d.Extra {
		obj[k] = v
	}
	favs := d.Favorites
	if favs == nil {
		favs = []string{}
	}
	obj[favoritesKey] = favs

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON accepts any JSON object. A missing or null "favorites" is an
// empty list; a "favorites" value that is not a list of strings is an error.
func (d *Document) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("favorites document must be a JSON object")
	}

	out := Empty()
	if raw, ok := obj[favoritesKey]; ok {
		delete(obj, favoritesKey)
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			var favs []string
			if err := json.Unmarshal(raw, &favs); err != nil {
				return fmt.Errorf("decode favorites list: %w", err)
			}
			out.Favorites = favs
		}
	}
	if len(obj) > 0 {
		out.Extra = obj
	}
	*d = out
	return nil
}

// Encode renders d the way it is stored on disk: two-space indentation,
// non-ASCII characters unescaped, trailing newline.
func Encode(d Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
