// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package favorites

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_UnmarshalVariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		extra   []string
		wantErr bool
	}{
		{name: "list", input: `{"favorites":["花田民居","落石谷"]}`, want: []string{"花田民居", "落石谷"}},
		{name: "missing key", input: `{}`, want: []string{}},
		{name: "null list", input: `{"favorites":null}`, want: []string{}},
		{name: "extra keys kept", input: `{"favorites":["A"],"owner":"lynn","v":2}`, want: []string{"A"}, extra: []string{"owner", "v"}},
		{name: "wrong favorites type", input: `{"favorites":"A"}`, wantErr: true},
		{name: "not an object", input: `["A"]`, wantErr: true},
		{name: "json null", input: `null`, wantErr: true},
		{name: "garbage", input: `{"favorites":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			err := json.Unmarshal([]byte(tt.input), &doc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, doc.Favorites); diff != "" {
				t.Errorf("favorites mismatch (-want +got):\n%s", diff)
			}
			for _, k := range tt.extra {
				assert.Contains(t, doc.Extra, k)
			}
			assert.NotContains(t, doc.Extra, "favorites")
		})
	}
}

func TestEncode_IndentedUnescapedWithExtras(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"owner":"lynn","favorites":["染织工坊"]}`), &doc))

	out, err := Encode(doc)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "染织工坊", "non-ASCII must not be escaped")
	assert.Contains(t, s, "\n  \"favorites\": [\n    \"染织工坊\"\n  ]")
	assert.Contains(t, s, `"owner": "lynn"`)
	assert.True(t, strings.HasSuffix(s, "\n"))
}

func TestEncode_EmptyDocumentHasEmptyList(t *testing.T) {
	out, err := Encode(Document{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"favorites\": []\n}\n", string(out))
}

func TestDocument_RemoveAtShiftsIndices(t *testing.T) {
	doc := Document{Favorites: []string{"A", "B", "C"}}

	removed, err := doc.RemoveAt(2)
	require.NoError(t, err)
	assert.Equal(t, "B", removed)
	assert.Equal(t, []string{"A", "C"}, doc.Favorites)

	_, err = doc.RemoveAt(0)
	assert.Error(t, err)
	_, err = doc.RemoveAt(3)
	assert.Error(t, err)
}

func TestDocument_CloneIsDeep(t *testing.T) {
	orig := Document{
		Favorites: []string{"A"},
		Extra:     map[string]json.RawMessage{"k": json.RawMessage(`1`)},
	}
	cp := orig.Clone()
	cp.Append("B")
	cp.Extra["k"][0] = '2'

	assert.Equal(t, []string{"A"}, orig.Favorites)
	assert.Equal(t, "1", string(orig.Extra["k"]))
	assert.True(t, cp.Contains("B"))
}

func TestDocument_Clear(t *testing.T) {
	doc := Document{Favorites: []string{"A"}}
	doc.Clear()
	assert.NotNil(t, doc.Favorites)
	assert.Empty(t, doc.Favorites)
}
