package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeValue(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func newTestNormalizer() *Normalizer {
	return New(Config{BaseURL: "http://cms.local:1337"})
}

func TestResolveURL(t *testing.T) {
	n := newTestNormalizer()

	assert.Equal(t, "", n.ResolveURL(""))
	assert.Equal(t, "http://cms.local:1337/uploads/a.jpg", n.ResolveURL("/uploads/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", n.ResolveURL("https://cdn.example.com/a.jpg"))
	assert.Equal(t, "http://other.example/b.png", n.ResolveURL("http://other.example/b.png"))
}

func TestResolveURL_TrailingSlashBase(t *testing.T) {
	n := New(Config{BaseURL: "http://cms.local:1337/"})
	assert.Equal(t, "http://cms.local:1337/uploads/a.jpg", n.ResolveURL("/uploads/a.jpg"))
}

func TestResolveMediaList_Shapes(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name string
		raw  string
		want []MediaRef
	}{
		{
			name: "bare media object",
			raw:  `{"url": "/uploads/one.jpg", "alternativeText": "One"}`,
			want: []MediaRef{{URL: "http://cms.local:1337/uploads/one.jpg", AltText: "One"}},
		},
		{
			name: "array of media objects",
			raw:  `[{"url": "/a.jpg"}, {"url": "/b.jpg"}]`,
			want: []MediaRef{
				{URL: "http://cms.local:1337/a.jpg"},
				{URL: "http://cms.local:1337/b.jpg"},
			},
		},
		{
			name: "envelope wrapping one object",
			raw:  `{"data": {"url": "/c.jpg", "alternativeText": "C"}}`,
			want: []MediaRef{{URL: "http://cms.local:1337/c.jpg", AltText: "C"}},
		},
		{
			name: "envelope wrapping an array",
			raw:  `{"data": [{"url": "/d.jpg"}]}`,
			want: []MediaRef{{URL: "http://cms.local:1337/d.jpg"}},
		},
		{
			name: "relational media with nested attributes",
			raw:  `{"data": {"id": 3, "attributes": {"url": "/e.jpg", "alternativeText": "E"}}}`,
			want: []MediaRef{{URL: "http://cms.local:1337/e.jpg", AltText: "E"}},
		},
		{
			name: "empty envelope array",
			raw:  `{"data": []}`,
			want: []MediaRef{},
		},
		{
			name: "null envelope",
			raw:  `{"data": null}`,
			want: []MediaRef{},
		},
		{
			name: "scalar garbage",
			raw:  `"not media"`,
			want: []MediaRef{},
		},
		{
			name: "object without url",
			raw:  `{"name": "broken upload"}`,
			want: []MediaRef{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.ResolveMediaList(decodeValue(t, tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveMediaList_NilInput(t *testing.T) {
	n := newTestNormalizer()
	assert.Equal(t, []MediaRef{}, n.ResolveMediaList(nil))
}

func TestResolveMediaList_PrefersMediumThenSmall(t *testing.T) {
	n := newTestNormalizer()

	withAll := decodeValue(t, `{
		"url": "/orig.jpg",
		"formats": {
			"small":  {"url": "/small.jpg", "width": 500, "height": 300},
			"medium": {"url": "/medium.jpg", "width": 750, "height": 450}
		}
	}`)
	got := n.ResolveMediaList(withAll)
	require.Len(t, got, 1)
	assert.Equal(t, "http://cms.local:1337/medium.jpg", got[0].URL)

	withSmall := decodeValue(t, `{
		"url": "/orig.jpg",
		"formats": {"small": {"url": "/small.jpg"}}
	}`)
	got = n.ResolveMediaList(withSmall)
	require.Len(t, got, 1)
	assert.Equal(t, "http://cms.local:1337/small.jpg", got[0].URL)

	noFormats := decodeValue(t, `{"url": "/orig.jpg", "formats": {}}`)
	got = n.ResolveMediaList(noFormats)
	require.Len(t, got, 1)
	assert.Equal(t, "http://cms.local:1337/orig.jpg", got[0].URL)
}

func TestResolveRelationList(t *testing.T) {
	n := newTestNormalizer()
	subjectFields := NewFieldSet("name")

	tests := []struct {
		name  string
		raw   string
		names []string
	}{
		{
			name:  "flat array",
			raw:   `[{"id": 1, "name": "Math"}, {"id": 2, "name": "Science"}]`,
			names: []string{"Math", "Science"},
		},
		{
			name:  "envelope with relational records",
			raw:   `{"data": [{"id": 1, "attributes": {"name": "Art"}}]}`,
			names: []string{"Art"},
		},
		{
			name:  "envelope with single record",
			raw:   `{"data": {"id": 9, "name": "Music"}}`,
			names: []string{"Music"},
		},
		{
			name:  "empty envelope",
			raw:   `{"data": []}`,
			names: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := n.ResolveRelationList(decodeValue(t, tt.raw))
			names := make([]string, 0, len(recs))
			for _, r := range recs {
				names = append(names, r.StringField(subjectFields, "name"))
			}
			assert.Equal(t, tt.names, names)
		})
	}
}
