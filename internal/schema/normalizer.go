package schema

import "strings"

// MediaRef is a canonical media reference with an absolute URL.
type MediaRef struct {
	URL     string
	AltText string
}

// Config holds the explicit defaults the normalizer needs. The original
// site read the store origin from ambient environment lookups at every call
// site; here it is passed in once.
type Config struct {
	// BaseURL is the content store origin used to absolutize relative
	// media paths, e.g. "http://localhost:1337".
	BaseURL string
}

// Normalizer resolves media and relation references into canonical lists.
// It has no fatal error path: malformed or partially-populated input
// degrades to an empty result so a bad content entry never blanks a page.
type Normalizer struct {
	baseURL string
}

// New creates a Normalizer for the given store origin.
func New(cfg Config) *Normalizer {
	return &Normalizer{baseURL: strings.TrimSuffix(cfg.BaseURL, "/")}
}

// ResolveURL absolutizes a media path. Absolute http(s) URLs pass through
// unchanged, relative paths are prefixed with the configured origin, and
// empty input stays empty.
func (n *Normalizer) ResolveURL(u string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return n.baseURL + u
}

// ResolveMediaList normalizes any of the store's media value shapes into a
// flat list: nil, a bare media object, an array of media objects, or a
// {data: ...} envelope wrapping either. The store never nests envelopes
// more than once, so exactly one level is unwrapped. Values matching none
// of the shapes resolve to an empty list.
func (n *Normalizer) ResolveMediaList(v any) []MediaRef {
	out := make([]MediaRef, 0)
	for _, item := range unwrapList(v) {
		if ref, ok := n.mediaRef(item); ok {
			out = append(out, ref)
		}
	}
	return out
}

// ResolveRelationList applies the same unwrapping rules to relation
// references (subjects, categories) and returns the related records.
func (n *Normalizer) ResolveRelationList(v any) []Record {
	items := unwrapList(v)
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// unwrapList flattens the supported wrapper shapes into a slice of raw
// values: nil -> empty, array -> itself, {data: ...} -> the unwrapped value
// (one level only), any other object -> a one-element slice.
func unwrapList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case map[string]any:
		d, ok := t["data"]
		if !ok {
			return []any{t}
		}
		switch inner := d.(type) {
		case nil:
			return nil
		case []any:
			return inner
		case map[string]any:
			return []any{inner}
		default:
			return nil
		}
	default:
		return nil
	}
}

// mediaRef extracts URL and alt text from one media object, in either
// shape. Size variants are preferred medium, then small, then the
// original upload.
func (n *Normalizer) mediaRef(v any) (MediaRef, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return MediaRef{}, false
	}
	attrs, _ := m["attributes"].(map[string]any)

	url := variantURL(m["formats"])
	if url == "" && attrs != nil {
		url = variantURL(attrs["formats"])
	}
	if url == "" {
		url, _ = m["url"].(string)
	}
	if url == "" && attrs != nil {
		url, _ = attrs["url"].(string)
	}
	if url == "" {
		return MediaRef{}, false
	}

	alt, _ := m["alternativeText"].(string)
	if alt == "" && attrs != nil {
		alt, _ = attrs["alternativeText"].(string)
	}

	return MediaRef{URL: n.ResolveURL(url), AltText: alt}, true
}

// variantURL picks the preferred size variant from a formats object.
func variantURL(formats any) string {
	fm, ok := formats.(map[string]any)
	if !ok {
		return ""
	}
	for _, size := range []string{"medium", "small"} {
		if f, ok := fm[size].(map[string]any); ok {
			if u, ok := f["url"].(string); ok && u != "" {
				return u
			}
		}
	}
	return ""
}
