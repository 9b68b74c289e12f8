package domain

import (
	"net/url"
	"strings"
)

// DefaultTrackingParams is the default set of query parameters removed during
// normalization when tracking-stripping is enabled. Entries ending in '*'
// match by prefix.
var DefaultTrackingParams = []string{
	"utm_*", "fbclid", "gclid", "ref", "mc_cid", "mc_eid", "igshid",
}

// NormalizeOptions controls URL normalization behavior.
type NormalizeOptions struct {
	// StripTracking removes known tracking query parameters.
	StripTracking bool

	// TrackingParams overrides the stripped parameter set.
	// Nil means DefaultTrackingParams.
	TrackingParams []string
}

// NormalizeURL canonicalizes a URL string for equality comparisons.
//
// Rules, applied in order: prepend https:// when no scheme is present,
// lower-case the whole string, upgrade http to https, strip a leading "www."
// from the host, strip a
// trailing "/" when the path is exactly "/", and optionally remove tracking
// query parameters while preserving the relative order of the rest.
//
// The function is total: malformed input falls back to a lower-cased copy.
// It is idempotent: NormalizeURL(NormalizeURL(x)) == NormalizeURL(x).
func NormalizeURL(raw string, opts NormalizeOptions) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	s = strings.ToLower(s)

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		// not parseable as a URL, compare the lower-cased string as-is
		return s
	}

	if u.Scheme == "http" {
		u.Scheme = "https"
	}
	u.Host = strings.TrimPrefix(u.Host, "www.")
	if u.Path == "/" {
		u.Path = ""
	}

	if opts.StripTracking && u.RawQuery != "" {
		u.RawQuery = stripTrackingParams(u.RawQuery, opts.trackingSet())
	}

	return u.String()
}

// EquivalentURL reports whether two URL strings normalize to the same
// canonical form.
func EquivalentURL(a, b string, opts NormalizeOptions) bool {
	return NormalizeURL(a, opts) == NormalizeURL(b, opts)
}

func (o NormalizeOptions) trackingSet() []string {
	if o.TrackingParams != nil {
		return o.TrackingParams
	}
	return DefaultTrackingParams
}

// stripTrackingParams removes matching keys from a raw query string without
// disturbing the order or encoding of the surviving parameters.
func stripTrackingParams(rawQuery string, tracked []string) string {
	pairs := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(pairs))

	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key := pair
		if idx := strings.IndexByte(pair, '='); idx >= 0 {
			key = pair[:idx]
		}
		if isTrackedParam(key, tracked) {
			continue
		}
		kept = append(kept, pair)
	}

	return strings.Join(kept, "&")
}

func isTrackedParam(key string, tracked []string) bool {
	for _, t := range tracked {
		if prefix, ok := strings.CutSuffix(t, "*"); ok {
			if strings.HasPrefix(key, prefix) {
				return true
			}
			continue
		}
		if key == t {
			return true
		}
	}
	return false
}
