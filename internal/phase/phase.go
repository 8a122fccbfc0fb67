// Package phase models the process-wide feature phase that gates the gallery
// and notes surfaces.
package phase

import (
	"fmt"
	"strings"
)

// Phase is the application-wide feature state.
type Phase string

const (
	// Passive disables gallery and notes; auth stays available.
	Passive Phase = "passive"
	// Active enables every feature.
	Active Phase = "active"
)

// AlwaysAllowed lists paths that bypass the gate regardless of phase.
var AlwaysAllowed = map[string]struct{}{
	"/api/auth/login":    {},
	"/api/auth/register": {},
	"/api/system/phase":  {},
	"/docs":              {},
	"/openapi.json":      {},
}

// GatedMarkers are matched as substrings of the request path.
var GatedMarkers = []string{"/gallery", "/notes"}

// Parse converts a configured value into a Phase.
func Parse(value string) (Phase, error) {
	switch p := Phase(strings.ToLower(strings.TrimSpace(value))); p {
	case Passive, Active:
		return p, nil
	default:
		return "", fmt.Errorf("unknown phase %q", value)
	}
}

// Allows reports whether a request for path may proceed under phase p.
func Allows(path string, p Phase) bool {
	if _, ok := AlwaysAllowed[path]; ok {
		return true
	}
	if p != Passive {
		return true
	}
	for _, marker := range GatedMarkers {
		if strings.Contains(path, marker) {
			return false
		}
	}
	return true
}

func (p Phase) String() string {
	return string(p)
}
