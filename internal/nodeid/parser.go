// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// idRegex accepts the characters allowed in a node identifier.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// Parse creates a new ID struct by parsing its canonical string representation.
// The longest known prefix wins, so `entity_field_x` parses as prefix
// `entity_field` rather than `field`-less garbage.
func Parse(rawID string) (*ID, error) {
	if rawID == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}
	if !idRegex.MatchString(rawID) {
		return nil, fmt.Errorf("invalid identifier format: %q", rawID)
	}

	best := ""
	for _, p := range prefixes {
		if len(p) > len(best) && strings.HasPrefix(rawID, p+"_") && len(rawID) > len(p)+1 {
			best = p
		}
	}
	if best == "" {
		return &ID{Name: rawID}, nil
	}
	return &ID{Prefix: best, Name: rawID[len(best)+1:]}, nil
}
