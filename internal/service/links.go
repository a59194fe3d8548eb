package service

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowdesk/flowdesk/internal/domain"
)

//go:embed rolepaths.yaml
var rolePathsYAML []byte

// rolePathEntry is one row of the role routing table.
type rolePathEntry struct {
	Base     string   `yaml:"base"`
	Subpaths []string `yaml:"subpaths"`
}

// LinkResolver maps roles to their dashboard base paths and rewrites stored
// deep links for whichever role reads them.
type LinkResolver struct {
	entries  map[domain.Role]rolePathEntry
	subpaths map[domain.Role]map[string]bool
	// bases is sorted longest-first so prefix matching picks the most
	// specific base.
	bases []string
}

// NewLinkResolver parses the embedded role routing table.
func NewLinkResolver() (*LinkResolver, error) {
	var raw map[string]rolePathEntry
	if err := yaml.Unmarshal(rolePathsYAML, &raw); err != nil {
		return nil, fmt.Errorf("parse role paths table: %w", err)
	}

	r := &LinkResolver{
		entries:  make(map[domain.Role]rolePathEntry, len(raw)),
		subpaths: make(map[domain.Role]map[string]bool, len(raw)),
	}
	for name, entry := range raw {
		role := domain.Role(name)
		if !role.IsValid() {
			return nil, fmt.Errorf("role paths table: unknown role %q", name)
		}
		r.entries[role] = entry
		known := make(map[string]bool, len(entry.Subpaths))
		for _, sub := range entry.Subpaths {
			known[sub] = true
		}
		r.subpaths[role] = known
		r.bases = append(r.bases, entry.Base)
	}
	sort.Slice(r.bases, func(i, j int) bool {
		return len(r.bases[i]) > len(r.bases[j])
	})

	return r, nil
}

// BasePath returns the dashboard root path for a role. Unknown roles get the
// site root so callers always end up somewhere valid.
func (r *LinkResolver) BasePath(role domain.Role) string {
	if entry, ok := r.entries[role]; ok {
		return entry.Base
	}
	return "/"
}

// TaskLink builds the deep link to a task, prefixed with the acting role's
// base path.
func (r *LinkResolver) TaskLink(role domain.Role, taskID string) string {
	return r.BasePath(role) + "/tasks/" + taskID
}

// RevisionsLink builds the deep link to the revisions queue for a role.
func (r *LinkResolver) RevisionsLink(role domain.Role) string {
	return r.BasePath(role) + "/revisions"
}

// ResolveForViewer rewrites a stored link for the viewing role. Total
// function: every (link, viewer) pair resolves to a valid path.
//
//   - link already under the viewer's base path: returned unchanged
//   - link under another role's base path whose sub-path the viewer also
//     supports: rewritten onto the viewer's base path
//   - anything else: the viewer's dashboard root, never a dead deep link
func (r *LinkResolver) ResolveForViewer(link string, viewer domain.Role) string {
	viewerEntry, ok := r.entries[viewer]
	if !ok {
		return "/"
	}

	matchedBase := ""
	for _, base := range r.bases {
		if link == base || strings.HasPrefix(link, base+"/") {
			matchedBase = base
			break
		}
	}
	if matchedBase == "" {
		return viewerEntry.Base
	}
	if matchedBase == viewerEntry.Base {
		return link
	}

	subPath := strings.TrimPrefix(link, matchedBase)
	if subPath == "" {
		return viewerEntry.Base
	}

	top := strings.TrimPrefix(subPath, "/")
	if i := strings.Index(top, "/"); i >= 0 {
		top = top[:i]
	}
	if r.subpaths[viewer][top] {
		return viewerEntry.Base + subPath
	}
	return viewerEntry.Base
}
