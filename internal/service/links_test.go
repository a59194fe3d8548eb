package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdesk/flowdesk/internal/domain"
	"github.com/flowdesk/flowdesk/internal/service"
)

func newResolver(t *testing.T) *service.LinkResolver {
	t.Helper()
	r, err := service.NewLinkResolver()
	require.NoError(t, err)
	return r
}

// TestLinkResolver_BasePath verifies each role lands on its own dashboard
// root and unknown roles fall back to the site root.
func TestLinkResolver_BasePath(t *testing.T) {
	r := newResolver(t)

	assert.Equal(t, "/admin", r.BasePath(domain.RoleAdmin))
	assert.Equal(t, "/team-leader", r.BasePath(domain.RoleTeamLeader))
	assert.Equal(t, "/account-manager", r.BasePath(domain.RoleAccountManager))
	assert.Equal(t, "/client", r.BasePath(domain.RoleClient))
	assert.Equal(t, "/", r.BasePath(domain.Role("intern")))
}

// TestLinkResolver_TaskLink verifies task deep links carry the acting role's
// base path.
func TestLinkResolver_TaskLink(t *testing.T) {
	r := newResolver(t)

	assert.Equal(t, "/editor/tasks/abc", r.TaskLink(domain.RoleEditor, "abc"))
	assert.Equal(t, "/client/tasks/abc", r.TaskLink(domain.RoleClient, "abc"))
	assert.Equal(t, "/team-leader/revisions", r.RevisionsLink(domain.RoleTeamLeader))
}

// TestResolveForViewer covers the rewrite rules: same base unchanged, shared
// sub-path remapped, unsupported sub-path collapsed to the viewer's root.
func TestResolveForViewer(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name   string
		link   string
		viewer domain.Role
		want   string
	}{
		{
			name:   "own link unchanged",
			link:   "/client/tasks/abc",
			viewer: domain.RoleClient,
			want:   "/client/tasks/abc",
		},
		{
			name:   "shared sub-path remapped across roles",
			link:   "/team-leader/revisions",
			viewer: domain.RoleAccountManager,
			want:   "/account-manager/revisions",
		},
		{
			name:   "deep shared sub-path keeps its tail",
			link:   "/team-leader/tasks/abc",
			viewer: domain.RoleEditor,
			want:   "/editor/tasks/abc",
		},
		{
			name:   "unsupported sub-path collapses to viewer root",
			link:   "/team-leader/logs",
			viewer: domain.RoleClient,
			want:   "/client",
		},
		{
			name:   "client lacks revisions",
			link:   "/editor/revisions",
			viewer: domain.RoleClient,
			want:   "/client",
		},
		{
			name:   "bare base path maps to viewer root",
			link:   "/team-leader",
			viewer: domain.RoleEditor,
			want:   "/editor",
		},
		{
			name:   "unrecognized link falls back to viewer root",
			link:   "/legacy/board/42",
			viewer: domain.RoleEditor,
			want:   "/editor",
		},
		{
			name:   "unknown viewer gets site root",
			link:   "/admin/tasks/abc",
			viewer: domain.Role("intern"),
			want:   "/",
		},
		{
			name:   "admin keeps settings link",
			link:   "/admin/settings",
			viewer: domain.RoleAdmin,
			want:   "/admin/settings",
		},
		{
			name:   "team leader supports logs",
			link:   "/admin/logs",
			viewer: domain.RoleTeamLeader,
			want:   "/team-leader/logs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveForViewer(tt.link, tt.viewer)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestResolveForViewer_Total throws every role at every stored link shape and
// requires a usable path back each time.
func TestResolveForViewer_Total(t *testing.T) {
	r := newResolver(t)

	roles := []domain.Role{
		domain.RoleAdmin, domain.RoleTeamLeader, domain.RoleAccountManager,
		domain.RoleVideographer, domain.RolePhotographer, domain.RoleEditor,
		domain.RoleCreator, domain.RoleDesigner, domain.RoleClient,
	}
	links := []string{
		"/admin/tasks/abc", "/team-leader/revisions", "/client/notifications",
		"/editor/tasks/abc", "/admin/settings", "", "/", "/nowhere",
	}

	for _, viewer := range roles {
		for _, link := range links {
			got := r.ResolveForViewer(link, viewer)
			assert.NotEmpty(t, got, "viewer %s link %q", viewer, link)
			assert.Equal(t, byte('/'), got[0], "viewer %s link %q resolved to %q", viewer, link, got)
		}
	}
}
