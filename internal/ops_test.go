package internal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appshell/internal"
	"github.com/dmitrymomot/appshell/pkg/descriptor"
	"github.com/dmitrymomot/appshell/pkg/loader"
)

func newTestShell(t *testing.T, opts ...internal.Option) *internal.Shell {
	t.Helper()

	shell := internal.New(opts...)
	_, err := shell.Register(&internal.Module{
		Descriptor: &descriptor.Descriptor{
			Name:  "@shell/login",
			Pages: []descriptor.Page{{Component: "root", Route: "login"}},
			Extensions: []descriptor.Extension{
				{Name: "logout-button", Slot: "user-panel-actions-slot", Component: "logoutButton"},
			},
		},
		Loaders: map[string]loader.LoadFunc{
			"root":         func(context.Context) (loader.Factory, error) { return "login-root", nil },
			"logoutButton": func(context.Context) (loader.Factory, error) { return "logout-button", nil },
		},
	})
	require.NoError(t, err)
	return shell
}

func TestHandler(t *testing.T) {
	t.Parallel()

	t.Run("liveness always succeeds", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(internal.New().Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health/live")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("readiness fails with an empty catalog", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(internal.New().Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health/ready")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("readiness succeeds with a registered module", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(newTestShell(t).Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health/ready")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("readiness reports a blocked required module", func(t *testing.T) {
		t.Parallel()

		shell := internal.New(
			internal.WithBackendVersions(map[string]string{"webservices.rest": "2.23.0"}),
		)
		_, err := shell.Register(&internal.Module{
			Descriptor: &descriptor.Descriptor{
				Name:                "@shell/login",
				Required:            true,
				BackendDependencies: map[string]string{"webservices.rest": ">=2.24.0"},
				Pages:               []descriptor.Page{{Component: "root", Route: "login"}},
			},
			Loaders: map[string]loader.LoadFunc{
				"root": func(context.Context) (loader.Factory, error) { return "login-root", nil },
			},
		})
		require.NoError(t, err)

		srv := httptest.NewServer(shell.Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health/ready")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body struct {
			Checks map[string]struct {
				Status string `json:"status"`
				Error  string `json:"error,omitempty"`
			} `json:"checks"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Contains(t, body.Checks["gate"].Error, "@shell/login")
	})

	t.Run("resolve endpoint returns matching entries", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(newTestShell(t).Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/shell/resolve?path=/login")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Path    string `json:"path"`
			Entries []struct {
				Module    string `json:"module"`
				Component string `json:"component"`
			} `json:"entries"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "/login", body.Path)
		require.Len(t, body.Entries, 1)
		require.Equal(t, "@shell/login", body.Entries[0].Module)
		require.Equal(t, "root", body.Entries[0].Component)
	})

	t.Run("resolve endpoint requires a path", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(newTestShell(t).Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/shell/resolve")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("slot endpoint returns slot entries", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(newTestShell(t).Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/shell/slots/user-panel-actions-slot")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Slot    string `json:"slot"`
			Entries []struct {
				Name string `json:"name"`
			} `json:"entries"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "user-panel-actions-slot", body.Slot)
		require.Len(t, body.Entries, 1)
		require.Equal(t, "logout-button", body.Entries[0].Name)
	})

	t.Run("modules endpoint reflects runtime state", func(t *testing.T) {
		t.Parallel()

		shell := newTestShell(t)

		entries := shell.ResolveRoute("login")
		require.Len(t, entries, 1)
		_, err := shell.Activate(context.Background(), entries[0])
		require.NoError(t, err)

		srv := httptest.NewServer(shell.Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/shell/modules")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []struct {
			Name       string `json:"name"`
			Pages      int    `json:"pages"`
			Extensions int    `json:"extensions"`
			Started    bool   `json:"started"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		require.Equal(t, "@shell/login", body[0].Name)
		require.Equal(t, 1, body[0].Pages)
		require.Equal(t, 1, body[0].Extensions)
		require.True(t, body[0].Started)
	})

	t.Run("metrics endpoint serves the shell registry", func(t *testing.T) {
		t.Parallel()

		shell := newTestShell(t)
		shell.ResolveRoute("login")

		srv := httptest.NewServer(shell.Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
