package appshell_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appshell"
)

func loginModule() *appshell.Module {
	yes := true
	return &appshell.Module{
		Descriptor: &appshell.Descriptor{
			Name:                "@shell/login",
			BackendDependencies: map[string]string{"webservices.rest": ">=2.24.0"},
			Pages: []appshell.Page{
				{Component: "root", Route: "login", Online: &yes, Offline: &yes},
				{Component: "root", Route: "logout", Online: &yes, Offline: &yes},
			},
			Extensions: []appshell.Extension{
				{Name: "logout-button", Slot: "user-panel-actions-slot", Component: "logoutButton"},
			},
		},
		Loaders: map[string]appshell.LoadFunc{
			"root":         func(context.Context) (appshell.Factory, error) { return "login-root", nil },
			"logoutButton": func(context.Context) (appshell.Factory, error) { return "logout-button", nil },
		},
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("registered module resolves without executing code", func(t *testing.T) {
		t.Parallel()

		var loads atomic.Int64
		mod := loginModule()
		mod.Loaders["root"] = func(context.Context) (appshell.Factory, error) {
			loads.Add(1)
			return "login-root", nil
		}

		shell := appshell.New()
		handle, err := shell.Register(mod)
		require.NoError(t, err)
		require.Equal(t, "@shell/login", handle.Module())

		require.Len(t, shell.ResolveRoute("/login"), 1)
		require.Len(t, shell.ResolveRoute("/logout"), 1)
		require.Len(t, shell.ResolveSlot("user-panel-actions-slot"), 1)
		require.Equal(t, int64(0), loads.Load(), "resolution must not load code")
	})

	t.Run("duplicate extension across modules fails the later module", func(t *testing.T) {
		t.Parallel()

		shell := appshell.New()
		_, err := shell.Register(loginModule())
		require.NoError(t, err)

		other := &appshell.Module{
			Descriptor: &appshell.Descriptor{
				Name: "@shell/account",
				Extensions: []appshell.Extension{
					{Name: "logout-button", Slot: "user-panel-actions-slot", Component: "c"},
				},
			},
		}
		_, err = shell.Register(other)
		require.ErrorIs(t, err, appshell.ErrDuplicateExtension)

		// First registration remains active.
		entries := shell.ResolveSlot("user-panel-actions-slot")
		require.Len(t, entries, 1)
		require.Equal(t, "@shell/login", entries[0].Module)
	})

	t.Run("rejected duplicate name leaves the original module activatable", func(t *testing.T) {
		t.Parallel()

		shell := appshell.New()
		_, err := shell.Register(loginModule())
		require.NoError(t, err)

		impostor := loginModule()
		impostor.Loaders["root"] = func(context.Context) (appshell.Factory, error) {
			return "impostor-root", nil
		}
		_, err = shell.Register(impostor)
		require.ErrorIs(t, err, appshell.ErrDuplicateModule)

		entries := shell.ResolveRoute("/login")
		require.Len(t, entries, 1)
		factory, err := shell.Activate(context.Background(), entries[0])
		require.NoError(t, err)
		require.Equal(t, "login-root", factory, "earlier registration keeps its loaders")
	})

	t.Run("activation racing a duplicate registration never sees the impostor", func(t *testing.T) {
		t.Parallel()

		shell := appshell.New()
		_, err := shell.Register(loginModule())
		require.NoError(t, err)

		entry := shell.ResolveRoute("/login")[0]

		var wg sync.WaitGroup
		for range 50 {
			wg.Go(func() {
				impostor := loginModule()
				impostor.Loaders["root"] = func(context.Context) (appshell.Factory, error) {
					return "impostor-root", nil
				}
				_, err := shell.Register(impostor)
				require.ErrorIs(t, err, appshell.ErrDuplicateModule)
			})
			wg.Go(func() {
				factory, err := shell.Activate(context.Background(), entry)
				require.NoError(t, err)
				require.Equal(t, "login-root", factory)
			})
		}
		wg.Wait()
	})

	t.Run("unregister removes the module's entries", func(t *testing.T) {
		t.Parallel()

		shell := appshell.New()
		_, err := shell.Register(loginModule())
		require.NoError(t, err)

		require.NoError(t, shell.Unregister("@shell/login"))
		require.Empty(t, shell.ResolveRoute("/login"))
		require.Empty(t, shell.ResolveSlot("user-panel-actions-slot"))
	})
}

func TestActivate(t *testing.T) {
	t.Parallel()

	t.Run("activates a resolved page entry", func(t *testing.T) {
		t.Parallel()

		shell := appshell.New()
		_, err := shell.Register(loginModule())
		require.NoError(t, err)

		entries := shell.ResolveRoute("/login")
		require.Len(t, entries, 1)

		factory, err := shell.Activate(context.Background(), entries[0])
		require.NoError(t, err)
		require.Equal(t, "login-root", factory)
	})

	t.Run("startup runs once per module even when many entries resolve concurrently", func(t *testing.T) {
		t.Parallel()

		var startups atomic.Int64
		mod := loginModule()
		mod.Startup = func(context.Context) (any, error) {
			startups.Add(1)
			return "login-config", nil
		}

		shell := appshell.New()
		_, err := shell.Register(mod)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 50 {
			wg.Go(func() {
				for _, entry := range shell.ResolveRoute("/login") {
					_, err := shell.Activate(context.Background(), entry)
					require.NoError(t, err)
				}
				for _, entry := range shell.ResolveSlot("user-panel-actions-slot") {
					_, err := shell.Activate(context.Background(), entry)
					require.NoError(t, err)
				}
			})
		}
		wg.Wait()

		require.Equal(t, int64(1), startups.Load())

		status := shell.Status("@shell/login")
		require.True(t, status.Started)
		require.Equal(t, "login-config", status.Config)
	})

	t.Run("startup failure marks the module failed for every entry", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("config schema rejected")
		mod := loginModule()
		mod.Startup = func(context.Context) (any, error) { return nil, boom }

		shell := appshell.New()
		_, err := shell.Register(mod)
		require.NoError(t, err)

		ctx := context.Background()
		for _, entry := range shell.ResolveRoute("/login") {
			_, err := shell.Activate(ctx, entry)
			require.ErrorIs(t, err, appshell.ErrStartup)
			require.ErrorIs(t, err, boom)
		}
		for _, entry := range shell.ResolveSlot("user-panel-actions-slot") {
			_, err := shell.Activate(ctx, entry)
			require.ErrorIs(t, err, appshell.ErrStartup)
		}
	})

	t.Run("a broken module does not affect unrelated modules", func(t *testing.T) {
		t.Parallel()

		broken := &appshell.Module{
			Descriptor: &appshell.Descriptor{
				Name:  "broken",
				Pages: []appshell.Page{{Component: "root", Route: "broken"}},
			},
			Loaders: map[string]appshell.LoadFunc{
				"root": func(context.Context) (appshell.Factory, error) { return nil, errors.New("fetch failed") },
			},
		}

		shell := appshell.New()
		_, err := shell.Register(broken)
		require.NoError(t, err)
		_, err = shell.Register(loginModule())
		require.NoError(t, err)

		ctx := context.Background()

		_, err = shell.Activate(ctx, shell.ResolveRoute("broken")[0])
		require.ErrorIs(t, err, appshell.ErrLoad)

		factory, err := shell.Activate(ctx, shell.ResolveRoute("login")[0])
		require.NoError(t, err)
		require.Equal(t, "login-root", factory)
	})

	t.Run("unknown loader key fails with ErrUnknownComponent", func(t *testing.T) {
		t.Parallel()

		mod := loginModule()
		delete(mod.Loaders, "logoutButton")

		shell := appshell.New()
		_, err := shell.Register(mod)
		require.NoError(t, err)

		entry := shell.ResolveSlot("user-panel-actions-slot")[0]
		_, err = shell.Activate(context.Background(), entry)
		require.ErrorIs(t, err, appshell.ErrUnknownComponent)
	})

	t.Run("cached load failure can be retried", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64
		mod := loginModule()
		mod.Loaders["root"] = func(context.Context) (appshell.Factory, error) {
			if attempts.Add(1) == 1 {
				return nil, errors.New("cold CDN")
			}
			return "login-root", nil
		}

		shell := appshell.New()
		_, err := shell.Register(mod)
		require.NoError(t, err)

		ctx := context.Background()
		entry := shell.ResolveRoute("login")[0]

		_, err = shell.Activate(ctx, entry)
		require.ErrorIs(t, err, appshell.ErrLoad)

		// Still cached.
		_, err = shell.Activate(ctx, entry)
		require.ErrorIs(t, err, appshell.ErrLoad)
		require.Equal(t, int64(1), attempts.Load())

		require.True(t, shell.Retry(entry))
		factory, err := shell.Activate(ctx, entry)
		require.NoError(t, err)
		require.Equal(t, "login-root", factory)
	})
}

func TestConnectivity(t *testing.T) {
	t.Parallel()

	t.Run("offline mode excludes online-only entries", func(t *testing.T) {
		t.Parallel()

		no := false
		mod := loginModule()
		mod.Descriptor.Pages = append(mod.Descriptor.Pages,
			appshell.Page{Component: "root", Route: "reports", Offline: &no})

		shell := appshell.New()
		_, err := shell.Register(mod)
		require.NoError(t, err)

		require.Len(t, shell.ResolveRoute("reports"), 1)

		shell.SetConnectivity(appshell.Offline)
		require.Empty(t, shell.ResolveRoute("reports"))
		require.Len(t, shell.ResolveRoute("login"), 1, "login supports both modes")
		require.Len(t, shell.ResolveRoute("logout"), 1)

		shell.SetConnectivity(appshell.Online)
		require.Len(t, shell.ResolveRoute("reports"), 1)
	})
}

func TestDependencyGate(t *testing.T) {
	t.Parallel()

	t.Run("unsatisfied constraints degrade a non-required module", func(t *testing.T) {
		t.Parallel()

		shell := appshell.New(
			appshell.WithBackendVersions(map[string]string{"webservices.rest": "2.23.0"}),
		)
		_, err := shell.Register(loginModule())
		require.NoError(t, err)

		status := shell.Status("@shell/login")
		require.True(t, status.Degraded)
		require.False(t, status.Blocked)

		// Activation proceeds despite the degraded flag.
		factory, err := shell.Activate(context.Background(), shell.ResolveRoute("login")[0])
		require.NoError(t, err)
		require.Equal(t, "login-root", factory)
	})

	t.Run("unsatisfied constraints block a required module", func(t *testing.T) {
		t.Parallel()

		mod := loginModule()
		mod.Descriptor.Required = true

		shell := appshell.New(
			appshell.WithBackendVersions(map[string]string{"webservices.rest": "2.23.0"}),
		)
		_, err := shell.Register(mod)
		require.NoError(t, err)
		require.True(t, shell.Status("@shell/login").Blocked)

		_, err = shell.Activate(context.Background(), shell.ResolveRoute("login")[0])
		require.ErrorIs(t, err, appshell.ErrDependency)
	})

	t.Run("a fresh version snapshot unblocks the module", func(t *testing.T) {
		t.Parallel()

		mod := loginModule()
		mod.Descriptor.Required = true

		shell := appshell.New(
			appshell.WithBackendVersions(map[string]string{"webservices.rest": "2.23.0"}),
		)
		_, err := shell.Register(mod)
		require.NoError(t, err)
		require.True(t, shell.Status("@shell/login").Blocked)

		shell.SetBackendVersions(map[string]string{"webservices.rest": "2.25.0"})
		require.False(t, shell.Status("@shell/login").Blocked)

		factory, err := shell.Activate(context.Background(), shell.ResolveRoute("login")[0])
		require.NoError(t, err)
		require.Equal(t, "login-root", factory)
	})

	t.Run("the snapshot is copied, caller mutations have no effect", func(t *testing.T) {
		t.Parallel()

		mod := loginModule()
		mod.Descriptor.Required = true

		shell := appshell.New()
		versions := map[string]string{"webservices.rest": "2.25.0"}
		shell.SetBackendVersions(versions)
		versions["webservices.rest"] = "0.0.1"

		_, err := shell.Register(mod)
		require.NoError(t, err)
		require.False(t, shell.Status("@shell/login").Blocked)
	})

	t.Run("gate is disabled without a version snapshot", func(t *testing.T) {
		t.Parallel()

		mod := loginModule()
		mod.Descriptor.Required = true

		shell := appshell.New()
		_, err := shell.Register(mod)
		require.NoError(t, err)

		status := shell.Status("@shell/login")
		require.False(t, status.Blocked)
		require.False(t, status.Degraded)
	})
}

func TestWarmup(t *testing.T) {
	t.Parallel()

	t.Run("activates all entries of the given routes", func(t *testing.T) {
		t.Parallel()

		var loads atomic.Int64
		mod := loginModule()
		mod.Loaders["root"] = func(context.Context) (appshell.Factory, error) {
			loads.Add(1)
			return "login-root", nil
		}

		shell := appshell.New()
		_, err := shell.Register(mod)
		require.NoError(t, err)

		require.NoError(t, shell.Warmup(context.Background(), "/login", "/logout"))
		require.Equal(t, int64(1), loads.Load(), "login and logout share one loader key")
	})
}

func TestTranslations(t *testing.T) {
	t.Parallel()

	t.Run("exposes the opaque translation loader", func(t *testing.T) {
		t.Parallel()

		mod := loginModule()
		mod.Translations = func(context.Context) (any, error) {
			return map[string]string{"login.title": "Sign in"}, nil
		}

		shell := appshell.New()
		_, err := shell.Register(mod)
		require.NoError(t, err)

		fn, ok := shell.Translations("@shell/login")
		require.True(t, ok)

		bundle, err := fn(context.Background())
		require.NoError(t, err)
		require.Equal(t, map[string]string{"login.title": "Sign in"}, bundle)

		_, ok = shell.Translations("ghost")
		require.False(t, ok)
	})
}

func TestRouteMatcherOption(t *testing.T) {
	t.Parallel()

	t.Run("exact-only matcher disables prefix fallback", func(t *testing.T) {
		t.Parallel()

		shell := appshell.New(appshell.WithRouteMatcher(appshell.ExactOnly()))
		_, err := shell.Register(loginModule())
		require.NoError(t, err)

		require.Len(t, shell.ResolveRoute("login"), 1)
		require.Empty(t, shell.ResolveRoute("login/sso"))
	})
}
