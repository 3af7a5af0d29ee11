// Package appshell is an on-demand module resolution and activation runtime
// for microfrontend hosts.
//
// Independently deployed frontend modules publish a static descriptor
// (routes, slot extensions, backend version constraints) plus a dynamic
// surface of deferred loader functions and a one-time startup hook. The
// shell ingests every descriptor at boot without executing any module code,
// builds a reverse-lookup index, and on each navigation or slot render
// resolves the matching entries, prunes them by connectivity mode and
// backend dependency state, and fetches only the code that is actually
// needed - exactly once per component, exactly one startup per module.
//
//	shell := appshell.New(appshell.WithLogger("shell"))
//
//	_, err := shell.Register(&appshell.Module{
//	    Descriptor: desc, // parsed from the module's JSON/YAML descriptor
//	    Loaders: map[string]appshell.LoadFunc{
//	        "root": func(ctx context.Context) (appshell.Factory, error) {
//	            return fetchRemoteComponent(ctx, "login/root")
//	        },
//	    },
//	    Startup: registerLoginConfig,
//	})
//
//	for _, entry := range shell.ResolveRoute("/login") {
//	    factory, err := shell.Activate(ctx, entry)
//	    // hand factory to the rendering layer
//	}
//
// Errors are always scoped to one module or entry: a broken module never
// prevents unrelated pages or extensions from loading.
package appshell
