package internal

import (
	"context"

	"github.com/dmitrymomot/appshell/pkg/descriptor"
	"github.com/dmitrymomot/appshell/pkg/lifecycle"
	"github.com/dmitrymomot/appshell/pkg/loader"
)

// TranslationsFunc is a module's deferred translation loader. The shell
// never calls it; it is handed as-is to the host's localization layer.
type TranslationsFunc func(ctx context.Context) (any, error)

// Module joins the two independent artifacts a frontend module ships:
// the static descriptor (indexable without code execution) and the dynamic
// surface (loader functions, startup hook, translations). The join key is
// the module name plus loader key; the descriptor may be registered long
// before any loader is ever invoked.
type Module struct {
	// Descriptor is the module's static metadata. Required.
	Descriptor *descriptor.Descriptor

	// Loaders maps component loader keys (referenced by pages and
	// extensions) to deferred code fetches.
	Loaders map[string]loader.LoadFunc

	// Startup is the module's one-time startup hook: config-schema and
	// feature registration, module-scoped options. Nil means no hook.
	Startup lifecycle.StartupFunc

	// Translations is the module's deferred translation loader, opaque to
	// the shell. Nil when the module ships none.
	Translations TranslationsFunc
}

// Name returns the module's descriptor name, or "" for a malformed module.
func (m *Module) Name() string {
	if m == nil || m.Descriptor == nil {
		return ""
	}
	return m.Descriptor.Name
}
