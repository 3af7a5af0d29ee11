// Package descriptor defines the static metadata contract between frontend
// modules and the app shell.
//
// A descriptor is the declarative half of a module: backend dependency
// constraints, page definitions and extension definitions. The dynamic half
// (loader functions, startup hook) lives with the module code and is never
// needed to parse or index a descriptor, which is what makes on-demand
// loading possible.
//
// Descriptors are plain JSON or YAML documents:
//
//	{
//	  "name": "@shell/login",
//	  "backendDependencies": {"webservices.rest": ">=2.24.0"},
//	  "pages": [
//	    {"component": "root", "route": "login", "online": true, "offline": true}
//	  ],
//	  "extensions": [
//	    {"name": "logout-button", "slot": "user-panel-actions-slot", "component": "logoutButton"}
//	  ]
//	}
//
// Unknown fields are ignored for forward compatibility. Missing online/offline
// flags default to supported in both modes.
package descriptor
