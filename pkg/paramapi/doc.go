// Package paramapi exposes a parameter container over HTTP.
//
// # Routes
//
//	GET  /params          list entries in container order (?set=true hides unset ones)
//	GET  /params/{name}   first entry with that name
//	PUT  /params/{name}   {"value": ...} decoded by the declared type
//	GET  /debug/objects   live object IDs when object tracking is enabled
//
// # Usage Example
//
//	handlers := paramapi.NewHandlers(params, logger)
//	defer handlers.Close()
//
//	router := mux.NewRouter()
//	handlers.RegisterRoutes(router)
//
// Manifest reloads go through Handlers.Apply so they serialize with request
// handling.
package paramapi
