// Package httpapi exposes an engine's session management chains over gin.
//
// The package is a thin transport adapter: it extracts the credential and
// path parameters from the request, runs the matching prebuilt chain, and
// maps the engine's sentinel errors to HTTP status codes. All policy
// decisions (rate limiting, authentication, authorization, validation)
// live in the chains, never here.
//
// Hosts that do not use gin can skip this package entirely and call the
// engine's chains from their own transport.
package httpapi
