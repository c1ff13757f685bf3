// Package server provides HTTP routing, middleware, and the read-only song API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] is applied in registration order, the first one added being the outermost.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. GET routes also
// answer HEAD; other methods get a JSON 405, unknown paths a JSON 404.
//
// # Routes
//
//	GET /api/songs        → normalized song list (404 when the database file is missing)
//	GET /api/songs/stats  → per-user share counts (zeroed when the database file is missing)
//	GET /health           → liveness probe
//	GET /metrics          → Prometheus exposition
//
// The asymmetry between the two API routes on a missing file is intentional: the song list treats it as a
// misconfiguration, the stats view as an empty chat.
//
// # Errors
//
// Failures are logged with the request id and answered with a JSON body { "error": ... }. The songs route adds
// a "details" category (malformed JSON, invalid format, read failure). File paths and OS errors are never sent
// to clients.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
