// Package server exposes the bridge over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so only GET is routed and every other
// method answers 405.
//
// # Authorization Handlers
//
// [LoginHandler] stores a pending session for the caller identifier and redirects to the provider.
// [CallbackHandler] is registered for the whole process lifetime and serves any number of callbacks: the state
// parameter names the pending session to upgrade. Unknown states are rejected before the code is exchanged.
//
// # Poll Handlers
//
// In-world scripts poll [StatusHandler], [NowPlayingHandler] and [DevicesHandler] on a timer.
// Upstream failures on the polled reads collapse to 204 so a script only ever has to handle
// 200, 204 and 401.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
