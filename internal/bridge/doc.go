// Package bridge implements the authorization state machine between a caller identifier and an OAuth session.
//
// # Flow
//
//  1. [Bridge.Initiate] validates the identifier, stores a pending session and returns the consent URL.
//     The identifier travels as the OAuth state parameter.
//  2. The provider redirects to the callback; [Bridge.Complete] looks the state up, exchanges the code once and
//     marks the session connected. A failed exchange leaves the session as it was.
//  3. Pollers call [Bridge.Status], [Bridge.NowPlaying] and [Bridge.Devices] with the same identifier.
//
// # Identifiers
//
// Identifiers are caller-chosen and untrusted. The bridge checks only their shape: 1 to 256 printable ASCII
// characters without spaces. When an avatar key is supplied (or required) it must be a canonical UUID.
//
// # Error Policy
//
// Upstream read failures on polled endpoints collapse to [shared.ErrNothingPlaying] so the poller sees a clean
// "nothing to report" instead of provider details. They are logged at warn level.
// Unknown or pending identifiers on those endpoints yield [shared.ErrNotConnected].
package bridge
