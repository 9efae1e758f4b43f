// Package models defines the bridge's domain types.
//
//   - [Session] : one caller identifier's authorization record, pending until the callback stores tokens
//   - [NowPlaying] : the normalized playback snapshot returned to in-world scripts
//
// Sessions move one way, [StatePending] to [StateConnected]. A new login for the same identifier replaces the
// record and starts over at pending.
package models
