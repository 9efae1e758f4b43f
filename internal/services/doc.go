// Package services defines the [Provider] interface for the music service the bridge authorizes against and
// implements it for Spotify.
//
// # Spotify Implementation
//
// [SpotifyService] wraps an [oauth2.Config] for the authorization-code grant. The consent URL carries the caller
// identifier as the OAuth state parameter, so Spotify hands it back verbatim on the callback.
//
// Token exchange sends client credentials in a Basic authorization header ([oauth2.AuthStyleInHeader]).
// The service never refreshes tokens; a caller whose token expired must run the consent flow again.
//
// Playback reads take the access token per call instead of holding it, so a single instance serves every
// connected caller.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrExchangeFailed] : code rejected or no access token returned
//   - [shared.ErrNothingPlaying] : 204 or a response without an item
//   - [shared.ErrTokenExpired] : Spotify answered 401
//   - [shared.ErrAPIRequest] : transport failure or any other non-2xx status
//
// # API Mappings
//
// [SpotifyCurrentlyPlaying] maps to [models.NowPlaying] using the first listed artist.
package services
