package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/slbridge/internal/bridge"
	"github.com/desertthunder/slbridge/internal/services"
	"github.com/desertthunder/slbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

// LoginURL prints the provider consent URL for --user without creating a session.
//
// Useful for checking the redirect URI registered with Spotify before wiring up a script.
func (r *Runner) LoginURL(ctx context.Context, cmd *cli.Command) error {
	user := cmd.String("user")
	if err := bridge.ValidateIdentifier(user); err != nil {
		return err
	}

	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	spotify, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	authURL := spotify.AuthURL(user)

	if cmd.Bool("json") {
		if err := r.writeJSON(map[string]string{"user": user, "url": authURL}, false); err != nil {
			return err
		}
	} else if err := r.writePlain("%s\n", authURL); err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}
	return nil
}
