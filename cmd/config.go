package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/slbridge/internal/shared"
	"github.com/desertthunder/slbridge/internal/ui"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the embedded example config to --config.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writeLines(
		ui.Styles.Check("config", path),
		ui.Styles.Help("Set client_id, client_secret and redirect_uri, then run 'slbridge config check'."),
	)
}

// ConfigCheck loads and validates the effective configuration, printing one line per concern.
func (r *Runner) ConfigCheck(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		if werr := r.writeLines(ui.Styles.Fail("config", err.Error())); werr != nil {
			return werr
		}
		return err
	}

	sp := config.Credentials.Spotify
	lines := []string{
		ui.Styles.Title("slbridge configuration"),
		ui.Styles.Check("client_id", shared.Redact(sp.ClientID)),
		ui.Styles.Check("redirect_uri", sp.RedirectURI),
		ui.Styles.Check("listen", config.Server.Addr()),
		ui.Styles.Check("store", config.Store.Driver),
	}
	if config.Server.RateLimit > 0 {
		lines = append(lines, ui.Styles.Check("rate_limit", fmt.Sprintf("%g/s burst %d", config.Server.RateLimit, config.Server.RateBurst)))
	} else {
		lines = append(lines, ui.Styles.Warn("  inbound rate limit disabled"))
	}
	if err := r.writeLines(lines...); err != nil {
		return err
	}

	if err := config.Validate(); err != nil {
		if werr := r.writeLines(ui.Styles.Fail("validation", err.Error())); werr != nil {
			return werr
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return r.writeLines(ui.Styles.Check("validation", "ok"))
}
