// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand runs the bridge HTTP service
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the authorization bridge",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides config and PORT)",
			},
		},
		Action: r.Serve,
	}
}

// configCommand manages config.toml
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigInit,
			},
			{
				Name:   "check",
				Usage:  "Load and validate the configuration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigCheck,
			},
		},
	}
}

// loginURLCommand prints the consent URL an in-world script would send an avatar to
func loginURLCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login-url",
		Usage: "Print the Spotify authorization URL for an identifier",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "Caller identifier passed as state",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the URL in the default browser",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.LoginURL,
	}
}
