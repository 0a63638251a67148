// Command matchd serves, queries, and evaluates the identity match
// engine. Flag/command registration style grounded on
// cmd/lci/main.go's urfave/cli.App setup and its
// loadConfigWithOverrides helper.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/matchd/internal/config"
	"github.com/standardbeagle/matchd/internal/version"
)

func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", c.String("config"), err)
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:    "matchd",
		Usage:   "Arabic civil-registry identity matching service",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".matchd.kdl",
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			queryCommand,
			evaluateCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "matchd:", err)
		os.Exit(1)
	}
}
