package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/matchd/internal/identity"
	"github.com/standardbeagle/matchd/internal/matcher"
	"github.com/standardbeagle/matchd/internal/store"
)

var queryCommand = &cli.Command{
	Name:  "query",
	Usage: "Run one match query against a JSON fixture, without a running server",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "fixture", Usage: "Path to a JSON array of reference rows", Required: true},
		&cli.StringFlag{Name: "query", Usage: "Path to a JSON query identity", Required: true},
	},
	Action: queryAction,
}

// queryAction loads a fixture store entirely in memory and runs a single
// match, printing the ranked results as JSON. Intended for local
// smoke-testing, mirroring the teacher's one-shot "search" subcommand
// shape without any of its index-building machinery.
func queryAction(c *cli.Context) error {
	rows, err := loadFixtureRows(c.String("fixture"))
	if err != nil {
		return err
	}
	q, err := loadQueryIdentity(c.String("query"))
	if err != nil {
		return err
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	m := matcher.New(store.NewMemStore(rows), cfg.Matching.Threshold, cfg.Matching.TopK, cfg.Matching.Workers)
	results, err := m.Match(context.Background(), q)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func loadFixtureRows(path string) ([]store.RawReferenceRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	var rows []store.RawReferenceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return rows, nil
}

func loadQueryIdentity(path string) (identity.Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("failed to read query %s: %w", path, err)
	}
	var q identity.Identity
	if err := json.Unmarshal(data, &q); err != nil {
		return identity.Identity{}, fmt.Errorf("failed to parse query %s: %w", path, err)
	}
	return q, nil
}
