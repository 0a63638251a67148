package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/matchd/internal/goldset"
	"github.com/standardbeagle/matchd/internal/matcher"
	"github.com/standardbeagle/matchd/internal/store"
)

var evaluateCommand = &cli.Command{
	Name:  "evaluate",
	Usage: "Compute precision/recall of the matcher against a labeled gold set",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "fixture", Usage: "Path to a JSON array of reference rows", Required: true},
		&cli.StringFlag{Name: "goldset", Usage: "Path to a .csv or .json gold-set file", Required: true},
	},
	Action: evaluateAction,
}

// evaluateAction resolves a gold set's input_id/candidate_id pairs
// against the fixture rows by array index (fixture[0] is "id0", etc.),
// runs the matcher, and prints the confusion matrix. Grounded on
// spec.md §6.4/original_source/gold_set.rs's offline evaluation role:
// this never touches the request path.
func evaluateAction(c *cli.Context) error {
	rows, err := loadFixtureRows(c.String("fixture"))
	if err != nil {
		return err
	}

	records, err := goldset.Load(c.String("goldset"))
	if err != nil {
		return fmt.Errorf("failed to load gold set: %w", err)
	}

	dict := make(goldset.Dictionary, len(rows))
	for i, row := range rows {
		dict[fmt.Sprintf("id%d", i)] = store.RawRowToIdentity(row)
	}

	pairs := goldset.Resolve(records, dict)
	if len(pairs) == 0 {
		fmt.Println("no gold-set record resolved against the fixture; nothing to evaluate")
		return nil
	}

	m := matcher.New(store.NewMemStore(rows), 0, 0, 0)
	result, err := goldset.Evaluate(context.Background(), m, pairs)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	fmt.Println(goldset.FormatSummary(result))
	return nil
}
