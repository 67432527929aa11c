// Command wake runs one query assembly against a synthetic or partitioned
// dataset and prints the final aggregated result, draining the terminal
// reader until end-of-stream. Implemented as a `urfave/cli` app per
// spec.md §6's external Process CLI collaborator, "for testability" —
// grounded in cmd/cli/cli/app.go's use of the same library.
package main

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli"

	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/cmn/nlog"
	"github.com/arcwake/wake/queries"
)

const (
	exitOK = iota
	exitEngineFatal
	exitUnknownQuery
)

func main() {
	app := cli.NewApp()
	app.Name = "wake"
	app.Usage = "run a streaming dataflow query assembly"
	app.UsageText = "wake [global options] QUERY-ID [SCALE-FACTOR] [DATASET-ROOT]"
	app.ArgsUsage = "QUERY-ID [SCALE-FACTOR] [DATASET-ROOT]"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "channel-capacity",
			Usage: "override the per-channel buffered capacity",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "one of debug, info, warn, error",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		nlog.Errorf("%v", err)
		os.Exit(exitEngineFatal)
	}
}

func run(c *cli.Context) error {
	nlog.SetLevel(nlog.ParseLevel(c.String("log-level")))
	if cap := c.Int("channel-capacity"); cap > 0 {
		channel.Capacity = cap
	}

	queryID := c.Args().Get(0)
	if queryID == "" {
		return cli.NewExitError("missing QUERY-ID", exitUnknownQuery)
	}
	scaleFactor := 1
	if sf := c.Args().Get(1); sf != "" {
		if _, err := fmt.Sscanf(sf, "%d", &scaleFactor); err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid scale factor %q", sf), exitEngineFatal)
		}
	}
	datasetRoot := c.Args().Get(2)
	if datasetRoot == "" {
		datasetRoot = "resources/tpc-h/data/scale=1/partition=10"
	}

	query, ok := queries.Registry[queryID]
	if !ok {
		return cli.NewExitError(fmt.Sprintf("unknown query id %q", queryID), exitUnknownQuery)
	}

	result, err := query(scaleFactor, datasetRoot)
	if err != nil {
		return cli.NewExitError(err.Error(), exitEngineFatal)
	}

	// Rows are encoded one at a time rather than as a single array so a
	// row an operator can't marshal doesn't hide every row before it.
	// Grounded in cmd/xmeta/xmeta.go's jsoniter.MarshalIndent dump pattern.
	for _, row := range result.Rows {
		b, err := jsoniter.Marshal(row)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("encode result row: %v", err), exitEngineFatal)
		}
		nlog.Infof("%s", b)
	}
	return nil
}
