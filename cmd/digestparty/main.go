package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/delaneyj/digestparty/cmd/digestparty/templates"
	"github.com/urfave/cli/v3"
)

const (
	directivesKey = "directives"
	tableKey      = "table"
	verboseKey    = "verbose"
	widthKey      = "width"
	depthKey      = "depth"
	itersKey      = "iterations"
)

func main() {
	cmd := &cli.Command{
		Name:  "digestparty",
		Usage: "Compile trees against directive sets and time the digest loop",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log at debug level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "Show which directives apply to each node of an HTML file",
				ArgsUsage: "<file.html>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     directivesKey,
						Aliases:  []string{"d"},
						Usage:    "YAML directive set",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  tableKey,
						Usage: "Print a table instead of the text report",
					},
				},
				Action: inspect,
			},
			{
				Name:  "bench",
				Usage: "Time digests over nested scopes",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  widthKey,
						Usage: "Watchers per scope",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  depthKey,
						Usage: "Nested scopes below the root",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  itersKey,
						Usage: "Digests to time",
						Value: 100,
					},
				},
				Action: bench,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(cmd *cli.Command) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "digestparty",
		ReportTimestamp: true,
	})
	if cmd.Bool(verboseKey) {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func inspect(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("inspect takes exactly one HTML file")
	}
	htmlPath := cmd.Args().First()
	setPath := cmd.String(directivesKey)

	start := time.Now()
	defer func() {
		logger.Debug("inspect finished", "took", time.Since(start))
	}()

	set, err := LoadDirectiveSet(setPath)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(htmlPath)
	if err != nil {
		return err
	}
	logger.Info("compiling", "file", htmlPath, "directives", len(set.Directives))

	report, err := Inspect(set, string(src), logger)
	if err != nil {
		return err
	}
	report.Source = htmlPath
	report.DirectiveSet = setPath

	if cmd.Bool(tableKey) {
		renderTable(os.Stdout, report)
		return nil
	}
	templates.WriteInspectReport(os.Stdout, report)
	return nil
}

func bench(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)
	width, depth, iters := int(cmd.Int(widthKey)), int(cmd.Int(depthKey)), int(cmd.Int(itersKey))
	logger.Info("benchmarking digest", "width", width, "depth", depth, "iterations", iters)

	calc, err := benchDigest(ctx, width, depth, iters, logger)
	if err != nil {
		return err
	}
	fmt.Println(calc.String())
	return nil
}
