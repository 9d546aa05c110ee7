// Command sheet evaluates expressions and edits spreadsheets from the
// terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"
	"github.com/urfave/cli/v2"
	"github.com/vogtb/cellsheet/packages/config"
	"github.com/vogtb/cellsheet/packages/spreadsheet"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("cellsheet.cmd")

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "sheet: %v\n", err)
		os.Exit(1)
	}
}

// environment is shared by every subcommand once Before has run
type environment struct {
	cfg         *config.Config
	verbosity   int
	interactive bool
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	env := &environment{
		cfg:         config.Default(),
		interactive: isTerminal(in),
	}

	return &cli.App{
		Name:      "sheet",
		Usage:     "spreadsheet formula engine",
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.FileName,
				Usage:   "read configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Count:   &env.verbosity,
				Usage:   "raise log verbosity, repeatable",
			},
		},
		Before: env.setup,
		Commands: []*cli.Command{
			cmdEval(),
			cmdCalc(env),
			cmdRepl(env),
			cmdShow(env),
		},
	}
}

func (env *environment) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	env.cfg = cfg

	commonlog.Configure(cfg.Log.Verbosity+env.verbosity, cfg.LogPath())
	if cfg.Path != "" {
		log.Debugf("configuration from %s", cfg.Path)
	}
	return nil
}

// newSheet creates an empty spreadsheet sized by the configuration
func (env *environment) newSheet() (*spreadsheet.Spreadsheet, error) {
	return spreadsheet.New(env.cfg.Grid.Rows, env.cfg.Grid.Columns,
		spreadsheet.WithDefaultColor(env.cfg.Cell.DefaultColor))
}

// formatFor picks the snapshot format for path. a .cbor or .xml extension
// wins over the configured format.
func (env *environment) formatFor(path string) spreadsheet.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbor":
		return spreadsheet.FormatCBOR
	case ".xml":
		return spreadsheet.FormatXML
	}
	format, err := spreadsheet.ParseFormat(env.cfg.Storage.Format)
	if err != nil {
		return spreadsheet.FormatXML
	}
	return format
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
