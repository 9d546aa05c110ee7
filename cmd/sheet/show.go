package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func cmdShow(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the modified cells of a snapshot",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("show needs a snapshot file")
			}

			sheet, err := env.newSheet()
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := sheet.LoadSnapshot(f, env.formatFor(path)); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			printCells(c.App.Writer, sheet)
			return nil
		},
	}
}
