package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vogtb/cellsheet/packages/expression"
	"github.com/vogtb/cellsheet/packages/spreadsheet"
)

func cmdEval() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Evaluate one expression",
		ArgsUsage: "EXPRESSION",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "var",
				Usage: "assign a variable, `NAME=VALUE`, repeatable",
			},
			&cli.BoolFlag{
				Name:  "postfix",
				Usage: "print the postfix form",
			},
			&cli.BoolFlag{
				Name:  "tree",
				Usage: "print the parenthesized tree",
			},
		},
		Action: runEval,
	}
}

func runEval(c *cli.Context) error {
	if !c.Args().Present() {
		return fmt.Errorf("eval needs an expression")
	}

	tree, err := expression.New(strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return err
	}

	for _, assignment := range c.StringSlice("var") {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("--var wants NAME=VALUE, got %q", assignment)
		}
		tree.SetVariableString(strings.TrimSpace(name), value)
	}

	out := c.App.Writer
	if c.Bool("postfix") {
		fmt.Fprintln(out, strings.Join(tree.Postfix(), " "))
	}
	if c.Bool("tree") {
		fmt.Fprintln(out, tree.String())
	}

	result, err := tree.Evaluate()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, spreadsheet.FormatValue(result))
	return nil
}
