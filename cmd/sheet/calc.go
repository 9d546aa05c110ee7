package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vogtb/cellsheet/packages/expression"
	"github.com/vogtb/cellsheet/packages/spreadsheet"
)

const defaultCalcExpression = "A1+B1+C1"

func cmdCalc(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "calc",
		Usage: "Menu driven expression calculator",
		Action: func(c *cli.Context) error {
			calc := newCalculator(c.App.Reader, c.App.Writer, env.interactive)
			return calc.run()
		},
	}
}

// calculator keeps one expression tree and its variables between menu
// choices. menus and prompts are only printed on a terminal.
type calculator struct {
	in          *bufio.Scanner
	out         io.Writer
	interactive bool

	expression string
	tree       *expression.Tree
	buildErr   error
}

func newCalculator(in io.Reader, out io.Writer, interactive bool) *calculator {
	calc := &calculator{
		in:          bufio.NewScanner(in),
		out:         out,
		interactive: interactive,
	}
	calc.setExpression(defaultCalcExpression)
	return calc
}

func (calc *calculator) setExpression(text string) {
	calc.expression = text
	calc.tree, calc.buildErr = expression.New(text)
}

func (calc *calculator) prompt(format string, args ...any) {
	if calc.interactive {
		fmt.Fprintf(calc.out, format, args...)
	}
}

func (calc *calculator) readLine() (string, bool) {
	if !calc.in.Scan() {
		return "", false
	}
	return calc.in.Text(), true
}

func (calc *calculator) run() error {
	for {
		calc.prompt("Please enter an option from the menu:\n")
		calc.prompt("The current expression is %q\n", calc.expression)
		calc.prompt("   1 = Enter a new expression\n")
		calc.prompt("   2 = Set a variable value\n")
		calc.prompt("   3 = Evaluate tree\n")
		calc.prompt("   4 = Quit\n")

		choice, ok := calc.readLine()
		if !ok {
			return calc.in.Err()
		}

		switch strings.TrimSpace(choice) {
		case "1":
			calc.prompt("Please enter a new expression: ")
			text, ok := calc.readLine()
			if !ok {
				return calc.in.Err()
			}
			calc.setExpression(text)
			if calc.buildErr != nil {
				fmt.Fprintln(calc.out, calc.buildErr)
			}

		case "2":
			calc.prompt("Please enter a variable name: ")
			name, ok := calc.readLine()
			if !ok {
				return calc.in.Err()
			}
			calc.prompt("Please enter a variable value: ")
			value, ok := calc.readLine()
			if !ok {
				return calc.in.Err()
			}
			if calc.tree != nil {
				calc.tree.SetVariableString(strings.TrimSpace(name), value)
			}

		case "3":
			if calc.buildErr != nil {
				fmt.Fprintln(calc.out, calc.buildErr)
				continue
			}
			result, err := calc.tree.Evaluate()
			if err != nil {
				fmt.Fprintln(calc.out, err)
				continue
			}
			fmt.Fprintln(calc.out, spreadsheet.FormatValue(result))

		case "4":
			return nil
		}
	}
}
