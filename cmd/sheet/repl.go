package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vogtb/cellsheet/packages/spreadsheet"
)

func cmdRepl(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Edit a spreadsheet line by line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "load",
				Usage: "start from the snapshot in `FILE`",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "print every value change",
			},
		},
		Action: func(c *cli.Context) error {
			sheet, err := env.newSheet()
			if err != nil {
				return err
			}
			r := newRepl(env, sheet, c.App.Reader, c.App.Writer)
			if path := c.String("load"); path != "" {
				if err := r.load(path); err != nil {
					return err
				}
			}
			if c.Bool("watch") {
				r.watch()
			}
			return r.run()
		},
	}
}

type repl struct {
	env   *environment
	sheet *spreadsheet.Spreadsheet
	edits *spreadsheet.RunnableSpreadsheet
	in    *bufio.Scanner
	out   io.Writer
}

func newRepl(env *environment, sheet *spreadsheet.Spreadsheet, in io.Reader, out io.Writer) *repl {
	return &repl{
		env:   env,
		sheet: sheet,
		edits: spreadsheet.Wrap(sheet, func(line string) { fmt.Fprintln(out, line) }),
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// watch prints value changes as they propagate
func (r *repl) watch() {
	r.sheet.Subscribe(spreadsheet.ChangeSinkFunc(func(change spreadsheet.CellChange) {
		if change.Kind == spreadsheet.ChangeValue {
			fmt.Fprintf(r.out, "%s = %s\n", change.Address.Name(), change.Value)
		}
	}))
}

func (r *repl) run() error {
	for {
		if r.env.interactive {
			fmt.Fprint(r.out, "> ")
		}
		if !r.in.Scan() {
			return r.in.Err()
		}

		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		command, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if command == "quit" || command == "exit" {
			return nil
		}
		if err := r.dispatch(command, rest); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *repl) dispatch(command, rest string) error {
	switch command {
	case "set":
		name, text, _ := strings.Cut(rest, " ")
		if _, err := r.cell(name); err != nil {
			return err
		}
		return r.edits.Reset().Set(name, strings.TrimSpace(text)).Error()

	case "get":
		cell, err := r.cell(rest)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, cell.Value())

	case "color":
		fields := strings.Fields(rest)
		if len(fields) < 2 {
			return fmt.Errorf("usage: color COLOR NAME...")
		}
		color, err := strconv.ParseUint(fields[0], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid color %q", fields[0])
		}
		for _, name := range fields[1:] {
			if _, err := r.cell(name); err != nil {
				return err
			}
		}
		return r.edits.Reset().Color(uint32(color), fields[1:]...).Error()

	case "undo":
		if !r.sheet.Workbook().CanUndo() {
			return fmt.Errorf("nothing to undo")
		}
		cmd, _ := r.sheet.Workbook().PeekUndo()
		fmt.Fprintf(r.out, "undo %s\n", cmd.Description())
		return r.sheet.Undo()

	case "redo":
		if !r.sheet.Workbook().CanRedo() {
			return fmt.Errorf("nothing to redo")
		}
		cmd, _ := r.sheet.Workbook().PeekRedo()
		fmt.Fprintf(r.out, "redo %s\n", cmd.Description())
		return r.sheet.Redo()

	case "deps":
		precedents, err := r.sheet.Precedents(rest)
		if err != nil {
			return err
		}
		dependents, err := r.sheet.Dependents(rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "precedents: %s\n", strings.Join(precedents, " "))
		fmt.Fprintf(r.out, "dependents: %s\n", strings.Join(dependents, " "))

	case "show":
		printCells(r.out, r.sheet)

	case "save":
		return r.save(rest)

	case "load":
		return r.load(rest)

	case "help":
		fmt.Fprintln(r.out, "set NAME TEXT | get NAME | color COLOR NAME... | undo | redo | deps NAME | show | save FILE | load FILE | quit")

	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func (r *repl) cell(name string) (*spreadsheet.Cell, error) {
	cell := r.sheet.CellByName(name)
	if cell == nil {
		return nil, fmt.Errorf("no cell named %q", name)
	}
	return cell, nil
}

func (r *repl) save(path string) error {
	if path == "" {
		return fmt.Errorf("usage: save FILE")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.sheet.SaveSnapshot(f, r.env.formatFor(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *repl) load(path string) error {
	if path == "" {
		return fmt.Errorf("usage: load FILE")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.sheet.LoadSnapshot(f, r.env.formatFor(path))
}

// printCells writes every modified cell as NAME, TEXT and VALUE separated
// by tabs
func printCells(out io.Writer, sheet *spreadsheet.Spreadsheet) {
	for _, cell := range sheet.ModifiedCells() {
		fmt.Fprintf(out, "%s\t%s\t%s\n", cell.Name(), cell.Text(), cell.Value())
	}
}
