package spreadsheet

import (
	"fmt"
)

// RunnableSpreadsheet provides a chainable interface for
// spreadsheet operations. wraps the standard Spreadsheet and tracks
// errors internally
type RunnableSpreadsheet struct {
	spreadsheet *Spreadsheet
	err         error
	printLn     func(string)
}

// NewRunnableSpreadsheet creates a new RunnableSpreadsheet. printLn is
// required and will be used for all logging operations (Log, CheckError)
func NewRunnableSpreadsheet(rows, columns int, printLn func(string), opts ...Option) *RunnableSpreadsheet {
	spreadsheet, err := New(rows, columns, opts...)
	return &RunnableSpreadsheet{
		spreadsheet: spreadsheet,
		err:         err,
		printLn:     printLn,
	}
}

// Wrap returns a RunnableSpreadsheet over an existing spreadsheet
func Wrap(spreadsheet *Spreadsheet, printLn func(string)) *RunnableSpreadsheet {
	return &RunnableSpreadsheet{
		spreadsheet: spreadsheet,
		printLn:     printLn,
	}
}

func (r *RunnableSpreadsheet) address(name string) (CellAddress, bool) {
	addr, ok := r.spreadsheet.resolve(name)
	if !ok {
		r.err = &ReferenceError{Kind: ReferenceBad, Name: name}
	}
	return addr, ok
}

// Set commits text to the named cell through the command log (chainable)
func (r *RunnableSpreadsheet) Set(name string, text string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}
	addr, ok := r.address(name)
	if !ok {
		return r
	}
	r.err = r.spreadsheet.Edit(addr.Row, addr.Column, text)
	return r
}

// Color paints the named cells through the command log (chainable)
func (r *RunnableSpreadsheet) Color(color uint32, names ...string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}
	targets := make([]CellAddress, 0, len(names))
	for _, name := range names {
		addr, ok := r.address(name)
		if !ok {
			return r
		}
		targets = append(targets, addr)
	}
	r.err = r.spreadsheet.Paint(color, targets...)
	return r
}

// Undo reverts the last command (chainable). undoing with nothing to undo
// is recorded as an error instead of panicking.
func (r *RunnableSpreadsheet) Undo() *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}
	if !r.spreadsheet.workbook.CanUndo() {
		r.err = NewApplicationError(FailedPrecondition, "nothing to undo")
		return r
	}
	r.err = r.spreadsheet.Undo()
	return r
}

// Redo re-applies the last undone command (chainable)
func (r *RunnableSpreadsheet) Redo() *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}
	if !r.spreadsheet.workbook.CanRedo() {
		r.err = NewApplicationError(FailedPrecondition, "nothing to redo")
		return r
	}
	r.err = r.spreadsheet.Redo()
	return r
}

// Run returns the spreadsheet and any error. typically the last method
// in the chain
func (r *RunnableSpreadsheet) Run() (*Spreadsheet, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.spreadsheet, nil
}

// RunOrPanic returns the spreadsheet and panics if there's an error.
// useful for examples and tests where you want to fail fast
func (r *RunnableSpreadsheet) RunOrPanic() *Spreadsheet {
	spreadsheet, err := r.Run()
	if err != nil {
		panic(err)
	}
	return spreadsheet
}

// Error returns the current error state
func (r *RunnableSpreadsheet) Error() error {
	return r.err
}

// CheckError logs the current error using the PrintLn function (chainable)
func (r *RunnableSpreadsheet) CheckError() *RunnableSpreadsheet {
	if r.err != nil {
		r.printLn(fmt.Sprintf("ERROR: %v", r.err))
	} else {
		r.printLn("No errors")
	}
	return r
}

// Spreadsheet returns the underlying spreadsheet. use with caution as it
// bypasses error tracking.
func (r *RunnableSpreadsheet) Spreadsheet() *Spreadsheet {
	return r.spreadsheet
}

// Reset clears the error state (chainable)
func (r *RunnableSpreadsheet) Reset() *RunnableSpreadsheet {
	r.err = nil
	return r
}

// Must panics if there's an error (chainable). useful for ensuring
// critical operations succeed
func (r *RunnableSpreadsheet) Must() *RunnableSpreadsheet {
	if r.err != nil {
		panic(r.err)
	}
	return r
}

// Value is a helper to get a single value from the chain.
// example: val := NewRunnableSpreadsheet(10, 3, println).Set("A1", "10").Set("A2", "=A1*2").Value("A2")
func (r *RunnableSpreadsheet) Value(name string) string {
	if r.err != nil {
		return ""
	}
	addr, ok := r.address(name)
	if !ok {
		return ""
	}
	return r.spreadsheet.cells[addr.Row][addr.Column].value
}

// Log logs the text and value of a cell using the provided PrintLn
// function (chainable)
func (r *RunnableSpreadsheet) Log(name string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}
	addr, ok := r.address(name)
	if !ok {
		return r
	}

	cell := r.spreadsheet.cells[addr.Row][addr.Column]

	// fmt the output
	var output string
	switch {
	case cell.text == "":
		output = fmt.Sprintf("%s: <empty>", name)
	case cell.IsFormula():
		output = fmt.Sprintf("%s: %s (%s)", name, cell.value, cell.text)
	default:
		output = fmt.Sprintf("%s: %s", name, cell.value)
	}

	r.printLn(output)
	return r
}
