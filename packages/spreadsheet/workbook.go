package spreadsheet

import (
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Workbook is the command log of a spreadsheet. a command popped from one
// stack always lands on the other, whatever its Apply or Revert returned.
type Workbook struct {
	sheet *Spreadsheet
	undo  *arraystack.Stack
	redo  *arraystack.Stack
}

func newWorkbook(sheet *Spreadsheet) *Workbook {
	return &Workbook{
		sheet: sheet,
		undo:  arraystack.New(),
		redo:  arraystack.New(),
	}
}

// Execute applies cmd and records it. a command that fails to apply is not
// recorded. recording a new command discards everything that could be
// redone.
func (w *Workbook) Execute(cmd Command) error {
	if err := cmd.Apply(); err != nil {
		return err
	}
	w.Record(cmd)
	return nil
}

// Record pushes a command whose effect is already in place
func (w *Workbook) Record(cmd Command) {
	w.undo.Push(cmd)
	w.redo.Clear()
	w.sheet.log.Debugf("recorded %s, %d to undo", cmd.Description(), w.undo.Size())
	w.changed()
}

// Undo reverts the top of the undo stack and moves it to the redo stack.
// an empty undo stack is a caller bug and panics.
func (w *Workbook) Undo() error {
	value, ok := w.undo.Pop()
	if !ok {
		panic("spreadsheet: undo with empty undo stack")
	}
	cmd := value.(Command)
	err := cmd.Revert()
	w.redo.Push(cmd)
	w.sheet.log.Debugf("undid %s", cmd.Description())
	w.changed()
	return err
}

// Redo re-applies the top of the redo stack and moves it to the undo
// stack. an empty redo stack is a caller bug and panics.
func (w *Workbook) Redo() error {
	value, ok := w.redo.Pop()
	if !ok {
		panic("spreadsheet: redo with empty redo stack")
	}
	cmd := value.(Command)
	err := cmd.Apply()
	w.undo.Push(cmd)
	w.sheet.log.Debugf("redid %s", cmd.Description())
	w.changed()
	return err
}

func (w *Workbook) CanUndo() bool {
	return !w.undo.Empty()
}

func (w *Workbook) CanRedo() bool {
	return !w.redo.Empty()
}

// PeekUndo returns the command Undo would revert
func (w *Workbook) PeekUndo() (Command, bool) {
	return peek(w.undo)
}

// PeekRedo returns the command Redo would apply
func (w *Workbook) PeekRedo() (Command, bool) {
	return peek(w.redo)
}

func (w *Workbook) UndoCount() int {
	return w.undo.Size()
}

func (w *Workbook) RedoCount() int {
	return w.redo.Size()
}

// Clear empties both stacks
func (w *Workbook) Clear() {
	if w.undo.Empty() && w.redo.Empty() {
		return
	}
	w.undo.Clear()
	w.redo.Clear()
	w.changed()
}

func (w *Workbook) changed() {
	w.sheet.notify(CellChange{Kind: ChangeHistory})
}

func peek(stack *arraystack.Stack) (Command, bool) {
	value, ok := stack.Peek()
	if !ok {
		return nil, false
	}
	return value.(Command), true
}
