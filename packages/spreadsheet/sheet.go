package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/vogtb/cellsheet/packages/expression"
)

var log = commonlog.GetLogger("cellsheet.spreadsheet")

// Spreadsheet is the grid of cells. it resolves cell names, validates new
// formulas against the dependency graph, and pushes value changes through
// to every dependent cell before an edit returns.
type Spreadsheet struct {
	rows         int
	columns      int
	defaultColor uint32
	registry     *expression.Registry
	log          commonlog.Logger

	cells    [][]*Cell
	graph    *DependencyGraph
	workbook *Workbook

	subscriptions    []subscription
	nextSubscription uint64

	// rejected holds cells whose stored formula failed validation
	rejected map[CellAddress]struct{}
}

// Option configures a Spreadsheet
type Option func(*Spreadsheet)

// WithDefaultColor sets the background color of fresh cells
func WithDefaultColor(color uint32) Option {
	return func(s *Spreadsheet) {
		s.defaultColor = color
	}
}

// WithLogger replaces the package logger
func WithLogger(logger commonlog.Logger) Option {
	return func(s *Spreadsheet) {
		s.log = logger
	}
}

// WithRegistry sets the operators formulas may use
func WithRegistry(registry *expression.Registry) Option {
	return func(s *Spreadsheet) {
		s.registry = registry
	}
}

// New creates a rows by columns grid of empty cells
func New(rows, columns int, opts ...Option) (*Spreadsheet, error) {
	if rows <= 0 || columns <= 0 {
		return nil, NewApplicationError(InvalidArgument, fmt.Sprintf("grid size must be positive, got %dx%d", rows, columns))
	}
	if columns > MaxColumns {
		return nil, NewApplicationError(InvalidArgument, fmt.Sprintf("at most %d columns are addressable, got %d", MaxColumns, columns))
	}

	s := &Spreadsheet{
		rows:         rows,
		columns:      columns,
		defaultColor: DefaultColor,
		registry:     expression.DefaultRegistry(),
		log:          log,
		graph:        NewDependencyGraph(),
		rejected:     make(map[CellAddress]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.workbook = newWorkbook(s)
	s.createCells()
	return s, nil
}

func (s *Spreadsheet) createCells() {
	s.cells = make([][]*Cell, s.rows)
	for row := range s.cells {
		s.cells[row] = make([]*Cell, s.columns)
		for col := range s.cells[row] {
			s.cells[row][col] = newCell(CellAddress{Row: row, Column: col}, s.defaultColor)
		}
	}
}

// RowCount returns the number of rows
func (s *Spreadsheet) RowCount() int {
	return s.rows
}

// ColumnCount returns the number of columns
func (s *Spreadsheet) ColumnCount() int {
	return s.columns
}

// DefaultColor returns the background color of unmodified cells
func (s *Spreadsheet) DefaultColor() uint32 {
	return s.defaultColor
}

// Workbook returns the command log
func (s *Spreadsheet) Workbook() *Workbook {
	return s.workbook
}

func (s *Spreadsheet) inBounds(addr CellAddress) bool {
	return addr.Row >= 0 && addr.Row < s.rows && addr.Column >= 0 && addr.Column < s.columns
}

// Cell returns the cell at row and column, or nil when outside the grid
func (s *Spreadsheet) Cell(row, column int) *Cell {
	addr := CellAddress{Row: row, Column: column}
	if !s.inBounds(addr) {
		return nil
	}
	return s.cells[row][column]
}

// CellByName returns the named cell, or nil when the name is malformed or
// outside the grid
func (s *Spreadsheet) CellByName(name string) *Cell {
	addr, ok := ParseCellName(name)
	if !ok {
		return nil
	}
	return s.Cell(addr.Row, addr.Column)
}

func (s *Spreadsheet) cellAt(addr CellAddress) (*Cell, error) {
	if !s.inBounds(addr) {
		return nil, NewApplicationError(OutOfRange, fmt.Sprintf("cell (%d, %d) is outside the %dx%d grid", addr.Row, addr.Column, s.rows, s.columns))
	}
	return s.cells[addr.Row][addr.Column], nil
}

// resolve maps a referenced name to a cell inside the grid
func (s *Spreadsheet) resolve(name string) (CellAddress, bool) {
	addr, ok := ParseCellName(name)
	if !ok || !s.inBounds(addr) {
		return CellAddress{}, false
	}
	return addr, true
}

// SetText commits text to the cell at row and column. text starting with
// "=" is a formula; it is parsed and checked for bad, self and circular
// references first, and on any error the cell and the graph are left
// exactly as they were.
func (s *Spreadsheet) SetText(row, column int, text string) error {
	cell, err := s.cellAt(CellAddress{Row: row, Column: column})
	if err != nil {
		return err
	}

	if !isFormula(text) {
		cell.text = text
		cell.clearFormula()
		s.graph.ClearDependencies(cell.address)
		delete(s.rejected, cell.address)
		s.log.Debugf("%s = %q", cell.Name(), text)
		s.setValue(cell, text)
		s.retryRejected()
		return nil
	}

	tree, names, targets, err := s.compile(cell, text)
	if err != nil {
		if refErr, ok := err.(*ReferenceError); ok {
			s.log.Warningf("rejected formula %q: %s", text, refErr.Detail())
		} else {
			s.log.Warningf("rejected formula %q in %s: %s", text, cell.Name(), err)
		}
		return err
	}

	s.commitFormula(cell, text, tree, names, targets)
	s.retryRejected()
	return nil
}

func (s *Spreadsheet) commitFormula(cell *Cell, text string, tree *expression.Tree, names []string, targets []CellAddress) {
	delete(s.rejected, cell.address)
	cell.text = text
	cell.setFormula(tree, names)
	s.graph.SetDependencies(cell.address, targets)
	s.log.Debugf("%s = %q, depends on %v", cell.Name(), text, names)
	s.setValue(cell, s.evaluate(cell))
}

// restoreText puts text back into a cell whatever the grid thinks of it.
// a formula SetText rejects is stored without a tree or dependencies and
// shows the error as its value until an edit elsewhere makes it valid.
func (s *Spreadsheet) restoreText(addr CellAddress, text string) error {
	err := s.SetText(addr.Row, addr.Column, text)
	if err == nil {
		return nil
	}
	if _, outside := err.(*AppError); outside {
		return err
	}

	cell := s.cells[addr.Row][addr.Column]
	cell.text = text
	cell.clearFormula()
	s.graph.ClearDependencies(addr)
	s.rejected[addr] = struct{}{}
	s.setValue(cell, displayError(err))
	s.retryRejected()
	return nil
}

// retryRejected commits every stored formula that now validates
func (s *Spreadsheet) retryRejected() {
	if len(s.rejected) == 0 {
		return
	}
	pending := make([]CellAddress, 0, len(s.rejected))
	for addr := range s.rejected {
		pending = append(pending, addr)
	}
	sortAddresses(pending)

	for _, addr := range pending {
		cell := s.cells[addr.Row][addr.Column]
		tree, names, targets, err := s.compile(cell, cell.text)
		if err != nil {
			continue
		}
		s.log.Infof("%s formula %q is valid again", cell.Name(), cell.text)
		s.commitFormula(cell, cell.text, tree, names, targets)
	}
}

// compile builds the tree for a formula and resolves the cells it
// references, without touching any state
func (s *Spreadsheet) compile(cell *Cell, text string) (*expression.Tree, []string, []CellAddress, error) {
	tree, err := expression.New(strings.TrimPrefix(text, formulaPrefix), expression.WithRegistry(s.registry))
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		names   []string
		targets []CellAddress
		seen    = make(map[string]struct{})
	)
	for _, name := range tree.VariableNames() {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		addr, ok := s.resolve(name)
		if !ok {
			return nil, nil, nil, &ReferenceError{Kind: ReferenceBad, Name: name, Cell: cell.Name()}
		}
		if addr == cell.address {
			return nil, nil, nil, &ReferenceError{Kind: ReferenceSelf, Name: name, Cell: cell.Name()}
		}
		names = append(names, name)
		targets = append(targets, addr)
	}

	for i, to := range targets {
		if s.graph.WouldCreateCycle(cell.address, to) {
			return nil, nil, nil, &ReferenceError{Kind: ReferenceCircular, Name: names[i], Cell: cell.Name()}
		}
	}
	return tree, names, targets, nil
}

// evaluate binds every referenced name to the current value of its cell
// and evaluates the formula, rendering failures as the display value
func (s *Spreadsheet) evaluate(cell *Cell) string {
	for _, name := range cell.ReferencedNames() {
		addr, _ := s.resolve(name)
		cell.tree.SetVariableString(name, s.cells[addr.Row][addr.Column].value)
	}

	result, err := cell.tree.Evaluate()
	if err != nil {
		return displayError(err)
	}
	return FormatValue(result)
}

// setValue stores a new value and re-evaluates every direct dependent,
// which recurses for as long as values keep changing
func (s *Spreadsheet) setValue(cell *Cell, value string) {
	if cell.value == value {
		return
	}
	cell.value = value
	s.notify(CellChange{Kind: ChangeValue, Address: cell.address, Value: value, Color: cell.bgColor})

	for _, addr := range s.graph.GetDirectDependents(cell.address) {
		dependent := s.cells[addr.Row][addr.Column]
		s.log.Debugf("propagating %s -> %s", cell.Name(), dependent.Name())
		s.setValue(dependent, s.evaluate(dependent))
	}
}

// checkGraph reports a cycle in the dependency graph, which validated
// edits never produce
func (s *Spreadsheet) checkGraph() error {
	if s.graph.HasCycle() {
		return NewApplicationError(Internal, "dependency graph has a cycle")
	}
	return nil
}

// SetColor changes the background color of a cell
func (s *Spreadsheet) SetColor(row, column int, color uint32) error {
	cell, err := s.cellAt(CellAddress{Row: row, Column: column})
	if err != nil {
		return err
	}
	if cell.bgColor == color {
		return nil
	}
	cell.bgColor = color
	s.notify(CellChange{Kind: ChangeColor, Address: cell.address, Value: cell.value, Color: color})
	return nil
}

// Dependents returns the names of cells whose formulas reference name
func (s *Spreadsheet) Dependents(name string) ([]string, error) {
	addr, ok := s.resolve(name)
	if !ok {
		return nil, &ReferenceError{Kind: ReferenceBad, Name: name}
	}
	return addressNames(s.graph.GetDirectDependents(addr)), nil
}

// Precedents returns the names of cells the formula in name references
func (s *Spreadsheet) Precedents(name string) ([]string, error) {
	addr, ok := s.resolve(name)
	if !ok {
		return nil, &ReferenceError{Kind: ReferenceBad, Name: name}
	}
	return addressNames(s.graph.GetDirectPrecedents(addr)), nil
}

// ModifiedCells returns every cell with text or a non-default color, in
// row-major order
func (s *Spreadsheet) ModifiedCells() []*Cell {
	var result []*Cell
	for _, row := range s.cells {
		for _, cell := range row {
			if cell.IsModified(s.defaultColor) {
				result = append(result, cell)
			}
		}
	}
	return result
}

// Reset recreates every cell and clears the dependency graph and the
// command log. no change notifications are sent for the cleared cells.
func (s *Spreadsheet) Reset() {
	s.createCells()
	s.graph.Clear()
	s.rejected = make(map[CellAddress]struct{})
	s.workbook.Clear()
}

// Edit commits text through the command log so it can be undone
func (s *Spreadsheet) Edit(row, column int, text string) error {
	cell, err := s.cellAt(CellAddress{Row: row, Column: column})
	if err != nil {
		return err
	}
	return s.workbook.Execute(NewTextChange(s, cell.address, cell.text, text))
}

// Paint sets the background color of targets through the command log
func (s *Spreadsheet) Paint(color uint32, targets ...CellAddress) error {
	before := make([]uint32, len(targets))
	for i, addr := range targets {
		cell, err := s.cellAt(addr)
		if err != nil {
			return err
		}
		before[i] = cell.bgColor
	}
	cmd, err := NewColorChange(s, targets, before, color)
	if err != nil {
		return err
	}
	return s.workbook.Execute(cmd)
}

// Undo reverts the most recent command. it panics when there is nothing
// to undo; check Workbook().CanUndo first.
func (s *Spreadsheet) Undo() error {
	return s.workbook.Undo()
}

// Redo re-applies the most recently undone command. it panics when there
// is nothing to redo.
func (s *Spreadsheet) Redo() error {
	return s.workbook.Redo()
}

// FormatValue renders a computed number for display. infinities show as
// "+Inf" and "-Inf".
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// displayError returns what a cell shows in place of a value
func displayError(err error) string {
	switch e := err.(type) {
	case *expression.Error:
		return e.Display()
	case *ReferenceError:
		return e.Error()
	default:
		return err.Error()
	}
}

func addressNames(addrs []CellAddress) []string {
	names := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		names = append(names, addr.Name())
	}
	return names
}
