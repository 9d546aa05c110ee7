package spreadsheet

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/vogtb/cellsheet/packages/expression"
)

// DefaultColor is opaque white in ARGB
const DefaultColor uint32 = 0xFFFFFFFF

// MaxColumns is the number of single-letter column names, A through Z
const MaxColumns = 26

// formulaPrefix marks cell text that is evaluated as an expression
const formulaPrefix = "="

// CellAddress is the zero-based position of a cell
type CellAddress struct {
	Row    int
	Column int
}

// Name returns the cell name for the address, e.g. {0, 1} is "B1"
func (a CellAddress) Name() string {
	return CellName(a.Row, a.Column)
}

// CellName returns the name of the cell at row and column. columns past
// Z have no name.
func CellName(row, column int) string {
	if column < 0 || column >= MaxColumns || row < 0 {
		return ""
	}
	return string(rune('A'+column)) + strconv.Itoa(row+1)
}

// ParseCellName resolves a name like "B10" into its address. one uppercase
// letter selects the column and the 1-based number after it the row. the
// result is not bounds checked against any grid.
func ParseCellName(name string) (CellAddress, bool) {
	if len(name) < 2 {
		return CellAddress{}, false
	}
	letter := name[0]
	if letter < 'A' || letter > 'Z' {
		return CellAddress{}, false
	}
	digits := name[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return CellAddress{}, false
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return CellAddress{}, false
	}
	return CellAddress{Row: row - 1, Column: int(letter - 'A')}, true
}

// Cell holds the raw text of a grid position and its computed display
// value. cells are created by the grid and mutated only through it.
type Cell struct {
	address CellAddress
	text    string
	value   string
	bgColor uint32

	// formula state, nil/empty for plain text cells
	tree            *expression.Tree
	referencedNames *linkedhashset.Set
}

func newCell(address CellAddress, color uint32) *Cell {
	return &Cell{
		address:         address,
		bgColor:         color,
		referencedNames: linkedhashset.New(),
	}
}

// Address returns the cell's position
func (c *Cell) Address() CellAddress {
	return c.address
}

// Row returns the zero-based row index
func (c *Cell) Row() int {
	return c.address.Row
}

// Column returns the zero-based column index
func (c *Cell) Column() int {
	return c.address.Column
}

// Name returns the cell name, e.g. "A1"
func (c *Cell) Name() string {
	return c.address.Name()
}

// Text returns the raw text as entered
func (c *Cell) Text() string {
	return c.text
}

// Value returns the computed display value
func (c *Cell) Value() string {
	return c.value
}

// BGColor returns the ARGB background color
func (c *Cell) BGColor() uint32 {
	return c.bgColor
}

// IsFormula reports whether the text is an expression
func (c *Cell) IsFormula() bool {
	return isFormula(c.text)
}

// IsModified reports whether the cell differs from a fresh cell
func (c *Cell) IsModified(defaultColor uint32) bool {
	return c.text != "" || c.bgColor != defaultColor
}

// ReferencedNames returns the distinct names the formula references, in
// first-seen order
func (c *Cell) ReferencedNames() []string {
	values := c.referencedNames.Values()
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, v.(string))
	}
	return result
}

func (c *Cell) clearFormula() {
	c.tree = nil
	c.referencedNames.Clear()
}

func (c *Cell) setFormula(tree *expression.Tree, names []string) {
	c.tree = tree
	c.referencedNames.Clear()
	for _, name := range names {
		c.referencedNames.Add(name)
	}
}

func isFormula(text string) bool {
	return strings.HasPrefix(text, formulaPrefix)
}
