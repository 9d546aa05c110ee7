package spreadsheet

import "fmt"

// Command is a reversible edit. Apply and Revert are inverses with respect
// to the observable state of the cells they touch.
type Command interface {
	Apply() error
	Revert() error
	Description() string
}

// TextChange replaces the text of one cell
type TextChange struct {
	sheet   *Spreadsheet
	address CellAddress
	before  string
	after   string
}

var _ Command = (*TextChange)(nil)

// NewTextChange records a change of the text at address from before to after
func NewTextChange(sheet *Spreadsheet, address CellAddress, before, after string) *TextChange {
	return &TextChange{
		sheet:   sheet,
		address: address,
		before:  before,
		after:   after,
	}
}

// Address returns the changed cell
func (c *TextChange) Address() CellAddress {
	return c.address
}

// Before returns the text the cell had before the change
func (c *TextChange) Before() string {
	return c.before
}

// After returns the text the change sets
func (c *TextChange) After() string {
	return c.after
}

func (c *TextChange) Apply() error {
	return c.sheet.SetText(c.address.Row, c.address.Column, c.after)
}

// Revert puts the previous text back even when that text is a formula the
// grid currently rejects, such as one kept from a loaded document
func (c *TextChange) Revert() error {
	return c.sheet.restoreText(c.address, c.before)
}

func (c *TextChange) Description() string {
	return "text change"
}

// ColorChange paints several cells one color. each target remembers its
// own previous color.
type ColorChange struct {
	sheet   *Spreadsheet
	targets []CellAddress
	before  []uint32
	after   uint32
}

var _ Command = (*ColorChange)(nil)

// NewColorChange records painting targets with after. before holds the
// prior color of each target, in the same order.
func NewColorChange(sheet *Spreadsheet, targets []CellAddress, before []uint32, after uint32) (*ColorChange, error) {
	if len(targets) != len(before) {
		return nil, NewApplicationError(InvalidArgument, fmt.Sprintf("%d targets but %d previous colors", len(targets), len(before)))
	}
	return &ColorChange{
		sheet:   sheet,
		targets: append([]CellAddress(nil), targets...),
		before:  append([]uint32(nil), before...),
		after:   after,
	}, nil
}

// Targets returns the painted cells
func (c *ColorChange) Targets() []CellAddress {
	return append([]CellAddress(nil), c.targets...)
}

func (c *ColorChange) Apply() error {
	for _, addr := range c.targets {
		if err := c.sheet.SetColor(addr.Row, addr.Column, c.after); err != nil {
			return err
		}
	}
	return nil
}

func (c *ColorChange) Revert() error {
	for i, addr := range c.targets {
		if err := c.sheet.SetColor(addr.Row, addr.Column, c.before[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *ColorChange) Description() string {
	return "background color change"
}
