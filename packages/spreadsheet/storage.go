package spreadsheet

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Format selects how a snapshot is encoded
type Format string

const (
	FormatXML  Format = "xml"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatXML, FormatCBOR:
		return Format(name), nil
	default:
		return "", NewApplicationError(InvalidArgument, fmt.Sprintf("unknown snapshot format %q", name))
	}
}

// cborEncMode is canonical so equal sheets encode to equal bytes
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("spreadsheet: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// document is the persisted shape: one entry per modified cell
type document struct {
	XMLName xml.Name       `xml:"spreadsheet" cbor:"-"`
	Cells   []documentCell `xml:"cell" cbor:"cells"`
}

type documentCell struct {
	Name    string `xml:"name" cbor:"name"`
	BGColor string `xml:"bgcolor" cbor:"bgcolor"`
	Text    string `xml:"text" cbor:"text"`
}

// loadedCell is a documentCell that passed validation
type loadedCell struct {
	address CellAddress
	color   uint32
	text    string
}

// Save writes every modified cell as XML
func (s *Spreadsheet) Save(w io.Writer) error {
	return s.SaveSnapshot(w, FormatXML)
}

// Load replaces the grid with an XML document written by Save
func (s *Spreadsheet) Load(r io.Reader) error {
	return s.LoadSnapshot(r, FormatXML)
}

// SaveSnapshot writes every modified cell in row-major order
func (s *Spreadsheet) SaveSnapshot(w io.Writer, format Format) error {
	doc := s.snapshot()

	switch format {
	case FormatXML:
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return fmt.Errorf("spreadsheet: write xml header: %w", err)
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("spreadsheet: encode xml: %w", err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("spreadsheet: write xml: %w", err)
		}
	case FormatCBOR:
		data, err := cborEncMode.Marshal(doc)
		if err != nil {
			return fmt.Errorf("spreadsheet: encode cbor: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("spreadsheet: write cbor: %w", err)
		}
	default:
		return NewApplicationError(InvalidArgument, fmt.Sprintf("unknown snapshot format %q", format))
	}

	s.log.Infof("saved %d cells as %s", len(doc.Cells), format)
	return nil
}

func (s *Spreadsheet) snapshot() *document {
	doc := &document{}
	for _, cell := range s.ModifiedCells() {
		doc.Cells = append(doc.Cells, documentCell{
			Name:    cell.Name(),
			BGColor: strconv.FormatUint(uint64(cell.bgColor), 10),
			Text:    cell.text,
		})
	}
	return doc
}

// LoadSnapshot replaces the grid with a snapshot. the whole document is
// decoded and validated before anything changes, so a malformed document
// leaves the sheet as it was. on success both undo stacks are cleared,
// colors are applied without notifications and texts are committed in
// document order through the live edit path.
func (s *Spreadsheet) LoadSnapshot(r io.Reader, format Format) error {
	doc := &document{}
	switch format {
	case FormatXML:
		if err := xml.NewDecoder(r).Decode(doc); err != nil {
			return NewApplicationError(InvalidArgument, fmt.Sprintf("malformed xml document: %v", err))
		}
	case FormatCBOR:
		if err := cbor.NewDecoder(r).Decode(doc); err != nil {
			return NewApplicationError(InvalidArgument, fmt.Sprintf("malformed cbor document: %v", err))
		}
	default:
		return NewApplicationError(InvalidArgument, fmt.Sprintf("unknown snapshot format %q", format))
	}

	cells, err := s.validateDocument(doc)
	if err != nil {
		return err
	}

	s.Reset()
	for _, lc := range cells {
		s.cells[lc.address.Row][lc.address.Column].bgColor = lc.color
	}
	for _, lc := range cells {
		// formulas the grid rejects keep their text so saving again
		// reproduces the document
		if err := s.restoreText(lc.address, lc.text); err != nil {
			return err
		}
	}
	if err := s.checkGraph(); err != nil {
		return err
	}

	s.log.Infof("loaded %d cells from %s", len(cells), format)
	return nil
}

func (s *Spreadsheet) validateDocument(doc *document) ([]loadedCell, error) {
	cells := make([]loadedCell, 0, len(doc.Cells))
	for _, dc := range doc.Cells {
		dc.Name = strings.TrimSpace(dc.Name)
		dc.BGColor = strings.TrimSpace(dc.BGColor)
		addr, ok := s.resolve(dc.Name)
		if !ok {
			return nil, NewApplicationError(InvalidArgument, fmt.Sprintf("document names unknown cell %q", dc.Name))
		}

		color := s.defaultColor
		if dc.BGColor != "" {
			parsed, err := strconv.ParseUint(dc.BGColor, 10, 32)
			if err != nil {
				return nil, NewApplicationError(InvalidArgument, fmt.Sprintf("cell %s has invalid bgcolor %q", dc.Name, dc.BGColor))
			}
			color = uint32(parsed)
		}
		cells = append(cells, loadedCell{address: addr, color: color, text: dc.Text})
	}
	return cells, nil
}
