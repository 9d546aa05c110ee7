package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"
)

func newBenchSheet(b *testing.B, rows, columns int) *Spreadsheet {
	b.Helper()
	s, err := New(rows, columns)
	if err != nil {
		b.Fatal(err)
	}
	return s
}

func BenchmarkLargeCellPopulation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := newBenchSheet(b, 100, 26)

		for row := 0; row < 100; row++ {
			for col := 0; col < 26; col++ {
				s.SetText(row, col, strconv.Itoa((row+1)*(col+1)))
			}
		}
	}
}

func BenchmarkFormulaDependencyChain(b *testing.B) {
	s := newBenchSheet(b, 100, 1)

	s.SetText(0, 0, "1")
	for row := 1; row < 100; row++ {
		s.SetText(row, 0, fmt.Sprintf("=A%d+1", row))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.SetText(0, 0, strconv.Itoa(i))
	}
}

func BenchmarkWideDependencyFanOut(b *testing.B) {
	s := newBenchSheet(b, 500, 2)

	s.SetText(0, 0, "100")
	for row := 1; row < 500; row++ {
		s.SetText(row, 1, "=A1*2")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.SetText(0, 0, strconv.Itoa(i))
	}
}

func BenchmarkCircularReferenceDetection(b *testing.B) {
	s := newBenchSheet(b, 200, 1)

	for row := 1; row < 200; row++ {
		s.SetText(row, 0, fmt.Sprintf("=A%d+1", row))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// rejected, the chain leads back to A1
		s.SetText(0, 0, "=A200")
	}
}

func BenchmarkUndoRedo(b *testing.B) {
	s := newBenchSheet(b, 50, 2)
	s.SetText(0, 0, "1")
	for row := 1; row < 50; row++ {
		s.SetText(row, 0, fmt.Sprintf("=A%d*2", row))
	}
	s.Edit(0, 1, "=A50")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Undo()
		s.Redo()
	}
}

func BenchmarkSnapshot(b *testing.B) {
	for _, format := range []Format{FormatXML, FormatCBOR} {
		b.Run(string(format), func(b *testing.B) {
			s := newBenchSheet(b, 50, 26)
			for row := 0; row < 50; row++ {
				for col := 0; col < 26; col++ {
					s.SetText(row, col, strconv.Itoa(row*col))
				}
			}

			var buf bytes.Buffer
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				if err := s.SaveSnapshot(&buf, format); err != nil {
					b.Fatal(err)
				}
				if err := s.LoadSnapshot(&buf, format); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
