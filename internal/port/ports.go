package port

import (
	"io"

	"github.com/lucasvilela/vendalytics/internal/domain"
)

// SheetDecoder turns spreadsheet bytes into a raw table, first row as
// header. Implementations pick the parser from the file name extension.
type SheetDecoder interface {
	Decode(r io.Reader, filename string) (*domain.RawTable, error)
}

// SheetEncoder turns a flat record sequence back into a spreadsheet byte
// stream for download.
type SheetEncoder interface {
	Encode(sheetName string, headers []string, rows [][]string) ([]byte, error)
}
