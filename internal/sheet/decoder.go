// Package sheet implements the spreadsheet collaborators: bytes in, rows
// out (excelize for .xlsx, xlsReader for legacy .xls) and rows in, bytes out
// for export downloads.
package sheet

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/lucasvilela/vendalytics/internal/domain"
)

// Decoder reads the first worksheet of an Excel file into a RawTable.
type Decoder struct{}

// NewDecoder returns the default decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses r as the format the file name's extension declares. The
// first row becomes the header row; a file with only a header (or nothing)
// yields a table with zero data rows, which the caller treats as empty.
func (d *Decoder) Decode(r io.Reader, filename string) (*domain.RawTable, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = decodeXLSX(r)
	case ".xls":
		rows, err = decodeXLS(r)
	default:
		return nil, &domain.ErrUnsupportedFileType{Ext: filepath.Ext(filename)}
	}
	if err != nil {
		return nil, &domain.ErrDecodeFailure{Err: err}
	}

	if len(rows) == 0 {
		return &domain.RawTable{}, nil
	}
	return &domain.RawTable{Headers: rows[0], Rows: rows[1:]}, nil
}

func decodeXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("a planilha não contém abas")
	}
	return f.GetRows(sheets[0])
}

func decodeXLS(r io.Reader) ([][]string, error) {
	// xlsReader needs a ReadSeeker; uploads are small enough to buffer.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, errors.New("a planilha não contém abas")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
