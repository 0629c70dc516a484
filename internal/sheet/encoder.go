package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Encoder writes a flat record sequence into a single-sheet xlsx workbook.
type Encoder struct{}

// NewEncoder returns the default encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode builds the workbook in memory and returns its bytes. Cell values
// arrive pre-formatted (currency fields already carry their two decimals);
// the encoder only does placement.
func (e *Encoder) Encode(sheetName string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	write := func(rowIdx int, cells []string) error {
		for colIdx, v := range cells {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(0, headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := write(i+1, row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
