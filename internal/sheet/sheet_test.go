package sheet_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/lucasvilela/vendalytics/internal/domain"
	"github.com/lucasvilela/vendalytics/internal/sheet"
)

func buildXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize fixture: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"ID", "Nome", "Preço"},
		{"1", "Batom", "10,50"},
		{"2", "Perfume", "120,00"},
	})

	table, err := sheet.NewDecoder().Decode(bytes.NewReader(data), "produtos.xlsx")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(table.Headers, []string{"ID", "Nome", "Preço"}) {
		t.Errorf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 || table.Rows[1][1] != "Perfume" {
		t.Errorf("unexpected rows: %v", table.Rows)
	}
}

func TestDecode_HeaderOnlyYieldsNoRows(t *testing.T) {
	data := buildXLSX(t, [][]string{{"ID", "Nome", "Preço"}})

	table, err := sheet.NewDecoder().Decode(bytes.NewReader(data), "produtos.xlsx")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("expected zero data rows, got %d", len(table.Rows))
	}
}

func TestDecode_UnsupportedExtension(t *testing.T) {
	_, err := sheet.NewDecoder().Decode(strings.NewReader("a,b\n1,2"), "produtos.csv")

	var unsupported *domain.ErrUnsupportedFileType
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if unsupported.Ext != ".csv" {
		t.Errorf("unexpected extension %q", unsupported.Ext)
	}
}

func TestDecode_CorruptXLSX(t *testing.T) {
	_, err := sheet.NewDecoder().Decode(strings.NewReader("not a workbook"), "produtos.xlsx")

	var decode *domain.ErrDecodeFailure
	if !errors.As(err, &decode) {
		t.Fatalf("expected ErrDecodeFailure, got %v", err)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	headers := []string{"ID", "Nome", "Preço"}
	rows := [][]string{
		{"1", "Batom", "10.50"},
		{"2", "Perfume", "120.00"},
	}
	data, err := sheet.NewEncoder().Encode("Análise de Vendas", headers, rows)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Análise de Vendas" {
		t.Fatalf("unexpected sheet list: %v", got)
	}
	read, err := f.GetRows("Análise de Vendas")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if !reflect.DeepEqual(read[0], headers) {
		t.Errorf("unexpected header row: %v", read[0])
	}
	if !reflect.DeepEqual(read[1:], rows) {
		t.Errorf("unexpected data rows: %v", read[1:])
	}
}
