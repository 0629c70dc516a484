package domain

import "fmt"

// Error types for the upload boundary. Every one of these is recovered per
// upload slot: the handler turns them into an inline message and no other
// slot's state is touched. User-facing messages stay in Portuguese, matching
// the product.

// ErrEmptyFile indicates the decoded spreadsheet had no data rows.
type ErrEmptyFile struct{}

func (e *ErrEmptyFile) Error() string {
	return "O arquivo está vazio"
}

// ErrMissingColumns indicates a mandatory column was not found among the
// spreadsheet headers. The message is fixed per table kind.
type ErrMissingColumns struct {
	Slot    string
	Message string
}

func (e *ErrMissingColumns) Error() string {
	return e.Message
}

// ErrUnsupportedFileType indicates the upload was not an Excel file. The
// check runs on the extension, before any decode is attempted.
type ErrUnsupportedFileType struct {
	Ext string
}

func (e *ErrUnsupportedFileType) Error() string {
	return "Por favor, envie um arquivo Excel (.xlsx ou .xls)"
}

// ErrDecodeFailure wraps an error from the spreadsheet decoder, verbatim.
type ErrDecodeFailure struct {
	Err error
}

func (e *ErrDecodeFailure) Error() string {
	return fmt.Sprintf("falha ao ler a planilha: %v", e.Err)
}

func (e *ErrDecodeFailure) Unwrap() error {
	return e.Err
}

// ErrTableNotLoaded indicates an analytics view was requested before every
// table its pipeline needs was uploaded.
type ErrTableNotLoaded struct {
	Pipeline string
}

func (e *ErrTableNotLoaded) Error() string {
	return fmt.Sprintf("tabelas necessárias para %s ainda não foram carregadas", e.Pipeline)
}

// ErrValidation indicates a bad request parameter (unknown slot, missing
// file field).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
