package truetype

import (
	"errors"
	"fmt"
)

// Sentinel errors for the truetype package.
var (
	// ErrEmptyData is returned when the font data is empty.
	ErrEmptyData = errors.New("truetype: empty font data")

	// ErrUnknownFormat is returned when the leading tag is not a font or
	// collection tag this package understands.
	ErrUnknownFormat = errors.New("truetype: unknown font format")

	// ErrIndexOutOfRange is returned when a font index does not exist in the
	// data (any index other than 0 for a single font).
	ErrIndexOutOfRange = errors.New("truetype: font index out of range")

	// ErrMissingTable is returned when a required table is absent.
	ErrMissingTable = errors.New("truetype: missing required table")

	// ErrNoCmap is returned when no cmap subtable with a Unicode encoding exists.
	ErrNoCmap = errors.New("truetype: no usable cmap subtable")

	// ErrUnsupportedCharstring is returned for CFF fonts whose charstrings are
	// not Type 2.
	ErrUnsupportedCharstring = errors.New("truetype: unsupported charstring type")
)

// FormatError describes a malformed or unsupported font container.
// It wraps one of the package sentinel errors.
type FormatError struct {
	// Table is the table tag involved, if any.
	Table string
	// Err is the underlying sentinel error.
	Err error
}

func (e *FormatError) Error() string {
	if e.Table == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Table)
}

// Unwrap returns the underlying sentinel error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

func missing(table string) error {
	return &FormatError{Table: table, Err: ErrMissingTable}
}
