package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceNotFound means no CSV source exists at any candidate location.
	ErrSourceNotFound = errors.New("no dataset source found")

	// ErrMissingColumns means the source header lacks required columns.
	ErrMissingColumns = errors.New("dataset source missing required columns")
)

// MissingColumnsError names every required column absent from a source.
type MissingColumnsError struct {
	Source  string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("CSV missing columns: [%s] in %s", strings.Join(e.Missing, ", "), e.Source)
}

// Is reports ErrMissingColumns so callers can match with errors.Is.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}
