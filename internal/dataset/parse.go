package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/meur/itemsapi/internal/models"
)

// RequiredColumns are the header names a source must carry, in projection order.
var RequiredColumns = []string{"Name", "Image", "Category", "where", "Marca"}

const utf8BOM = "\ufeff"

// ParseItems reads a header row and data rows from r, keeps the required
// columns and assigns ids 1..N in row order. Missing cells become "".
func ParseItems(r io.Reader, comma rune, source string) ([]models.Item, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnsError{Source: source, Missing: append([]string(nil), RequiredColumns...)}
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", source, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	index, err := columnIndex(header, source)
	if err != nil {
		return nil, err
	}

	items := []models.Item{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}

		cell := func(col int) string {
			if col < len(record) {
				return record[col]
			}
			return ""
		}

		items = append(items, models.Item{
			ID:       len(items) + 1,
			Name:     cell(index[0]),
			Image:    cell(index[1]),
			Category: cell(index[2]),
			Where:    cell(index[3]),
			Marca:    cell(index[4]),
		})
	}

	return items, nil
}

// columnIndex maps each required column to its header position. The first
// occurrence of a duplicated header wins.
func columnIndex(header []string, source string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	index := make([]int, len(RequiredColumns))
	var missing []string
	for i, name := range RequiredColumns {
		pos, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		index[i] = pos
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Source: source, Missing: missing}
	}
	return index, nil
}
