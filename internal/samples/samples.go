// Package samples reads and writes headerless one-column sample files.
package samples

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrIO is returned when a sample source is missing or unreadable.
	ErrIO = errors.New("sample source unreadable")
	// ErrParse is returned when a sample source holds something other than numbers.
	ErrParse = errors.New("malformed sample data")
)

// ParseError reports the row that could not be read as a number.
type ParseError struct {
	Line int // 1-based, 0 when the error is not tied to a row
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", ErrParse, e.Err)
	}
	return fmt.Sprintf("%s: line %d: %q: %v", ErrParse, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

var (
	errNoSamples  = errors.New("no samples")
	errExtraValue = errors.New("more than one value in row")
)

// Parse reads one sample per record. Empty trailing fields are tolerated but
// a second value in a row is an error; blank lines are skipped.
func Parse(r io.Reader) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var values []float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		text := strings.TrimSpace(record[0])
		if text == "" && len(record) == 1 {
			continue
		}
		if len(record) > 1 && strings.TrimSpace(strings.Join(record[1:], "")) != "" {
			line, _ := reader.FieldPos(0)
			return nil, &ParseError{Line: line, Text: strings.Join(record, ","), Err: errExtraValue}
		}

		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, &ParseError{Line: line, Text: text, Err: errors.Unwrap(err)}
		}
		values = append(values, value)
	}

	if len(values) == 0 {
		return nil, &ParseError{Err: errNoSamples}
	}
	return values, nil
}

// Write emits one value per line using the shortest text that parses back
// to the same float64.
func Write(w io.Writer, values []float64) error {
	buf := make([]byte, 0, 32)
	for _, v := range values {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}
	return nil
}
