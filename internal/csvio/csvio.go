// Package csvio reads and writes the header-mapped CSV shape the rest
// of the module works with. Rows travel as header→cell maps so callers
// never index columns positionally.
package csvio

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"drylog/internal/errors"
)

// utf8BOM is prepended on export so Excel opens the file as UTF-8.
// On import it is stripped if present.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed CSV file: the header row in file order plus one
// map per data row. Cells keep their raw text; interpretation belongs
// to the caller.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Parse reads an entire CSV document. A file with only a header row
// yields an empty but valid table; a file with no rows at all is a
// batch error.
func Parse(r io.Reader) (*Table, error) {
	br := &bomReader{r: r}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.BatchUnparseable, "malformed csv input", err)
	}
	if len(all) == 0 {
		return nil, errors.New(errors.BatchUnparseable, "csv input has no header row")
	}

	headers := make([]string, len(all[0]))
	for i, h := range all[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers}
	for _, cells := range all[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (*Table, error) {
	return Parse(bytes.NewReader(data))
}

// Write renders the table with a UTF-8 BOM and CRLF-free records.
// Missing cells render as empty strings.
func Write(w io.Writer, headers []string, rows []map[string]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return errors.Wrap(errors.PersistenceFailed, "writing csv output", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return errors.Wrap(errors.PersistenceFailed, "writing csv header", err)
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(errors.PersistenceFailed, "writing csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.PersistenceFailed, "flushing csv output", err)
	}
	return nil
}

// bomReader strips a leading UTF-8 BOM from the underlying reader.
type bomReader struct {
	r       io.Reader
	checked bool
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head := make([]byte, len(utf8BOM))
		n, err := io.ReadFull(b.r, head)
		if err == io.EOF {
			return 0, io.EOF
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		rest := head[:n]
		if bytes.Equal(rest, utf8BOM) {
			rest = nil
		}
		b.r = io.MultiReader(bytes.NewReader(rest), b.r)
	}
	return b.r.Read(p)
}
