// Package writer serializes frequency tables and exports matched subtrees.
// Tables are ordered: the header defines both CSV column order and JSON key
// order. Filesystem output goes through a hackpadfs.FS so the engine can be
// pointed at the OS, an in-memory filesystem in tests, or anything else.
package writer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format identifies a frequency-table serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// CheckFormat validates a requested output format before any I/O happens.
func CheckFormat(f Format) error {
	switch f {
	case FormatCSV, FormatJSON:
		return nil
	}
	return fmt.Errorf(`writer: unsupported output format %q, want "csv" or "json"`, string(f))
}

// WriteTable writes header + rows in the requested format.
func WriteTable(w io.Writer, format Format, header []string, rows []map[string]string) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, header, rows)
	case FormatJSON:
		return WriteJSON(w, header, rows)
	}
	return CheckFormat(format)
}

// WriteCSV writes a header row followed by one record per row map. Missing
// cells are empty strings.
func WriteCSV(w io.Writer, header []string, rows []map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writer: csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, name := range header {
			record[i] = row[name]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writer: csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rows as a JSON array of objects. Keys are emitted in
// header order rather than Go's map order, so the JSON mirrors the CSV
// column layout.
func WriteJSON(w io.Writer, header []string, rows []map[string]string) error {
	var b strings.Builder
	b.WriteString("[")
	for i, row := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("{")
		for j, name := range header {
			if j > 0 {
				b.WriteString(",")
			}
			key, err := json.Marshal(name)
			if err != nil {
				return fmt.Errorf("writer: json key: %w", err)
			}
			val, err := json.Marshal(row[name])
			if err != nil {
				return fmt.Errorf("writer: json value: %w", err)
			}
			b.Write(key)
			b.WriteString(":")
			b.Write(val)
		}
		b.WriteString("}")
	}
	b.WriteString("]\n")
	_, err := io.WriteString(w, b.String())
	return err
}
