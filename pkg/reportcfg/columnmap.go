package reportcfg

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ColumnEntry maps one pivot column ("<asset name> <telemetry key>") to its
// header row labels, top to bottom.
type ColumnEntry struct {
	Column string
	Labels []string
}

// ColumnMap is an ordered column → header-labels mapping. Key order is
// semantically significant: it controls output column order in the
// generated sheets, so JSON insertion order is preserved through both
// unmarshal and marshal.
type ColumnMap []ColumnEntry

// Get returns the labels for a column and whether the column is present.
func (m ColumnMap) Get(column string) ([]string, bool) {
	for _, e := range m {
		if e.Column == column {
			return e.Labels, true
		}
	}
	return nil, false
}

// Columns returns the column names in insertion order.
func (m ColumnMap) Columns() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Column
	}
	return out
}

// Set appends or replaces a column's labels, keeping existing order for
// replaced columns.
func (m *ColumnMap) Set(column string, labels []string) {
	for i, e := range *m {
		if e.Column == column {
			(*m)[i].Labels = labels
			return
		}
	}
	*m = append(*m, ColumnEntry{Column: column, Labels: labels})
}

// UnmarshalJSON decodes a JSON object while preserving key order, which
// encoding/json's map type would discard.
func (m *ColumnMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("column_map: expected object, got %v", tok)
	}

	entries := ColumnMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("column_map: expected string key, got %v", keyTok)
		}
		var labels []string
		if err := dec.Decode(&labels); err != nil {
			return fmt.Errorf("column_map[%q]: %w", key, err)
		}
		entries.Set(key, labels)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}

	*m = entries
	return nil
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m ColumnMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Column)
		if err != nil {
			return nil, err
		}
		labels, err := json.Marshal(e.Labels)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(labels)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// clone returns a deep copy so resolved configs never alias the defaults.
func (m ColumnMap) clone() ColumnMap {
	if m == nil {
		return nil
	}
	out := make(ColumnMap, len(m))
	for i, e := range m {
		out[i] = ColumnEntry{Column: e.Column, Labels: append([]string(nil), e.Labels...)}
	}
	return out
}
