package manifest

import "strings"

// Reserved field names.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldFilename    = "filename"
	FieldTokenID     = "token_id"
	FieldExternalURL = "external_url"
	FieldYouTubeURL  = "youtube_url"
)

// TraitPrefix marks a column as a trait definition.
const TraitPrefix = "trait_"

// ReservedFields lists the fixed item fields in template order.
var ReservedFields = []string{
	FieldName,
	FieldDescription,
	FieldFilename,
	FieldTokenID,
	FieldExternalURL,
	FieldYouTubeURL,
}

// IsReserved reports whether field is one of the fixed item fields.
func IsReserved(field string) bool {
	for _, reserved := range ReservedFields {
		if field == reserved {
			return true
		}
	}
	return false
}

// IsTrait reports whether field is a trait column.
func IsTrait(field string) bool {
	return strings.HasPrefix(field, TraitPrefix) && len(field) > len(TraitPrefix)
}

// header keeps the column names as written alongside the lowercased lookup
// keys.
type header struct {
	raw   []string
	names []string
	index map[string]int
}

func newHeader(raw []string) *header {
	h := &header{
		raw:   raw,
		names: make([]string, len(raw)),
		index: make(map[string]int, len(raw)),
	}
	for i, name := range raw {
		h.names[i] = strings.ToLower(name)
	}
	for i, name := range h.names {
		if _, exists := h.index[name]; !exists {
			h.index[name] = i
		}
	}
	return h
}

// Row is one immutable manifest line keyed by the header's field names.
type Row struct {
	// Index is the 1-based position of the row among the data rows.
	Index  int
	header *header
	values []string
}

// Field is one (name, value) cell of a row.
type Field struct {
	Name  string
	Value string
}

// NewRow builds a row against the given field names. Missing values default
// to empty strings and extra values are dropped.
func NewRow(index int, fields []string, values []string) Row {
	raw := make([]string, len(fields))
	for i, f := range fields {
		raw[i] = cleanValue(f)
	}
	return newRow(index, newHeader(raw), values)
}

func newRow(index int, h *header, values []string) Row {
	aligned := make([]string, len(h.names))
	copy(aligned, values)
	return Row{Index: index, header: h, values: aligned}
}

// Get returns the value of field, or "" when the header lacks it.
func (r Row) Get(field string) string {
	if r.header == nil {
		return ""
	}
	i, ok := r.header.index[normalizeFieldName(field)]
	if !ok {
		return ""
	}
	return r.values[i]
}

// Has reports whether the header defines field.
func (r Row) Has(field string) bool {
	if r.header == nil {
		return false
	}
	_, ok := r.header.index[normalizeFieldName(field)]
	return ok
}

// Fields returns the lowercased header field names in column order.
func (r Row) Fields() []string {
	if r.header == nil {
		return nil
	}
	return append([]string(nil), r.header.names...)
}

// Columns returns the header names as written in the manifest.
func (r Row) Columns() []string {
	if r.header == nil {
		return nil
	}
	return append([]string(nil), r.header.raw...)
}

// With returns a copy of the row with field set to value. A field the header
// lacks is appended as a new column; the receiver is left untouched.
func (r Row) With(field, value string) Row {
	field = cleanValue(field)
	if r.header != nil {
		if i, ok := r.header.index[strings.ToLower(field)]; ok {
			values := append([]string(nil), r.values...)
			values[i] = value
			return Row{Index: r.Index, header: r.header, values: values}
		}
	}
	raw := append(r.Columns(), field)
	values := append(r.Values(), value)
	return newRow(r.Index, newHeader(raw), values)
}

// Values returns the row values aligned with Fields.
func (r Row) Values() []string {
	return append([]string(nil), r.values...)
}

// Map returns the row as a field-name keyed map. Duplicate header names keep
// the first column's value.
func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	if r.header == nil {
		return out
	}
	for name, i := range r.header.index {
		out[name] = r.values[i]
	}
	return out
}

// Traits returns the trait columns with non-empty values in column order.
// Names keep the header's spelling.
func (r Row) Traits() []Field {
	if r.header == nil {
		return nil
	}
	var traits []Field
	for i, name := range r.header.names {
		if !IsTrait(name) {
			continue
		}
		if value := r.values[i]; value != "" {
			traits = append(traits, Field{Name: r.header.raw[i], Value: value})
		}
	}
	return traits
}

// Label identifies the row for logs and tables.
func (r Row) Label() string {
	if name := r.Get(FieldName); name != "" {
		return name
	}
	if filename := r.Get(FieldFilename); filename != "" {
		return filename
	}
	if token := r.Get(FieldTokenID); token != "" {
		return "token " + token
	}
	return "row"
}

func normalizeFieldName(name string) string {
	return strings.ToLower(cleanValue(name))
}

func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			value = strings.TrimSpace(value[1 : len(value)-1])
		}
	}
	return value
}
