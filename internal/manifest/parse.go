package manifest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrManifestEmpty is returned when fewer than a header plus one data row exist.
var ErrManifestEmpty = errors.New("manifest empty: need a header line and at least one data row")

// Options controls how raw manifest bytes are decoded.
type Options struct {
	// Encoding is an IANA charset name. Empty means UTF-8. A UTF-8 or UTF-16
	// byte order mark always wins over the configured encoding.
	Encoding string
}

// Parse parses manifest text that is already decoded.
func Parse(text string) ([]Row, error) {
	return parse(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
}

// Read decodes r according to opts and parses the manifest.
func Read(r io.Reader, opts Options) ([]Row, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	decoder := unicode.BOMOverride(enc.NewDecoder())
	return parse(transform.NewReader(r, decoder))
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("manifest encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("manifest encoding %q is not supported", name)
	}
	return enc, nil
}

// parse reads one record per physical line, so a stray quote can never pull
// later lines into its field.
func parse(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)

	var h *header
	var rows []Row
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			record := splitLine(line)
			if h == nil {
				raw := make([]string, len(record))
				for i, name := range record {
					raw[i] = cleanValue(name)
				}
				h = newHeader(raw)
			} else {
				values := make([]string, len(record))
				for i, value := range record {
					values[i] = cleanValue(value)
				}
				rows = append(rows, newRow(len(rows)+1, h, values))
			}
		}
		if err != nil {
			break
		}
	}

	if len(rows) == 0 {
		return nil, ErrManifestEmpty
	}
	return rows, nil
}

// splitLine honours double-quoted fields whose closing quote ends the field,
// so "a, b" stays one value. Any other quote placement makes the whole line
// split on every comma.
func splitLine(line string) []string {
	if strings.ContainsRune(line, '"') {
		reader := csv.NewReader(strings.NewReader(line))
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		if record, err := reader.Read(); err == nil {
			return record
		}
	}
	return strings.Split(line, ",")
}
