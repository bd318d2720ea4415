package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultTemplateTraits are used when WriteTemplate receives no traits.
var DefaultTemplateTraits = []string{"background", "rarity"}

var sampleTraitValues = []string{"Blue", "Common", "Gold", "Rare", "Red", "Epic"}

// WriteTemplate writes a starter manifest: the reserved header fields, one
// column per trait, and rows sample lines. Trait names may be given with or
// without TraitPrefix.
func WriteTemplate(w io.Writer, traits []string, rows int) error {
	if len(traits) == 0 {
		traits = DefaultTemplateTraits
	}
	if rows < 0 {
		rows = 0
	}

	header := append([]string(nil), ReservedFields...)
	for _, trait := range traits {
		trait = strings.ToLower(strings.TrimSpace(trait))
		if trait == "" {
			continue
		}
		if !strings.HasPrefix(trait, TraitPrefix) {
			trait = TraitPrefix + trait
		}
		header = append(header, trait)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}
	for i := 1; i <= rows; i++ {
		record := make([]string, len(header))
		for col, field := range header {
			record[col] = sampleValue(field, i, col)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write template row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

func sampleValue(field string, n, col int) string {
	id := strconv.Itoa(n)
	switch field {
	case FieldName:
		return "My NFT #" + id
	case FieldDescription:
		return "Description for item " + id
	case FieldFilename:
		return id + ".png"
	case FieldTokenID:
		return id
	case FieldExternalURL:
		return "https://example.com/items/" + id
	case FieldYouTubeURL:
		return ""
	default:
		return sampleTraitValues[(n+col)%len(sampleTraitValues)]
	}
}

// WriteRows writes rows back out as a manifest. The header is the union of
// the rows' columns in first-seen order, so rows given extra columns through
// Row.With still line up. It is used to emit retry manifests.
func WriteRows(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return ErrManifestEmpty
	}
	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, column := range row.Columns() {
			key := strings.ToLower(column)
			if !seen[key] {
				seen[key] = true
				columns = append(columns, column)
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = row.Get(column)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write manifest row %d: %w", row.Index, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
