// Package metadata synthesizes the per-item description handed to the ledger
// and record services from a manifest row and its matched asset.
package metadata

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mintforge/internal/assets"
	"mintforge/internal/manifest"
)

// Attribute is one displayed trait. Both fields are non-empty.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Item is the normalized description of one token. Image stays empty until
// the asset upload succeeds.
type Item struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Image        string      `json:"image,omitempty"`
	ExternalURL  string      `json:"external_url,omitempty"`
	YouTubeURL   string      `json:"youtube_url,omitempty"`
	AnimationURL string      `json:"animation_url,omitempty"`
	TokenID      string      `json:"token_id,omitempty"`
	Attributes   []Attribute `json:"attributes"`

	// RowIndex and Asset tie the item back to its inputs; they are not sent.
	RowIndex int         `json:"-"`
	Asset    assets.File `json:"-"`
}

// Ready reports whether downstream stages may run.
func (i Item) Ready() bool {
	return strings.TrimSpace(i.Image) != ""
}

// WithMediaURI records the uploaded asset URI. Non-image assets also become the
// animation URL so players can render them.
func (i Item) WithMediaURI(uri string) Item {
	i.Image = uri
	if i.Asset.Kind == assets.KindVideo || i.Asset.Kind == assets.KindAudio {
		i.AnimationURL = uri
	}
	return i
}

// Synthesize builds the item for row and its matched asset. The name falls back
// to "<collection> #<row>" and then to the asset's file stem.
func Synthesize(row manifest.Row, asset assets.File, collectionName string) Item {
	item := Item{
		Name:        strings.TrimSpace(row.Get(manifest.FieldName)),
		Description: row.Get(manifest.FieldDescription),
		ExternalURL: row.Get(manifest.FieldExternalURL),
		YouTubeURL:  row.Get(manifest.FieldYouTubeURL),
		TokenID:     row.Get(manifest.FieldTokenID),
		Attributes:  Attributes(row),
		RowIndex:    row.Index,
		Asset:       asset,
	}
	if item.Name == "" {
		item.Name = fallbackName(row.Index, asset, collectionName)
	}
	return item
}

// Attributes converts the row's non-empty trait columns, in column order.
// Duplicate trait types pass through unchanged.
func Attributes(row manifest.Row) []Attribute {
	traits := row.Traits()
	attrs := make([]Attribute, 0, len(traits))
	for _, trait := range traits {
		traitType := FormatTraitType(trait.Name)
		if traitType == "" {
			continue
		}
		attrs = append(attrs, Attribute{TraitType: traitType, Value: trait.Value})
	}
	return attrs
}

// FormatTraitType turns "trait_eye_color" into "Eye Color".
func FormatTraitType(field string) string {
	field = strings.TrimSpace(field)
	if strings.HasPrefix(strings.ToLower(field), manifest.TraitPrefix) {
		field = field[len(manifest.TraitPrefix):]
	}
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	if len(words) == 0 {
		return ""
	}
	caser := cases.Title(language.Und, cases.NoLower)
	return caser.String(strings.Join(words, " "))
}

func fallbackName(index int, asset assets.File, collectionName string) string {
	if collection := strings.TrimSpace(collectionName); collection != "" && index > 0 {
		return collection + " #" + strconv.Itoa(index)
	}
	if stem := asset.Stem(); stem != "" && stem != "." {
		return stem
	}
	return "#" + strconv.Itoa(index)
}
