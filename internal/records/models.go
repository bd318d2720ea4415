package records

import (
	"errors"
	"strings"
	"time"

	"mintforge/internal/metadata"
)

// ErrInvalidRecord marks a NewRecord missing required fields.
var ErrInvalidRecord = errors.New("invalid record")

// NewRecord carries the fields submitted when persisting a minted token.
type NewRecord struct {
	CollectionID  string               `json:"collection_id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Image         string               `json:"image"`
	Attributes    []metadata.Attribute `json:"attributes"`
	TransactionID string               `json:"transaction_id"`
	OwnerAddress  string               `json:"owner_address"`
	MetadataURI   string               `json:"metadata_uri,omitempty"`
	BatchID       string               `json:"batch_id,omitempty"`
	RowIndex      int                  `json:"row_index,omitempty"`
}

// Validate checks the fields every backend requires.
func (n NewRecord) Validate() error {
	var missing []string
	if strings.TrimSpace(n.CollectionID) == "" {
		missing = append(missing, "collection_id")
	}
	if strings.TrimSpace(n.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(n.Image) == "" {
		missing = append(missing, "image")
	}
	if strings.TrimSpace(n.TransactionID) == "" {
		missing = append(missing, "transaction_id")
	}
	if len(missing) > 0 {
		return errors.Join(ErrInvalidRecord, errors.New("missing "+strings.Join(missing, ", ")))
	}
	return nil
}

// Record is a persisted minted token.
type Record struct {
	ID            string               `json:"id"`
	CollectionID  string               `json:"collection_id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Image         string               `json:"image"`
	Attributes    []metadata.Attribute `json:"attributes"`
	TransactionID string               `json:"transaction_id"`
	OwnerAddress  string               `json:"owner_address"`
	MetadataURI   string               `json:"metadata_uri,omitempty"`
	BatchID       string               `json:"batch_id,omitempty"`
	RowIndex      int                  `json:"row_index,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	CollectionID string
	BatchID      string
	Limit        int
}
