package batch

import (
	"context"
	"time"

	"mintforge/internal/assets"
	"mintforge/internal/metadata"
	"mintforge/internal/records"
	"mintforge/internal/services/ledger"
)

// Uploader stores an asset and returns the URI it is reachable at.
type Uploader interface {
	Upload(ctx context.Context, file assets.File) (string, error)
}

// Minter mints one token for item on the given contract.
type Minter interface {
	Mint(ctx context.Context, contractAddress string, chainID int64, item metadata.Item) (ledger.Receipt, error)
}

// Recorder persists a minted token.
type Recorder interface {
	CreateRecord(ctx context.Context, rec records.NewRecord) (records.Record, error)
}

// Services bundles the collaborators a batch needs.
type Services struct {
	Uploader Uploader
	Minter   Minter
	Recorder Recorder
}

// CollectionRef identifies the deployed collection being minted into.
type CollectionRef struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ChainID         int64  `json:"chain_id"`
	ContractAddress string `json:"contract_address"`
	OwnerAddress    string `json:"owner_address"`
}

// Stage names an item pipeline step.
type Stage string

const (
	StageUpload  Stage = "uploading"
	StageMint    Stage = "minting"
	StagePersist Stage = "saving"
	StageDone    Stage = "done"
)

// ErrorKind classifies an item failure by the stage that failed.
type ErrorKind string

const (
	UploadFailed  ErrorKind = "upload_failed"
	MintFailed    ErrorKind = "mint_failed"
	PersistFailed ErrorKind = "persist_failed"
)

// ItemResult is the outcome of one pair. Kind is empty on success.
type ItemResult struct {
	RowIndex      int             `json:"row_index"`
	Name          string          `json:"name"`
	AssetName     string          `json:"asset_name"`
	Kind          ErrorKind       `json:"error_kind,omitempty"`
	Error         string          `json:"error,omitempty"`
	ImageURI      string          `json:"image_uri,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	MetadataURI   string          `json:"metadata_uri,omitempty"`
	Orphaned      bool            `json:"orphaned,omitempty"`
	Record        *records.Record `json:"record,omitempty"`
	Metadata      metadata.Item   `json:"metadata"`
	Duration      time.Duration   `json:"duration_ns"`
}

// Succeeded reports whether all stages completed.
func (r ItemResult) Succeeded() bool {
	return r.Kind == ""
}

// Summary aggregates a finished or interrupted run.
type Summary struct {
	BatchID     string        `json:"batch_id"`
	Collection  CollectionRef `json:"collection"`
	Total       int           `json:"total"`
	Attempted   int           `json:"attempted"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Skipped     int           `json:"skipped"`
	Orphaned    int           `json:"orphaned"`
	Cancelled   bool          `json:"cancelled,omitempty"`
	Results     []ItemResult  `json:"results"`
	SkippedRows []int         `json:"skipped_rows,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
}

// Failures returns the failed results in manifest order.
func (s *Summary) Failures() []ItemResult {
	if s == nil {
		return nil
	}
	var out []ItemResult
	for _, r := range s.Results {
		if !r.Succeeded() {
			out = append(out, r)
		}
	}
	return out
}

// Progress is a point-in-time view of a running batch. Current counts pairs
// that have finished all stages.
type Progress struct {
	BatchID   string `json:"batch_id"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	Status    string `json:"status"`
	Stage     Stage  `json:"stage,omitempty"`
	RowIndex  int    `json:"row_index,omitempty"`
	ItemName  string `json:"item_name,omitempty"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}

// Observer receives progress snapshots. It is called from the goroutine
// running the batch and must not block for long.
type Observer func(Progress)
