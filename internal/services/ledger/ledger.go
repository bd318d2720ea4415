// Package ledger talks to the external mint service that registers tokens on
// a distributed ledger. The ledger itself is opaque: the client submits item
// metadata for a deployed contract and receives a transaction identifier plus
// the metadata URI the service assigned.
package ledger

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mintforge/internal/config"
	"mintforge/internal/metadata"
	"mintforge/internal/services"
)

const stageName = "mint"

// Receipt is the outcome of a successful mint.
type Receipt struct {
	TransactionID string `json:"transaction_id"`
	MetadataURI   string `json:"metadata_uri"`
	TokenID       string `json:"token_id,omitempty"`
}

type mintRequest struct {
	ContractAddress string        `json:"contract_address"`
	ChainID         int64         `json:"chain_id"`
	Metadata        metadata.Item `json:"metadata"`
}

// HTTPMinter submits mint requests as JSON to <base>/mint.
type HTTPMinter struct {
	baseURL string
	token   string
	client  services.HTTPDoer
}

// NewHTTPMinter constructs a minter for the ledger service at baseURL.
func NewHTTPMinter(baseURL, token string, client services.HTTPDoer) *HTTPMinter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPMinter{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
	}
}

// NewFromConfig builds a minter from the [ledger] config section.
func NewFromConfig(cfg *config.Config) *HTTPMinter {
	client := &http.Client{Timeout: time.Duration(cfg.Ledger.TimeoutSeconds) * time.Second}
	return NewHTTPMinter(cfg.Ledger.URL, cfg.Ledger.APIToken, client)
}

// Mint registers item on the contract. The item must already carry its
// uploaded image URI.
func (m *HTTPMinter) Mint(ctx context.Context, contractAddress string, chainID int64, item metadata.Item) (Receipt, error) {
	if m == nil || m.baseURL == "" {
		return Receipt{}, services.Wrap(services.ErrConfiguration, stageName, "submit", "ledger url not configured", nil)
	}
	if !item.Ready() {
		return Receipt{}, services.Wrap(services.ErrValidation, stageName, "submit", "item image is not set", nil)
	}
	if strings.TrimSpace(contractAddress) == "" {
		return Receipt{}, services.Wrap(services.ErrValidation, stageName, "submit", "contract address is empty", nil)
	}

	req, err := services.NewJSONRequest(ctx, http.MethodPost, m.baseURL+"/mint", m.token, mintRequest{
		ContractAddress: contractAddress,
		ChainID:         chainID,
		Metadata:        item,
	})
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrMint, stageName, "build request", "", err)
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", rid)
	}

	var receipt Receipt
	if err := services.DoJSON(m.client, "ledger", req, &receipt); err != nil {
		return Receipt{}, services.Wrap(services.ErrMint, stageName, "submit", item.Name, err)
	}
	if strings.TrimSpace(receipt.TransactionID) == "" {
		return Receipt{}, services.Wrap(services.ErrMint, stageName, "submit", "ledger response carried no transaction id", nil)
	}
	return receipt, nil
}
