package recordapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mintforge/internal/metadata"
	"mintforge/internal/records"
	"mintforge/internal/services"
	"mintforge/internal/services/recordapi"
)

func newRecord() records.NewRecord {
	return records.NewRecord{
		CollectionID:  "col 1",
		Name:          "Cool NFT #1",
		Image:         "ipfs://img",
		Attributes:    []metadata.Attribute{{TraitType: "Background", Value: "Blue"}},
		TransactionID: "0xtx",
		OwnerAddress:  "0xowner",
	}
}

func TestHTTPRecorderCreatesRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/collections/col%201/nfts" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		var body records.NewRecord
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.TransactionID != "0xtx" || body.OwnerAddress != "0xowner" || len(body.Attributes) != 1 {
			t.Errorf("unexpected body %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"rec-9"}`)
	}))
	defer srv.Close()

	rec, err := recordapi.NewHTTPRecorder(srv.URL+"/api", "tok", srv.Client()).CreateRecord(context.Background(), newRecord())
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.ID != "rec-9" {
		t.Fatalf("id = %q", rec.ID)
	}
	if rec.Name != "Cool NFT #1" || rec.TransactionID != "0xtx" || rec.CreatedAt.IsZero() {
		t.Fatalf("expected backfilled fields, got %+v", rec)
	}
}

func TestHTTPRecorderWrapsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := recordapi.NewHTTPRecorder(srv.URL, "", srv.Client()).CreateRecord(context.Background(), newRecord())
	if !errors.Is(err, services.ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
}

func TestHTTPRecorderValidatesBeforeCalling(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	rec := newRecord()
	rec.TransactionID = ""
	_, err := recordapi.NewHTTPRecorder(srv.URL, "", srv.Client()).CreateRecord(context.Background(), rec)
	if !errors.Is(err, records.ErrInvalidRecord) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatal("service must not be called for invalid records")
	}
}
