package services_test

import (
	"context"
	"testing"

	"mintforge/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBatchID(ctx, "b-1")
	ctx = services.WithRowIndex(ctx, 4)
	ctx = services.WithStage(ctx, "mint")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.BatchIDFromContext(ctx); !ok || id != "b-1" {
		t.Fatalf("unexpected batch id: %v %v", id, ok)
	}
	if row, ok := services.RowIndexFromContext(ctx); !ok || row != 4 {
		t.Fatalf("unexpected row index: %v %v", row, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "mint" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRowIndex(ctx, 0)
	ctx = services.WithBatchID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RowIndexFromContext(ctx); ok {
		t.Fatal("expected no row value")
	}
	if _, ok := services.BatchIDFromContext(ctx); ok {
		t.Fatal("expected no batch value")
	}
}
