package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"scribe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "transcribe")
	ctx = services.WithRequestID(ctx, "req-123")

	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcribe" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := services.EnsureRequestID(context.Background())
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid request id, got %q: %v", id, err)
	}
	again, sameID := services.EnsureRequestID(ctx)
	if sameID != id {
		t.Fatalf("expected existing id %q to be kept, got %q", id, sameID)
	}
	if got, _ := services.RequestIDFromContext(again); got != id {
		t.Fatalf("unexpected id in context: %q", got)
	}
}
