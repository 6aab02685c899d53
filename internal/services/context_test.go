package services_test

import (
	"context"
	"testing"

	"docbridge/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithConversionID(ctx, "conv-1")
	ctx = services.WithOperation(ctx, "convert")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ConversionIDFromContext(ctx); !ok || id != "conv-1" {
		t.Fatalf("unexpected conversion id: %v %v", id, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "convert" {
		t.Fatalf("unexpected operation: %v %v", op, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestOperationBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithOperation(ctx, "")
	if _, ok := services.OperationFromContext(ctx); ok {
		t.Fatal("expected no operation value")
	}
}
