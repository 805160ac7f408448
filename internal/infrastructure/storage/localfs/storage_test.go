package localfs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func TestSaveThenOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, "doc-1_contract.pdf", strings.NewReader("file bytes")); err != nil {
		t.Fatalf("save: %v", err)
	}

	rc, err := storage.Open(ctx, "doc-1_contract.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "file bytes" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestOpenMissingKeyIsNotFound(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	if _, err := storage.Open(context.Background(), "missing.pdf"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestKeyPathStripsDirectories(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, "../escape.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := storage.Open(ctx, "escape.pdf"); err != nil {
		t.Errorf("expected flattened key readable, got %v", err)
	}
}
