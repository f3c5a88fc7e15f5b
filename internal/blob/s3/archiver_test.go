package s3blob

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
)

type fakeWriter struct {
	path        string
	contentType string
	data        []byte
	calls       int
}

func (f *fakeWriter) Put(_ context.Context, path string, data io.Reader, contentType string) error {
	f.calls++
	f.path = path
	f.contentType = contentType
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.data = b
	return nil
}

func TestArchiveSnapshot(t *testing.T) {
	fw := &fakeWriter{}
	a := NewArchiver(fw)

	snap := domain.ContractSnapshot{
		Platform:  domain.PlatformKalshi,
		Contracts: []domain.Contract{{ExternalID: "K1", Title: "Fed cuts rates"}},
		FetchedAt: time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
	}
	if err := a.ArchiveSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("ArchiveSnapshot: %v", err)
	}

	if fw.path != "snapshots/kalshi/2026-08-01T12-30-00.json" {
		t.Fatalf("path = %q", fw.path)
	}
	if fw.contentType != "application/json" {
		t.Fatalf("contentType = %q", fw.contentType)
	}
	if !bytes.Contains(fw.data, []byte("Fed cuts rates")) {
		t.Fatalf("payload missing contract data: %s", fw.data)
	}
}

func TestArchiveOpportunities(t *testing.T) {
	fw := &fakeWriter{}
	a := NewArchiver(fw)
	at := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)

	opps := []domain.ArbitrageOpportunity{
		{ID: 1, KalshiID: 1, PolymarketID: 2, Active: true},
		{ID: 2, KalshiID: 3, PolymarketID: 4, Active: true},
	}
	if err := a.ArchiveOpportunities(context.Background(), opps, at); err != nil {
		t.Fatalf("ArchiveOpportunities: %v", err)
	}

	if fw.path != "opportunities/2026-08/2026-08-01T12-30-00.jsonl" {
		t.Fatalf("path = %q", fw.path)
	}
	lines := strings.Split(strings.TrimSpace(string(fw.data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d JSONL lines, want 2", len(lines))
	}

	// Nothing to upload means no call at all.
	fw2 := &fakeWriter{}
	if err := NewArchiver(fw2).ArchiveOpportunities(context.Background(), nil, at); err != nil {
		t.Fatalf("empty pass errored: %v", err)
	}
	if fw2.calls != 0 {
		t.Fatal("empty pass should not upload")
	}
}
