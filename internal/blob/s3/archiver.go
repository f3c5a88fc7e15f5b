package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// Archiver uploads refresh artifacts for offline analysis. Snapshots land as
// one JSON object per refresh, opportunity passes as JSONL partitioned by
// month.
type Archiver struct {
	writer BlobWriter
}

// NewArchiver creates an Archiver over the given writer.
func NewArchiver(writer BlobWriter) *Archiver {
	return &Archiver{writer: writer}
}

// ArchiveSnapshot uploads one platform's normalized contract batch to
// snapshots/{platform}/{timestamp}.json.
func (a *Archiver) ArchiveSnapshot(ctx context.Context, snap domain.ContractSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("s3blob: marshal snapshot %s: %w", snap.Platform, err)
	}

	path := fmt.Sprintf("snapshots/%s/%s.json", snap.Platform, snap.FetchedAt.UTC().Format("2006-01-02T15-04-05"))
	if err := a.writer.Put(ctx, path, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("s3blob: archive snapshot %s: %w", snap.Platform, err)
	}
	return nil
}

// ArchiveOpportunities uploads one evaluation pass as JSONL at
// opportunities/YYYY-MM/{timestamp}.jsonl. Empty passes are skipped.
func (a *Archiver) ArchiveOpportunities(ctx context.Context, opps []domain.ArbitrageOpportunity, at time.Time) error {
	if len(opps) == 0 {
		return nil
	}

	buf, err := marshalJSONL(opps)
	if err != nil {
		return fmt.Errorf("s3blob: marshal opportunities: %w", err)
	}

	path := fmt.Sprintf("opportunities/%s/%s.jsonl", at.UTC().Format("2006-01"), at.UTC().Format("2006-01-02T15-04-05"))
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return fmt.Errorf("s3blob: archive opportunities: %w", err)
	}
	return nil
}

// marshalJSONL serializes records as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
