package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/vigia-io/vigia/internal/pipeline"
)

// fakeIngestor fails every document whose title contains "fail".
type fakeIngestor struct {
	processed atomic.Int64
}

func (f *fakeIngestor) Process(ctx context.Context, raw pipeline.RawDocument) (*pipeline.Result, error) {
	f.processed.Add(1)
	if strings.Contains(raw.Title, "fail") {
		return nil, errors.New("ingest failed")
	}
	return &pipeline.Result{}, nil
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	ing := &fakeIngestor{}
	b := NewBatchIngester(ing, nil, 3)

	docs := []pipeline.RawDocument{
		{SourceID: 1, Title: "ok one"},
		{SourceID: 1, Title: "fail two"},
		{SourceID: 2, Title: "ok three"},
	}
	results := b.ProcessBatch(context.Background(), docs)

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	var failed int
	for _, r := range results {
		if r.GetError() != nil {
			failed++
			if !strings.Contains(r.Raw.Title, "fail") {
				t.Errorf("wrong document failed: %q", r.Raw.Title)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if ing.processed.Load() != 3 {
		t.Errorf("processed = %d, want 3", ing.processed.Load())
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	b := NewBatchIngester(&fakeIngestor{}, nil, 2)
	if results := b.ProcessBatch(context.Background(), nil); len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestProcessBatchLarge(t *testing.T) {
	ing := &fakeIngestor{}
	b := NewBatchIngester(ing, nil, 2)

	docs := make([]pipeline.RawDocument, 100)
	for i := range docs {
		docs[i] = pipeline.RawDocument{SourceID: 1, Title: "doc"}
	}
	results := b.ProcessBatch(context.Background(), docs)
	if len(results) != 100 || ing.processed.Load() != 100 {
		t.Errorf("results = %d, processed = %d; want 100 each", len(results), ing.processed.Load())
	}
}

func TestReadDocumentsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.ndjson")
	content := `# seed batch
{"source_id": 1, "title": "Corte de ruta", "body": "texto"}

{"source_id": 2, "title": "Paro portuario", "url": "https://example.cl/n"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := ReadDocumentsFromFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentsFromFile: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2 (comment and blank line skipped)", len(docs))
	}
	if docs[0].SourceID != 1 || docs[0].Title != "Corte de ruta" {
		t.Errorf("doc[0] = %+v", docs[0])
	}
	if docs[1].URL != "https://example.cl/n" {
		t.Errorf("doc[1] = %+v", docs[1])
	}
}

func TestReadDocumentsFromFileBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.ndjson")
	content := `{"source_id": 1, "title": "ok"}
{not json}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadDocumentsFromFile(path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want a line-2 parse error", err)
	}
}

func TestReadDocumentsFromFileMissing(t *testing.T) {
	if _, err := ReadDocumentsFromFile(filepath.Join(t.TempDir(), "nope.ndjson")); err == nil {
		t.Fatal("missing file must error")
	}
}
