package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vigia-io/vigia/internal/pipeline"
)

// Ingestor processes one raw document end to end.
type Ingestor interface {
	Process(ctx context.Context, raw pipeline.RawDocument) (*pipeline.Result, error)
}

// IngestJob runs one document through the pipeline.
type IngestJob struct {
	Raw      pipeline.RawDocument
	Ingestor Ingestor
	Limiter  *Limiter // optional per-source throttle
}

// Execute implements Job.
func (j *IngestJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Raw.SourceID); err != nil {
			return &IngestResult{Raw: j.Raw, Error: err}
		}
	}
	res, err := j.Ingestor.Process(ctx, j.Raw)
	return &IngestResult{Raw: j.Raw, Result: res, Error: err}
}

// IngestResult pairs a raw document with its pipeline outcome.
type IngestResult struct {
	Raw    pipeline.RawDocument
	Result *pipeline.Result
	Error  error
}

// GetError implements Result.
func (r *IngestResult) GetError() error {
	return r.Error
}

// BatchIngester fans a batch of documents out over a worker pool. Failures
// are isolated per document; one bad input never aborts the batch.
type BatchIngester struct {
	ingestor    Ingestor
	limiter     *Limiter
	concurrency int
}

// NewBatchIngester creates a batch ingester. A nil limiter disables
// per-source throttling.
func NewBatchIngester(ingestor Ingestor, limiter *Limiter, concurrency int) *BatchIngester {
	return &BatchIngester{
		ingestor:    ingestor,
		limiter:     limiter,
		concurrency: concurrency,
	}
}

// ProcessBatch ingests the documents concurrently and returns one result per
// input, in completion order.
func (b *BatchIngester) ProcessBatch(ctx context.Context, docs []pipeline.RawDocument) []*IngestResult {
	if len(docs) == 0 {
		return []*IngestResult{}
	}

	pool := NewPoolWithQueue(b.concurrency, len(docs))
	pool.Start()

	go func() {
		<-ctx.Done()
		pool.Shutdown()
	}()

	for _, raw := range docs {
		pool.Submit(&IngestJob{Raw: raw, Ingestor: b.ingestor, Limiter: b.limiter})
	}

	results := pool.Wait()
	out := make([]*IngestResult, len(results))
	for i, r := range results {
		out[i] = r.(*IngestResult)
	}
	return out
}

// ProcessFile reads a JSON-lines file of raw documents and ingests them
// concurrently. Blank lines and #-comments are skipped.
func (b *BatchIngester) ProcessFile(ctx context.Context, path string) ([]*IngestResult, error) {
	docs, err := ReadDocumentsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	return b.ProcessBatch(ctx, docs), nil
}

// ReadDocumentsFromFile parses one RawDocument JSON object per line.
func ReadDocumentsFromFile(path string) ([]pipeline.RawDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var docs []pipeline.RawDocument
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var raw pipeline.RawDocument
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		docs = append(docs, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return docs, nil
}
