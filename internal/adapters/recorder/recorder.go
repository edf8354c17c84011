// Package recorder archives completed decision cycles as CSV and
// uploads them to a storage endpoint. Archiving is observability
// plumbing: failures are reported to the caller for logging but must
// never influence decision correctness.
package recorder

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/strain/internal/domain/model"
	"github.com/okian/strain/pkg/metrics"
)

// defaultUploadTimeout bounds one archive upload.
const defaultUploadTimeout = 10 * time.Second

// archiveNameLayout produces names like 26_08_24_15_04.csv, matching
// the naming scheme of the existing archive bucket.
const archiveNameLayout = "06_01_02_15_04"

// Record is one archived decision cycle.
type Record struct {
	SessionID   string
	TriggeredAt time.Time
	RPE         float64
	Features    model.FeatureVector
	Score       float64
	Mode        model.Mode
	Degraded    string
}

// Recorder accumulates records and flushes them as a timestamped CSV.
type Recorder struct {
	mu     sync.Mutex
	rows   [][]string
	client *resty.Client
	url    string
}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithUploadTimeout bounds a single archive upload.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(r *Recorder) {
		if timeout > 0 {
			r.client.SetTimeout(timeout)
		}
	}
}

// WithRestyClient replaces the underlying HTTP client, e.g. for tests.
func WithRestyClient(client *resty.Client) Option {
	return func(r *Recorder) {
		if client != nil {
			r.client = client
		}
	}
}

// New creates a recorder uploading to the storage endpoint at url.
func New(url string, opts ...Option) *Recorder {
	r := &Recorder{
		client: resty.New().SetTimeout(defaultUploadTimeout),
		url:    url,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// header row for the archive CSV; feature columns use the canonical
// vector order.
func header() []string {
	cols := []string{"session_id", "triggered_at", "rpe"}
	cols = append(cols, model.FeatureNames()...)
	return append(cols, "score", "mode", "degraded")
}

// Append buffers one record for the next flush.
func (r *Recorder) Append(rec Record) {
	row := []string{
		rec.SessionID,
		rec.TriggeredAt.UTC().Format(time.RFC3339),
		formatCell(rec.RPE),
	}
	for _, v := range rec.Features {
		row = append(row, formatCell(v))
	}
	row = append(row, formatCell(rec.Score), rec.Mode.String(), rec.Degraded)

	r.mu.Lock()
	r.rows = append(r.rows, row)
	r.mu.Unlock()
}

// Len returns the number of buffered records.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Flush serializes the buffered records and uploads them as a
// timestamped CSV. Rows are kept on upload failure so the next flush
// retries them; they are dropped only after a successful upload.
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	rows := make([][]string, len(r.rows))
	copy(rows, r.rows)
	r.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header()); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	name := time.Now().UTC().Format(archiveNameLayout) + ".csv"
	resp, err := r.client.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(buf.Bytes())).
		Post(r.url)
	if err != nil {
		metrics.RecordArchiveError()
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if resp.IsError() {
		metrics.RecordArchiveError()
		return fmt.Errorf("%w: storage returned %s", ErrUpload, resp.Status())
	}

	r.mu.Lock()
	r.rows = r.rows[len(rows):]
	r.mu.Unlock()

	metrics.RecordArchiveUpload()
	return nil
}

// formatCell renders a numeric cell; undefined values become empty
// cells rather than the string "NaN".
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
