package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mazurko/prospekt/internal/pdfspan"
	"github.com/mazurko/prospekt/internal/profile"
	"github.com/mazurko/prospekt/internal/sharepoint"
	"github.com/mazurko/prospekt/internal/storage"
)

// JobType is the queue job type the worker claims.
const JobType = "profile_convert"

// errNotPDF marks a source document the converter can never process,
// no matter how often it retries.
var errNotPDF = errors.New("source document is not a pdf")

// ConversionStore abstracts the job queue and conversion bookkeeping.
type ConversionStore interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
	FailJobPermanent(id string, errMsg string) error
	GetConversion(id string) (storage.Conversion, error)
	MarkConversionProcessing(id string) error
	RequeueConversion(id, errMsg string) error
	CompleteConversion(id, profileID string) error
	DropConversion(id, reason string) error
	FailConversion(id, errMsg string) error
	SaveProfile(p storage.Profile) error
}

// DocumentFetcher retrieves the source document behind a drive URL.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*sharepoint.File, error)
}

// SpanExtractor lifts the tagged span stream out of a spooled document.
type SpanExtractor interface {
	Extract(path string) ([]profile.Span, error)
}

// ExtractorFunc adapts a plain extraction function to SpanExtractor.
type ExtractorFunc func(path string) ([]profile.Span, error)

func (f ExtractorFunc) Extract(path string) ([]profile.Span, error) { return f(path) }

// ArtifactStore persists serialized documents outside the database.
type ArtifactStore interface {
	Put(data []byte) (string, error)
}

// Worker processes profile_convert jobs from the SQLite job queue.
type Worker struct {
	store     ConversionStore
	fetcher   DocumentFetcher
	extractor SpanExtractor
	artifacts ArtifactStore
	parser    *profile.Parser
	poll      time.Duration
	logger    *slog.Logger
}

// NewWorker creates a Worker with the given dependencies.
// If pollInterval is <= 0, it defaults to 500ms.
func NewWorker(store ConversionStore, fetcher DocumentFetcher, extractor SpanExtractor, artifacts ArtifactStore, parser *profile.Parser, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		store:     store,
		fetcher:   fetcher,
		extractor: extractor,
		artifacts: artifacts,
		parser:    parser,
		poll:      pollInterval,
		logger:    slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunPool runs n polling loops until ctx is cancelled. The SQLite
// claim transaction keeps concurrent loops from picking the same job.
func (w *Worker) RunPool(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			w.Run(ctx)
			return nil
		})
	}
	g.Wait()
}

// RunOnce claims and processes a single profile_convert job.
// Returns true if a job was processed (regardless of outcome).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{JobType})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}
	if err := w.handleJob(ctx, job); err != nil {
		return true, err
	}
	return true, nil
}

type convertPayload struct {
	ConversionID string `json:"conversion_id"`
}

// handleJob routes one claimed job to its terminal queue state. Empty
// documents are dropped and count as successful jobs, non-PDF sources
// fail without retry, everything else goes through the backoff
// schedule.
func (w *Worker) handleJob(ctx context.Context, job *storage.Job) error {
	var payload convertPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		w.logger.Error("unreadable job payload", "job_id", job.ID, "error", err)
		return w.store.FailJobPermanent(job.ID, fmt.Sprintf("parsing payload: %v", err))
	}
	convID := payload.ConversionID

	err := w.convert(ctx, convID)
	switch {
	case err == nil:
		if err := w.store.CompleteJob(job.ID); err != nil {
			return fmt.Errorf("completing job %s: %w", job.ID, err)
		}

	case errors.Is(err, pdfspan.ErrNoSpans):
		// Nothing to parse is a terminal but non-error outcome.
		w.logger.Info("conversion dropped", "conversion_id", convID, "reason", pdfspan.ErrNoSpans.Error())
		if err := w.store.DropConversion(convID, pdfspan.ErrNoSpans.Error()); err != nil {
			w.logger.Error("failed to mark conversion dropped", "conversion_id", convID, "error", err)
		}
		if err := w.store.CompleteJob(job.ID); err != nil {
			return fmt.Errorf("completing job %s: %w", job.ID, err)
		}

	case errors.Is(err, errNotPDF):
		w.logger.Warn("conversion rejected", "conversion_id", convID, "error", err)
		if markErr := w.store.FailConversion(convID, err.Error()); markErr != nil {
			w.logger.Error("failed to mark conversion failed", "conversion_id", convID, "error", markErr)
		}
		if failErr := w.store.FailJobPermanent(job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job failed", "job_id", job.ID, "error", failErr)
		}

	default:
		w.logger.Warn("conversion attempt failed", "conversion_id", convID, "job_id", job.ID,
			"attempt", job.Attempts+1, "error", err)
		if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job failed", "job_id", job.ID, "error", failErr)
		}
		// The claimed job still carries the pre-failure attempt count.
		if job.Attempts+1 >= job.MaxAttempts {
			if markErr := w.store.FailConversion(convID, err.Error()); markErr != nil {
				w.logger.Error("failed to mark conversion failed", "conversion_id", convID, "error", markErr)
			}
		} else {
			if markErr := w.store.RequeueConversion(convID, err.Error()); markErr != nil {
				w.logger.Error("failed to requeue conversion", "conversion_id", convID, "error", markErr)
			}
		}
	}
	return nil
}

// convert runs one conversion end to end: fetch, extract, parse, then
// persist the document and its artifact.
func (w *Worker) convert(ctx context.Context, convID string) error {
	conv, err := w.store.GetConversion(convID)
	if err != nil {
		return fmt.Errorf("loading conversion %s: %w", convID, err)
	}
	if err := w.store.MarkConversionProcessing(convID); err != nil {
		return fmt.Errorf("marking conversion %s processing: %w", convID, err)
	}

	file, err := w.fetcher.Fetch(ctx, conv.SourceURL)
	if err != nil {
		return fmt.Errorf("fetching source document: %w", err)
	}
	defer func() {
		if err := file.Remove(); err != nil {
			w.logger.Warn("removing spooled document", "path", file.Path, "error", err)
		}
	}()

	if !file.IsPDF() {
		return fmt.Errorf("%w: %s (%s)", errNotPDF, file.Name, file.ContentType)
	}

	spans, err := w.extractor.Extract(file.Path)
	if err != nil {
		return fmt.Errorf("extracting spans: %w", err)
	}

	doc := w.parser.Parse(spans, conv.SourceRef)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	blobPath, err := w.artifacts.Put(data)
	if err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	prof := storage.Profile{
		ID:           uuid.New().String(),
		ConversionID: convID,
		SourceRef:    conv.SourceRef,
		DocumentJSON: string(data),
		BlobPath:     blobPath,
		CreatedAt:    time.Now().UTC(),
	}
	if err := w.store.SaveProfile(prof); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	if err := w.store.CompleteConversion(convID, prof.ID); err != nil {
		return fmt.Errorf("completing conversion %s: %w", convID, err)
	}

	w.logger.Info("conversion completed", "conversion_id", convID,
		"profile_id", prof.ID, "sections", len(doc.Sections))
	return nil
}
