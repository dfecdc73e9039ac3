package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/docmark/docmark/pkg/converter"
	"github.com/docmark/docmark/pkg/images"
	"github.com/docmark/docmark/pkg/markdown"
	"github.com/docmark/docmark/pkg/pdf"
	"github.com/docmark/docmark/pkg/quality"
	"github.com/docmark/docmark/pkg/status"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var errTimeout = errors.New("conversion timed out")

// Validator runs the pre-flight checks before expensive conversion is
// attempted. Satisfied by pdf.Validator.
type Validator interface {
	Validate(path string) error
}

type Config struct {
	Converter converter.Provider
	Validator Validator
	Images    *images.Pipeline
	Hub       *status.Hub

	// Timeout bounds a single external converter call
	Timeout time.Duration

	// MaxConcurrent bounds in-flight converter calls across jobs
	MaxConcurrent int64

	// Limit throttles job submissions, nil for unlimited
	Limit *rate.Limiter
}

// Service sequences validator, external converter, image pipeline, normalizer
// and scorer, and drives status notifications through the hub.
type Service struct {
	converter converter.Provider
	validator Validator
	images    *images.Pipeline
	hub       *status.Hub

	timeout time.Duration
	sem     *semaphore.Weighted
	limit   *rate.Limiter

	mu   sync.Mutex
	jobs map[string]*Job
}

func New(cfg Config) *Service {
	if cfg.Validator == nil {
		cfg.Validator = pdf.NewValidator()
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}

	return &Service{
		converter: cfg.Converter,
		validator: cfg.Validator,
		images:    cfg.Images,
		hub:       cfg.Hub,

		timeout: cfg.Timeout,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrent),
		limit:   cfg.Limit,
	}
}

// Job returns a point-in-time copy of the job record for a document, if one
// was ever accepted.
func (s *Service) Job(documentID string) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[documentID]

	if !ok {
		return nil, false
	}

	snapshot := *job

	return &snapshot, true
}

// Convert runs one document to a terminal state. It emits the initial
// processing event before any blocking work and exactly one terminal event.
func (s *Service) Convert(ctx context.Context, documentID, sourcePath string, options map[string]string) *Job {
	job, err := s.accept(documentID, sourcePath, options)

	if err != nil {
		failed := newJob(documentID, sourcePath, options)
		failed.Status = StatusFailed
		failed.Errors = append(failed.Errors, err.Error())

		return failed
	}

	start := time.Now()

	s.mu.Lock()
	job.Status = StatusProcessing
	s.mu.Unlock()

	s.publish(job, 0, "Starting PDF conversion...", nil)

	if s.limit != nil {
		if err := s.limit.Wait(ctx); err != nil {
			return s.fail(job, err.Error())
		}
	}

	if err := s.validator.Validate(sourcePath); err != nil {
		return s.fail(job, err.Error())
	}

	s.publish(job, 25, "Converting document", nil)

	doc, err := s.convert(ctx, sourcePath)

	if err != nil {
		return s.fail(job, err.Error())
	}

	content := doc.Markdown

	if s.images != nil && len(doc.Pictures) > 0 {
		s.publish(job, 60, "Extracting images", nil)

		content = s.extractImages(job, doc, content)
	}

	s.publish(job, 85, "Formatting markdown", nil)

	content = markdown.Normalize(content)

	if job.Options["toc"] == "true" {
		content = markdown.TableOfContents(content)
	}

	elapsed := time.Since(start).Seconds()

	sourceSize := int64(0)

	if info, err := os.Stat(sourcePath); err == nil {
		sourceSize = info.Size()
	}

	report := quality.NewReport(content, sourceSize, elapsed)

	pageCount := doc.PageCount

	if pageCount == 0 {
		if n, err := pdf.PageCount(sourcePath); err == nil {
			pageCount = n
		}
	}

	s.mu.Lock()
	job.Markdown = content
	job.Quality = &report
	job.Metadata = Metadata{
		PageCount:       pageCount,
		ProcessingTime:  elapsed,
		Accuracy:        report.OverallScore,
		ExtractedTables: quality.CountTables(content),
		CharacterCount:  report.CharacterCount,
	}
	job.Status = StatusCompleted
	imageCount := len(job.Images)
	s.mu.Unlock()

	s.publish(job, 100, "Conversion completed successfully", metadataMap(job.Metadata))

	slog.Info("conversion completed", "document", documentID, "seconds", elapsed, "pages", pageCount, "images", imageCount)

	return job
}

func (s *Service) accept(documentID, sourcePath string, options map[string]string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[documentID]; ok && !existing.terminal() {
		return nil, errors.New("conversion already in progress for document " + documentID)
	}

	if s.jobs == nil {
		s.jobs = map[string]*Job{}
	}

	job := newJob(documentID, sourcePath, options)
	s.jobs[documentID] = job

	return job, nil
}

// convert off-loads the blocking external converter call and bounds it with
// the configured deadline. A converter panic is converted into an error.
func (s *Service) convert(ctx context.Context, sourcePath string) (*converter.Document, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		doc *converter.Document
		err error
	}

	done := make(chan result, 1)

	go func() {
		// the slot stays taken until the external call actually returns,
		// even when the caller already gave up on the deadline
		defer s.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				done <- result{nil, fmt.Errorf("converter error: %v", r)}
			}
		}()

		doc, err := s.converter.Convert(ctx, sourcePath)
		done <- result{doc, err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", errTimeout, s.timeout)
		}

		return nil, ctx.Err()

	case r := <-done:
		if r.err == nil && r.doc == nil {
			return nil, errors.New("converter produced no output")
		}

		return r.doc, r.err
	}
}

// extractImages persists each picture and splices its reference into the
// markdown. Per-image failures are logged and the image omitted; they never
// fail the job. Anchors refer to the markdown as the converter produced it, so
// each anchored splice shifts the later ones by the three lines it added.
func (s *Service) extractImages(job *Job, doc *converter.Document, content string) string {
	var anchors []int

	for i, picture := range doc.Pictures {
		ref, err := s.images.Save(job.DocumentID, i+1, picture.Data, picture.Format)

		if err != nil {
			slog.Error("image write failed", "document", job.DocumentID, "index", i+1, "error", err)
			continue
		}

		if err := s.images.Optimize(path.Base(ref), images.DefaultMaxWidth, images.DefaultMaxHeight, images.DefaultQuality); err != nil {
			slog.Error("image optimization failed", "document", job.DocumentID, "image", ref, "error", err)
		}

		if job.Options["thumbnails"] == "true" {
			if _, err := s.images.Thumbnail(path.Base(ref), 200, 200); err != nil {
				slog.Error("thumbnail failed", "document", job.DocumentID, "image", ref, "error", err)
			}
		}

		s.mu.Lock()
		job.Images = append(job.Images, ref)
		number := len(job.Images)
		s.mu.Unlock()

		anchor := picture.Anchor

		if anchor >= 0 {
			for _, prior := range anchors {
				if prior <= picture.Anchor {
					anchor += 3
				}
			}

			anchors = append(anchors, picture.Anchor)
		}

		content = insertImageRef(content, fmt.Sprintf("![Image %d](%s)", number, ref), anchor)
	}

	return content
}

// insertImageRef places an image reference at its anchor line when the
// converter reports one, appending to the document otherwise.
func insertImageRef(content, ref string, anchor int) string {
	lines := strings.Split(content, "\n")

	if anchor < 0 || anchor > len(lines) {
		anchor = len(lines)
	}

	inserted := make([]string, 0, len(lines)+3)
	inserted = append(inserted, lines[:anchor]...)
	inserted = append(inserted, "", ref, "")
	inserted = append(inserted, lines[anchor:]...)

	return strings.Join(inserted, "\n")
}

func (s *Service) fail(job *Job, message string) *Job {
	s.mu.Lock()
	job.Status = StatusFailed
	job.Errors = append(job.Errors, message)
	s.mu.Unlock()

	s.publish(job, 0, "Conversion failed: "+message, nil)

	slog.Error("conversion failed", "document", job.DocumentID, "error", message)

	return job
}

func (s *Service) publish(job *Job, progress int, message string, metadata map[string]any) {
	s.mu.Lock()
	job.Progress = progress
	state := job.Status
	s.mu.Unlock()

	if s.hub == nil {
		return
	}

	s.hub.Publish(job.DocumentID, status.NewEvent(job.DocumentID, string(state), progress, message, metadata))
}

func metadataMap(m Metadata) map[string]any {
	return map[string]any{
		"pageCount":       m.PageCount,
		"processingTime":  m.ProcessingTime,
		"accuracy":        m.Accuracy,
		"extractedTables": m.ExtractedTables,
		"characterCount":  m.CharacterCount,
	}
}
