package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/veranemoloko/route-uploader/internal/config"
	"github.com/veranemoloko/route-uploader/internal/domain"
	errpkg "github.com/veranemoloko/route-uploader/internal/errors"
	"github.com/veranemoloko/route-uploader/internal/metrics"
)

// segmentUploadRequest asks the backend to upload files of one segment.
type segmentUploadRequest struct {
	Segment int      `json:"segment"`
	Files   []string `json:"files"`
}

// TransferWorker requests segment uploads for a route from the upload backend.
type TransferWorker struct {
	baseURL     string
	token       string
	concurrency int
	limiter     *rate.Limiter
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewTransferWorker creates a TransferWorker from configuration.
func NewTransferWorker(cfg *config.Config, logger *slog.Logger) *TransferWorker {
	return &TransferWorker{
		baseURL:     strings.TrimRight(cfg.TransferBaseURL, "/"),
		token:       cfg.TransferToken,
		concurrency: cfg.TransferConcurrency,
		limiter:     rate.NewLimiter(rate.Limit(cfg.TransferRatePerSec), cfg.TransferConcurrency),
		httpClient: &http.Client{
			Timeout: cfg.TransferTimeout,
		},
		logger: logger,
	}
}

// UploadCategories requests an upload of fileTypes for segments [0, numSegments) of
// routeName. The first failing segment fails the whole call and cancels the rest.
func (w *TransferWorker) UploadCategories(ctx context.Context, routeName string, numSegments int, fileTypes []domain.FileType) error {
	if len(fileTypes) == 0 || numSegments <= 0 {
		return nil
	}

	files := make([]string, 0, len(fileTypes))
	for _, f := range fileTypes {
		name := f.FileName()
		if name == "" {
			return fmt.Errorf("%w: unknown file type %q", errpkg.ErrTransferFailed, f)
		}
		files = append(files, name)
	}

	batchID := uuid.New().String()
	w.logger.Debug("transfer started",
		"batch_id", batchID,
		"route", routeName,
		"segments", numSegments,
		"files", files,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for segment := 0; segment < numSegments; segment++ {
		g.Go(func() error {
			return w.uploadSegment(ctx, batchID, routeName, segment, files)
		})
	}

	if err := g.Wait(); err != nil {
		w.logger.Error("transfer failed",
			"batch_id", batchID,
			"route", routeName,
			"error", err,
		)
		return fmt.Errorf("%w: %w", errpkg.ErrTransferFailed, err)
	}

	w.logger.Debug("transfer completed", "batch_id", batchID, "route", routeName)
	return nil
}

func (w *TransferWorker) uploadSegment(ctx context.Context, batchID, routeName string, segment int, files []string) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("segment %d: %w", segment, err)
	}

	body, err := json.Marshal(segmentUploadRequest{Segment: segment, Files: files})
	if err != nil {
		return fmt.Errorf("segment %d: marshal request: %w", segment, err)
	}

	endpoint := fmt.Sprintf("%s/v1/route/%s/upload", w.baseURL, url.PathEscape(routeName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("segment %d: create request: %w", segment, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", batchID)
	if w.token != "" {
		req.Header.Set("Authorization", "JWT "+w.token)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		metrics.SegmentRequests.WithLabelValues("error").Inc()
		return fmt.Errorf("segment %d: %w", segment, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SegmentRequests.WithLabelValues("error").Inc()
		w.logger.Warn("segment upload rejected",
			"batch_id", batchID,
			"route", routeName,
			"segment", segment,
			"status", resp.Status,
		)
		return fmt.Errorf("segment %d: bad status: %s", segment, resp.Status)
	}

	metrics.SegmentRequests.WithLabelValues("ok").Inc()
	return nil
}
