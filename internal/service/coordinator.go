package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/veranemoloko/route-uploader/internal/domain"
	errpkg "github.com/veranemoloko/route-uploader/internal/errors"
	"github.com/veranemoloko/route-uploader/internal/metrics"
	"github.com/veranemoloko/route-uploader/internal/storage"
)

// Transferer uploads the given file types for every segment of a route.
type Transferer interface {
	UploadCategories(ctx context.Context, routeName string, numSegments int, fileTypes []domain.FileType) error
}

// cancellationToken marks one target epoch. It is replaced, never reused.
type cancellationToken struct {
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
}

func newCancellationToken(generation uint64) *cancellationToken {
	ctx, cancel := context.WithCancel(context.Background())
	return &cancellationToken{generation: generation, ctx: ctx, cancel: cancel}
}

// UploadCoordinator tracks per-category upload state for the current route and
// issues uploads on behalf of the buttons.
type UploadCoordinator struct {
	mu       sync.Mutex
	states   *storage.StateStore
	transfer Transferer
	logger   *slog.Logger

	target  *domain.UploadTarget
	current *cancellationToken

	ctx      context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
	shutdown bool
}

// NewUploadCoordinator creates a coordinator with no target and every category idle.
func NewUploadCoordinator(states *storage.StateStore, transfer Transferer, logger *slog.Logger) *UploadCoordinator {
	ctx, stop := context.WithCancel(context.Background())
	return &UploadCoordinator{
		states:   states,
		transfer: transfer,
		logger:   logger,
		current:  newCancellationToken(1),
		ctx:      ctx,
		stop:     stop,
	}
}

// OnTargetChange cancels the current epoch, starts a new one and resets every category
// to idle. A nil target means nothing can be uploaded until the next change.
func (c *UploadCoordinator) OnTargetChange(target *domain.UploadTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current.cancel()
	c.current = newCancellationToken(c.current.generation + 1)

	if target != nil {
		t := *target
		c.target = &t
	} else {
		c.target = nil
	}

	c.states.Reset(domain.TaskStateIdle)
	metrics.TargetChanges.Inc()

	if c.target != nil {
		c.logger.Info("upload target changed",
			"route", c.target.Name,
			"max_segment", c.target.MaxSegment,
			"epoch", c.current.generation,
		)
	} else {
		c.logger.Info("upload target cleared", "epoch", c.current.generation)
	}
}

// Target returns a copy of the current target, or nil.
func (c *UploadCoordinator) Target() *domain.UploadTarget {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.target == nil {
		return nil
	}
	t := *c.target
	return &t
}

// Snapshot returns the current state of every category.
func (c *UploadCoordinator) Snapshot() map[domain.Category]domain.TaskState {
	return c.states.Snapshot()
}

// Trigger uploads the work set for category against target and blocks until the
// transfer resolves. Results are dropped if the target changed in the meantime.
func (c *UploadCoordinator) Trigger(ctx context.Context, category domain.Category, target *domain.UploadTarget) {
	c.mu.Lock()
	token := c.current
	c.mu.Unlock()

	c.trigger(ctx, token, category, target)
}

// trigger runs one upload under token. A token that is no longer current claims
// nothing and makes no transfer call.
func (c *UploadCoordinator) trigger(ctx context.Context, token *cancellationToken, category domain.Category, target *domain.UploadTarget) {
	if target == nil {
		c.logger.Debug("trigger ignored, no target", "category", category)
		return
	}

	c.mu.Lock()
	if !c.isCurrentLocked(token) {
		c.mu.Unlock()
		metrics.StaleWritesDiscarded.Inc()
		c.logger.Debug("trigger ignored, target changed",
			"category", category,
			"epoch", token.generation,
		)
		return
	}
	work := c.workSetLocked(category)
	if len(work) == 0 {
		c.mu.Unlock()
		c.logger.Debug("trigger ignored, already satisfied", "category", category)
		return
	}
	c.writeLocked(token, work, domain.TaskStateLoading)
	c.mu.Unlock()

	fileTypes := domain.ResolveFileTypes(work)
	metrics.TriggersTotal.WithLabelValues(category.String()).Inc()
	c.logger.Info("upload started",
		"route", target.Name,
		"category", category,
		"work_set", work,
		"file_types", fileTypes,
		"epoch", token.generation,
	)

	metrics.TransfersTotal.Inc()
	start := time.Now()
	err := c.transfer.UploadCategories(ctx, target.Name, target.SegmentCount(), fileTypes)
	metrics.TransferDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.TransfersFailed.Inc()
		c.logger.Error("failed to upload",
			"route", target.Name,
			"category", category,
			"error", err,
		)
		c.write(token, work, domain.TaskStateError)
		return
	}

	metrics.TransfersSuccess.Inc()
	c.logger.Info("upload completed", "route", target.Name, "category", category)
	c.write(token, work, domain.TaskStateSuccess)
}

// Dispatch runs an upload for category against the current target in the background.
// The target and its epoch are captured before Dispatch returns.
func (c *UploadCoordinator) Dispatch(category domain.Category) error {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return errpkg.ErrShuttingDown
	}
	target := c.target
	token := c.current
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		c.trigger(c.ctx, token, category, target)
	}()
	return nil
}

// Shutdown stops accepting dispatches and waits for in-flight uploads. In-flight
// transfers are aborted when ctx expires first.
func (c *UploadCoordinator) Shutdown(ctx context.Context) error {
	c.logger.Info("shutting down upload coordinator")

	c.mu.Lock()
	c.shutdown = true
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.stop()
		c.logger.Info("upload coordinator shutdown completed")
		return nil
	case <-ctx.Done():
		c.stop()
		c.logger.Warn("upload coordinator shutdown timed out")
		return ctx.Err()
	}
}

// workSetLocked returns the categories a trigger for category acts on. A category that
// is loading or successful is never part of a new work set.
func (c *UploadCoordinator) workSetLocked(category domain.Category) []domain.Category {
	if c.states.Get(category).Satisfied() {
		return nil
	}
	if !category.IsComposite() {
		return []domain.Category{category}
	}

	work := []domain.Category{category}
	for _, member := range domain.ConcreteCategories {
		if c.states.Get(member).Satisfied() {
			continue
		}
		work = append(work, member)
	}
	return work
}

func (c *UploadCoordinator) write(token *cancellationToken, categories []domain.Category, state domain.TaskState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLocked(token, categories, state)
}

func (c *UploadCoordinator) writeLocked(token *cancellationToken, categories []domain.Category, state domain.TaskState) {
	if !c.isCurrentLocked(token) {
		metrics.StaleWritesDiscarded.Inc()
		c.logger.Debug("stale state write discarded",
			"epoch", token.generation,
			"current_epoch", c.current.generation,
			"state", state,
		)
		return
	}
	c.states.Set(categories, state)
}

func (c *UploadCoordinator) isCurrentLocked(token *cancellationToken) bool {
	return token == c.current && token.ctx.Err() == nil
}
