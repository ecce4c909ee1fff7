package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/veranemoloko/route-uploader/internal/domain"
	errpkg "github.com/veranemoloko/route-uploader/internal/errors"
)

// RouteStorage provides in-memory and file-based storage for known routes.
type RouteStorage struct {
	mu     sync.RWMutex
	routes map[string]*domain.UploadTarget
	file   string

	// persistMu serialises snapshot, write and rename so the newest snapshot lands last.
	persistMu sync.Mutex
}

// NewRouteStorage creates a new RouteStorage and loads routes from the file if it exists.
func NewRouteStorage(filePath string) (*RouteStorage, error) {
	repo := &RouteStorage{
		routes: make(map[string]*domain.UploadTarget),
		file:   filepath.Clean(filePath),
	}

	if err := repo.restoreRoutes(); err != nil {
		return nil, fmt.Errorf("failed to load routes from file: %w", err)
	}

	slog.Info("route repository initialized", "file_path", repo.file, "routes_count", len(repo.routes))
	return repo, nil
}

func (r *RouteStorage) restoreRoutes() error {
	data, err := os.ReadFile(r.file)
	if os.IsNotExist(err) {
		slog.Info("routes file does not exist, starting with empty catalog", "file_path", r.file)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read routes file: %w", err)
	}

	if len(data) == 0 {
		slog.Warn("routes file is empty", "file_path", r.file)
		return nil
	}

	var routes []*domain.UploadTarget
	if err := json.Unmarshal(data, &routes); err != nil {
		return fmt.Errorf("failed to unmarshal routes file: %w", err)
	}

	for _, route := range routes {
		r.routes[route.Name] = route
	}
	return nil
}

func (r *RouteStorage) persistRoutes() error {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	r.mu.RLock()
	routes := r.sortedLocked()
	r.mu.RUnlock()

	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal routes: %w", err)
	}

	tempFile := r.file + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, r.file); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	slog.Debug("routes saved to file", "routes_count", len(routes), "file_path", r.file)
	return nil
}

func (r *RouteStorage) sortedLocked() []*domain.UploadTarget {
	routes := make([]*domain.UploadTarget, 0, len(r.routes))
	for _, route := range r.routes {
		copied := *route
		routes = append(routes, &copied)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Name < routes[j].Name })
	return routes
}

// SaveRoute adds or replaces a route and persists the catalog.
func (r *RouteStorage) SaveRoute(ctx context.Context, route *domain.UploadTarget) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	copied := *route
	r.mu.Lock()
	r.routes[route.Name] = &copied
	r.mu.Unlock()

	if err := r.persistRoutes(); err != nil {
		return fmt.Errorf("failed to save routes after saving %s: %w", route.Name, err)
	}

	slog.Debug("route saved", "route", route.Name, "max_segment", route.MaxSegment)
	return nil
}

// GetRoute retrieves a route by name.
func (r *RouteStorage) GetRoute(ctx context.Context, name string) (*domain.UploadTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	route, exists := r.routes[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errpkg.ErrRouteNotFound
	}
	copied := *route
	return &copied, nil
}

// ListRoutes returns every known route ordered by name.
func (r *RouteStorage) ListRoutes(ctx context.Context) ([]*domain.UploadTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(), nil
}
