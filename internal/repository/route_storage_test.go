package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranemoloko/route-uploader/internal/domain"
	errpkg "github.com/veranemoloko/route-uploader/internal/errors"
)

func TestRouteStorage_SaveAndGet(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.json")
	repo, err := NewRouteStorage(file)
	require.NoError(t, err)

	route := &domain.UploadTarget{Name: "a2a0ccea32023010|2023-07-27--13-01-19", MaxSegment: 5}
	require.NoError(t, repo.SaveRoute(context.Background(), route))

	got, err := repo.GetRoute(context.Background(), route.Name)
	require.NoError(t, err)
	assert.Equal(t, *route, *got)

	got.MaxSegment = 42
	again, err := repo.GetRoute(context.Background(), route.Name)
	require.NoError(t, err)
	assert.Equal(t, 5, again.MaxSegment)

	assert.FileExists(t, file)
}

func TestRouteStorage_Reload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.json")
	repo, err := NewRouteStorage(file)
	require.NoError(t, err)

	require.NoError(t, repo.SaveRoute(context.Background(), &domain.UploadTarget{Name: "b", MaxSegment: 1}))
	require.NoError(t, repo.SaveRoute(context.Background(), &domain.UploadTarget{Name: "a", MaxSegment: 2}))
	require.NoError(t, repo.SaveRoute(context.Background(), &domain.UploadTarget{Name: "a", MaxSegment: 3}))

	reloaded, err := NewRouteStorage(file)
	require.NoError(t, err)

	routes, err := reloaded.ListRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "a", routes[0].Name)
	assert.Equal(t, 3, routes[0].MaxSegment)
	assert.Equal(t, "b", routes[1].Name)
}

func TestRouteStorage_GetNotFound(t *testing.T) {
	repo, err := NewRouteStorage(filepath.Join(t.TempDir(), "routes.json"))
	require.NoError(t, err)

	_, err = repo.GetRoute(context.Background(), "missing")
	assert.ErrorIs(t, err, errpkg.ErrRouteNotFound)
}

func TestRouteStorage_CorruptFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o644))

	_, err := NewRouteStorage(file)
	assert.Error(t, err)
}

func TestRouteStorage_EmptyFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	repo, err := NewRouteStorage(file)
	require.NoError(t, err)

	routes, err := repo.ListRoutes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestRouteStorage_CancelledContext(t *testing.T) {
	repo, err := NewRouteStorage(filepath.Join(t.TempDir(), "routes.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.SaveRoute(ctx, &domain.UploadTarget{Name: "a"}), context.Canceled)
	_, err = repo.GetRoute(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRouteStorage_ConcurrentSavesAllPersisted(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.json")
	repo, err := NewRouteStorage(file)
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			route := &domain.UploadTarget{Name: fmt.Sprintf("route-%02d", i), MaxSegment: i}
			assert.NoError(t, repo.SaveRoute(context.Background(), route))
		}(i)
	}
	wg.Wait()

	reloaded, err := NewRouteStorage(file)
	require.NoError(t, err)

	routes, err := reloaded.ListRoutes(context.Background())
	require.NoError(t, err)
	assert.Len(t, routes, n)
}
