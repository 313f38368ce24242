package store

import (
	"context"
	"testing"
	"time"

	"tour-backoffice/internal/common/config"
	"tour-backoffice/internal/common/database"
	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepository counts Get calls reaching the backing store.
type countingRepository struct {
	*MemoryRepository
	gets int
}

func (c *countingRepository) Get(ctx context.Context, resource models.Resource, id string) (*Record, error) {
	c.gets++
	return c.MemoryRepository.Get(ctx, resource, id)
}

func newCachedRepo(t *testing.T) (*CachedRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := database.NewRedis(config.RedisConfig{Address: mr.Addr(), KeyPrefix: "backoffice:"})
	t.Cleanup(func() { client.Close() })

	inner := &countingRepository{MemoryRepository: NewMemoryRepository()}
	return NewCachedRepository(inner, client, time.Minute, logger.NewTestLogger(t)), inner, mr
}

func TestCachedRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedRepo(t)

	rec, err := repo.Create(ctx, models.ResourceSuppliers, map[string]interface{}{"name": "Etosha Lodge"})
	require.NoError(t, err)

	first, err := repo.Get(ctx, models.ResourceSuppliers, rec.ID)
	require.NoError(t, err)
	second, err := repo.Get(ctx, models.ResourceSuppliers, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, models.ResourceSuppliers, second.Resource)
	assert.True(t, mr.Exists("backoffice:record:suppliers:"+rec.ID))
	assert.Equal(t, time.Minute, mr.TTL(repo.key(models.ResourceSuppliers, rec.ID)))
}

func TestCachedRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedRepo(t)

	rec, err := repo.Create(ctx, models.ResourceSuppliers, map[string]interface{}{"name": "Etosha Lodge"})
	require.NoError(t, err)
	_, err = repo.Get(ctx, models.ResourceSuppliers, rec.ID)
	require.NoError(t, err)

	_, err = repo.Patch(ctx, models.ResourceSuppliers, rec.ID, map[string]interface{}{"name": "Etosha Safari Lodge"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(repo.key(models.ResourceSuppliers, rec.ID)))

	got, err := repo.Get(ctx, models.ResourceSuppliers, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Etosha Safari Lodge", got.Data["name"])
	assert.Equal(t, 2, inner.gets)

	require.NoError(t, repo.Delete(ctx, models.ResourceSuppliers, rec.ID))
	assert.False(t, mr.Exists(repo.key(models.ResourceSuppliers, rec.ID)))
	_, err = repo.Get(ctx, models.ResourceSuppliers, rec.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestCachedRepository_RedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	client, redisMock := redismock.NewClientMock()
	inner := NewMemoryRepository()
	repo := NewCachedRepository(inner, database.NewRedisFromClient(client, ""), time.Minute, logger.NewTestLogger(t))

	rec, err := inner.Create(ctx, models.ResourceTours, map[string]interface{}{"name": "Namibia Highlights"})
	require.NoError(t, err)

	redisMock.ExpectGet(repo.key(models.ResourceTours, rec.ID)).SetErr(assert.AnError)
	redisMock.Regexp().ExpectSet(repo.key(models.ResourceTours, rec.ID), `.*`, time.Minute).SetErr(assert.AnError)

	got, err := repo.Get(ctx, models.ResourceTours, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Namibia Highlights", got.Data["name"])
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
