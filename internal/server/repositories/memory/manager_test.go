package memory

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_CreateAndLookupIgnoresCase(t *testing.T) {
	m := NewManager()
	repo := m.Users(nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{ID: "u-1", Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	got, err := repo.GetUserByEmail(ctx, "ANN@X.COM")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.Create(ctx, &models.User{ID: "u-2", Name: "Ann2", Email: "Ann@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = repo.GetUserByID(ctx, "u-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.GetUserByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUsers_ConcurrentSameEmailExactlyOneWins(t *testing.T) {
	repo := NewManager().Users(nil)

	var wg sync.WaitGroup
	var wins int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(context.Background(), &models.User{
				ID: string(rune('a' + i)), Name: "R", Email: "race@x.com", PasswordHash: "h",
			})
			if err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestUsers_ReturnedCopyIsDetached(t *testing.T) {
	repo := NewManager().Users(nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{ID: "u-1", Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)

	got, _ := repo.GetUserByID(ctx, "u-1")
	got.Name = "Mallory"

	again, _ := repo.GetUserByID(ctx, "u-1")
	assert.Equal(t, "Ann", again.Name)
}

func TestArtworks_Lifecycle(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	_, err := m.Users(nil).Create(ctx, &models.User{ID: "u-1", Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)

	repo := m.Artworks(nil)

	_, err = repo.Create(ctx, &models.Artwork{ID: "a-1", Title: "T", CreatedBy: "ghost"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Create(ctx, &models.Artwork{ID: "a-1", Title: "T", CreatedBy: "u-1"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "a-1")
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Ann", got.Owner.Name)

	require.NoError(t, repo.Update(ctx, &models.Artwork{ID: "a-1", Title: "T2", CreatedBy: "u-2"}))
	got, _ = repo.Get(ctx, "a-1")
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, "u-1", got.CreatedBy)

	require.NoError(t, repo.SetImageKey(ctx, "a-1", "k"))
	got, _ = repo.Get(ctx, "a-1")
	assert.Equal(t, "k", got.ImageKey)

	require.NoError(t, repo.Delete(ctx, "a-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "a-1"), common.ErrorNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.Artwork{ID: "a-1"}), common.ErrorNotFound)
	assert.ErrorIs(t, repo.SetImageKey(ctx, "a-1", "k"), common.ErrorNotFound)
}

func TestArtworks_ListNewestFirstWithPaging(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	_, err := m.Users(nil).Create(ctx, &models.User{ID: "u-1", Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)

	repo := m.Artworks(nil)
	for _, id := range []string{"a-1", "a-2", "a-3"} {
		_, err := repo.Create(ctx, &models.Artwork{ID: id, Title: id, CreatedBy: "u-1"})
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "a-3", items[0].ID)
	assert.Equal(t, "a-2", items[1].ID)

	items, _, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a-1", items[0].ID)

	items, _, err = repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestArtworks_ListOutOfRangeOffsets(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	_, err := m.Users(nil).Create(ctx, &models.User{ID: "u-1", Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)
	_, err = m.Artworks(nil).Create(ctx, &models.Artwork{ID: "a-1", Title: "Night", CreatedBy: "u-1"})
	require.NoError(t, err)

	items, total, err := m.Artworks(nil).List(ctx, -116, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "a-1", items[0].ID)

	items, _, err = m.Artworks(nil).List(ctx, math.MaxInt, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
}
