// Package memory keeps users and artworks in process memory. It backs the
// "memory://" DSN and the service tests; contents are lost on exit.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/dbx"
	"github.com/dmitrijs2005/artvault/internal/server/models"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/artworks"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/users"
)

// Manager vends repositories over one shared store. The DBTX handles passed
// to Users and Artworks are ignored.
type Manager struct {
	mu       sync.RWMutex
	users    map[string]models.User
	byEmail  map[string]string
	artworks map[string]models.Artwork
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		users:    make(map[string]models.User),
		byEmail:  make(map[string]string),
		artworks: make(map[string]models.Artwork),
		now:      time.Now,
	}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Users(dbx.DBTX) users.Repository { return (*userRepo)(m) }

func (m *Manager) Artworks(dbx.DBTX) artworks.Repository { return (*artworkRepo)(m) }

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type userRepo Manager

func (r *userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := r.byEmail[key]; taken {
		return nil, common.ErrorAlreadyExists
	}

	user.CreatedAt = r.now().UTC()
	r.users[user.ID] = *user
	r.byEmail[key] = user.ID
	return user, nil
}

func (r *userRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.users[id]
	return &u, nil
}

func (r *userRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

type artworkRepo Manager

func (r *artworkRepo) Create(_ context.Context, a *models.Artwork) (*models.Artwork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[a.CreatedBy]; !ok {
		return nil, common.ErrorNotFound
	}

	a.CreatedAt = r.now().UTC()
	stored := *a
	stored.Owner = nil
	r.artworks[a.ID] = stored
	return a, nil
}

func (r *artworkRepo) Get(_ context.Context, id string) (*models.Artwork, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.artworks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if u, ok := r.users[a.CreatedBy]; ok {
		a.Owner = u.Identity()
	}
	return &a, nil
}

func (r *artworkRepo) List(_ context.Context, offset, limit int) ([]*models.Artwork, int64, error) {
	r.mu.RLock()
	all := make([]models.Artwork, 0, len(r.artworks))
	for _, a := range r.artworks {
		all = append(all, a)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	if offset < 0 {
		offset = 0
	}
	items := make([]*models.Artwork, 0, max(0, min(limit, len(all))))
	for i := offset; i < len(all) && len(items) < limit; i++ {
		a := all[i]
		items = append(items, &a)
	}
	return items, total, nil
}

func (r *artworkRepo) Update(_ context.Context, a *models.Artwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.artworks[a.ID]
	if !ok {
		return common.ErrorNotFound
	}
	cur.Title, cur.Artist, cur.Year, cur.Description = a.Title, a.Artist, a.Year, a.Description
	r.artworks[a.ID] = cur
	return nil
}

func (r *artworkRepo) SetImageKey(_ context.Context, id, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.artworks[id]
	if !ok {
		return common.ErrorNotFound
	}
	cur.ImageKey = key
	r.artworks[id] = cur
	return nil
}

func (r *artworkRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.artworks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.artworks, id)
	return nil
}
