package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/dbx"
	"github.com/dmitrijs2005/artvault/internal/logging"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"github.com/dmitrijs2005/artvault/internal/server/models"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/artworks"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/memory"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/users"
)

const testSecret = "test-secret-0123456789abcdef"

type fakeImages struct {
	mu      sync.Mutex
	putErr  error
	headErr error
	objects map[string]ImageObject
	signed  map[string]ImageObject
	deleted []string
}

func (f *fakeImages) PresignPut(_ context.Context, key, contentType string, size int64) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signed == nil {
		f.signed = map[string]ImageObject{}
	}
	f.signed[key] = ImageObject{ContentType: contentType, Size: size}
	return "http://s3.local/put/" + key, nil
}

func (f *fakeImages) PresignGet(_ context.Context, key string) (string, error) {
	return "http://s3.local/get/" + key, nil
}

// put simulates the client uploading to a presigned URL.
func (f *fakeImages) put(key string, obj ImageObject) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string]ImageObject{}
	}
	f.objects[key] = obj
}

func (f *fakeImages) Head(_ context.Context, key string) (*ImageObject, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &obj, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return errors.New("bucket unavailable")
}

type fixture struct {
	store    *memory.Manager
	tokens   *auth.TokenService
	users    *UserService
	artworks *ArtworkService
	images   *fakeImages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewManager()
	tokens := auth.NewTokenService(testSecret, time.Hour)
	images := &fakeImages{}
	return &fixture{
		store:    store,
		tokens:   tokens,
		users:    NewUserService(nil, store, tokens, logging.NopLogger{}),
		artworks: NewArtworkService(nil, store, images, logging.NopLogger{}),
		images:   images,
	}
}

// attachImage runs the full upload flow for a png of the given size.
func (f *fixture) attachImage(t *testing.T, userID, artworkID string) string {
	t.Helper()
	key, _, err := f.artworks.UploadImage(context.Background(), userID, artworkID, "image/png", 1024)
	if err != nil {
		t.Fatalf("upload image: %v", err)
	}
	f.images.put(key, ImageObject{ContentType: "image/png", Size: 1024})
	if _, err := f.artworks.ConfirmImage(context.Background(), userID, artworkID, key); err != nil {
		t.Fatalf("confirm image: %v", err)
	}
	return key
}

func (f *fixture) register(t *testing.T, name, email string) *models.Session {
	t.Helper()
	s, err := f.users.Register(context.Background(), name, email, "secret123")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return s
}

// brokenRepos fails every storage call.
type brokenRepos struct{}

var errStorage = errors.New("connection reset")

func (brokenRepos) RunMigrations(context.Context, *sql.DB) error { return nil }
func (brokenRepos) Users(dbx.DBTX) users.Repository               { return brokenUsers{} }
func (brokenRepos) Artworks(dbx.DBTX) artworks.Repository         { return brokenArtworks{} }

var _ repomanager.RepositoryManager = brokenRepos{}

type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, errStorage
}
func (brokenUsers) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, errStorage
}
func (brokenUsers) GetUserByID(context.Context, string) (*models.User, error) {
	return nil, errStorage
}

type brokenArtworks struct{ artworks.Repository }

func (brokenArtworks) Get(context.Context, string) (*models.Artwork, error) {
	return nil, errStorage
}
func (brokenArtworks) List(context.Context, int, int) ([]*models.Artwork, int64, error) {
	return nil, 0, errStorage
}
