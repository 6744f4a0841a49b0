package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/dbx"
	"github.com/dmitrijs2005/artvault/internal/logging"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"github.com/dmitrijs2005/artvault/internal/server/metrics"
	"github.com/dmitrijs2005/artvault/internal/server/models"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	MinTitleLength   = 2

	MaxImageSize = 5 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ArtworkService manages gallery items. Reads are public; every mutation
// takes the authenticated user ID and is refused unless that user created
// the artwork.
type ArtworkService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	images      ImageStore
	logger      logging.Logger
}

func NewArtworkService(db dbx.DBTX, m repomanager.RepositoryManager, images ImageStore, l logging.Logger) *ArtworkService {
	return &ArtworkService{
		db:          db,
		repomanager: m,
		images:      images,
		logger:      l.With("module", "artwork_service"),
	}
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < MinTitleLength {
		return invalid("title must be at least %d characters", MinTitleLength)
	}
	return nil
}

// Create stores a new artwork owned by userID. Only the descriptive fields
// of in are used.
func (s *ArtworkService) Create(ctx context.Context, userID string, in *models.Artwork) (*models.Artwork, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}

	a := &models.Artwork{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Artist:      in.Artist,
		Year:        in.Year,
		Description: in.Description,
		CreatedBy:   userID,
	}

	a, err := s.repomanager.Artworks(s.db).Create(ctx, a)
	if err != nil {
		return nil, s.internal(ctx, "create artwork", err)
	}

	return a, nil
}

func validateImage(contentType string, size int64) error {
	if !allowedImageTypes[contentType] {
		return invalid("image must be jpeg, png or gif")
	}
	if size < 1 || size > MaxImageSize {
		return invalid("image must be between 1 byte and %d bytes", MaxImageSize)
	}
	return nil
}

// List returns one page, newest first. page and limit are clamped to sane
// values; a page whose offset would not fit in an int is rejected.
func (s *ArtworkService) List(ctx context.Context, page, limit int) (*models.ArtworkPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if page-1 > math.MaxInt/limit {
		return nil, invalid("page is too large")
	}

	items, total, err := s.repomanager.Artworks(s.db).List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, s.internal(ctx, "list artworks", err)
	}

	return &models.ArtworkPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *ArtworkService) Get(ctx context.Context, id string) (*models.Artwork, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	a, err := s.repomanager.Artworks(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "get artwork", err)
	}

	return a, nil
}

// getOwned loads the artwork and applies the ownership check.
func (s *ArtworkService) getOwned(ctx context.Context, userID, id string) (*models.Artwork, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(userID, a.CreatedBy); err != nil {
		metrics.AuthorizationDeniedTotal.Inc()
		s.logger.Warn(ctx, "mutation denied", "user_id", userID, "artwork_id", id, "owner_id", a.CreatedBy)
		return nil, err
	}

	return a, nil
}

// Update applies patch to an artwork owned by userID.
func (s *ArtworkService) Update(ctx context.Context, userID, id string, patch models.ArtworkPatch) (*models.Artwork, error) {
	a, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	patch.Apply(a)

	if err := s.repomanager.Artworks(s.db).Update(ctx, a); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "update artwork", err)
	}

	return a, nil
}

// Delete removes an artwork owned by userID together with its image object.
func (s *ArtworkService) Delete(ctx context.Context, userID, id string) error {
	a, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repomanager.Artworks(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.internal(ctx, "delete artwork", err)
	}

	s.dropImage(ctx, a.ImageKey)
	return nil
}

// UploadImage validates the announced image and returns a fresh key with a
// presigned PUT URL bound to contentType and size. The artwork keeps its
// current image until ConfirmImage is called for the new key.
func (s *ArtworkService) UploadImage(ctx context.Context, userID, id, contentType string, size int64) (string, string, error) {
	a, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return "", "", err
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if err := validateImage(contentType, size); err != nil {
		return "", "", err
	}

	key := NewImageKey(a.ID)

	url, err := s.images.PresignPut(ctx, key, contentType, size)
	if err != nil {
		return "", "", s.internal(ctx, "presign image upload", err)
	}

	return key, url, nil
}

// ConfirmImage makes key the artwork's image once the object exists in the
// bucket and passes the upload limits. The previous image is removed only
// after the new key is stored.
func (s *ArtworkService) ConfirmImage(ctx context.Context, userID, id, key string) (*models.Artwork, error) {
	a, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(key, imageKeyPrefix(a.ID)) {
		return nil, invalid("image key does not belong to this artwork")
	}
	if key == a.ImageKey {
		return a, nil
	}

	obj, err := s.images.Head(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, invalid("image has not been uploaded")
		}
		return nil, s.internal(ctx, "inspect uploaded image", err)
	}
	if err := validateImage(strings.ToLower(obj.ContentType), obj.Size); err != nil {
		s.dropImage(ctx, key)
		return nil, err
	}

	if err := s.repomanager.Artworks(s.db).SetImageKey(ctx, a.ID, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "store image key", err)
	}

	previous := a.ImageKey
	a.ImageKey = key
	s.dropImage(ctx, previous)
	return a, nil
}

// ImageURL returns a presigned GET URL for the artwork's image.
func (s *ArtworkService) ImageURL(ctx context.Context, id string) (string, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if a.ImageKey == "" {
		return "", common.ErrorNotFound
	}

	url, err := s.images.PresignGet(ctx, a.ImageKey)
	if err != nil {
		return "", s.internal(ctx, "presign image download", err)
	}
	return url, nil
}

func (s *ArtworkService) dropImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "remove image object", "key", key, "error", err)
	}
}

func (s *ArtworkService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, op, "error", err)
	return common.ErrorInternal
}
