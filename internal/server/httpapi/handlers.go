package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"github.com/dmitrijs2005/artvault/internal/server/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// artworkRequest carries only the fields a caller may set.
type artworkRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

type uploadRequest struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type confirmImageRequest struct {
	Key string `json:"key"`
}

type uploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, identity)
}

func (s *HTTPServer) listArtworks(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.artworks.List(r.Context(), page, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) getArtwork(w http.ResponseWriter, r *http.Request) {
	a, err := s.artworks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (s *HTTPServer) createArtwork(w http.ResponseWriter, r *http.Request) {
	var req artworkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())

	a, err := s.artworks.Create(r.Context(), identity.ID, &models.Artwork{
		Title:       req.Title,
		Artist:      req.Artist,
		Year:        req.Year,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

func (s *HTTPServer) updateArtwork(w http.ResponseWriter, r *http.Request) {
	var patch models.ArtworkPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())

	a, err := s.artworks.Update(r.Context(), identity.ID, r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (s *HTTPServer) deleteArtwork(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := s.artworks.Delete(r.Context(), identity.ID, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) uploadArtworkImage(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())

	key, url, err := s.artworks.UploadImage(r.Context(), identity.ID, r.PathValue("id"), req.ContentType, req.Size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{Key: key, UploadURL: url})
}

func (s *HTTPServer) confirmArtworkImage(w http.ResponseWriter, r *http.Request) {
	var req confirmImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())

	a, err := s.artworks.ConfirmImage(r.Context(), identity.ID, r.PathValue("id"), req.Key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (s *HTTPServer) artworkImage(w http.ResponseWriter, r *http.Request) {
	url, err := s.artworks.ImageURL(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrorInvalidInput, name)
	}
	return n, nil
}
