package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/netx"
)

// Artwork mirrors the server's JSON representation.
type Artwork struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Year        string `json:"year"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
}

type uploadTicket struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

// ArtworkService talks to the REST API on behalf of the logged-in user.
type ArtworkService struct {
	baseURL string
	http    *http.Client
	auth    *AuthService
}

func NewArtworkService(baseURL string, httpClient *http.Client, auth *AuthService) *ArtworkService {
	return &ArtworkService{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		auth:    auth,
	}
}

func (s *ArtworkService) do(ctx context.Context, method, path string, in, out any) error {
	token := s.auth.Token()
	if token == "" {
		return ErrNotLoggedIn
	}

	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return fmt.Errorf("%s: %s", resp.Status, e.Error)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *ArtworkService) Create(ctx context.Context, a *Artwork) (*Artwork, error) {
	in := map[string]string{
		"title":       a.Title,
		"artist":      a.Artist,
		"year":        a.Year,
		"description": a.Description,
	}
	out := &Artwork{}
	if err := s.do(ctx, http.MethodPost, "/api/artworks", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadImage announces the file's type and size, uploads it straight to
// object storage through the presigned URL and then asks the server to
// attach it. The server keeps the previous image until the last step.
func (s *ArtworkService) UploadImage(ctx context.Context, artworkID, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	contentType := http.DetectContentType(data)

	var ticket uploadTicket
	reserve := map[string]any{"content_type": contentType, "size": len(data)}
	if err := s.do(ctx, http.MethodPost, "/api/artworks/"+artworkID+"/image", reserve, &ticket); err != nil {
		return "", err
	}

	if err := netx.UploadToPresignedURL(ctx, ticket.UploadURL, contentType, data); err != nil {
		return "", err
	}

	confirm := map[string]string{"key": ticket.Key}
	if err := s.do(ctx, http.MethodPut, "/api/artworks/"+artworkID+"/image", confirm, nil); err != nil {
		return "", err
	}
	return ticket.Key, nil
}
