package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/artvault/internal/client/config"
	"github.com/dmitrijs2005/artvault/internal/client/services"
	pb "github.com/dmitrijs2005/artvault/internal/proto"
)

type authClient interface {
	Register(ctx context.Context, name, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Me(ctx context.Context) (*pb.Identity, error)
	Logout()
	User() *pb.Identity
	Close() error
}

type artworkClient interface {
	Create(ctx context.Context, a *services.Artwork) (*services.Artwork, error)
	UploadImage(ctx context.Context, artworkID, path string) (string, error)
}

type App struct {
	config   *config.Config
	auth     authClient
	artworks artworkClient
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	as, err := services.NewAuthService(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	ws := services.NewArtworkService(c.APIBaseURL, &http.Client{Timeout: c.RequestTimeout}, as)

	return &App{
		config:   c,
		auth:     as,
		artworks: ws,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.auth.Close()

	printlnFn("ArtVault CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.auth.User() != nil
}

func (a *App) status() string {
	if u := a.auth.User(); u != nil {
		return u.Email
	}
	return "anonymous"
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) report(err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		printlnFn("Error: invalid credentials or session expired")
	case errors.Is(err, services.ErrNotLoggedIn):
		printlnFn("Error: log in first")
	default:
		printlnFn("Error:", err)
	}
	return err
}

func (a *App) Register(ctx context.Context) error {
	name, err := promptLine(a.reader, a.out, "Name")
	if err != nil {
		return a.report(err)
	}
	email, err := promptLine(a.reader, a.out, "Email")
	if err != nil {
		return a.report(err)
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer clear(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.auth.Register(ctx, name, email, password); err != nil {
		return a.report(err)
	}

	printlnFn("Registered and logged in as", a.auth.User().Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := promptLine(a.reader, a.out, "Email")
	if err != nil {
		return a.report(err)
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer clear(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.auth.Login(ctx, email, password); err != nil {
		return a.report(err)
	}

	printlnFn("Logged in as", a.auth.User().Email)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	me, err := a.auth.Me(ctx)
	if err != nil {
		return a.report(err)
	}

	printlnFn(fmt.Sprintf("%s <%s> (%s)", me.Name, me.Email, me.ID))
	return nil
}

func (a *App) Create(ctx context.Context) error {
	in := &services.Artwork{}

	var err error
	if in.Title, err = promptLine(a.reader, a.out, "Title"); err != nil {
		return a.report(err)
	}
	if in.Artist, err = promptLine(a.reader, a.out, "Artist"); err != nil {
		return a.report(err)
	}
	if in.Year, err = promptLine(a.reader, a.out, "Year"); err != nil {
		return a.report(err)
	}
	if in.Description, err = promptText(a.reader, a.out, "Description"); err != nil {
		return a.report(err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	out, err := a.artworks.Create(ctx, in)
	if err != nil {
		return a.report(err)
	}

	printlnFn("Created artwork", out.ID)
	return nil
}

func (a *App) Upload(ctx context.Context, artworkID, path string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	key, err := a.artworks.UploadImage(ctx, artworkID, path)
	if err != nil {
		return a.report(err)
	}

	printlnFn("Uploaded image", key)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout()
	printlnFn("Logged out")
	return nil
}
