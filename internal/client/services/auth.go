// Package services contains application services for the ArtVault client.
// This file defines the authentication service, a thin wrapper over the
// gRPC AuthService that remembers the session token.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/artvault/internal/common"
	pb "github.com/dmitrijs2005/artvault/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("email already registered")
	ErrNotLoggedIn   = errors.New("not logged in")
)

// AuthService keeps the current session of the CLI user.
type AuthService struct {
	conn   *grpc.ClientConn
	client *pb.AuthServiceClient

	mu    sync.RWMutex
	token string
	user  *pb.Identity
}

// NewAuthService connects to the AuthService at addr. The connection is
// established lazily on first call.
func NewAuthService(addr string) (*AuthService, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &AuthService{conn: conn, client: pb.NewAuthServiceClient(conn)}, nil
}

// NewAuthServiceWithConn wraps an existing connection.
func NewAuthServiceWithConn(cc grpc.ClientConnInterface) *AuthService {
	return &AuthService{client: pb.NewAuthServiceClient(cc)}
}

func (a *AuthService) Close() error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

func mapError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%s", status.Convert(err).Message())
	default:
		return err
	}
}

func (a *AuthService) remember(s *pb.SessionResponse) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = s.Token
	a.user = s.User
}

func (a *AuthService) Register(ctx context.Context, name, email string, password []byte) error {
	s, err := a.client.Register(ctx, &pb.RegisterRequest{Name: name, Email: email, Password: string(password)})
	if err != nil {
		return mapError(err)
	}
	a.remember(s)
	return nil
}

func (a *AuthService) Login(ctx context.Context, email string, password []byte) error {
	s, err := a.client.Login(ctx, &pb.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return mapError(err)
	}
	a.remember(s)
	return nil
}

// Me asks the server who the current token belongs to.
func (a *AuthService) Me(ctx context.Context) (*pb.Identity, error) {
	token := a.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	ctx = metadata.AppendToOutgoingContext(ctx,
		strings.ToLower(common.AuthorizationHeaderName), common.BearerScheme+" "+token)

	me, err := a.client.Me(ctx, &pb.MeRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return me, nil
}

func (a *AuthService) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.user = nil
}

func (a *AuthService) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// User returns the identity of the last successful login, or nil.
func (a *AuthService) User() *pb.Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}
