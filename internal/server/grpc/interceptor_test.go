package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/artvault/internal/common"
	pb "github.com/dmitrijs2005/artvault/internal/proto"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestInterceptor_PublicMethodSkipsGate(t *testing.T) {
	s, _ := newTestGRPCServer(t)

	methods := []string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/List",
		"/grpc.health.v1.Health/Watch",
	}
	for method := range publicMethods {
		methods = append(methods, method)
	}

	for _, method := range methods {
		called := false
		h := func(ctx context.Context, req any) (any, error) {
			called = true
			if _, ok := auth.IdentityFromContext(ctx); ok {
				t.Fatalf("%s: public method must not carry an identity", method)
			}
			return "ok", nil
		}

		resp, err := s.authInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: method}, h)
		if err != nil || resp != "ok" || !called {
			t.Fatalf("%s: resp=%v err=%v called=%v", method, resp, err, called)
		}
	}
}

func TestInterceptor_ProtectedMethodNeedsToken(t *testing.T) {
	s, _ := newTestGRPCServer(t)

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called without a token")
		return nil, nil
	}

	for _, method := range []string{
		"/artvault.v1.ArtworkService/Delete",
		pb.AuthService_Me_FullMethodName,
		"/grpc.health.v1.HealthX/Check",
	} {
		info := &grpc.UnaryServerInfo{FullMethod: method}
		_, err := s.authInterceptor(context.Background(), nil, info, h)
		if status.Code(err) != codes.Unauthenticated {
			t.Fatalf("%s: expected Unauthenticated, got %v", method, err)
		}
	}
}

func TestInterceptor_AttachesIdentity(t *testing.T) {
	s, _ := newTestGRPCServer(t)

	session, err := s.users.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs("authorization", "bearer "+session.Token))

	h := func(ctx context.Context, req any) (any, error) {
		id, ok := auth.IdentityFromContext(ctx)
		if !ok {
			t.Fatal("identity not attached")
		}
		return id.ID, nil
	}

	resp, err := s.authInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: pb.AuthService_Me_FullMethodName}, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != session.Identity.ID {
		t.Fatalf("got %v, want %s", resp, session.Identity.ID)
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: bad email", common.ErrorInvalidInput), codes.InvalidArgument},
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{common.ErrorInvalidCredentials, codes.Unauthenticated},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrorForbidden, codes.PermissionDenied},
		{common.ErrorNotFound, codes.NotFound},
		{errors.New("pq: connection refused"), codes.Internal},
	}
	for _, tt := range tests {
		got := toStatus(tt.err)
		if status.Code(got) != tt.want {
			t.Errorf("toStatus(%v) = %v, want %v", tt.err, status.Code(got), tt.want)
		}
	}

	if msg := status.Convert(toStatus(errors.New("secret detail"))).Message(); msg != "internal error" {
		t.Errorf("internal message leaked: %q", msg)
	}
}
