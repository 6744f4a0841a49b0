package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/artvault/internal/common"
	pb "github.com/dmitrijs2005/artvault/internal/proto"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// healthServicePrefix covers every method of the standard health service.
var healthServicePrefix = "/" + healthpb.Health_ServiceDesc.ServiceName + "/"

// publicMethods skip the gate; everything else needs a bearer token.
var publicMethods = map[string]bool{
	pb.AuthService_Register_FullMethodName: true,
	pb.AuthService_Login_FullMethodName:    true,
}

func isPublic(method string) bool {
	return publicMethods[method] || strings.HasPrefix(method, healthServicePrefix)
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if isPublic(info.FullMethod) {
		return handler(ctx, req)
	}

	var authorization string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(strings.ToLower(common.AuthorizationHeaderName))
		if len(values) > 0 {
			authorization = values[0]
		}
	}

	identity, err := s.gate.Authenticate(ctx, authorization)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(auth.WithIdentity(ctx, identity), req)
}

// toStatus maps service errors onto gRPC codes. Internal causes are not
// exposed.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, common.ErrorInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "authentication required")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
