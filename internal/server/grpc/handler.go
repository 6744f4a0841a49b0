package grpc

import (
	"context"

	"github.com/dmitrijs2005/artvault/internal/common"
	pb "github.com/dmitrijs2005/artvault/internal/proto"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"github.com/dmitrijs2005/artvault/internal/server/models"
)

func toIdentity(i *models.Identity) *pb.Identity {
	return &pb.Identity{ID: i.ID, Name: i.Name, Email: i.Email}
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.SessionResponse, error) {

	session, err := s.users.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", session.Identity.ID)
	return &pb.SessionResponse{Token: session.Token, User: toIdentity(session.Identity)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.SessionResponse, error) {

	session, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.SessionResponse{Token: session.Token, User: toIdentity(session.Identity)}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *pb.MeRequest) (*pb.Identity, error) {

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrorUnauthorized)
	}

	return toIdentity(identity), nil
}
