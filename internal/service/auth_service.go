package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/middleware"
	"github.com/mmynk/telecomsupply/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	guard  *auth.Guard
	logger *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(guard *auth.Guard, logger *slog.Logger) *AuthService {
	return &AuthService{
		guard:  guard,
		logger: logger,
	}
}

// Register creates a new operator account and signs it in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	// Validate input
	if strings.TrimSpace(req.Msg.Email) == "" || strings.TrimSpace(req.Msg.DisplayName) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	session, err := s.guard.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("User registered successfully", "user_id", session.User.ID, "email", session.User.Email)
	return connect.NewResponse(&api.RegisterResponse{
		User:      toAPIUser(session.User),
		Token:     session.Token,
		ExpiresAt: sessionExpiry(session),
	}), nil
}

// SignIn authenticates an operator and returns a session token.
func (s *AuthService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	s.logger.Info("SignIn request", "email", req.Msg.Email)

	if strings.TrimSpace(req.Msg.Email) == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	session, err := s.guard.SignIn(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("SignIn failed", "email", req.Msg.Email, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.SignInResponse{
		User:      toAPIUser(session.User),
		Token:     session.Token,
		ExpiresAt: sessionExpiry(session),
	}), nil
}

// SignOut revokes the caller's session.
func (s *AuthService) SignOut(ctx context.Context, req *connect.Request[api.SignOutRequest]) (*connect.Response[api.SignOutResponse], error) {
	token := middleware.GetToken(ctx)
	if token == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	if err := s.guard.SignOut(ctx, token); err != nil {
		s.logger.Error("SignOut failed", "user_id", middleware.GetUserID(ctx), "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.SignOutResponse{}), nil
}

// GetCurrentUser returns the caller's account.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	token := middleware.GetToken(ctx)
	if token == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.guard.CurrentUser(ctx, token)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
