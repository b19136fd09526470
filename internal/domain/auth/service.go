package auth

import "context"

// AuthService defines the minimal authentication surface: password
// login issuing an access/refresh token pair.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
