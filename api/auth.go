package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"alumni/models"
)

type AuthService struct {
	c *Client
}

// Register creates an account. When the backend answers with a token the
// session starts immediately, as after Login.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.c.Do(ctx, http.MethodPost, "/auth/register", reg, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return &resp, nil
	}
	if err := s.begin(ctx, &resp, reg.Email); err != nil {
		return &resp, err
	}
	return &resp, nil
}

// Login authenticates and stores the returned token so every later call
// carries it.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.c.Do(ctx, http.MethodPost, "/auth/login", creds, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return &resp, ErrMissingToken
	}
	if err := s.begin(ctx, &resp, creds.Email); err != nil {
		return &resp, err
	}
	return &resp, nil
}

func (s *AuthService) begin(ctx context.Context, resp *models.AuthResponse, email string) error {
	username := resp.Username
	if username == "" {
		username = email
	}
	if err := s.c.session.Begin(ctx, resp.Token, username); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	s.c.logger.Info("session started", "username", username)
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*models.Message, error) {
	var resp models.Message
	body := map[string]string{"email": email}
	if err := s.c.Do(ctx, http.MethodPost, "/auth/forgot-password", body, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword completes a reset using the token from the reset email.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken string, reset models.PasswordReset) (*models.Message, error) {
	if resetToken == "" {
		return nil, fmt.Errorf("reset password: %w", ErrMissingID)
	}
	var resp models.Message
	endpoint := "/auth/reset-password/" + url.PathEscape(resetToken)
	if err := s.c.Do(ctx, http.MethodPost, endpoint, reset, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout tells the backend and then clears the local session. The session
// is cleared even when the backend call fails; that error is still returned.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if clearErr := s.c.session.Clear(context.WithoutCancel(ctx)); clearErr != nil {
		return errors.Join(err, fmt.Errorf("clear session: %w", clearErr))
	}
	return err
}
