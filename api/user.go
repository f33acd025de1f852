package api

import (
	"context"
	"errors"
	"net/http"

	"alumni/models"
)

type UserService struct {
	c *Client
}

// GetProfile fetches the signed-in user's profile. A 401 comes back as an
// *Error whose message is "Unauthorized".
func (s *UserService) GetProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := s.c.Do(ctx, http.MethodGet, "/user/profile", nil, nil, &profile); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, &Error{Status: apiErr.Status, Message: "Unauthorized", RequestID: apiErr.RequestID}
		}
		return nil, err
	}
	return &profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	var updated models.Profile
	if err := s.c.Do(ctx, http.MethodPut, "/user/profile", profile, nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
