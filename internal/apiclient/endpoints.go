package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"PawPlanner_WebClient/internal/models"
)

func (c *Client) Register(ctx context.Context, creds models.Credentials) (*Response, error) {
	return c.Do(ctx, "/register", http.MethodPost, creds)
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*Response, error) {
	return c.Do(ctx, "/login", http.MethodPost, creds)
}

func (c *Client) Logout(ctx context.Context) (*Response, error) {
	return c.Do(ctx, "/logout", http.MethodPost, nil)
}

func (c *Client) ProfileCheck(ctx context.Context) (*Response, error) {
	return c.Do(ctx, "/profile-check", http.MethodGet, nil)
}

func (c *Client) CreateProfile(ctx context.Context, form models.ProfileForm) (*Response, error) {
	return c.Do(ctx, "/profile", http.MethodPost, form)
}

func (c *Client) GetProfile(ctx context.Context, dogID string) (*Response, error) {
	return c.Do(ctx, "/profile/"+url.PathEscape(dogID), http.MethodGet, nil)
}

func (c *Client) Recommendations(ctx context.Context, req models.RecommendationRequest) (*Response, error) {
	return c.Do(ctx, "/recommendations", http.MethodPost, req)
}
