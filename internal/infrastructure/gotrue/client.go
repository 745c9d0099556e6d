// Package gotrue is a thin client for the hosted auth service's admin API.
// It covers the three operations this system needs: delete an identity,
// find one by email, and create one (admin bootstrap).
package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/antbogura/isp-api/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type Client struct {
	http *resty.Client
}

// New builds a client authorized with the service-role key. Calls are not
// retried: a transient failure is surfaced to the caller immediately.
func New(baseURL, serviceRoleKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+serviceRoleKey).
		SetHeader("apikey", serviceRoleKey)
	return &Client{http: c}
}

// backendMessage extracts the human-readable message from an auth-service
// error body. The service answers {"msg": "..."} or {"message": "..."}
// depending on the endpoint.
func backendMessage(body []byte, status int) string {
	var e struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
		Error   string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		for _, m := range []string{e.Msg, e.Message, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("auth service returned status %d", status)
}

// DeleteIdentity irreversibly removes the authentication record. After it
// succeeds the identity can no longer sign in.
func (c *Client) DeleteIdentity(ctx context.Context, userID uuid.UUID) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/auth/v1/admin/users/" + userID.String())
	if err != nil {
		return &domain.BackendError{Message: err.Error()}
	}
	if resp.IsError() {
		return &domain.BackendError{Message: backendMessage(resp.Body(), resp.StatusCode())}
	}
	return nil
}

type identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) FindIdentityByEmail(ctx context.Context, email string) (uuid.UUID, bool, error) {
	var out struct {
		Users []identity `json:"users"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", "1000").
		SetResult(&out).
		Get("/auth/v1/admin/users")
	if err != nil {
		return uuid.Nil, false, &domain.BackendError{Message: err.Error()}
	}
	if resp.IsError() {
		return uuid.Nil, false, &domain.BackendError{Message: backendMessage(resp.Body(), resp.StatusCode())}
	}

	for _, u := range out.Users {
		if u.Email == email {
			id, err := uuid.Parse(u.ID)
			if err != nil {
				return uuid.Nil, false, fmt.Errorf("auth service returned malformed user id %q: %w", u.ID, err)
			}
			return id, true, nil
		}
	}
	return uuid.Nil, false, nil
}

// CreateIdentity registers a pre-confirmed identity.
func (c *Client) CreateIdentity(ctx context.Context, email, password string) (uuid.UUID, error) {
	var out identity
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"email":         email,
			"password":      password,
			"email_confirm": true,
		}).
		SetResult(&out).
		Post("/auth/v1/admin/users")
	if err != nil {
		return uuid.Nil, &domain.BackendError{Message: err.Error()}
	}
	if resp.IsError() {
		return uuid.Nil, &domain.BackendError{Message: backendMessage(resp.Body(), resp.StatusCode())}
	}

	id, err := uuid.Parse(out.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth service returned malformed user id %q: %w", out.ID, err)
	}
	return id, nil
}
