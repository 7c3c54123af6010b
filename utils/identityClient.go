package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityProfile is the user profile returned by the corporate identity API
type IdentityProfile struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Username string `json:"usuario"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

// IdentityClient relays logins to the external identity API
type IdentityClient struct {
	url    string
	client *resty.Client
}

func NewIdentityClient(url string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		url:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

// Authenticate posts the credentials and returns the caller's profile.
// Every failure, network or otherwise, reports ErrInvalidCredentials wrapped with its cause.
func (ic *IdentityClient) Authenticate(ctx context.Context, username, password string) (*IdentityProfile, error) {
	resp, err := ic.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(map[string]string{
			"usuario": username,
			"senha":   password,
		}).
		Post(ic.url)
	if err != nil {
		log.Printf("[AUTH] Identity API unreachable: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !resp.IsSuccess() {
		log.Printf("[AUTH] Identity API rejected %s with status %d", username, resp.StatusCode())
		return nil, fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.StatusCode())
	}

	profile, err := parseIdentityResponse(resp.Body())
	if err != nil {
		log.Printf("[AUTH] Invalid identity response for %s: %v", username, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if profile.Username == "" {
		profile.Username = username
	}
	return profile, nil
}

// parseIdentityResponse accepts the profile nested under "user" or at the top level
func parseIdentityResponse(body []byte) (*IdentityProfile, error) {
	var envelope struct {
		AccessToken string           `json:"accessToken"`
		User        *json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	raw := body
	if envelope.User != nil {
		raw = *envelope.User
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	profile := &IdentityProfile{
		ID:       stringField(fields, "id"),
		Name:     stringField(fields, "nome"),
		Username: stringField(fields, "usuario"),
		Email:    stringField(fields, "email"),
		Avatar:   stringField(fields, "avatar"),
		Role:     strings.ToLower(stringField(fields, "role")),
	}
	if profile.ID == "" && profile.Username == "" {
		return nil, errors.New("response carries no user")
	}
	return profile, nil
}

// stringField reads a string or number field; the identity API sends numeric ids
func stringField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}
