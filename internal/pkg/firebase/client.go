package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

var (
	ErrInvalidIDToken = errors.New("invalid firebase id token")
	ErrWrongAudience  = errors.New("firebase token issued for another project")
)

// Client verifies Firebase ID tokens against Google's tokeninfo endpoint.
type Client struct {
	projectID string
	endpoint  string
	http      *http.Client
}

// TokenInfo holds the verified identity extracted from a Firebase ID token.
type TokenInfo struct {
	UID      string
	Email    string
	Name     string
	Audience string
}

// NewClient creates a Firebase verification client.
func NewClient(projectID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		projectID: projectID,
		endpoint:  "https://oauth2.googleapis.com/tokeninfo",
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// VerifyIDToken checks the ID token with Google and returns the identity.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*TokenInfo, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("firebase verify error: client is nil")
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrInvalidIDToken
	}

	reqURL := c.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("firebase verify request error: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firebase verify network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: status=%d body=%s", ErrInvalidIDToken, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("firebase verify http error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Aud           string `json:"aud"`
		Exp           string `json:"exp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("firebase verify decode error: %w", err)
	}

	if payload.Sub == "" {
		return nil, ErrInvalidIDToken
	}
	if c.projectID != "" && payload.Aud != c.projectID {
		return nil, ErrWrongAudience
	}

	return &TokenInfo{
		UID:      payload.Sub,
		Email:    payload.Email,
		Name:     payload.Name,
		Audience: payload.Aud,
	}, nil
}
