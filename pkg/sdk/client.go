// Package sdk is the Go client for the Thermolog HTTP API. It is used
// by the thermolog CLI and can be embedded in other Go programs.
package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/thermolog-dev/thermolog/pkg/schema"
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one Thermolog server.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the Bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates a new account.
func (c *Client) Register(username, email, password string) error {
	req := schema.RegisterRequest{Username: username, Email: email, Password: password}
	return c.do(http.MethodPost, "/auth/register", req, nil)
}

// Login authenticates and stores the returned access token on the
// client for subsequent calls.
func (c *Client) Login(username, password string) (*schema.LoginResponse, error) {
	req := schema.LoginRequest{Username: username, Password: password}
	var resp schema.LoginResponse
	if err := c.do(http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.AccessToken
	return &resp, nil
}

// Refresh exchanges a refresh token for a new access token and stores it.
func (c *Client) Refresh(refreshToken string) (string, error) {
	prev := c.token
	c.token = refreshToken
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(http.MethodPost, "/auth/refresh", nil, &resp)
	if err != nil {
		c.token = prev
		return "", err
	}
	c.token = resp.AccessToken
	return resp.AccessToken, nil
}

// Profile fetches the caller's own profile.
func (c *Client) Profile() (*schema.Account, error) {
	var out schema.Account
	if err := c.do(http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(req schema.ProfileUpdateRequest) (*schema.Account, error) {
	var out schema.Account
	if err := c.do(http.MethodPut, "/auth/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddReading ingests one sensor reading (admin only).
func (c *Client) AddReading(req schema.IngestRequest) (*schema.Reading, error) {
	var out schema.Reading
	if err := c.do(http.MethodPost, "/api/temperature", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Temperature queries the aggregated readings of one sensor. date may
// be empty for the window containing now.
func (c *Client) Temperature(sensorID, timeframe, date string) (*schema.QueryResult, error) {
	path := fmt.Sprintf("/api/temperature/%s?timeframe=%s", url.PathEscape(sensorID), url.QueryEscape(timeframe))
	if date != "" {
		path += "&date=" + url.QueryEscape(date)
	}
	var out schema.QueryResult
	if err := c.do(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sensors lists the distinct sensor identifiers seen by the server.
func (c *Client) Sensors() ([]string, error) {
	var out struct {
		Sensors []string `json:"sensors"`
	}
	if err := c.do(http.MethodGet, "/api/sensors", nil, &out); err != nil {
		return nil, err
	}
	return out.Sensors, nil
}

// Users lists every account (admin only).
func (c *Client) Users() ([]schema.Account, error) {
	var out struct {
		Users []schema.Account `json:"users"`
	}
	if err := c.do(http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// UpdateUser applies an administrative account update.
func (c *Client) UpdateUser(id string, req schema.AccountUpdateRequest) (*schema.Account, error) {
	var out schema.Account
	if err := c.do(http.MethodPut, "/admin/users/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account (admin only).
func (c *Client) DeleteUser(id string) error {
	return c.do(http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil)
}

// Settings lists every configuration entry.
func (c *Client) Settings() ([]schema.Setting, error) {
	var out struct {
		Settings []schema.Setting `json:"settings"`
	}
	if err := c.do(http.MethodGet, "/admin/settings", nil, &out); err != nil {
		return nil, err
	}
	return out.Settings, nil
}

// CreateSetting adds a new configuration entry (admin only).
func (c *Client) CreateSetting(req schema.SettingCreateRequest) (*schema.Setting, error) {
	var out schema.Setting
	if err := c.do(http.MethodPost, "/admin/settings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSetting applies a partial setting update.
func (c *Client) UpdateSetting(key string, req schema.SettingUpdateRequest) (*schema.Setting, error) {
	var out schema.Setting
	if err := c.do(http.MethodPut, "/admin/settings/"+url.PathEscape(key), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(method, path string, body, out any) error {
	payload := &bytes.Buffer{}
	if body != nil {
		if err := json.NewEncoder(payload).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
