package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/peerstash/authd/pkg/api"
)

// RefreshCookieName имя cookie, в которой сервер доставляет refresh token
const RefreshCookieName = "refreshToken"

// Client представляет HTTP клиент для взаимодействия с auth сервером
// Refresh token сервер отдает только в Set-Cookie: клиент перехватывает
// его из ответа на login и предъявляет как Cookie при обновлении
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	_, err := c.doRequest(ctx, http.MethodPost, "/user/register", req, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
// Возвращает access token из тела ответа и refresh token из Set-Cookie
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, string, error) {
	var resp api.TokenResponse
	httpResp, err := c.doRequest(ctx, http.MethodPost, "/user/login", req, nil, &resp)
	if err != nil {
		return nil, "", fmt.Errorf("login request failed: %w", err)
	}

	// Извлекаем refresh cookie из ответа
	var refreshToken string
	for _, cookie := range httpResp.Cookies() {
		if cookie.Name == RefreshCookieName {
			refreshToken = cookie.Value
			break
		}
	}
	if refreshToken == "" {
		return nil, "", fmt.Errorf("server did not set refresh cookie")
	}

	return &resp, refreshToken, nil
}

// Refresh запрашивает новый access token, предъявляя refresh cookie
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	headers := map[string]string{
		"Cookie": fmt.Sprintf("%s=%s", RefreshCookieName, refreshToken),
	}

	var resp api.TokenResponse
	_, err := c.doRequest(ctx, http.MethodGet, "/user/refresh", nil, headers, &resp)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// Logout просит сервер стереть refresh cookie
func (c *Client) Logout(ctx context.Context) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	_, err := c.doRequest(ctx, http.MethodGet, "/user/logout", nil, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("logout request failed: %w", err)
	}
	return &resp, nil
}

// UserData запрашивает защищенный endpoint с access token
func (c *Client) UserData(ctx context.Context, accessToken string) (*api.MessageResponse, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + accessToken,
	}

	var resp api.MessageResponse
	_, err := c.doRequest(ctx, http.MethodGet, "/user/data", nil, headers, &resp)
	if err != nil {
		return nil, fmt.Errorf("user data request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос и декодирует JSON ответ в result
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, headers map[string]string, result interface{}) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp, nil
}
