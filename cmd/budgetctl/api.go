package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"

	"budgetwise/internal/auth"
	"budgetwise/internal/logger"
)

// apiClient sends authorized requests to the API. A 401 triggers one token
// refresh and a retry.
type apiClient struct {
	baseURL    string
	auth       *auth.Client
	httpClient *http.Client
}

func newAPIClient(client *auth.Client) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(viper.GetString("api_url"), "/"),
		auth:       client,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// apiError is an error body returned by the server.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (a *apiClient) getJSON(ctx context.Context, path string, out any) error {
	return a.do(ctx, http.MethodGet, path, "", nil, out)
}

// uploadCSV posts a CSV file to the import endpoint as multipart field "file".
func (a *apiClient) uploadCSV(ctx context.Context, name string, data []byte, dryRun bool, out any) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}

	path := "/api/v1/transactions/import/csv"
	if dryRun {
		path += "?dry_run=true"
	}
	return a.do(ctx, http.MethodPost, path, mw.FormDataContentType(), body.Bytes(), out)
}

func (a *apiClient) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	if !a.auth.IsAuthenticated() {
		return errNotLoggedIn
	}

	resp, err := a.send(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		logger.Named("budgetctl").Debugw("Access token rejected, refreshing", "path", path)
		if err := resultErr(a.auth.Refresh(ctx)); err != nil {
			return fmt.Errorf("session expired, log in again: %w", err)
		}
		if resp, err = a.send(ctx, method, path, contentType, body); err != nil {
			return err
		}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{Status: resp.StatusCode}
		var eb struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &eb) == nil {
			apiErr.Code, apiErr.Message = eb.Error.Code, eb.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (a *apiClient) send(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.auth.AccessToken())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
