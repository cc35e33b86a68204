// Package disk implements the photo file store against a cloud disk REST
// API. Paths are rooted under a configurable folder; the API authorizes
// with an OAuth token header.
package disk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// DefaultBaseURL is the cloud disk REST endpoint.
const DefaultBaseURL = "https://cloud-api.yandex.net/v1/disk"

const requestTimeout = 30 * time.Second

// Client implements secondary.FileStore over the disk REST API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	root    string
	logger  *zap.Logger
}

// NewClient creates a file store client. An empty baseURL falls back to
// DefaultBaseURL; root is the folder all shift photos live under.
func NewClient(baseURL, token, root string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: baseURL,
		token:   token,
		root:    root,
		logger:  logger,
	}
}

func (c *Client) folderPath(folder string) string {
	return c.root + "/" + folder
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "OAuth "+c.token)
	return c.http.Do(req)
}

// classify maps API status codes onto the port's error taxonomy.
func classify(status int, operation string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", operation, secondary.ErrUnauthorized)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", operation, secondary.ErrNameConflict)
	default:
		return fmt.Errorf("%s: unexpected status %d", operation, status)
	}
}

// EnsureDatedFolder creates the folder for a shift day. An existing folder
// is not an error.
func (c *Client) EnsureDatedFolder(ctx context.Context, title string) error {
	endpoint := c.baseURL + "/resources?path=" + url.QueryEscape(c.folderPath(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build folder request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusConflict:
		// Conflict means the folder is already there.
		return nil
	default:
		return classify(resp.StatusCode, "create folder")
	}
}

// Upload stores content under name inside folder. The upload URL is
// requested without overwrite, so a taken name surfaces as ErrNameConflict
// and the caller bumps the ordinal.
func (c *Client) Upload(ctx context.Context, content []byte, name, folder, contentType string) error {
	path := c.folderPath(folder) + "/" + name
	endpoint := c.baseURL + "/resources/upload?path=" + url.QueryEscape(path) + "&overwrite=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("failed to request upload url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classify(resp.StatusCode, "request upload url")
	}

	var target struct {
		Href string `json:"href"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&target); err != nil {
		return fmt.Errorf("failed to decode upload url: %w", err)
	}
	if target.Href == "" {
		return fmt.Errorf("upload url missing in response")
	}

	put, err := http.NewRequestWithContext(ctx, http.MethodPut, target.Href, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to build content request: %w", err)
	}
	put.Header.Set("Content-Type", contentType)
	putResp, err := c.http.Do(put)
	if err != nil {
		return fmt.Errorf("failed to upload content: %w", err)
	}
	defer putResp.Body.Close()

	switch putResp.StatusCode {
	case http.StatusCreated, http.StatusOK, http.StatusAccepted:
		c.logger.Debug("photo stored", zap.String("path", path))
		return nil
	default:
		return classify(putResp.StatusCode, "upload content")
	}
}

// PublishLink makes the folder publicly reachable and returns its URL.
func (c *Client) PublishLink(ctx context.Context, folder string) (string, error) {
	path := c.folderPath(folder)

	publish := c.baseURL + "/resources/publish?path=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, publish, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build publish request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to publish folder: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", classify(resp.StatusCode, "publish folder")
	}

	// The public URL comes from the resource metadata after publishing.
	meta := c.baseURL + "/resources?path=" + url.QueryEscape(path) + "&fields=public_url"
	metaReq, err := http.NewRequestWithContext(ctx, http.MethodGet, meta, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build metadata request: %w", err)
	}
	metaResp, err := c.do(metaReq)
	if err != nil {
		return "", fmt.Errorf("failed to read folder metadata: %w", err)
	}
	defer metaResp.Body.Close()
	if metaResp.StatusCode != http.StatusOK {
		return "", classify(metaResp.StatusCode, "read folder metadata")
	}

	var resource struct {
		PublicURL string `json:"public_url"`
	}
	if err := json.NewDecoder(metaResp.Body).Decode(&resource); err != nil {
		return "", fmt.Errorf("failed to decode folder metadata: %w", err)
	}
	if resource.PublicURL == "" {
		return "", fmt.Errorf("folder published but no public url returned")
	}
	return resource.PublicURL, nil
}

// Ensure Client implements the interface
var _ secondary.FileStore = (*Client)(nil)
