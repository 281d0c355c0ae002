package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/apex/log"

	"sigscan/internal/signature"
)

// Client fetches and deciphers the signature feed over HTTP.
type Client struct {
	url        string
	key        []byte
	httpClient *http.Client
}

// Assert that Client implements the Feed interface
var _ Feed = (*Client)(nil)

// NewClient creates a feed client. A nil key fetches a plain JSON document.
func NewClient(url string, key []byte, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:        url,
		key:        key,
		httpClient: httpClient,
	}
}

// Download returns the raw feed body.
func (c *Client) Download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	log.WithField("url", c.url).Debugf("downloaded %d byte feed", len(body))
	return body, nil
}

func (c *Client) Fetch(ctx context.Context) ([]signature.Encoded, error) {
	body, err := c.Download(ctx)
	if err != nil {
		return nil, err
	}
	return decode(body, c.key)
}

func decode(body, key []byte) ([]signature.Encoded, error) {
	if key != nil {
		var err error
		body, err = Decrypt(key, body)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt feed: %w", err)
		}
	}
	return Parse(body)
}
