package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrBadStatus   = errors.New("catalog api bad status")
	ErrUnavailable = errors.New("catalog api unavailable")
)

const defaultClientTimeout = 3 * time.Second

// Client is a Store backed by the catalog JSON API. Validation rejections
// come back as Violations, a missing product as the false flag.
type Client struct {
	BaseURL string
	Client  *http.Client

	// Token, when set, supplies a bearer token for write requests.
	Token func() (string, error)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/readyz", nil, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}
	return nil
}

func (c *Client) List(ctx context.Context) ([]Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/products", nil, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, badStatus(resp)
	}

	out := []Product{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (Product, bool, error) {
	if !validID(id) {
		return Product{}, false, nil
	}

	resp, err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, false)
	if err != nil {
		return Product{}, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Product{}, false, nil
	default:
		return Product{}, false, badStatus(resp)
	}

	p, err := decodeProduct(resp.Body)
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (c *Client) Create(ctx context.Context, p Product) (Product, error) {
	p.ID = ""
	resp, err := c.do(ctx, http.MethodPost, "/products", p, true)
	if err != nil {
		return Product{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
	case http.StatusBadRequest:
		return Product{}, rejection(resp)
	default:
		return Product{}, badStatus(resp)
	}
	return decodeProduct(resp.Body)
}

func (c *Client) Update(ctx context.Context, id string, p Product) (Product, bool, error) {
	if !validID(id) {
		return Product{}, false, nil
	}

	p.ID = ""
	resp, err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), p, true)
	if err != nil {
		return Product{}, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Product{}, false, nil
	case http.StatusBadRequest:
		return Product{}, false, rejection(resp)
	default:
		return Product{}, false, badStatus(resp)
	}

	updated, err := decodeProduct(resp.Body)
	if err != nil {
		return Product{}, false, err
	}
	return updated, true, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}

	resp, err := c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	default:
		return badStatus(resp)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, write bool) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if write && c.Token != nil {
		tok, err := c.Token()
		if err != nil {
			return nil, fmt.Errorf("issuing service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	return resp, nil
}

func decodeProduct(r io.Reader) (Product, error) {
	var p Product
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Product{}, fmt.Errorf("decoding product: %w", err)
	}
	return p, nil
}

// rejection turns a 400 body into Violations. A 400 without field details
// (malformed request) is reported as a bad status.
func rejection(resp *http.Response) error {
	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Details) == 0 {
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}
	return ViolationsFromMap(body.Details)
}

func badStatus(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
}
