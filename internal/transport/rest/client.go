package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"comboselect/internal/domain"
	"comboselect/internal/provider"
)

// Client is a provider backed by one source of an option server
type Client struct {
	base   string
	source string
	http   *http.Client
}

var _ provider.Provider = (*Client)(nil)

// NewClient creates a provider for source on the server at baseURL. A nil
// http client gets a default with a 10s timeout.
func NewClient(baseURL, source string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), source: source, http: hc}
}

// Source returns the source name
func (c *Client) Source() string { return c.source }

// FetchInitial loads the whole option list
func (c *Client) FetchInitial(ctx context.Context) (domain.OptionList, error) {
	var list domain.OptionList
	if err := c.get(ctx, "options", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Search asks the server for matching options
func (c *Client) Search(ctx context.Context, query string) (domain.OptionList, error) {
	var list domain.OptionList
	if err := c.get(ctx, "search", url.Values{"q": {query}}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// LabelFor looks up one label
func (c *Client) LabelFor(ctx context.Context, value string) (string, error) {
	var body labelBody
	if err := c.get(ctx, "label", url.Values{"value": {value}}, &body); err != nil {
		return "", err
	}
	return body.Label, nil
}

// LabelsFor looks up several labels in one request
func (c *Client) LabelsFor(ctx context.Context, values []string) ([]domain.Option, error) {
	if len(values) == 0 {
		return nil, nil
	}
	var opts []domain.Option
	if err := c.get(ctx, "labels", url.Values{"value": values}, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// UpdateLabel changes a label on the server, which pushes the change to
// every subscriber of the source
func (c *Client) UpdateLabel(ctx context.Context, value, label string) error {
	payload, err := json.Marshal(labelBody{Label: label})
	if err != nil {
		return err
	}
	u := c.endpoint("options/"+url.PathEscape(value)+"/label", nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.base + "/sources/" + url.PathEscape(c.source) + "/" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var body errorBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, &body) == nil {
			se.Code, se.Message = body.Code, body.Error
		}
		if se.StatusCode == http.StatusNotImplemented {
			return fmt.Errorf("%w: %w", provider.ErrNotSupported, se)
		}
		return se
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", req.URL.Path, err)
	}
	return nil
}
