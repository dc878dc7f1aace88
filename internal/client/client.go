// Package client talks to the casetracker REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/search"
)

// FieldErrors is a 400 response keyed by field name.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return strings.Join(parts, "; ")
}

// StatusError is any other non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client is a casetracker API client. The zero value is not usable.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New returns a client for the server at baseURL (e.g. http://host:8080).
func New(baseURL, token string) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/") + "/api",
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Detail is the inmate detail response.
type Detail struct {
	Inmate         models.InmateAggregate `json:"inmate"`
	DatePostmarked models.Date            `json:"datePostmarked"`
}

// PrintResult is the response of PrintLabel.
type PrintResult struct {
	Path   string `json:"path"`
	Mailed bool   `json:"mailed"`
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

func (c *Client) Search(ctx context.Context, query string) (search.Result, error) {
	var out search.Result
	err := c.do(ctx, http.MethodGet, "/inmate?"+url.Values{"query": {query}}.Encode(), nil, &out)
	return out, err
}

func (c *Client) Inmate(ctx context.Context, jurisdiction string, id int64) (Detail, error) {
	var out Detail
	err := c.do(ctx, http.MethodGet, inmatePath("/inmate", jurisdiction, id), nil, &out)
	return out, err
}

// Warnings asks the server for the postmark warnings of a prospective
// Filled request.
func (c *Client) Warnings(ctx context.Context, jurisdiction string, id int64, postmarked models.Date) ([]string, error) {
	p := inmatePath("/warning", jurisdiction, id)
	if !postmarked.IsZero() {
		p += "?" + url.Values{"datePostmarked": {postmarked.String()}}.Encode()
	}
	var out []string
	err := c.do(ctx, http.MethodGet, p, nil, &out)
	return out, err
}

func (c *Client) CreateRequest(ctx context.Context, jurisdiction string, id int64, r models.Request) (models.Request, error) {
	var out models.Request
	err := c.do(ctx, http.MethodPost, inmatePath("/request", jurisdiction, id), r, &out)
	return out, err
}

func (c *Client) UpdateRequest(ctx context.Context, jurisdiction string, id int64, r models.Request) (models.Request, error) {
	var out models.Request
	err := c.do(ctx, http.MethodPut, recordPath("/request", jurisdiction, id, r.Index), r, &out)
	return out, err
}

func (c *Client) DeleteRequest(ctx context.Context, jurisdiction string, id int64, index int) error {
	return c.do(ctx, http.MethodDelete, recordPath("/request", jurisdiction, id, index), nil, nil)
}

func (c *Client) CreateComment(ctx context.Context, jurisdiction string, id int64, cm models.Comment) (models.Comment, error) {
	var out models.Comment
	err := c.do(ctx, http.MethodPost, inmatePath("/comment", jurisdiction, id), commentBody(cm), &out)
	return out, err
}

func (c *Client) UpdateComment(ctx context.Context, jurisdiction string, id int64, cm models.Comment) (models.Comment, error) {
	var out models.Comment
	err := c.do(ctx, http.MethodPut, recordPath("/comment", jurisdiction, id, cm.Index), commentBody(cm), &out)
	return out, err
}

func (c *Client) DeleteComment(ctx context.Context, jurisdiction string, id int64, index int) error {
	return c.do(ctx, http.MethodDelete, recordPath("/comment", jurisdiction, id, index), nil, nil)
}

// Label fetches the rendered label of a Filled request.
func (c *Client) Label(ctx context.Context, jurisdiction string, id int64, index int) (string, error) {
	var out bytes.Buffer
	err := c.do(ctx, http.MethodGet, recordPath("/label", jurisdiction, id, index), nil, &out)
	return out.String(), err
}

// PrintLabel sends a label to the print queue.
func (c *Client) PrintLabel(ctx context.Context, jurisdiction string, id int64, index int) (PrintResult, error) {
	var out PrintResult
	err := c.do(ctx, http.MethodPost, recordPath("/label", jurisdiction, id, index), nil, &out)
	return out, err
}

// the server stamps comment time and index itself
func commentBody(cm models.Comment) map[string]string {
	return map[string]string{"body": cm.Body, "author": cm.Author}
}

func inmatePath(prefix, jurisdiction string, id int64) string {
	return prefix + "/" + url.PathEscape(jurisdiction) + "/" + strconv.FormatInt(id, 10)
}

func recordPath(prefix, jurisdiction string, id int64, index int) string {
	return inmatePath(prefix, jurisdiction, id) + "/" + strconv.Itoa(index)
}

// do sends one request. A non-nil body is JSON encoded. The response is
// decoded into out, or copied verbatim when out is a *bytes.Buffer.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
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
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	switch dst := out.(type) {
	case nil:
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	case *bytes.Buffer:
		_, err = dst.ReadFrom(resp.Body)
		return err
	default:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		return nil
	}
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body map[string]string
	_ = json.Unmarshal(raw, &body)

	msg, generic := body["error"]
	if resp.StatusCode == http.StatusBadRequest && len(body) > 0 && !generic {
		return FieldErrors(body)
	}
	if !generic {
		msg = strings.TrimSpace(string(raw))
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}
