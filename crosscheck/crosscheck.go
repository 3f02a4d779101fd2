// Package crosscheck talks to the external fingerprint service that keeps
// its own record of legitimate documents. It is advisory: callers treat it
// as the preferred fingerprint source and fall back to local hashing when
// it is unreachable.
package crosscheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the hosted instance of the service.
const DefaultBaseURL = "https://ledger.palatepals.com"

// Registration is the service's record of a newly registered document.
type Registration struct {
	Hash      string    `json:"hash"`
	Embedding []float64 `json:"embedding"`
}

// Report is the service's verdict on a previously registered document.
type Report struct {
	Hash       string `json:"hash"`
	Similarity string `json:"similarity"`
}

// ExactMatch reports whether the similarity is exactly 100%. Anything
// below that is treated as no match; there is no partial-credit band.
func (r Report) ExactMatch() bool {
	v, err := parseSimilarity(r.Similarity)
	return err == nil && v == 100
}

func parseSimilarity(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, errors.New("crosscheck: empty similarity")
	}
	return strconv.ParseFloat(s, 64)
}

// Client is the HTTP client for the service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New builds a client with a bounded per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Register submits a document as legitimate and returns the service's
// fingerprint for it.
func (c *Client) Register(ctx context.Context, filename string, content []byte) (Registration, error) {
	var reg Registration
	if err := c.postFile(ctx, "/add_legit", filename, content, &reg); err != nil {
		return Registration{}, err
	}
	if reg.Hash == "" {
		return Registration{}, errors.New("crosscheck: service returned no hash")
	}
	return reg, nil
}

// Check submits a document for verification against the service's record.
func (c *Client) Check(ctx context.Context, filename string, content []byte) (Report, error) {
	var rep Report
	if err := c.postFile(ctx, "/verify", filename, content, &rep); err != nil {
		return Report{}, err
	}
	if rep.Hash == "" {
		return Report{}, errors.New("crosscheck: service returned no hash")
	}
	return rep, nil
}

func (c *Client) postFile(ctx context.Context, path, filename string, content []byte, out interface{}) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("crosscheck: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
