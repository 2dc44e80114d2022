package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"campussync/internal/domain"
)

// Client delegates field normalization to an external language service.
// Callers treat every error from it as a soft failure, so this client
// reports problems plainly and leaves recovery to them.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type normalizeRequest struct {
	Fields domain.CertificateFields `json:"fields"`
}

type normalizeResponse struct {
	Fields  domain.CertificateFields `json:"fields"`
	Coerced []string                 `json:"coerced"`
}

func (c *Client) Normalize(ctx context.Context, fields domain.CertificateFields) (domain.CertificateFields, []string, error) {
	body, err := json.Marshal(normalizeRequest{Fields: fields})
	if err != nil {
		return domain.CertificateFields{}, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/normalize", bytes.NewReader(body))
	if err != nil {
		return domain.CertificateFields{}, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.CertificateFields{}, nil, fmt.Errorf("normalization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.CertificateFields{}, nil, fmt.Errorf("normalization service returned %d: %s", resp.StatusCode, snippet)
	}
	var out normalizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.CertificateFields{}, nil, fmt.Errorf("decode normalization response: %w", err)
	}
	return out.Fields, out.Coerced, nil
}
