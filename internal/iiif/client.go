// Package iiif retrieves full text annotation references from IIIF
// Presentation manifests.
package iiif

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
)

// Client fetches IIIF manifests. One Client reuses its pooled connections
// across all manifest requests.
type Client struct {
	HTTPClient *http.Client
	// MaxRetries is the number of retries after the first attempt
	MaxRetries uint64
	// NewBackOff returns the retry schedule for one manifest request
	NewBackOff func() backoff.BackOff
}

// NewClient creates a new IIIF client
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		MaxRetries: 3,
		NewBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// AnnotationRefs returns one labeled reference per annotation page in the
// manifest at manifestURL
func (c *Client) AnnotationRefs(ctx context.Context, manifestURL string) ([]models.LabeledReference, error) {
	m, err := c.fetchManifest(ctx, manifestURL)
	if err != nil {
		return nil, err
	}
	return m.labeledRefs(), nil
}

func (c *Client) fetchManifest(ctx context.Context, manifestURL string) (*manifest, error) {
	var m manifest

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create manifest request: %w", err))
		}
		req.Header.Set("Accept", "application/ld+json, application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch manifest: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("manifest request returned status %d: %s", resp.StatusCode, string(body))
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("manifest request returned status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode manifest: %w", err))
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.NewBackOff(), c.MaxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", manifestURL, err)
	}

	return &m, nil
}
