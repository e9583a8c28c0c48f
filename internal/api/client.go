// Package api is a typed client for the Doudou backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/doudou-app/doudou/internal/domain"
	"github.com/doudou-app/doudou/pkg/httpclient"
	"github.com/doudou-app/doudou/pkg/logger"
	"github.com/doudou-app/doudou/pkg/tracing"
)

// CorrelationHeader carries the per-request correlation id.
const CorrelationHeader = "X-Correlation-ID"

const serviceName = "doudou-backend"

// Client calls the backend over HTTP. Any non-2xx response is returned as an
// error; callers do not need to inspect status codes.
type Client struct {
	baseURL string
	http    httpclient.Doer
	tracer  trace.Tracer
	logger  *slog.Logger
}

// New creates a client for the backend at baseURL. An empty baseURL yields
// root-relative paths, matching an unset backend URL.
func New(baseURL string, doer httpclient.Doer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		tracer:  tracing.Tracer("doudou/api"),
		logger:  logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListLocations returns locations matching filters.
func (c *Client) ListLocations(ctx context.Context, filters domain.Filters) ([]domain.Location, error) {
	path := "/api/locations"
	if q := filters.Query().Encode(); q != "" {
		path += "?" + q
	}
	var out []domain.Location
	if err := c.do(ctx, "ListLocations", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLocation returns one location by id.
func (c *Client) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	var out domain.Location
	if err := c.do(ctx, "GetLocation", http.MethodGet, "/api/locations/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLocation submits a new location and returns the stored record.
func (c *Client) CreateLocation(ctx context.Context, in domain.NewLocation) (*domain.Location, error) {
	var out domain.Location
	if err := c.do(ctx, "CreateLocation", http.MethodPost, "/api/locations", in.Normalized(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReviews returns the reviews of a location, newest first.
func (c *Client) ListReviews(ctx context.Context, locationID string) ([]domain.Review, error) {
	var out []domain.Review
	if err := c.do(ctx, "ListReviews", http.MethodGet, "/api/reviews/"+url.PathEscape(locationID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReview submits a new review and returns the stored record.
func (c *Client) CreateReview(ctx context.Context, in domain.NewReview) (*domain.Review, error) {
	var out domain.Review
	if err := c.do(ctx, "CreateReview", http.MethodPost, "/api/reviews", in.Normalized(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkReviewHelpful increments a review's helpful count.
func (c *Client) MarkReviewHelpful(ctx context.Context, reviewID string) error {
	return c.do(ctx, "MarkReviewHelpful", http.MethodPost, "/api/reviews/"+url.PathEscape(reviewID)+"/helpful", nil, nil)
}

// ListSaved returns the caller's saved locations.
func (c *Client) ListSaved(ctx context.Context) ([]domain.Location, error) {
	var out []domain.Location
	if err := c.do(ctx, "ListSaved", http.MethodGet, "/api/saved", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type saveRequest struct {
	LocationID string `json:"location_id"`
}

// SaveLocation adds a location to the saved set. Saving twice is not an error.
func (c *Client) SaveLocation(ctx context.Context, locationID string) error {
	return c.do(ctx, "SaveLocation", http.MethodPost, "/api/saved", saveRequest{LocationID: locationID}, nil)
}

// UnsaveLocation removes a location from the saved set.
func (c *Client) UnsaveLocation(ctx context.Context, locationID string) error {
	return c.do(ctx, "UnsaveLocation", http.MethodDelete, "/api/saved/"+url.PathEscape(locationID), nil, nil)
}

type savedResponse struct {
	Saved bool `json:"saved"`
}

// IsSaved reports whether a location is in the saved set.
func (c *Client) IsSaved(ctx context.Context, locationID string) (bool, error) {
	var out savedResponse
	if err := c.do(ctx, "IsSaved", http.MethodGet, "/api/saved/check/"+url.PathEscape(locationID), nil, &out); err != nil {
		return false, err
	}
	return out.Saved, nil
}

// Seed replaces the backend's data with the demo data set.
func (c *Client) Seed(ctx context.Context) error {
	return c.do(ctx, "Seed", http.MethodPost, "/api/seed", nil, nil)
}

type messageResponse struct {
	Message string `json:"message"`
}

// Ping calls the API root and returns its banner message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var out messageResponse
	if err := c.do(ctx, "Ping", http.MethodGet, "/api/", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// do performs one request. in is JSON-encoded when non-nil; out is decoded
// from a 2xx body when non-nil.
func (c *Client) do(ctx context.Context, operation, method, path string, in, out any) error {
	correlationID := uuid.New().String()
	ctx = logger.WithCorrelationID(ctx, correlationID)
	log := logger.WithContext(ctx, c.logger)

	var body io.Reader = http.NoBody
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(CorrelationHeader, correlationID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	ctx, span := tracing.StartClientSpan(ctx, c.tracer, "api."+operation, req)
	start := time.Now()

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		tracing.EndClientSpan(span, 0, err)
		log.DebugContext(ctx, "backend request failed",
			slog.String("operation", operation),
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("call backend %s: %w", operation, err)
	}

	log.DebugContext(ctx, "backend request completed",
		slog.String("operation", operation),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if !httpclient.IsSuccess(resp.StatusCode) {
		err := httpclient.ParseResponseError(resp, serviceName)
		tracing.EndClientSpan(span, resp.StatusCode, err)
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		tracing.EndClientSpan(span, resp.StatusCode, nil)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("decode %s response: %w", operation, err)
		tracing.EndClientSpan(span, resp.StatusCode, err)
		return err
	}
	tracing.EndClientSpan(span, resp.StatusCode, nil)
	return nil
}
