// Package sparql provides a driven.MetadataHandler over a remote SPARQL 1.1
// endpoint such as Blazegraph.
//
// Queries are sent as form-encoded POST requests and answered in the SPARQL
// JSON results format. Object classes are returned without the catalogue
// namespace, matching domain.ParseObjectClass.
package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
	"github.com/custodia-labs/heritage/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.MetadataHandler = (*Client)(nil)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Client queries one SPARQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRequestsPerSecond throttles requests. Non-positive values disable
// throttling.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		c.limiter = newRateLimiter(rps)
	}
}

// WithHTTPClient replaces the HTTP client. Its timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient returns a client for the endpoint URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: sparql endpoint %q", domain.ErrInvalidInput, endpoint)
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    newRateLimiter(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// selectQuery runs a SELECT query and returns its solutions.
func (c *Client) selectQuery(ctx context.Context, query string) ([]solution, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", resultsMIME)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEndpointUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s returned status %d: %s",
			domain.ErrEndpointUnavailable, c.endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	solutions, err := decodeResults(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.Debug("sparql %s: %d solutions", c.endpoint, len(solutions))
	return solutions, nil
}

// GetByID looks up objects with the identifiers, then people when no
// object matched.
func (c *Client) GetByID(ctx context.Context, ids []string) (domain.EntityTable, error) {
	if len(ids) == 0 {
		return domain.EntityTable{}, nil
	}

	objects, err := c.selectQuery(ctx, objectsByID(ids))
	if err != nil {
		return domain.EntityTable{}, fmt.Errorf("querying objects by id: %w", err)
	}
	if len(objects) > 0 {
		return domain.EntityTable{Objects: toObjectRows(objects)}, nil
	}

	people, err := c.selectQuery(ctx, peopleByID(ids))
	if err != nil {
		return domain.EntityTable{}, fmt.Errorf("querying people by id: %w", err)
	}
	return domain.EntityTable{People: toPersonRows(people)}, nil
}

// GetAllPeople returns every agent, sorted by name.
func (c *Client) GetAllPeople(ctx context.Context) ([]domain.PersonRow, error) {
	solutions, err := c.selectQuery(ctx, allPeople())
	if err != nil {
		return nil, fmt.Errorf("querying all people: %w", err)
	}
	return toPersonRows(solutions), nil
}

// GetAllCulturalHeritageObjects returns every object row.
func (c *Client) GetAllCulturalHeritageObjects(ctx context.Context) ([]domain.ObjectRow, error) {
	solutions, err := c.selectQuery(ctx, allObjects())
	if err != nil {
		return nil, fmt.Errorf("querying all objects: %w", err)
	}
	return toObjectRows(solutions), nil
}

// GetAuthorsOfCulturalHeritageObject returns the creators of an object.
func (c *Client) GetAuthorsOfCulturalHeritageObject(ctx context.Context, objectID string) ([]domain.PersonRow, error) {
	solutions, err := c.selectQuery(ctx, authorsOf(objectID))
	if err != nil {
		return nil, fmt.Errorf("querying authors of %q: %w", objectID, err)
	}
	return toPersonRows(solutions), nil
}

// GetCulturalHeritageObjectsAuthoredBy returns the objects a person
// created, with every author of each.
func (c *Client) GetCulturalHeritageObjectsAuthoredBy(
	ctx context.Context, personID string,
) ([]domain.ObjectRow, error) {
	solutions, err := c.selectQuery(ctx, objectsAuthoredBy(personID))
	if err != nil {
		return nil, fmt.Errorf("querying objects authored by %q: %w", personID, err)
	}
	return toObjectRows(solutions), nil
}
