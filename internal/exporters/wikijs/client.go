package wikijs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/curator-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of attempts for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second
)

const createPageMutation = `mutation(
  $title: String!, $content: String!, $path: String!, $description: String!,
  $editor: String!, $locale: String!, $isPublished: Boolean!, $isPrivate: Boolean!,
  $tags: [String]!
) {
  pages {
    create(
      title: $title, content: $content, path: $path, description: $description,
      editor: $editor, locale: $locale, isPublished: $isPublished,
      isPrivate: $isPrivate, tags: $tags
    ) {
      responseResult { succeeded slug message }
      page { id path }
    }
  }
}`

// Page is the input of pages.create.
type Page struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Editor      string   `json:"editor"`
	Locale      string   `json:"locale"`
	IsPublished bool     `json:"isPublished"`
	IsPrivate   bool     `json:"isPrivate"`
	Tags        []string `json:"tags"`
}

// CreatedPage is the page Wiki.js reports after creation.
type CreatedPage struct {
	ID   int    `json:"id"`
	Path string `json:"path"`
}

type graphQLRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables"`
}

type createResponse struct {
	Data struct {
		Pages struct {
			Create struct {
				ResponseResult struct {
					Succeeded bool   `json:"succeeded"`
					Slug      string `json:"slug"`
					Message   string `json:"message"`
				} `json:"responseResult"`
				Page *CreatedPage `json:"page"`
			} `json:"create"`
		} `json:"pages"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Client talks to the Wiki.js GraphQL endpoint.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	attempts uint
	delay    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the base HTTP client. Its transport is wrapped to
// add the bearer token.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithRetry sets the attempt count and initial delay.
func WithRetry(attempts uint, delay time.Duration) ClientOption {
	return func(cl *Client) {
		if attempts > 0 {
			cl.attempts = attempts
		}
		cl.delay = delay
	}
}

// NewClient creates a client for the wiki at baseURL authenticating with an
// API token. requestsPerSecond throttles calls; zero or less disables it.
func NewClient(baseURL, token string, requestsPerSecond float64, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
		limiter:  rate.NewLimiter(rate.Inf, 1),
		attempts: MaxRetries,
		delay:    RetryDelay,
	}
	if requestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http = &http.Client{
		Timeout: c.http.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		},
	}
	return c
}

// Endpoint returns the GraphQL URL.
func (c *Client) Endpoint() string { return c.baseURL + "/graphql" }

// PageURL returns the public URL of a page path.
func (c *Client) PageURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// CreatePage runs the pages.create mutation.
func (c *Client) CreatePage(ctx context.Context, page Page) (*CreatedPage, error) {
	payload, err := json.Marshal(graphQLRequest{Query: createPageMutation, Variables: page})
	if err != nil {
		return nil, fmt.Errorf("wikijs: encode request: %w", err)
	}

	var created *CreatedPage
	err = retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			p, err := c.post(ctx, payload)
			if err != nil {
				if !isRetryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			created = p
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("Retrying Wiki.js publish (attempt %d): %v", n+1, err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) post(ctx context.Context, payload []byte) (*CreatedPage, error) {
	endpoint := c.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("wikijs: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body)), URL: endpoint}
	}

	var out createResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRejected, err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("%w: %w", ErrRejected, &APIError{Message: strings.Join(msgs, "; "), URL: endpoint})
	}

	result := out.Data.Pages.Create
	if !result.ResponseResult.Succeeded {
		return nil, fmt.Errorf("%w: %s", ErrRejected, result.ResponseResult.Message)
	}
	if result.Page == nil {
		return &CreatedPage{}, nil
	}
	return result.Page, nil
}
