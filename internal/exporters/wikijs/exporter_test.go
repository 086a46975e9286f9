package wikijs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// wiki records the requests a fake Wiki.js receives.
type wiki struct {
	calls    atomic.Int32
	mu       sync.Mutex
	auth     string
	request  graphQLRequest
	page     Page
	response func(n int32, w http.ResponseWriter)
}

func (f *wiki) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := f.calls.Add(1)
		assert.Equal(t, "/graphql", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var raw struct {
			Query     string `json:"query"`
			Variables Page   `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		f.mu.Lock()
		f.auth = r.Header.Get("Authorization")
		f.request.Query = raw.Query
		f.page = raw.Variables
		f.mu.Unlock()

		if f.response != nil {
			f.response(n, w)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"pages":{"create":{
			"responseResult":{"succeeded":true,"slug":"ok","message":"Page created"},
			"page":{"id":7,"path":"imports/thesis"}}}}}`))
	}
}

func (f *wiki) last() (string, graphQLRequest, Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth, f.request, f.page
}

func newWiki(t *testing.T, f *wiki) *Client {
	t.Helper()
	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", "token-123", 0, WithRetry(3, time.Millisecond))
}

func testDoc() domain.ExportDocument {
	return domain.ExportDocument{
		DocumentID: "doc",
		Title:      "Thesis",
		Blocks: []domain.Block{
			{ID: "h", Type: domain.BlockTypeHeading, Content: "Intro"},
			{ID: "t", Type: domain.BlockTypeText, Content: "Body."},
		},
	}
}

func TestExporter_Export(t *testing.T) {
	fake := &wiki{}
	client := newWiki(t, fake)
	exp := New(client, "/imports/", "de")

	artifact, err := exp.Export(context.Background(), testDoc())
	require.NoError(t, err)

	assert.Equal(t, domain.ExportFormatWikiJS, artifact.Format)
	assert.Equal(t, client.PageURL("imports/thesis"), artifact.Location)
	assert.Equal(t, 2, artifact.BlockCount)

	auth, request, page := fake.last()
	assert.Equal(t, "Bearer token-123", auth)
	assert.Contains(t, request.Query, "pages {")
	assert.Equal(t, "Thesis", page.Title)
	assert.Equal(t, "imports/thesis", page.Path)
	assert.Equal(t, "# Thesis\n\n## Intro\n\nBody.\n", page.Content)
	assert.Equal(t, "markdown", page.Editor)
	assert.Equal(t, "de", page.Locale)
	assert.True(t, page.IsPublished)
	assert.False(t, page.IsPrivate)
	assert.Equal(t, DefaultTags, page.Tags)
}

func TestExporter_RetriesServerErrors(t *testing.T) {
	fake := &wiki{response: func(n int32, w http.ResponseWriter) {
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"pages":{"create":{"responseResult":{"succeeded":true},"page":null}}}}`))
	}}
	exp := New(newWiki(t, fake), "imports", "")

	artifact, err := exp.Export(context.Background(), testDoc())
	require.NoError(t, err)

	assert.Equal(t, int32(2), fake.calls.Load())
	assert.Contains(t, artifact.Location, "/imports/thesis")
	_, _, page := fake.last()
	assert.Equal(t, "en", page.Locale)
}

func TestExporter_Errors(t *testing.T) {
	tests := []struct {
		name      string
		respond   func(w http.ResponseWriter)
		wantCalls int32
		check     func(t *testing.T, err error)
	}{
		{
			name: "unauthorized",
			respond: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				assert.True(t, IsUnauthorized(err))
			},
		},
		{
			name: "graphql errors",
			respond: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`{"errors":[{"message":"Forbidden"},{"message":"Bad path"}]}`))
			},
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrRejected)
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "Forbidden; Bad path", apiErr.Message)
			},
		},
		{
			name: "not succeeded",
			respond: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`{"data":{"pages":{"create":{"responseResult":{"succeeded":false,"message":"Path exists"}}}}}`))
			},
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrRejected)
				assert.Contains(t, err.Error(), "Path exists")
			},
		},
		{
			name: "server keeps failing",
			respond: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantCalls: 3,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &wiki{response: func(_ int32, w http.ResponseWriter) { tt.respond(w) }}
			exp := New(newWiki(t, fake), "imports", "en")

			_, err := exp.Export(context.Background(), testDoc())

			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, tt.wantCalls, fake.calls.Load())
		})
	}
}

func TestClient_RateLimit(t *testing.T) {
	fake := &wiki{}
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "t", 20)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.CreatePage(context.Background(), Page{Title: "x"})
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond, "three calls at 20/s take at least two intervals")
}

func TestClient_CancelledContext(t *testing.T) {
	fake := &wiki{}
	client := newWiki(t, fake)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreatePage(ctx, Page{})

	assert.Error(t, err)
	assert.Equal(t, int32(0), fake.calls.Load())
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Thesis":              "thesis",
		"My Thesis 2024":      "my-thesis-2024",
		"  Résumé & Notes!  ": "rsum--notes",
		"":                    "untitled",
		"???":                 "untitled",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestExporter_PagePath(t *testing.T) {
	assert.Equal(t, "imports/a-b", New(nil, "/imports/", "").PagePath("A B"))
	assert.Equal(t, "a-b", New(nil, "", "").PagePath("A B"))
}
