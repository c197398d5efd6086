package driver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/drivers/abstract"
	"github.com/inletio/inlet/drivers/base"
	"github.com/inletio/inlet/types"
)

func newTestREST(serverURL string) *REST {
	config := &Config{
		BaseURL:        serverURL,
		BearerToken:    "secret",
		Streams:        []StreamConfig{{Name: "users", Path: "/users", CursorField: "updated_at"}},
		PageSize:       100,
		MaxThreads:     1,
		RetryCount:     3,
		TimeoutSeconds: 5,
	}
	return &REST{
		Driver: base.NewBase(),
		client: NewClient(config),
		config: config,
	}
}

func usersStream() types.StreamInterface {
	return types.NewStream("users", restNamespace).Wrap()
}

func TestClientStatusClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/throttled":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`{"data":[]}`))
		}
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, TimeoutSeconds: 5})
	ctx := context.Background()

	_, err := client.Get(ctx, "/throttled", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, constants.ErrNonRetryable, "429 must stay retryable")

	_, err = client.Get(ctx, "/broken", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, constants.ErrNonRetryable, "5xx must stay retryable")

	_, err = client.Get(ctx, "/missing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrNonRetryable, "other 4xx is permanent")

	body, err := client.Get(ctx, "/users", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(body))
}

func TestClientSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, BearerToken: "secret", TimeoutSeconds: 5})
	_, err := client.Get(context.Background(), "/users", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestFetchPageHasMoreInference(t *testing.T) {
	responses := map[string]string{
		"":   `{"data":[{"id":1},{"id":2}],"next_page_token":"t2"}`,
		"t2": `{"data":[{"id":3}],"has_more":false,"next_page_token":"t3"}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(responses[r.URL.Query().Get("page_token")]))
	}))
	defer server.Close()

	rest := newTestREST(server.URL)
	ctx := context.Background()

	// token present, no explicit has_more
	page, err := rest.FetchPage(ctx, usersStream(), abstract.PageRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "t2", page.NextPageToken)

	// explicit has_more wins over the leftover token
	page, err = rest.FetchPage(ctx, usersStream(), abstract.PageRequest{PageSize: 2, PageToken: "t2"})
	require.NoError(t, err)
	assert.Len(t, page.Records, 1)
	assert.False(t, page.HasMore)
}

func TestFetchPageShortPageEndsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1}]}`))
	}))
	defer server.Close()

	rest := newTestREST(server.URL)
	page, err := rest.FetchPage(context.Background(), usersStream(), abstract.PageRequest{PageSize: 100})
	require.NoError(t, err)
	assert.False(t, page.HasMore, "short page without has_more means end-of-data")
}

func TestFetchPageMalformedEnvelopeFatal(t *testing.T) {
	cases := map[string]string{
		"invalid json": `not json at all`,
		"missing data": `{"next_page_token":"t2"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			rest := newTestREST(server.URL)
			_, err := rest.FetchPage(context.Background(), usersStream(), abstract.PageRequest{PageSize: 10})
			require.Error(t, err)
			assert.ErrorIs(t, err, constants.ErrNonRetryable)
		})
	}
}

func TestProduceSchemaInfersFromSample(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"ada","updated_at":"2025-08-12T15:00:00Z"}]}`))
	}))
	defer server.Close()

	rest := newTestREST(server.URL)
	stream, err := rest.ProduceSchema(context.Background(), "users")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"id", "name", "updated_at"}, stream.Schema.Columns())
	assert.Equal(t, "updated_at", stream.CursorField)
}

func TestProduceSchemaEmptySampleFailsDiscovery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	rest := newTestREST(server.URL)
	_, err := rest.ProduceSchema(context.Background(), "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows to sample")
}

func TestFetchPageSendsCursorParam(t *testing.T) {
	var gotCursor string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCursor = r.URL.Query().Get("updated_at")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	rest := newTestREST(server.URL)
	_, err := rest.FetchPage(context.Background(), usersStream(), abstract.PageRequest{
		Cursor:   "2025-08-12T15:00:00Z",
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-08-12T15:00:00Z", gotCursor)
}
