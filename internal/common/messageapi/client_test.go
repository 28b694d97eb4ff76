package messageapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BalRam15/Assignment-qa-services/internal/common/config"
	"github.com/BalRam15/Assignment-qa-services/internal/common/database"
	apperrors "github.com/BalRam15/Assignment-qa-services/internal/common/errors"
	httpclient "github.com/BalRam15/Assignment-qa-services/internal/common/http"
	"github.com/BalRam15/Assignment-qa-services/internal/common/logger"
	"github.com/BalRam15/Assignment-qa-services/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg Config, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(httpclient.NewClient(cfg.Timeout,
		httpclient.WithRetries(cfg.MaxRetries),
		httpclient.WithBaseBackoff(time.Millisecond),
	))}, opts...)
	return NewClient(cfg, logger.NewTestLogger(t), opts...)
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok, "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Single request
// ==========================

func TestFetchMessages_BareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["plain", {"memberName": "Alice", "text": "I have 2 cars"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second})
	messages, err := client.FetchMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.NewTextMessage("plain"), messages[0])
	assert.Equal(t, []string{"Alice"}, messages[1].Authors)
}

func TestFetchMessages_Envelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("skip"))
		_, _ = w.Write([]byte(`{"messages": [{"text": "a"}, {"text": "b"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second})
	messages, err := client.FetchMessages(context.Background())
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestFetchMessages_ForwardsRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second})
	_, err := client.FetchMessages(ContextWithRequestID(context.Background(), "req-42"))
	require.NoError(t, err)
}

// ==========================
// Paging
// ==========================

func pagedServer(t *testing.T, total int, withTotal bool, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		items := "["
		for i := skip; i < total && i < skip+limit; i++ {
			if i > skip {
				items += ","
			}
			items += fmt.Sprintf(`{"user_name": "u%d", "message": "m%d"}`, i, i)
		}
		items += "]"

		if withTotal {
			_, _ = fmt.Fprintf(w, `{"total": %d, "items": %s}`, total, items)
			return
		}
		_, _ = fmt.Fprintf(w, `{"items": %s}`, items)
	}))
}

func TestFetchMessages_PagesUntilTotal(t *testing.T) {
	var calls int32
	server := pagedServer(t, 4, true, &calls)
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second, PageSize: 2, MaxPages: 10})
	messages, err := client.FetchMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, "m3", messages[3].Text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchMessages_PagesUntilShortPage(t *testing.T) {
	var calls int32
	server := pagedServer(t, 5, false, &calls)
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second, PageSize: 2, MaxPages: 10})
	messages, err := client.FetchMessages(context.Background())
	require.NoError(t, err)
	assert.Len(t, messages, 5)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchMessages_StopsAtMaxPages(t *testing.T) {
	var calls int32
	server := pagedServer(t, 100, true, &calls)
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second, PageSize: 10, MaxPages: 3})
	messages, err := client.FetchMessages(context.Background())
	require.NoError(t, err)
	assert.Len(t, messages, 30)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

// ==========================
// Failures
// ==========================

func TestFetchMessages_ServerErrorRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second, MaxRetries: 2})
	_, err := client.FetchMessages(context.Background())
	requireCode(t, err, apperrors.ErrCodeMessageFetchFailed)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Contains(t, err.(*apperrors.StandardError).Details, "500")
}

func TestFetchMessages_NotFoundNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second, MaxRetries: 2})
	_, err := client.FetchMessages(context.Background())
	requireCode(t, err, apperrors.ErrCodeMessageFetchFailed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchMessages_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: 50 * time.Millisecond, MaxRetries: 1})
	_, err := client.FetchMessages(context.Background())
	requireCode(t, err, apperrors.ErrCodeMessageFetchTimeout)
}

func TestFetchMessages_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second})
	_, err := client.FetchMessages(context.Background())
	requireCode(t, err, apperrors.ErrCodeMessageDecodeFailed)
	assert.True(t, errors.Is(err, models.ErrUnknownEnvelope))
}

func TestFetchMessages_Unreachable(t *testing.T) {
	client := newTestClient(t, Config{URL: "http://127.0.0.1:1/messages", Timeout: time.Second, MaxRetries: 1})
	_, err := client.FetchMessages(context.Background())
	require.Error(t, err)
	_, ok := apperrors.AsStandardError(err)
	assert.True(t, ok)
}

// ==========================
// Cache
// ==========================

func TestFetchMessages_RedisCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"messages": ["Alice has 2 cars"]}`))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	redis, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer redis.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second, CacheTTL: time.Minute}, WithCache(redis))

	for i := 0; i < 3; i++ {
		messages, err := client.FetchMessages(context.Background())
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "Alice has 2 cars", messages[0].Text)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists(CacheKey(server.URL)))

	mr.FastForward(2 * time.Minute)
	_, err = client.FetchMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

type brokenCache struct{}

func (brokenCache) Lookup(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) Store(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestFetchMessages_CacheFailureIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["hello"]`))
	}))
	defer server.Close()

	client := newTestClient(t, Config{URL: server.URL, Timeout: time.Second, CacheTTL: time.Minute}, WithCache(brokenCache{}))
	messages, err := client.FetchMessages(context.Background())
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "messages:http://x/messages", CacheKey("http://x/messages"))
}
