package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/pageqa"
	"github.com/fwojciec/pageqa/goquery"
	pageqahttp "github.com/fwojciec/pageqa/http"
	"github.com/fwojciec/pageqa/mock"
	"github.com/fwojciec/pageqa/qa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestServer(t *testing.T, svc *qa.Service) (*httptest.Server, *syncBuffer) {
	t.Helper()
	logs := &syncBuffer{}
	s := pageqahttp.NewServer()
	s.Logger = slog.New(slog.NewTextHandler(logs, nil))
	s.QAService = svc
	s.ContentService = svc
	s.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, logs
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func stubService() *qa.Service {
	return &qa.Service{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "<p>Cats are mammals.</p>", nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(_, baseURL string) (*pageqa.PageContent, error) {
				return &pageqa.PageContent{
					URL:      baseURL,
					Title:    "Cats",
					MainText: "Cats are mammals.",
					Links:    []pageqa.Link{{Text: "Dogs", Href: "https://example.com/dogs"}},
				}, nil
			},
		},
		Answerer: &mock.Answerer{
			AnswerFn: func(_ context.Context, _ *pageqa.PageContent, _ string) (string, error) {
				return "Cats are mammals.\n\n> Cats are mammals.", nil
			},
		},
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, stubService())

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-05-01T12:00:00Z", body["timestamp"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestServer_AskQuestion(t *testing.T) {
	t.Parallel()

	t.Run("returns formatted answer", func(t *testing.T) {
		t.Parallel()

		ts, logs := newTestServer(t, stubService())

		resp, body := post(t, ts.URL+"/ask-question", `{"url":"https://example.com/cats","question":"What are cats?"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.Equal(t, "Cats are mammals.", body["answer"])
		assert.Equal(t, "Cats", body["title"])
		assert.Equal(t, []any{"Cats are mammals."}, body["sourceQuotes"])
		assert.Len(t, body["relatedLinks"], 1)
		assert.Len(t, body["segments"], 2)
		assert.Contains(t, logs.String(), "path=/ask-question")
		assert.Contains(t, logs.String(), "status=200")
	})

	t.Run("connection refused is a fetch error", func(t *testing.T) {
		t.Parallel()

		svc := stubService()
		svc.Fetcher = pageqahttp.NewFetcher(pageqahttp.WithTimeout(time.Second))
		ts, logs := newTestServer(t, svc)

		resp, body := post(t, ts.URL+"/ask-question", `{"url":"`+closedServerURL(t)+`","question":"What is here?"}`)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, pageqa.EFETCH, body["kind"])
		assert.NotEmpty(t, body["message"])
		assert.NotContains(t, body["message"], "goroutine")
		assert.NotContains(t, body["message"], "dial")
		assert.Contains(t, logs.String(), "kind=FetchError")
		assert.Contains(t, logs.String(), "connection refused")
		assert.Contains(t, logs.String(), `question="What is here?"`)
	})

	t.Run("empty page is an extraction error", func(t *testing.T) {
		t.Parallel()

		page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
		}))
		defer page.Close()

		svc := stubService()
		svc.Fetcher = pageqahttp.NewFetcher()
		svc.Extractor = goquery.NewExtractor()
		ts, _ := newTestServer(t, svc)

		resp, body := post(t, ts.URL+"/ask-question", `{"url":"`+page.URL+`","question":"What is here?"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, pageqa.EEXTRACT, body["kind"])
	})

	t.Run("empty question is rejected before fetching", func(t *testing.T) {
		t.Parallel()

		fetched := false
		svc := stubService()
		svc.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				fetched = true
				return "", nil
			},
		}
		ts, _ := newTestServer(t, svc)

		resp, body := post(t, ts.URL+"/ask-question", `{"url":"https://example.com","question":""}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, pageqa.EINVALID, body["kind"])
		assert.False(t, fetched)
	})

	t.Run("no extractable content is 422", func(t *testing.T) {
		t.Parallel()

		svc := stubService()
		svc.Extractor = &mock.Extractor{
			ExtractFn: func(_, _ string) (*pageqa.PageContent, error) {
				return nil, pageqa.Errorf(pageqa.EEXTRACT, "page has no extractable content")
			},
		}
		ts, _ := newTestServer(t, svc)

		resp, body := post(t, ts.URL+"/ask-question", `{"url":"https://example.com","question":"Why?"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, pageqa.EEXTRACT, body["kind"])
		assert.Equal(t, "page has no extractable content", body["message"])
	})

	t.Run("malformed JSON is invalid input", func(t *testing.T) {
		t.Parallel()

		ts, _ := newTestServer(t, stubService())

		resp, body := post(t, ts.URL+"/ask-question", `{"url":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, pageqa.EINVALID, body["kind"])
	})
}

func TestServer_FetchContent(t *testing.T) {
	t.Parallel()

	t.Run("returns content per url", func(t *testing.T) {
		t.Parallel()

		ts, _ := newTestServer(t, stubService())

		resp, body := post(t, ts.URL+"/fetch-content", `{"urls":["https://example.com/a","https://example.com/b"]}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		content, ok := body["content"].([]any)
		require.True(t, ok)
		require.Len(t, content, 2)
		assert.Equal(t, "https://example.com/a", content[0].(map[string]any)["url"])
		assert.Equal(t, "https://example.com/b", content[1].(map[string]any)["url"])
	})

	t.Run("empty list is invalid input", func(t *testing.T) {
		t.Parallel()

		ts, _ := newTestServer(t, stubService())

		resp, body := post(t, ts.URL+"/fetch-content", `{"urls":[]}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, pageqa.EINVALID, body["kind"])
	})
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, stubService())

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/ask-question", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_OpenClose(t *testing.T) {
	t.Parallel()

	s := pageqahttp.NewServer()
	s.Addr = "127.0.0.1:0"
	s.Logger = slog.New(slog.NewTextHandler(&syncBuffer{}, nil))
	s.QAService = stubService()
	s.ContentService = stubService()
	require.NoError(t, s.Open())

	resp, err := http.Get(s.URL() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Close())
}

func TestErrorStatusCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, pageqahttp.ErrorStatusCode(pageqa.EINVALID))
	assert.Equal(t, http.StatusUnprocessableEntity, pageqahttp.ErrorStatusCode(pageqa.EEXTRACT))
	assert.Equal(t, http.StatusBadGateway, pageqahttp.ErrorStatusCode(pageqa.EFETCH))
	assert.Equal(t, http.StatusBadGateway, pageqahttp.ErrorStatusCode(pageqa.EANSWER))
	assert.Equal(t, http.StatusBadGateway, pageqahttp.ErrorStatusCode(pageqa.EFORMAT))
	assert.Equal(t, http.StatusInternalServerError, pageqahttp.ErrorStatusCode(pageqa.EINTERNAL))
	assert.Equal(t, http.StatusInternalServerError, pageqahttp.ErrorStatusCode("Unknown"))
}
