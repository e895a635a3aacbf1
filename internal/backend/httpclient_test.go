package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	clierrors "paperassist/cli/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDispatchAttachesBearerAndRequestID(t *testing.T) {
	fs, srv := newFakeService(t)
	api := New(srv.URL, &fakeCreds{token: "abc"})

	papers, err := api.ListPapers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)

	h := fs.header(PathListPapers)
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))
	assert.Equal(t, "application/json", h.Get("Accept"))
	_, err = uuid.Parse(h.Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestDispatchReadsTokenPerCall(t *testing.T) {
	fs, srv := newFakeService(t)
	creds := &fakeCreds{token: "abc"}
	api := New(srv.URL, creds)

	_, err := api.ListModels(context.Background())
	require.NoError(t, err)

	fs.set(func(fs *fakeService) { fs.token = "rotated" })
	creds.mu.Lock()
	creds.token = "rotated"
	creds.mu.Unlock()

	_, err = api.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer rotated", fs.header(PathModels).Get("Authorization"))
}

func TestDispatchUnauthorizedInvalidates(t *testing.T) {
	fs, srv := newFakeService(t)
	creds := &fakeCreds{token: "stale"}
	api := New(srv.URL, creds)

	_, err := api.ListModels(context.Background())
	require.Error(t, err)
	assert.True(t, clierrors.Is(err, clierrors.Unauthorized))

	var e *clierrors.E
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusUnauthorized, e.Status)
	assert.Contains(t, e.Body, "Could not validate credentials")

	assert.Equal(t, 1, creds.invalidations())
	_, ok := creds.Token()
	assert.False(t, ok)

	// next protected call is rejected without reaching the service
	_, err = api.ListPapers(context.Background())
	assert.True(t, errors.Is(err, clierrors.ErrNotLoggedIn))
	assert.Equal(t, 0, fs.hitCount(PathListPapers))
	assert.Equal(t, 1, fs.hitCount(PathModels))
}

func TestDispatchWithoutTokenSendsNothing(t *testing.T) {
	fs, srv := newFakeService(t)
	creds := &fakeCreds{}
	api := New(srv.URL, creds)

	_, err := api.SummarizeFull(context.Background(), "p-1", "phi3:mini")
	require.Error(t, err)
	assert.True(t, clierrors.Is(err, clierrors.Unauthorized))
	assert.True(t, errors.Is(err, clierrors.ErrNotLoggedIn))
	assert.Equal(t, 0, fs.hitCount(PathSummarizeFull))
	assert.Equal(t, 0, creds.invalidations())
}

func TestDispatchRequestFailedKeepsBody(t *testing.T) {
	_, srv := newFakeService(t)
	creds := &fakeCreds{token: "abc"}
	api := New(srv.URL, creds)

	_, err := api.SummarizeFull(context.Background(), "p-1", "bogus")
	require.Error(t, err)

	var e *clierrors.E
	require.True(t, errors.As(err, &e))
	assert.Equal(t, clierrors.RequestFailed, e.Kind)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Contains(t, e.Body, "Invalid model")

	// non-401 failures leave the session alone
	assert.Equal(t, 0, creds.invalidations())
	_, ok := creds.Token()
	assert.True(t, ok)
}

func TestDispatchDecodeError(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.set(func(fs *fakeService) { fs.badJSON = true })
	api := New(srv.URL, &fakeCreds{token: "abc"})

	_, err := api.ListModels(context.Background())
	require.Error(t, err)

	var e *clierrors.E
	require.True(t, errors.As(err, &e))
	assert.Equal(t, clierrors.DecodeError, e.Kind)
	assert.Equal(t, http.StatusOK, e.Status)
	assert.Equal(t, "<html>maintenance</html>", e.Body)
	assert.Error(t, e.Err)
}

func TestTransportError(t *testing.T) {
	_, srv := newFakeService(t)
	url := srv.URL
	srv.Close()

	creds := &fakeCreds{token: "abc"}
	api := New(url, creds)

	_, err := api.Health(context.Background())
	assert.True(t, clierrors.Is(err, clierrors.Transport))

	_, err = api.ListPapers(context.Background())
	assert.True(t, clierrors.Is(err, clierrors.Transport))
	assert.Equal(t, 0, creds.invalidations())
}

func TestWithTimeout(t *testing.T) {
	base := &http.Client{}
	h := newHTTP("http://x", &fakeCreds{}, WithHTTPClient(base), WithTimeout(time.Second))
	assert.Equal(t, time.Second, h.client.Timeout)
	assert.Zero(t, base.Timeout)

	h = newHTTP("http://x/", &fakeCreds{}, WithTimeout(0))
	assert.Zero(t, h.client.Timeout)
	assert.Equal(t, "http://x", h.baseURL)
}

func TestConcurrentCalls(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.set(func(fs *fakeService) { fs.papers = []Paper{{ID: "p-1", Title: "Graph Neural Networks"}} })
	api := New(srv.URL, &fakeCreds{token: "abc"})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			papers, err := api.ListPapers(context.Background())
			if err == nil && len(papers) != 1 {
				err = errors.New("unexpected paper count")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 20, fs.hitCount(PathListPapers))
}

func TestConcurrentUnauthorized(t *testing.T) {
	_, srv := newFakeService(t)
	creds := &fakeCreds{token: "stale"}
	api := New(srv.URL, creds)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := api.ListModels(context.Background())
			assert.True(t, clierrors.Is(err, clierrors.Unauthorized))
		}()
	}
	wg.Wait()

	_, ok := creds.Token()
	assert.False(t, ok)
	assert.GreaterOrEqual(t, creds.invalidations(), 1)
}

func TestDispatchSpans(t *testing.T) {
	_, srv := newFakeService(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	api := New(srv.URL, &fakeCreds{token: "abc"}, WithTracerProvider(tp))
	_, err := api.ListModels(context.Background())
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "paperassist.dispatch", spans[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "GET", attrs["http.request.method"].AsString())
	assert.Equal(t, PathModels, attrs["url.path"].AsString())
	assert.True(t, attrs["paperassist.authenticated"].AsBool())
	assert.Equal(t, int64(200), attrs["http.response.status_code"].AsInt64())
}

type recordingObserver struct {
	mu      sync.Mutex
	samples []string
}

func (o *recordingObserver) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.samples = append(o.samples, fmt.Sprintf("%s %s %d", method, path, status))
}

func TestObserver(t *testing.T) {
	_, srv := newFakeService(t)
	obs := &recordingObserver{}
	api := New(srv.URL, &fakeCreds{token: "stale"}, WithObserver(obs))

	_, _ = api.ListModels(context.Background())
	// rejected locally after the 401, so not observed
	_, _ = api.ListPapers(context.Background())
	_, _ = api.Health(context.Background())

	assert.Equal(t, []string{"GET /models/ 401", "GET / 200"}, obs.samples)
}
