package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vineai/website/internal/requestctx"
)

func TestParseCloudTraceContext(t *testing.T) {
	t.Parallel()

	sc, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/1;o=1")
	require.True(t, ok)
	require.Equal(t, "105445aa7843bc8bf206b12000100000", sc.TraceID().String())
	require.Equal(t, "0000000000000001", sc.SpanID().String())
	require.True(t, sc.IsSampled())
	require.True(t, sc.IsRemote())

	for _, header := range []string{"", "abc/1", "105445aa7843bc8bf206b12000100000/x", "105445aa7843bc8bf206b12000100000/0"} {
		_, ok := parseCloudTraceContext(header)
		require.False(t, ok, header)
	}
}

func TestTraceMiddlewareStoresTraceInfo(t *testing.T) {
	t.Parallel()

	var got requestctx.TraceInfo
	handler := TraceMiddleware("vineai-prod")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = requestctx.Trace(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(cloudTraceHeader, "105445aa7843bc8bf206b12000100000/42;o=1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "vineai-prod", got.ProjectID)
	require.Equal(t, "105445aa7843bc8bf206b12000100000", got.TraceID)
	require.Equal(t, "105445aa7843bc8bf206b12000100000/42;o=1", rec.Header().Get(cloudTraceHeader))
}

func TestTraceMiddlewareWithoutHeader(t *testing.T) {
	t.Parallel()

	called := false
	handler := TraceMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := requestctx.Trace(r.Context())
		require.True(t, ok)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
}
