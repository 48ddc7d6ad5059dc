package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestAssetsWithCache(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"site.css":   {Data: []byte("body{}")},
		"js/site.js": {Data: []byte("console.log(1)")},
	}
	h := AssetsWithCache(fsys, "/assets")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{}", rec.Body.String())
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/js/site.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.css", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/js/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssetVersionChangesWithContent(t *testing.T) {
	t.Parallel()

	a := AssetVersion(fstest.MapFS{"site.css": {Data: []byte("a")}})
	b := AssetVersion(fstest.MapFS{"site.css": {Data: []byte("b")}})
	require.Len(t, a, 12)
	require.NotEqual(t, a, b)
}
