package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewClient(5*time.Second, logger)
}

func TestFetch_SendsConditionalHeaders(t *testing.T) {
	var gotETag, gotModified, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotETag = r.Header.Get("If-None-Match")
		gotModified = r.Header.Get("If-Modified-Since")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("User-Agent", "feedsync-test/1.0")

	res, err := testClient().Fetch(context.Background(), srv.URL, Options{
		ETag:         `"abc"`,
		LastModified: "Mon, 02 Jan 2006 15:04:05 GMT",
		Header:       header,
	})
	require.NoError(t, err)

	assert.Equal(t, `"abc"`, gotETag)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", gotModified)
	assert.Equal(t, "feedsync-test/1.0", gotUA)
	assert.True(t, res.WasModified)
	assert.Equal(t, []byte("body"), res.Body)
}

func TestFetch_OmitsConditionalHeadersWithoutValidators(t *testing.T) {
	var hadETag, hadModified bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadETag = r.Header["If-None-Match"]
		_, hadModified = r.Header["If-Modified-Since"]
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)
	assert.False(t, hadETag)
	assert.False(t, hadModified)
}

func TestFetch_NewValidatorsOnOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"fresh"`)
		w.Header().Set("Last-Modified", "Tue, 03 Jan 2006 15:04:05 GMT")
		w.Write([]byte("<rss/>"))
	}))
	defer srv.Close()

	res, err := testClient().Fetch(context.Background(), srv.URL, Options{ETag: `"stale"`})
	require.NoError(t, err)

	assert.True(t, res.WasModified)
	assert.Equal(t, `"fresh"`, res.ETag)
	assert.Equal(t, "Tue, 03 Jan 2006 15:04:05 GMT", res.LastModified)
}

func TestFetch_NotModifiedKeepsCachedValidators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A 304 must not contribute validators of its own.
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	res, err := testClient().Fetch(context.Background(), srv.URL, Options{
		ETag:         `"cached"`,
		LastModified: "Mon, 02 Jan 2006 15:04:05 GMT",
	})
	require.NoError(t, err)

	assert.False(t, res.WasModified)
	assert.Empty(t, res.Body)
	assert.Equal(t, `"cached"`, res.ETag)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", res.LastModified)
}

func TestFetch_PermanentRedirect(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("moved here"))
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusMovedPermanently)
	}))
	defer srv.Close()

	res, err := testClient().Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)

	assert.True(t, res.PermanentRedirect)
	assert.Equal(t, target.URL, res.FinalURL)
	assert.True(t, res.WasModified)
}

func TestFetch_PermanentRedirectToNotModified(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusPermanentRedirect)
	}))
	defer srv.Close()

	res, err := testClient().Fetch(context.Background(), srv.URL, Options{ETag: `"cached"`})
	require.NoError(t, err)

	// The chain's permanence survives even when the terminal hop is a 304.
	assert.True(t, res.PermanentRedirect)
	assert.Equal(t, target.URL, res.FinalURL)
	assert.False(t, res.WasModified)
	assert.Equal(t, `"cached"`, res.ETag)
}

func TestFetch_TemporaryRedirect(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("over here for now"))
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer srv.Close()

	res, err := testClient().Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)

	assert.False(t, res.PermanentRedirect)
	assert.Equal(t, target.URL, res.FinalURL)
}

func TestFetch_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), srv.URL, Options{})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testClient().Fetch(context.Background(), srv.URL, Options{})
	assert.Error(t, err)
}
