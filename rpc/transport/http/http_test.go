package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := &httpServerTransport{}
	st.RegisterHandler(func(req []byte) []byte {
		return append([]byte("echo:"), req...)
	})
	st.RegisterRoutes(func(r chi.Router) {
		r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("extra"))
		})
	})
	srv := httptest.NewServer(st.Router())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestClientServerRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	ct := NewHttpClientTransport()
	require.NoError(t, ct.Connect(common.ClientConfig{
		Endpoints:     []string{srv.URL},
		TimeoutSecond: 2,
		RetryCount:    1,
	}))
	defer ct.Close()

	resp, err := ct.Send([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, "echo:ping", string(resp))
}

func TestEndpointWithoutScheme(t *testing.T) {
	srv := newTestServer(t)

	ct := NewHttpClientTransport()
	require.NoError(t, ct.Connect(common.ClientConfig{
		Endpoints:     []string{srv.Listener.Addr().String()},
		TimeoutSecond: 2,
	}))
	defer ct.Close()

	resp, err := ct.Send([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "echo:x", string(resp))
}

func TestBuiltinAndRegisteredRoutes(t *testing.T) {
	srv := newTestServer(t)

	code, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, _ = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)

	code, body = get(t, srv.URL+"/extra")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "extra", body)

	// the rpc endpoint only accepts POST
	code, _ = get(t, srv.URL+RPCPath)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestClientErrors(t *testing.T) {
	ct := NewHttpClientTransport()

	_, err := ct.Send([]byte("x"))
	assert.Error(t, err, "send before connect")

	assert.Error(t, ct.Connect(common.ClientConfig{}))

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	require.NoError(t, ct.Connect(common.ClientConfig{Endpoints: []string{srv.URL}, RetryCount: 2}))
	_, err = ct.Send([]byte("x"))
	assert.ErrorContains(t, err, "404")
}
