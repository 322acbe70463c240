package hostrouter_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/pkg/hostrouter"
)

func answer(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}

func dispatch(t *testing.T, router *hostrouter.Router, host string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = host
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterExactHosts(t *testing.T) {
	t.Parallel()

	router := hostrouter.New(hostrouter.Routes{
		"uploads.acme.com": answer("uploads"),
		"cdn.acme.com":     answer("cdn"),
	}, http.NotFoundHandler())

	cases := []struct {
		name string
		host string
		body string
		code int
	}{
		{"first host", "uploads.acme.com", "uploads", http.StatusOK},
		{"second host", "cdn.acme.com", "cdn", http.StatusOK},
		{"host header case is ignored", "Uploads.ACME.com", "uploads", http.StatusOK},
		{"port is stripped before matching", "cdn.acme.com:8080", "cdn", http.StatusOK},
		{"unregistered host falls through", "evil.acme.com", "404 page not found\n", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := dispatch(t, router, tc.host)
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.body, w.Body.String())
		})
	}
}

func TestRouterWildcards(t *testing.T) {
	t.Parallel()

	router := hostrouter.New(hostrouter.Routes{
		"*.files.example.com":     answer("tenant"),
		"admin.files.example.com": answer("admin"),
	}, http.NotFoundHandler())

	cases := []struct {
		name string
		host string
		body string
	}{
		{"exact beats wildcard", "admin.files.example.com", "admin"},
		{"one label matches", "acme.files.example.com", "tenant"},
		{"another label matches", "globex.files.example.com", "tenant"},
		{"case folded before matching", "ACME.Files.Example.COM", "tenant"},
		{"bare parent is not covered", "files.example.com", "404 page not found\n"},
		{"two labels are not covered", "a.acme.files.example.com", "404 page not found\n"},
		{"sibling domain is not covered", "acme.files.example.org", "404 page not found\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.body, dispatch(t, router, tc.host).Body.String())
		})
	}
}

func TestRouterFallback(t *testing.T) {
	t.Parallel()

	router := hostrouter.New(hostrouter.Routes{
		"uploads.acme.com": answer("uploads"),
	}, answer("web"))

	require.Equal(t, "uploads", dispatch(t, router, "uploads.acme.com").Body.String())
	require.Equal(t, "web", dispatch(t, router, "www.acme.com").Body.String())
	require.Equal(t, "web", dispatch(t, router, "acme.com").Body.String())

	t.Run("no routes at all", func(t *testing.T) {
		t.Parallel()
		bare := hostrouter.New(hostrouter.Routes{}, answer("web"))
		require.Equal(t, "web", dispatch(t, bare, "uploads.acme.com").Body.String())
	})
}

func TestRouterPatternHygiene(t *testing.T) {
	t.Parallel()

	router := hostrouter.New(hostrouter.Routes{
		"  Uploads.ACME.com  ": answer("uploads"),
		"":                     answer("never"),
	}, http.NotFoundHandler())

	require.Equal(t, "uploads", dispatch(t, router, "uploads.acme.com").Body.String())
	require.Equal(t, http.StatusNotFound, dispatch(t, router, "").Code)
}

func TestRouterIPv6Hosts(t *testing.T) {
	t.Parallel()

	router := hostrouter.New(hostrouter.Routes{
		"[::1]": answer("loopback"),
	}, http.NotFoundHandler())

	require.Equal(t, "loopback", dispatch(t, router, "[::1]").Body.String())
	require.Equal(t, "loopback", dispatch(t, router, "[::1]:8080").Body.String(),
		"port after the bracket should be stripped")
}
