package audit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteFromRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		target string
		want   string
	}{
		{"plain path", "/users", "/users"},
		{"query string stripped", "/search?q=secret", "/search"},
		{"nested path with query", "/api/v1/items?page=2&size=10", "/api/v1/items"},
		{"root", "/", "/"},
		{"root with query", "/?debug=1", "/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, tc.target, nil)
			assert.Equal(t, tc.want, routeFromRequest(r))
		})
	}

	t.Run("empty path becomes root", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/x", nil)
		r.URL.Path = ""
		assert.Equal(t, "/", routeFromRequest(r))
	})

	t.Run("raw path with fragment is cut", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/x", nil)
		r.URL.Path = "/page#section"
		assert.Equal(t, "/page", routeFromRequest(r))
	})
}

func TestFirstHeaderMatch(t *testing.T) {
	t.Parallel()

	t.Run("first non-empty match wins", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("X-Caller-ID", "caller-2")
		h.Set("X-API-Key-ID", "key-3")

		got := firstHeaderMatch(h, []string{"X-Org-ID", "X-Caller-ID", "X-API-Key-ID"})
		assert.Equal(t, "caller-2", got)
	})

	t.Run("absent headers yield empty string", func(t *testing.T) {
		t.Parallel()
		got := firstHeaderMatch(http.Header{}, []string{"X-Org-ID", "X-Caller-ID"})
		assert.Empty(t, got)
	})

	t.Run("whitespace-only value treated as absent", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("X-Org-ID", "   ")
		h.Set("X-Caller-ID", "caller-2")

		got := firstHeaderMatch(h, []string{"X-Org-ID", "X-Caller-ID"})
		assert.Equal(t, "caller-2", got)
	})

	t.Run("invalid utf8 treated as absent", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("X-Org-ID", string([]byte{0xff, 0xfe}))

		got := firstHeaderMatch(h, []string{"X-Org-ID"})
		assert.Empty(t, got)
	})

	t.Run("credential headers are never matched", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("Authorization", "Bearer token")

		got := firstHeaderMatch(h, []string{"Authorization"})
		assert.Empty(t, got)
	})
}

func TestHeaderMeta(t *testing.T) {
	t.Parallel()

	t.Run("intersects with allow-list", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("Content-Type", "application/json")
		h.Set("User-Agent", "test-client/1.0")
		h.Set("X-Internal-Secret", "do-not-leak")

		meta := headerMeta(h, []string{"Content-Type", "User-Agent"})
		assert.Equal(t, map[string]string{
			"Content-Type": "application/json",
			"User-Agent":   "test-client/1.0",
		}, meta)
	})

	t.Run("credential headers dropped even when allow-listed", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("Authorization", "Bearer token")
		h.Set("Cookie", "session=abc")
		h.Set("Set-Cookie", "session=abc")
		h.Set("X-Api-Key", "key")
		h.Set("Content-Type", "text/plain")

		meta := headerMeta(h, []string{"Authorization", "Cookie", "Set-Cookie", "X-Api-Key", "Content-Type"})
		assert.Equal(t, map[string]string{"Content-Type": "text/plain"}, meta)
	})

	t.Run("empty allow-list yields nil map", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("Content-Type", "application/json")

		assert.Nil(t, headerMeta(h, nil))
	})

	t.Run("missing headers are not included", func(t *testing.T) {
		t.Parallel()
		meta := headerMeta(http.Header{}, []string{"Content-Type", "Accept"})
		assert.Nil(t, meta)
	})
}
