package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill/internal"
)

func TestExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/items/7?token=from-query", nil)
	req.Header.Set("X-Token", "from-header")
	req.Header.Set("Authorization", "bearer from-bearer")
	req.AddCookie(&http.Cookie{Name: "awesession", Value: "from-cookie"})

	requestVia(t, "/items/{id}", req, nil, func(c internal.Context) error {
		tests := []struct {
			name    string
			source  internal.ExtractorSource
			want    string
			wantHit bool
		}{
			{name: "header", source: internal.FromHeader("X-Token"), want: "from-header", wantHit: true},
			{name: "missing header", source: internal.FromHeader("X-Missing")},
			{name: "query", source: internal.FromQuery("token"), want: "from-query", wantHit: true},
			{name: "cookie", source: internal.FromCookie("awesession"), want: "from-cookie", wantHit: true},
			{name: "missing cookie", source: internal.FromCookie("other")},
			{name: "param", source: internal.FromParam("id"), want: "7", wantHit: true},
			{name: "bearer", source: internal.FromBearerToken(), want: "from-bearer", wantHit: true},
		}
		for _, tt := range tests {
			v, ok := tt.source(c)
			require.Equal(t, tt.wantHit, ok, tt.name)
			require.Equal(t, tt.want, v, tt.name)
		}

		v, ok := internal.NewExtractor(
			internal.FromHeader("X-Missing"),
			internal.FromCookie("awesession"),
			internal.FromQuery("token"),
		).Extract(c)
		require.True(t, ok)
		require.Equal(t, "from-cookie", v)

		_, ok = internal.NewExtractor(internal.FromQuery("nope")).Extract(c)
		require.False(t, ok)

		_, ok = internal.NewExtractor().Extract(c)
		require.False(t, ok)
		return nil
	})
}

func TestFromBearerTokenRejectsOtherSchemes(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bear"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		requestVia(t, "/", req, nil, func(c internal.Context) error {
			_, ok := internal.FromBearerToken()(c)
			require.False(t, ok, header)
			return nil
		})
	}
}
