package tractorguru

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"brand/x", "/brand/x"},
		{"/brand/x/", "/brand/x"},
		{"//brand/x//", "/brand/x"},
		{"  /brand/x  ", "/brand/x"},
		{"/", "/"},
		{"", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), "NormalizePath(%q)", tt.in)
	}
}

func TestClient_Resolve(t *testing.T) {
	c := newTestClient(t, newFakeEngine(), nil)

	assert.Equal(t, "https://tractorguru.in/brand/x", c.resolve("/brand/x"))
	assert.Equal(t, "https://tractorguru.in/brand/x", c.resolve("brand/x"))
	assert.Equal(t, "https://tractorguru.in/brand/x", c.resolve("///brand/x"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", c.resolve("https://cdn.example.com/a.jpg"))
}

func TestClient_ToPath(t *testing.T) {
	c := newTestClient(t, newFakeEngine(), nil)

	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"/tractor-brands/mahindra/", "/tractor-brands/mahindra", true},
		{"tractor-brands/mahindra", "/tractor-brands/mahindra", true},
		{"https://tractorguru.in/brand/sonalika/", "/brand/sonalika", true},
		{"https://TractorGuru.in", "/", true},
		{"//tractorguru.in/brand/eicher", "/brand/eicher", true},
		{"/tractor/list?page=2#top", "/tractor/list?page=2", true},
		{"/tractor/list?sort=/", "/tractor/list?sort=/", true},
		{"/tractor/list/?next=/brand/x/", "/tractor/list?next=/brand/x/", true},
		{"/tractor/a b", "/tractor/a%20b", true},
		{"/tractor/a%20b/", "/tractor/a%20b", true},
		{"/", "/", true},
		{"https://example.com/brand/x", "", false},
		{"javascript:void(0)", "", false},
		{"mailto:info@tractorguru.in", "", false},
		{"#top", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := c.toPath(tt.href)
		assert.Equal(t, tt.ok, ok, "toPath(%q) ok", tt.href)
		assert.Equal(t, tt.want, got, "toPath(%q)", tt.href)
	}
}

func TestClient_SitePath(t *testing.T) {
	c := newTestClient(t, newFakeEngine(), nil)

	for _, in := range []string{
		"tractor-brands/mahindra",
		"/tractor-brands/mahindra/",
		"//tractor-brands/mahindra",
		"/tractor-brands/mahindra#models",
		"https://tractorguru.in/tractor-brands/mahindra/",
	} {
		got, ok := c.SitePath(in)
		require.True(t, ok, in)
		assert.Equal(t, "/tractor-brands/mahindra", got, in)
	}

	got, ok := c.SitePath("/tractor-brands/mahindra/?page=2")
	require.True(t, ok)
	assert.Equal(t, "/tractor-brands/mahindra?page=2", got)

	for _, in := range []string{"", "  ", "https://example.com/tractor-brands/mahindra"} {
		_, ok := c.SitePath(in)
		assert.False(t, ok, in)
	}
}

func TestAbsolute(t *testing.T) {
	page := "https://tractorguru.in/tractor-brands/mahindra"

	assert.Equal(t, "https://tractorguru.in/img/a.jpg", absolute(page, "/img/a.jpg"))
	assert.Equal(t, "https://tractorguru.in/tractor-brands/a.jpg", absolute(page, "a.jpg"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", absolute(page, "//cdn.example.com/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", absolute(page, "https://cdn.example.com/a.jpg"))
	assert.Equal(t, "", absolute(page, ""))
}

func TestClient_SitePathMatchesLinkForm(t *testing.T) {
	c := newTestClient(t, newFakeEngine(), nil)

	tests := []struct {
		input string
		href  string
		want  string
	}{
		{"/tractor/a b", "/tractor/a%20b", "/tractor/a%20b"},
		{"tractor/a%20b/", "https://tractorguru.in/tractor/a b", "/tractor/a%20b"},
		{"/tractor/list?sort=/", "/tractor/list/?sort=/", "/tractor/list?sort=/"},
		{"//tractor/list?next=/x/#top", "/tractor/list?next=/x/", "/tractor/list?next=/x/"},
	}
	for _, tt := range tests {
		fromInput, ok := c.SitePath(tt.input)
		require.True(t, ok, tt.input)
		fromHref, ok := c.toPath(tt.href)
		require.True(t, ok, tt.href)

		assert.Equal(t, tt.want, fromInput, "SitePath(%q)", tt.input)
		assert.Equal(t, tt.want, fromHref, "toPath(%q)", tt.href)
	}
}
