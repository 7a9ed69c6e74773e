package tractorguru

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/tractorguru/engine"
	"github.com/use-agent/tractorguru/models"
)

const testBase = "https://tractorguru.in"

// fakeEngine serves canned pages by absolute URL and counts fetches.
// Unknown URLs answer 404.
type fakeEngine struct {
	mu     sync.Mutex
	pages  map[string]string
	status map[string]int
	finals map[string]string
	calls  map[string]int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		pages:  make(map[string]string),
		status: make(map[string]int),
		finals: make(map[string]string),
		calls:  make(map[string]int),
	}
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[req.URL]++
	if code, ok := f.status[req.URL]; ok {
		return nil, &engine.StatusError{StatusCode: code, URL: req.URL}
	}
	page, ok := f.pages[req.URL]
	if !ok {
		return nil, &engine.StatusError{StatusCode: http.StatusNotFound, URL: req.URL}
	}
	final := req.URL
	if to, ok := f.finals[req.URL]; ok {
		final = to
	}
	return &engine.FetchResult{HTML: page, StatusCode: http.StatusOK, FinalURL: final, EngineName: "fake"}, nil
}

// redirect makes path report finalPath as the URL it was served from.
func (f *fakeEngine) redirect(path, finalPath string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finals[testBase+path] = testBase + finalPath
}

func (f *fakeEngine) serve(path, page string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[testBase+path] = page
}

func (f *fakeEngine) fail(path string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[testBase+path] = code
}

func (f *fakeEngine) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[testBase+path]
}

func (f *fakeEngine) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestClient(t *testing.T, eng engine.Engine, now func() time.Time) *Client {
	t.Helper()
	c, err := New(Options{BaseURL: testBase, Engine: eng, Now: now})
	require.NoError(t, err)
	return c
}

// padded makes a page large enough to count as a brand listing.
func padded(body string) string {
	return "<html><body>" + body + "<p>" + strings.Repeat("tractor ", 80) + "</p></body></html>"
}

const brandListing = `
	<ul>
		<li><a href="/tractor-brands/mahindra/">Mahindra</a></li>
		<li><a href="https://tractorguru.in/tractor-brands/mahindra">Mahindra Tractors</a></li>
		<li><a href="/tractor-brands/swaraj">Swaraj</a></li>
		<li><a href="/tractor-brands/x">X</a></li>
		<li><a href="/tractor-brands/link">http://tractorguru.in</a></li>
		<li><a href="https://example.com/tractor-brands/kubota">Kubota</a></li>
	</ul>`

func TestBrands_FirstWinsAndFilters(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands", padded(brandListing))
	c := newTestClient(t, fe, nil)

	brands, err := c.Brands(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Brand{
		{Name: "Mahindra", Path: "/tractor-brands/mahindra", URL: testBase + "/tractor-brands/mahindra"},
		{Name: "Swaraj", Path: "/tractor-brands/swaraj", URL: testBase + "/tractor-brands/swaraj"},
	}, brands)
	assert.Equal(t, 0, fe.count("/tractor-brand"), "later candidates are not tried after a usable page")
}

func TestBrands_SkipsUnusableCandidates(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands", `<html><body><a href="/brand/tiny">Tiny</a></body></html>`)
	fe.fail("/tractor-brand", http.StatusInternalServerError)
	fe.serve("/tractor/brands", padded(`<a href="/brand/eicher">Eicher</a>`))
	c := newTestClient(t, fe, nil)

	brands, err := c.Brands(context.Background())
	require.NoError(t, err)

	require.Len(t, brands, 1)
	assert.Equal(t, "Eicher", brands[0].Name)
	assert.Equal(t, "/brand/eicher", brands[0].Path)
	assert.Equal(t, 1, fe.count("/tractor-brands"))
	assert.Equal(t, 1, fe.count("/tractor-brand"))
	assert.Equal(t, 1, fe.count("/tractor/brands"))
}

func TestBrands_CachedWithinTTL(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands", padded(brandListing))
	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := newTestClient(t, fe, clock.Now)

	first, err := c.Brands(context.Background())
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	second, err := c.Brands(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fe.total())

	clock.Advance(time.Hour)
	_, err = c.Brands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fe.count("/tractor-brands"), "expired entries trigger exactly one new fetch")
}

func TestBrands_ListingWithoutBrandsIsCached(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands", padded(`<a href="/about">About us</a>`))
	c := newTestClient(t, fe, nil)

	for i := 0; i < 2; i++ {
		brands, err := c.Brands(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, brands)
		assert.Empty(t, brands)
	}
	assert.Equal(t, 1, fe.total())
}

func TestBrands_UpstreamDownIsEmptyNotError(t *testing.T) {
	fe := newFakeEngine()
	c := newTestClient(t, fe, nil)

	brands, err := c.Brands(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)

	_, err = c.Brands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fe.count("/tractor-brands"), "an empty result from failed fetches is not cached")
	assert.Equal(t, 6, fe.total())
}

func TestBrands_CancelledContext(t *testing.T) {
	fe := newFakeEngine()
	c := newTestClient(t, fe, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Brands(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBrands_ResultIsACopy(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands", padded(brandListing))
	c := newTestClient(t, fe, nil)

	brands, err := c.Brands(context.Background())
	require.NoError(t, err)
	brands[0].Name = "changed"

	again, err := c.Brands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mahindra", again[0].Name)
}

const mahindraPage = `
	<html><body>
		<li class="model-row">
			<img src="/img/yuvo.jpg">
			<a href="/mahindra/yuvo-575">Yuvo 575</a>
			<span>₹ 7.1 Lakh*</span>
		</li>
		<a href="/tractor/mahindra-575-di">Mahindra 575 DI</a>
		<a href="/tractor/mahindra-275-di">Mahindra 275 DI</a>
		<a href="https://tractorguru.in/tractor/mahindra-575-di/">Mahindra 575 DI XP Plus</a>
		<a href="https://example.com/tractor/foreign">Foreign</a>
		<a href="/tractor/no-name"><img src="/x.png"></a>
	</body></html>`

func TestBrandModels_LastWinsKeepsFirstPosition(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands/mahindra", mahindraPage)
	c := newTestClient(t, fe, nil)

	list, err := c.BrandModels(context.Background(), "/tractor-brands/mahindra")
	require.NoError(t, err)

	assert.Equal(t, []models.Model{
		{
			Name:      "Yuvo 575",
			Path:      "/mahindra/yuvo-575",
			URL:       testBase + "/mahindra/yuvo-575",
			Thumbnail: testBase + "/img/yuvo.jpg",
			Price:     "₹ 7.1 Lakh*",
		},
		{
			Name: "Mahindra 575 DI XP Plus",
			Path: "/tractor/mahindra-575-di",
			URL:  testBase + "/tractor/mahindra-575-di",
		},
		{
			Name: "Mahindra 275 DI",
			Path: "/tractor/mahindra-275-di",
			URL:  testBase + "/tractor/mahindra-275-di",
		},
	}, list)
}

func TestBrandModels_PathEquivalence(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands/mahindra", mahindraPage)
	c := newTestClient(t, fe, nil)

	var results [][]models.Model
	for _, p := range []string{
		"/tractor-brands/mahindra",
		"tractor-brands/mahindra",
		"/tractor-brands/mahindra/",
		testBase + "/tractor-brands/mahindra/",
	} {
		list, err := c.BrandModels(context.Background(), p)
		require.NoError(t, err, p)
		results = append(results, list)
	}

	for _, r := range results[1:] {
		assert.Equal(t, results[0], r)
	}
	assert.Equal(t, 1, fe.total())
}

func TestBrandModels_EscapedAndLiteralPathShareOneFetch(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands/new%20holland", mahindraPage)
	c := newTestClient(t, fe, nil)

	first, err := c.BrandModels(context.Background(), "/tractor-brands/new holland")
	require.NoError(t, err)
	second, err := c.BrandModels(context.Background(), "/tractor-brands/new%20holland/")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fe.total())
}

func TestBrandModels_QueryKeptVerbatim(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands/mahindra?sort=/", mahindraPage)
	c := newTestClient(t, fe, nil)

	list, err := c.BrandModels(context.Background(), "/tractor-brands/mahindra/?sort=/")
	require.NoError(t, err)
	assert.NotEmpty(t, list)
	assert.Equal(t, 1, fe.count("/tractor-brands/mahindra?sort=/"))
}

func TestBrandModels_EmptyListingIsCached(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands/new", `<html><body><p>No models yet</p></body></html>`)
	c := newTestClient(t, fe, nil)

	for i := 0; i < 2; i++ {
		list, err := c.BrandModels(context.Background(), "/tractor-brands/new")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}
	assert.Equal(t, 1, fe.total())
}

func TestBrandModels_InvalidPath(t *testing.T) {
	c := newTestClient(t, newFakeEngine(), nil)

	for _, p := range []string{"", "   ", "https://example.com/tractor-brands/mahindra"} {
		_, err := c.BrandModels(context.Background(), p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestBrandModels_FetchErrorPropagates(t *testing.T) {
	fe := newFakeEngine()
	c := newTestClient(t, fe, nil)

	_, err := c.BrandModels(context.Background(), "/tractor-brands/missing")
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, testBase+"/tractor-brands/missing", fetchErr.URL)

	var statusErr *engine.StatusError
	assert.True(t, errors.As(err, &statusErr), "the engine error stays reachable")

	_, err = c.BrandModels(context.Background(), "/tractor-brands/missing")
	require.Error(t, err)
	assert.Equal(t, 2, fe.total(), "failures are not cached")
}

func modelPage(images int) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>Swaraj 744 FE Price</title></head><body>`)
	b.WriteString(`<h1>Swaraj 744 FE</h1>`)
	b.WriteString(`<table>
		<tr><td>Engine</td><td>45HP</td></tr>
		<tr><td>Gears</td><td>8 Forward + 2 Reverse</td></tr>
		<tr><td>Engine</td><td>50HP</td></tr>
	</table>`)
	for i := 0; i < images; i++ {
		fmt.Fprintf(&b, `<img src="/img/744-%d.jpg">`, i)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func TestModelDetails(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor/swaraj-744-fe", modelPage(14))
	c := newTestClient(t, fe, nil)

	detail, err := c.ModelDetails(context.Background(), "tractor/swaraj-744-fe/")
	require.NoError(t, err)

	assert.Equal(t, "Swaraj 744 FE", detail.Title)
	assert.Equal(t, "/tractor/swaraj-744-fe", detail.Path)
	assert.Equal(t, testBase+"/tractor/swaraj-744-fe", detail.URL)

	engineSpec, ok := detail.Specs.Get("Engine")
	require.True(t, ok)
	assert.Equal(t, "50HP", engineSpec)
	assert.Equal(t, 2, detail.Specs.Len())
	assert.Equal(t, "Engine", detail.Specs.Oldest().Key)

	require.Len(t, detail.Images, models.MaxImages)
	assert.Equal(t, testBase+"/img/744-0.jpg", detail.Images[0])
	assert.Equal(t, testBase+"/img/744-9.jpg", detail.Images[9])
}

func TestModelDetails_FewImages(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor/swaraj-744-fe", modelPage(3))
	c := newTestClient(t, fe, nil)

	detail, err := c.ModelDetails(context.Background(), "/tractor/swaraj-744-fe")
	require.NoError(t, err)
	assert.Len(t, detail.Images, 3)
}

func TestModelDetails_CacheAndExpiry(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor/swaraj-744-fe", modelPage(1))
	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := newTestClient(t, fe, clock.Now)

	first, err := c.ModelDetails(context.Background(), "/tractor/swaraj-744-fe")
	require.NoError(t, err)
	second, err := c.ModelDetails(context.Background(), "/tractor/swaraj-744-fe/")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, fe.total())

	clock.Advance(DefaultCacheTTL)
	_, err = c.ModelDetails(context.Background(), "/tractor/swaraj-744-fe")
	require.NoError(t, err)
	assert.Equal(t, 2, fe.total())
}

func TestClient_RelativeURLsFollowRedirects(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor/swaraj-744", `<h1>Swaraj 744 FE</h1><img src="img/744.jpg">`)
	fe.redirect("/tractor/swaraj-744", "/tractor/swaraj/744-fe")
	fe.serve("/tractor-brands/swaraj", `<div class="model-card"><a href="/swaraj/744-fe">744 FE</a><img src="thumb.jpg"></div>`)
	fe.redirect("/tractor-brands/swaraj", "/brands/swaraj/")
	c := newTestClient(t, fe, nil)

	detail, err := c.ModelDetails(context.Background(), "/tractor/swaraj-744")
	require.NoError(t, err)
	assert.Equal(t, testBase+"/tractor/swaraj-744", detail.URL, "the requested page stays the identity")
	assert.Equal(t, []string{testBase + "/tractor/swaraj/img/744.jpg"}, detail.Images)

	list, err := c.BrandModels(context.Background(), "/tractor-brands/swaraj")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, testBase+"/brands/swaraj/thumb.jpg", list[0].Thumbnail)
}

func TestModelDetails_Errors(t *testing.T) {
	fe := newFakeEngine()
	fe.fail("/tractor/gone", http.StatusGone)
	c := newTestClient(t, fe, nil)

	_, err := c.ModelDetails(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = c.ModelDetails(context.Background(), "/tractor/gone")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusGone, fetchErr.StatusCode)
}

func TestClient_PageCacheSharedAcrossIntents(t *testing.T) {
	fe := newFakeEngine()
	fe.serve("/tractor-brands/mahindra", mahindraPage)
	c := newTestClient(t, fe, nil)

	_, err := c.BrandModels(context.Background(), "/tractor-brands/mahindra")
	require.NoError(t, err)
	_, err = c.ModelDetails(context.Background(), "/tractor-brands/mahindra")
	require.NoError(t, err)

	assert.Equal(t, 1, fe.total())
	assert.Equal(t, models.CacheStats{Pages: 1, Models: 1, Details: 1}, c.Stats())
}

func TestNew_InitializationError(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"relative base URL", Options{BaseURL: "tractorguru.in"}},
		{"unsupported scheme", Options{BaseURL: "ftp://tractorguru.in"}},
		{"unparseable base URL", Options{BaseURL: "http://[::1"}},
		{"unknown engine", Options{EngineName: "selenium"}},
		{"bad proxy", Options{EngineOptions: engine.Options{Proxy: "ftp://proxy:21"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			var initErr *InitializationError
			require.ErrorAs(t, err, &initErr)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, engine.NameResty, c.EngineName())
}

func TestClient_AgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tractor-brands":
			fmt.Fprint(w, padded(`<a href="/tractor-brands/sonalika/">Sonalika</a>`))
		case "/tractor-brands/sonalika":
			fmt.Fprint(w, `<div class="model-card"><a href="/sonalika/di-745">Sonalika 745</a><img src="thumb.jpg"></div>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)

	brands, err := c.Brands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, srv.URL+"/tractor-brands/sonalika", brands[0].URL)

	list, err := c.BrandModels(context.Background(), brands[0].URL)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "/sonalika/di-745", list[0].Path)
	assert.Equal(t, srv.URL+"/tractor-brands/thumb.jpg", list[0].Thumbnail)

	_, err = c.ModelDetails(context.Background(), "/tractor/missing")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}
