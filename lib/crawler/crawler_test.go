package crawler

import (
	"context"
	"episcrape/lib/pagecache"
	"episcrape/lib/sources"
	"episcrape/lib/testutil"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, urls ...string) (*Crawler, pagecache.Store, sources.Source) {
	database, cleanup := testutil.SetupDB(t, testutil.DBParams{
		Name:   "crawler",
		Schema: pagecache.Schema,
	})
	t.Cleanup(cleanup)
	store := pagecache.NewStore(database)

	crawl := ""
	for _, u := range urls {
		crawl += fmt.Sprintf("{ type: 'page', url: '%s' },", u)
	}
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "us-test.json5"), []byte(fmt.Sprintf(`{
		aggregate: 'county',
		scrapers: [{
			start_date: '2020-03-01',
			crawl: [%s],
			table: { selector: 'table', mapping: { county: 'county' } },
		}],
	}`, crawl)), 0600)
	require.NoError(t, err)

	reg, err := sources.Load(dir)
	require.NoError(t, err)
	src, err := reg.Get("us-test")
	require.NoError(t, err)

	return New(store, Config{Rate: 1000, Burst: 10}), store, src
}

func TestCrawl(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		require.Equal(t, "episcrape/1.0", r.Header.Get("user-agent"))
		fmt.Fprintf(w, "<table><tr><td>%s</td></tr></table>", r.URL.Path)
	}))
	defer server.Close()

	c, store, src := setup(t, server.URL+"/a", server.URL+"/b")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, c.Crawl(ctx, src, "2020-04-01"))
	require.Equal(t, int32(2), requests.Load())

	pages, err := store.Get(ctx, "us-test", "2020-04-01")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, server.URL+"/a", pages[0].Url)
	require.Equal(t, "<table><tr><td>/b</td></tr></table>", string(pages[1].Body))

	err = c.Crawl(ctx, src, "2020-02-01")
	require.ErrorIs(t, err, sources.ErrNoScraper)
}

func TestCrawlFailureCachesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c, store, src := setup(t, server.URL+"/ok", server.URL+"/missing")
	ctx := context.Background()

	err := c.Crawl(ctx, src, "2020-04-01")
	require.ErrorContains(t, err, "404")
	require.ErrorContains(t, err, server.URL+"/missing")

	_, err = store.Get(ctx, "us-test", "2020-04-01")
	require.ErrorIs(t, err, pagecache.ErrNotCached)
}

func TestFetchWaitsForLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := New(pagecache.Store{}, Config{Rate: 20, Burst: 1})
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
	}
	// the burst covers the first request, the other two wait 50ms each
	require.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx, server.URL)
	require.Error(t, err)
}
