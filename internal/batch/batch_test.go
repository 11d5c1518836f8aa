package batch

import (
	"bytes"
	"context"
	"episcrape/internal/chrono"
	"episcrape/lib/pagecache"
	"episcrape/lib/sources"
	"episcrape/lib/telemetry"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var day = chrono.FixedTime{Time: time.Date(2020, 4, 2, 15, 4, 5, 0, time.UTC)}

const page = `<table>
	<tr><th>County</th><th>Cases</th></tr>
	<tr><td>Alpha</td><td>3</td></tr>
	<tr><td>Beta</td><td>4</td></tr>
</table>`

func registry(t *testing.T, keys ...string) sources.Registry {
	dir := t.TempDir()
	for _, key := range keys {
		err := os.WriteFile(filepath.Join(dir, key+".json5"), []byte(fmt.Sprintf(`{
			country: 'iso1:US',
			state: '%s',
			aggregate: 'county',
			scrapers: [{
				start_date: '2020-03-01',
				crawl: [{ type: 'page', url: 'https://example.com/%s' }],
				table: { selector: 'table', mapping: { county: 'county', cases: 'cases' } },
			}],
		}`, key, key)), 0600)
		require.NoError(t, err)
	}
	reg, err := sources.Load(dir)
	require.NoError(t, err)
	return reg
}

type fakeCrawler struct {
	mutex   sync.Mutex
	crawled map[string]bool
	fail    map[string]bool
	active  atomic.Int32
	peak    atomic.Int32
}

func (c *fakeCrawler) Crawl(ctx context.Context, src sources.Source, date string) error {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.fail[src.Key] {
		return errors.New("connection refused")
	}
	c.crawled[src.Key+"@"+date] = true
	return nil
}

type fakeCache struct {
	pages map[string]string
}

func (c fakeCache) Get(ctx context.Context, source, date string) ([]pagecache.Page, error) {
	body, ok := c.pages[source]
	if !ok {
		return nil, pagecache.ErrNotCached
	}
	return []pagecache.Page{{Url: "https://example.com/" + source, Body: []byte(body)}}, nil
}

func TestRun(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:batch")
	defer cleanup()

	reg := registry(t, "us-aa", "us-bb", "us-cc", "us-dd")
	crawler := &fakeCrawler{crawled: map[string]bool{}, fail: map[string]bool{"us-bb": true}}
	cache := fakeCache{pages: map[string]string{
		"us-aa": page,
		"us-bb": page,
		"us-cc": "<p>no table here</p>",
		"us-dd": page,
	}}

	var output bytes.Buffer
	runner := NewRunner(reg, crawler, cache, day, Options{Concurrency: 2, StatusInterval: time.Hour, Output: &output})

	keys := []string{"us-dd", "us-aa", "us-bb", "us-cc", "us-zz"}
	results := runner.Run(context.Background(), keys, "2020-04-02", true)

	require.Len(t, results, 2)
	require.Equal(t, "us-dd", results[0].Source.Key)
	require.Equal(t, "us-aa", results[1].Source.Key)
	require.Equal(t, "2020-04-02", results[0].Date)
	// two counties plus the total
	require.Len(t, results[0].Locations, 3)
	require.Equal(t, 7, *results[0].Locations[2].Cases)

	require.True(t, crawler.crawled["us-aa@2020-04-02"])
	require.LessOrEqual(t, crawler.peak.Load(), int32(2))

	// the final status table is always rendered
	rendered := output.String()
	// the table is narrower than the title, which must still be a single line
	require.Contains(t, strings.Split(rendered, "\n"), "Current status for 2020-04-02 (15:04:05)")
	require.Less(t, strings.Index(rendered, "us-dd"), strings.Index(rendered, "us-bb"))
	require.Contains(t, rendered, "failed")
	require.NotContains(t, rendered, "pending")
}

func TestRunFromCache(t *testing.T) {
	reg := registry(t, "us-aa")
	crawler := &fakeCrawler{crawled: map[string]bool{}}
	cache := fakeCache{pages: map[string]string{"us-aa": page}}

	runner := NewRunner(reg, crawler, cache, day, Options{Output: &bytes.Buffer{}})
	results := runner.Run(context.Background(), []string{"us-aa"}, "2020-03-15", false)
	require.Len(t, results, 1)
	require.Empty(t, crawler.crawled)

	results = runner.Run(context.Background(), []string{"us-aa"}, "2020-02-01", false)
	require.Empty(t, results)
}

func TestTrackerRows(t *testing.T) {
	tr := newTracker("2020-04-02", []string{"a", "b", "c", "d", "e"})
	tr.set("a", Done)
	tr.set("b", Failed)
	tr.set("c", Crawling)
	tr.set("e", Scraping)

	require.Equal(t, []statusRow{
		{key: "c", status: Crawling},
		{key: "e", status: Scraping},
		{key: "a", status: Done},
		{key: "b", status: Failed},
		{key: "d", status: Pending},
	}, tr.rows())
	require.Equal(t, Pending, tr.get("d"))
}

func TestPlan(t *testing.T) {
	list, crawl, err := Plan("", "", day)
	require.NoError(t, err)
	require.True(t, crawl)
	require.Equal(t, []string{"2020-04-02"}, list)

	list, crawl, err = Plan("2020-03-30", "", day)
	require.NoError(t, err)
	require.False(t, crawl)
	// the end date defaults to the clock's day, not the machine's
	require.Equal(t, []string{"2020-03-30", "2020-03-31", "2020-04-01", "2020-04-02"}, list)

	list, _, err = Plan("2020-03-30", "2020-03-31", day)
	require.NoError(t, err)
	require.Equal(t, []string{"2020-03-30", "2020-03-31"}, list)

	_, _, err = Plan("yesterday", "", day)
	require.Error(t, err)
}
