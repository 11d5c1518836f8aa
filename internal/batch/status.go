package batch

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Status string

const (
	Pending  Status = "pending"
	Crawling Status = "crawling"
	Scraping Status = "scraping"
	Done     Status = "done"
	Failed   Status = "failed"
)

// in-flight work first, then finished, then work not started yet
var reportOrder = []Status{Crawling, Scraping, Done, Failed, Pending}

type tracker struct {
	date  string
	keys  []string
	mutex sync.Mutex
	state map[string]Status
}

func newTracker(date string, keys []string) *tracker {
	state := make(map[string]Status, len(keys))
	for _, k := range keys {
		state[k] = Pending
	}
	return &tracker{date: date, keys: keys, state: state}
}

func (t *tracker) set(key string, status Status) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.state[key] = status
}

func (t *tracker) get(key string) Status {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.state[key]
}

type statusRow struct {
	key    string
	status Status
}

// rows returns every key grouped by status in report order, keys keep
// their input order within a group.
func (t *tracker) rows() []statusRow {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rows := make([]statusRow, 0, len(t.keys))
	for _, status := range reportOrder {
		for _, k := range t.keys {
			if t.state[k] == status {
				rows = append(rows, statusRow{key: k, status: status})
			}
		}
	}
	return rows
}

func (t *tracker) render(w io.Writer, now time.Time) {
	rows := t.rows()
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(w, "Current status for %s (%s)\n", t.date, now.Format(time.TimeOnly))

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Source", "Status"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.key, r.status})
	}
	tw.Render()
}
