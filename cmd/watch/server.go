package watch

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
)

const (
	routeGraph  = "/"
	routeEvents = "/events"

	sseEventGraph  = "graph"
	dotContentType = "text/vnd.graphviz; charset=utf-8"
)

// revision is one published project graph. seq counts publications from 1.
type revision struct {
	seq int
	dot string
}

// graphFeed keeps the latest rendered project graph and fans it out to
// event-stream followers. A slow follower only ever sees the newest revision.
type graphFeed struct {
	mu        sync.Mutex
	followers map[chan revision]struct{}
	last      revision
}

func newGraphFeed() *graphFeed {
	return &graphFeed{followers: make(map[chan revision]struct{})}
}

func (f *graphFeed) publish(dot string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = revision{seq: f.last.seq + 1, dot: dot}
	for ch := range f.followers {
		offer(ch, f.last)
	}
}

func (f *graphFeed) latest() revision {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// follow registers a follower primed with the latest revision, if any. The
// returned func unregisters it.
func (f *graphFeed) follow() (<-chan revision, func()) {
	ch := make(chan revision, 1)
	f.mu.Lock()
	f.followers[ch] = struct{}{}
	if f.last.seq > 0 {
		ch <- f.last
	}
	f.mu.Unlock()
	return ch, func() {
		f.mu.Lock()
		delete(f.followers, ch)
		f.mu.Unlock()
	}
}

// offer replaces any undelivered revision with rev. Callers hold f.mu, so no
// other sender can refill ch in between.
func offer(ch chan revision, rev revision) {
	select {
	case <-ch:
	default:
	}
	ch <- rev
}

func (f *graphFeed) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(routeGraph, f.serveGraph)
	mux.HandleFunc(routeEvents, f.serveEvents)
	return mux
}

func newServer(f *graphFeed, port int) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: f.handler(),
	}
}

// serveGraph answers with the latest project graph as DOT.
func (f *graphFeed) serveGraph(w http.ResponseWriter, _ *http.Request) {
	rev := f.latest()
	if rev.seq == 0 {
		http.Error(w, "no project graph imported yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", dotContentType)
	if _, err := w.Write([]byte(rev.dot)); err != nil {
		http.Error(w, "failed to write project graph", http.StatusInternalServerError)
	}
}

// serveEvents streams every new revision as a "graph" event whose id is the
// revision number.
func (f *graphFeed) serveEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	revisions, stop := f.follow()
	defer stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case rev := <-revisions:
			var event strings.Builder
			fmt.Fprintf(&event, "id: %d\nevent: %s\n", rev.seq, sseEventGraph)
			for _, line := range strings.Split(rev.dot, "\n") {
				fmt.Fprintf(&event, "data: %s\n", line)
			}
			event.WriteString("\n")
			if _, err := w.Write([]byte(event.String())); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
