package watch

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, revisions <-chan revision) revision {
	t.Helper()
	select {
	case rev := <-revisions:
		return rev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a graph revision")
		return revision{}
	}
}

func TestGraphFeed_PublishReachesFollowers(t *testing.T) {
	f := newGraphFeed()
	revisions, stop := f.follow()
	defer stop()

	f.publish("digraph { app -> core; }")

	assert.Equal(t, revision{seq: 1, dot: "digraph { app -> core; }"}, receive(t, revisions))
}

func TestGraphFeed_NewFollowerStartsFromLatest(t *testing.T) {
	f := newGraphFeed()
	f.publish("digraph { app; }")
	f.publish("digraph { app; core; }")

	revisions, stop := f.follow()
	defer stop()

	assert.Equal(t, revision{seq: 2, dot: "digraph { app; core; }"}, receive(t, revisions))
}

func TestGraphFeed_SlowFollowerSeesOnlyNewest(t *testing.T) {
	f := newGraphFeed()
	revisions, stop := f.follow()
	defer stop()

	f.publish("first")
	f.publish("second")
	f.publish("third")

	assert.Equal(t, revision{seq: 3, dot: "third"}, receive(t, revisions))
	select {
	case rev := <-revisions:
		t.Fatalf("unexpected extra revision %+v", rev)
	default:
	}
}

func TestGraphFeed_StoppedFollowerIsDropped(t *testing.T) {
	f := newGraphFeed()
	_, stop := f.follow()
	stop()

	f.publish("digraph {}")

	assert.Empty(t, f.followers)
}

func TestServeGraph_ServesLatestDOT(t *testing.T) {
	f := newGraphFeed()
	f.publish("digraph project {}\n")
	w := httptest.NewRecorder()

	f.handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, routeGraph, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dotContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "digraph project {}\n", w.Body.String())
}

func TestServeGraph_UnavailableBeforeFirstImport(t *testing.T) {
	w := httptest.NewRecorder()

	newGraphFeed().handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, routeGraph, nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServeEvents_StreamsMultiLineGraph(t *testing.T) {
	f := newGraphFeed()
	f.publish("digraph project {\n  \"app\" -> \"core\";\n}")

	server := httptest.NewServer(f.handler())
	defer server.Close()

	resp, err := http.Get(server.URL + routeEvents)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line == "\n" {
			break
		}
		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}

	assert.Equal(t, []string{
		"id: 1",
		"event: graph",
		"data: digraph project {",
		`data:   "app" -> "core";`,
		"data: }",
	}, lines)
}
