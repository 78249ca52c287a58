package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pable/go-bgg-stats/internal/model"
)

func TestObserveRunAndWriteTextfile(t *testing.T) {
	stats := &model.Stats{
		PlayerStats:    map[string]*model.PlayerStats{"A": {}, "B": {}},
		MalformedPlays: []model.MalformedPlay{{PlayID: 1, NoLocation: true}},
	}
	ObserveRun("tester", 7, stats, 20*time.Millisecond, time.Unix(1700000000, 0))
	ObserveRequest("plays", "ok")

	if got := testutil.ToFloat64(Players.WithLabelValues("tester")); got != 2 {
		t.Errorf("players gauge: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(PlaysProcessed.WithLabelValues("tester")); got != 7 {
		t.Errorf("plays counter: want 7, got %v", got)
	}

	path := filepath.Join(t.TempDir(), "bggstats.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `bggstats_malformed_plays{user="tester"} 1`) {
		t.Errorf("textfile missing malformed gauge:\n%s", data)
	}
}

func TestWriteTextfileEmptyPath(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}
