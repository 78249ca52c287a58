package bgg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-bgg-stats/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		BaseURL:           srv.URL,
		RequestsPerMinute: 60 * 1000,
		MaxRetries:        retries,
		RetryMinDelay:     time.Millisecond,
		RetryMaxDelay:     2 * time.Millisecond,
	}, nil)
}

func TestFetchPlaysPagesUntilEmpty(t *testing.T) {
	var pages []string
	var mu sync.Mutex
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plays", r.URL.Path)
		assert.Equal(t, "owner", r.URL.Query().Get("username"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("mindate"))
		page := r.URL.Query().Get("page")
		mu.Lock()
		pages = append(pages, page)
		mu.Unlock()
		switch page {
		case "1":
			fmt.Fprint(w, `<plays><play id="1" date="2024-01-02" quantity="1" length="30" location="Home"><item name="Azul" objectid="5"/></play></plays>`)
		case "2":
			fmt.Fprint(w, `<plays><play id="2" date="2024-01-01" quantity="1" length="45" location="Home"><item name="Catan" objectid="13"/></play></plays>`)
		default:
			fmt.Fprint(w, `<plays username="owner" page="3"></plays>`)
		}
	}, 0)

	plays, err := c.FetchPlays(context.Background(), "owner", "2024-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, pages)
	require.Len(t, plays, 2)
	assert.Equal(t, 1, plays[0].ID)
	assert.Equal(t, 2, plays[1].ID)
}

func TestCollectionRetriesWhileQueued(t *testing.T) {
	var calls atomic.Int32
	var outcomes []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		fmt.Fprint(w, collectionXML)
	}, 3)
	c.OnRequest(func(endpoint, outcome string) {
		outcomes = append(outcomes, endpoint+":"+outcome)
	})

	entries, err := c.FetchCollection(context.Background(), "owner")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []string{"collection:retry", "collection:retry", "collection:ok"}, outcomes)
}

func TestPermanentErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}, 5)

	_, err := c.FetchGame(context.Background(), 13)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetriesAreBounded(t *testing.T) {
	var calls atomic.Int32
	var outcomes []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 2)
	c.OnRequest(func(endpoint, outcome string) {
		outcomes = append(outcomes, endpoint+":"+outcome)
	})

	_, err := c.FetchGame(context.Background(), 13)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "giving up after 3 attempts")
	assert.Equal(t, int32(3), calls.Load())
	// One outcome per attempt; the last one is the failure.
	assert.Equal(t, []string{"thing:retry", "thing:retry", "thing:error"}, outcomes)
}

func TestFetchGameNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<items termsofuse="x"></items>`)
	}, 0)

	_, err := c.FetchGame(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFetchGamesKeepsOrder(t *testing.T) {
	var inFlight, peak atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		id := r.URL.Query().Get("id")
		fmt.Fprintf(w, `<items><item type="boardgame" id="%s"><name type="primary" value="Game %s"/></item></items>`, id, id)
	}, 0)

	ids := []int{30, 10, 20, 40}
	games, err := c.FetchGames(context.Background(), ids, 2)
	require.NoError(t, err)
	require.Len(t, games, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, games[i].GameID)
		assert.Equal(t, fmt.Sprintf("Game %d", id), games[i].Name)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestGroupByDate(t *testing.T) {
	plays := []struct {
		id   int
		date string
	}{{1, "2024-01-02"}, {2, "2024-01-01"}, {3, "2024-01-02"}}
	var in []model.Play
	for _, p := range plays {
		in = append(in, model.Play{ID: p.id, Date: p.date})
	}
	log := GroupByDate(in)
	require.Len(t, log, 2)
	assert.Equal(t, "2024-01-02", log[0].Date)
	assert.Len(t, log[0].Plays, 2)
	assert.Equal(t, 3, log[0].Plays[1].ID)
	assert.Equal(t, "2024-01-01", log[1].Date)
}
