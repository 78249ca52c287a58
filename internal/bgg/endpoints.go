package bgg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-bgg-stats/internal/model"
)

// FetchPlays returns every play logged by user, paging until BGG returns an
// empty page. since and until are optional YYYY-MM-DD bounds.
func (c *Client) FetchPlays(ctx context.Context, user, since, until string) ([]model.Play, error) {
	var out []model.Play
	for page := 1; ; page++ {
		params := url.Values{
			"username": {user},
			"page":     {strconv.Itoa(page)},
		}
		if since != "" {
			params.Set("mindate", since)
		}
		if until != "" {
			params.Set("maxdate", until)
		}

		var dto playsDTO
		if err := c.get(ctx, "plays", "/plays", params, &dto); err != nil {
			return nil, fmt.Errorf("fetch plays page %d: %w", page, err)
		}
		if len(dto.Plays) == 0 {
			break
		}
		for _, p := range dto.Plays {
			out = append(out, p.toPlay(user))
		}
		c.logger.Debug("fetched plays page", "user", user, "page", page, "plays", len(dto.Plays), "total", dto.Total)
	}
	return out, nil
}

// FetchGame returns the metadata of one game.
func (c *Client) FetchGame(ctx context.Context, id int) (*model.Game, error) {
	params := url.Values{
		"stats": {"1"},
		"id":    {strconv.Itoa(id)},
	}
	var dto thingsDTO
	if err := c.get(ctx, "thing", "/thing", params, &dto); err != nil {
		return nil, fmt.Errorf("fetch game %d: %w", id, err)
	}
	if len(dto.Items) == 0 {
		return nil, fmt.Errorf("fetch game %d: %w", id, ErrNotFound)
	}
	g := dto.Items[0].toGame()
	return &g, nil
}

// FetchGames fetches ids with at most concurrency requests in flight. The
// result has the same order as ids. The first failure cancels the rest.
func (c *Client) FetchGames(ctx context.Context, ids []int, concurrency int) ([]model.Game, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	games := make([]model.Game, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			game, err := c.FetchGame(ctx, id)
			if err != nil {
				return err
			}
			games[i] = *game
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return games, nil
}

// FetchCollection returns the board games (without expansions) in the
// collection of user.
func (c *Client) FetchCollection(ctx context.Context, user string) ([]model.CollectionEntry, error) {
	params := url.Values{
		"subtype":        {"boardgame"},
		"excludesubtype": {"boardgameexpansion"},
		"stats":          {"1"},
		"username":       {user},
	}
	var dto collectionDTO
	if err := c.get(ctx, "collection", "/collection", params, &dto); err != nil {
		return nil, fmt.Errorf("fetch collection of %s: %w", user, err)
	}
	out := make([]model.CollectionEntry, 0, len(dto.Items))
	for _, it := range dto.Items {
		out = append(out, it.toEntry())
	}
	return out, nil
}

// GroupByDate groups plays into a log keyed by date in first-seen order.
func GroupByDate(plays []model.Play) model.PlayLog {
	var log model.PlayLog
	index := make(map[string]int)
	for _, p := range plays {
		i, ok := index[p.Date]
		if !ok {
			i = len(log)
			index[p.Date] = i
			log = append(log, model.DayPlays{Date: p.Date})
		}
		log[i].Plays = append(log[i].Plays, p)
	}
	return log
}
