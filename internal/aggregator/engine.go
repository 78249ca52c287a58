package aggregator

import (
	"log/slog"
	"time"

	"github.com/pable/go-bgg-stats/internal/model"
)

// Engine runs every collector over a play log. It is synchronous and keeps no
// state between calls, so one Engine may be reused.
type Engine struct {
	aliases AliasTable
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithAliases sets the player-name corrections applied before tracking.
func WithAliases(aliases map[string]string) Option {
	return func(e *Engine) {
		e.aliases = AliasTable(aliases)
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateStats runs a default Engine.
func GenerateStats(plays model.PlayLog, games []model.Game) (*model.Stats, error) {
	return New().Generate(plays, games)
}

// Generate computes per-player statistics for plays. games must cover every
// game id the plays reference; otherwise a *LookupError is returned and no
// statistics are produced.
func (e *Engine) Generate(plays model.PlayLog, games []model.Game) (*model.Stats, error) {
	start := time.Now()

	index := make(map[int]*model.Game, len(games))
	for i := range games {
		index[games[i].GameID] = &games[i]
	}
	if err := checkGames(plays, index); err != nil {
		return nil, err
	}

	malformed := DetectMalformed(plays)
	for _, m := range malformed {
		e.log.Debug("malformed play", "play", m.PlayID,
			"noPlayers", m.NoPlayers, "noLocation", m.NoLocation, "noDuration", m.NoDuration)
	}

	sessions := make(map[string]*session)
	var order []string
	plays.Each(func(p *model.Play) {
		play := e.aliases.apply(p)
		for _, participant := range play.Players {
			name := participant.Name
			s, ok := sessions[name]
			if !ok {
				s = newSession(name)
				sessions[name] = s
				order = append(order, name)
			}
			ctx := Context{PlayerName: name, Games: index}
			for _, c := range collectors {
				c.Track(ctx, s, play)
			}
		}
	})

	out := &model.Stats{
		PlayerStats:    make(map[string]*model.PlayerStats, len(sessions)),
		MalformedPlays: malformed,
	}
	for _, name := range order {
		ps := &model.PlayerStats{}
		for _, c := range collectors {
			c.Aggregate(sessions[name], ps)
		}
		out.PlayerStats[name] = ps
		delete(sessions, name)
	}

	e.log.Info("stats generated",
		"plays", plays.Len(), "players", len(out.PlayerStats),
		"malformed", len(malformed), "elapsed", time.Since(start))
	return out, nil
}

// checkGames fails on the first play whose game id is not in index.
func checkGames(plays model.PlayLog, index map[int]*model.Game) error {
	for _, day := range plays {
		for _, p := range day.Plays {
			if _, ok := index[p.GameID]; !ok {
				return &LookupError{PlayID: p.ID, GameID: p.GameID, Name: p.Name}
			}
		}
	}
	return nil
}
