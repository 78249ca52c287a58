package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-bgg-stats/internal/model"
)

// ErrNoStats is returned by LoadStats when user has no stored run.
var ErrNoStats = errors.New("no stored stats")

// SaveStats stores one aggregation run for user under runID.
func (db *DB) SaveStats(user, runID string, at time.Time, stats *model.Stats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO stats_runs(run_id, user, created_at, players, malformed)
		VALUES (?, ?, ?, ?, ?)`,
		runID, user, at.UTC().Format(time.RFC3339), len(stats.PlayerStats), len(stats.MalformedPlays),
	)
	if err != nil {
		return fmt.Errorf("insert stats run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO player_stats(run_id, player, total_plays, total_time, unique_games, win_percentage, data)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range stats.PlayerNames() {
		ps := stats.PlayerStats[name]
		data, err := json.Marshal(ps)
		if err != nil {
			return fmt.Errorf("encode stats for %s: %w", name, err)
		}
		_, err = stmt.Exec(runID, name, ps.Basic.TotalPlays, ps.Basic.TotalTimePlayed,
			ps.Basic.UniqueGamesPlayed, ps.Basic.WinPercentage, string(data))
		if err != nil {
			return fmt.Errorf("insert player_stats for %s: %w", name, err)
		}
	}

	mstmt, err := tx.Prepare(`
		INSERT INTO malformed_plays(run_id, play_id, no_players, no_location, no_duration)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer mstmt.Close()

	for _, m := range stats.MalformedPlays {
		_, err = mstmt.Exec(runID, m.PlayID, boolInt(m.NoPlayers), boolInt(m.NoLocation), boolInt(m.NoDuration))
		if err != nil {
			return fmt.Errorf("insert malformed play %d: %w", m.PlayID, err)
		}
	}
	return tx.Commit()
}

// LatestRun returns the most recent stats run of user, or ErrNoStats.
func (db *DB) LatestRun(user string) (*model.StatsRun, error) {
	var r model.StatsRun
	err := db.conn.QueryRow(`
		SELECT run_id, user, created_at, players, malformed
		FROM stats_runs WHERE user = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, user).
		Scan(&r.RunID, &r.User, &r.CreatedAt, &r.Players, &r.Malformed)
	if err == sql.ErrNoRows {
		return nil, ErrNoStats
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadStats returns the most recent stats run of user.
func (db *DB) LoadStats(user string) (*model.StatsRun, *model.Stats, error) {
	run, err := db.LatestRun(user)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.conn.Query(`SELECT player, data FROM player_stats WHERE run_id = ?`, run.RunID)
	if err != nil {
		return nil, nil, err
	}
	stats := &model.Stats{
		PlayerStats:    make(map[string]*model.PlayerStats),
		MalformedPlays: []model.MalformedPlay{},
	}
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			rows.Close()
			return nil, nil, err
		}
		var ps model.PlayerStats
		if err := json.Unmarshal([]byte(data), &ps); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("decode stats for %s: %w", name, err)
		}
		stats.PlayerStats[name] = &ps
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, err
	}
	rows.Close()

	mrows, err := db.conn.Query(`
		SELECT play_id, no_players, no_location, no_duration
		FROM malformed_plays WHERE run_id = ? ORDER BY rowid`, run.RunID)
	if err != nil {
		return nil, nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var m model.MalformedPlay
		var np, nl, nd int
		if err := mrows.Scan(&m.PlayID, &np, &nl, &nd); err != nil {
			return nil, nil, err
		}
		m.NoPlayers, m.NoLocation, m.NoDuration = np != 0, nl != 0, nd != 0
		stats.MalformedPlays = append(stats.MalformedPlays, m)
	}
	return run, stats, mrows.Err()
}

// ListRuns returns the stats runs of user, newest first.
func (db *DB) ListRuns(user string) ([]model.StatsRun, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, user, created_at, players, malformed
		FROM stats_runs WHERE user = ? ORDER BY created_at DESC, rowid DESC`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.StatsRun
	for rows.Next() {
		var r model.StatsRun
		if err := rows.Scan(&r.RunID, &r.User, &r.CreatedAt, &r.Players, &r.Malformed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayerTrend returns player's headline numbers in every stats run of user,
// oldest first.
func (db *DB) PlayerTrend(user, player string) ([]model.PlayerTrendPoint, error) {
	rows, err := db.conn.Query(`
		SELECT r.run_id, r.created_at, p.total_plays, p.total_time, p.unique_games, p.win_percentage
		FROM player_stats p
		JOIN stats_runs r ON r.run_id = p.run_id
		WHERE r.user = ? AND p.player = ?
		ORDER BY r.created_at ASC, r.rowid ASC`, user, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerTrendPoint
	for rows.Next() {
		var t model.PlayerTrendPoint
		if err := rows.Scan(&t.RunID, &t.CreatedAt, &t.TotalPlays, &t.TotalTime, &t.UniqueGames, &t.WinPercentage); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
