package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-bgg-stats/internal/model"
)

// Tag kinds stored in game_tags.
const (
	tagMechanism = "mechanism"
	tagCategory  = "category"
	tagFamily    = "family"
	tagDesigner  = "designer"
)

// SavePlays replaces the stored play log of user with log in a single transaction.
func (db *DB) SavePlays(user string, log model.PlayLog) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM play_players WHERE user = ?", user); err != nil {
		return fmt.Errorf("clear play_players: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM plays WHERE user = ?", user); err != nil {
		return fmt.Errorf("clear plays: %w", err)
	}

	playStmt, err := tx.Prepare(`
		INSERT INTO plays(
			user, date, date_pos, pos, play_id, game_id, name,
			quantity, length, location, incomplete, is_new
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playStmt.Close()

	playerStmt, err := tx.Prepare(`
		INSERT INTO play_players(user, date, play_pos, pos, name, user_name, won, is_new)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	for dayPos, day := range log {
		for pos, p := range day.Plays {
			_, err = playStmt.Exec(
				user, day.Date, dayPos, pos, p.ID, p.GameID, p.Name,
				p.Quantity, p.Length, p.Location, boolInt(p.Incomplete), boolInt(p.New),
			)
			if err != nil {
				return fmt.Errorf("insert play %d: %w", p.ID, err)
			}
			for i, pl := range p.Players {
				_, err = playerStmt.Exec(user, day.Date, pos, i, pl.Name, pl.UserName, boolInt(pl.Won), boolInt(pl.New))
				if err != nil {
					return fmt.Errorf("insert player %q of play %d: %w", pl.Name, p.ID, err)
				}
			}
		}
	}
	return tx.Commit()
}

// LoadPlays returns the stored play log of user in its recorded date order.
// An unknown user yields an empty log.
func (db *DB) LoadPlays(user string) (model.PlayLog, error) {
	rows, err := db.conn.Query(`
		SELECT date, play_id, game_id, name, quantity, length, location, incomplete, is_new
		FROM plays WHERE user = ? ORDER BY date_pos, pos`, user)
	if err != nil {
		return nil, err
	}

	var log model.PlayLog
	for rows.Next() {
		var p model.Play
		var incomplete, isNew int
		if err := rows.Scan(&p.Date, &p.ID, &p.GameID, &p.Name, &p.Quantity, &p.Length,
			&p.Location, &incomplete, &isNew); err != nil {
			rows.Close()
			return nil, err
		}
		p.Incomplete = incomplete != 0
		p.New = isNew != 0
		if n := len(log); n == 0 || log[n-1].Date != p.Date {
			log = append(log, model.DayPlays{Date: p.Date})
		}
		day := &log[len(log)-1]
		day.Plays = append(day.Plays, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	prows, err := db.conn.Query(`
		SELECT date, play_pos, name, user_name, won, is_new
		FROM play_players WHERE user = ? ORDER BY date, play_pos, pos`, user)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	byDate := make(map[string]int, len(log))
	for i, d := range log {
		byDate[d.Date] = i
	}
	for prows.Next() {
		var date string
		var playPos, won, isNew int
		var pl model.Player
		if err := prows.Scan(&date, &playPos, &pl.Name, &pl.UserName, &won, &isNew); err != nil {
			return nil, err
		}
		pl.Won = won != 0
		pl.New = isNew != 0
		i, ok := byDate[date]
		if !ok || playPos >= len(log[i].Plays) {
			return nil, fmt.Errorf("orphan player %q on %s/%d", pl.Name, date, playPos)
		}
		p := &log[i].Plays[playPos]
		p.Players = append(p.Players, pl)
	}
	return log, prows.Err()
}

// MergeAndSavePlays merges fetched into the stored log of user (newest fetch
// wins per date) and persists the result.
func (db *DB) MergeAndSavePlays(user string, fetched model.PlayLog) (model.PlayLog, error) {
	stored, err := db.LoadPlays(user)
	if err != nil {
		return nil, fmt.Errorf("load plays: %w", err)
	}
	merged := MergePlays(stored, fetched)
	if err := db.SavePlays(user, merged); err != nil {
		return nil, fmt.Errorf("save plays: %w", err)
	}
	return merged, nil
}

// SaveGames upserts game metadata and replaces its tags.
func (db *DB) SaveGames(games []model.Game) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	gameStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO games(game_id, name, published, weight, thumbnail)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer gameStmt.Close()

	tagStmt, err := tx.Prepare(`INSERT INTO game_tags(game_id, kind, pos, value) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer tagStmt.Close()

	for _, g := range games {
		if _, err := gameStmt.Exec(g.GameID, g.Name, g.Published, g.Weight, g.Thumbnail); err != nil {
			return fmt.Errorf("insert game %d: %w", g.GameID, err)
		}
		if _, err := tx.Exec("DELETE FROM game_tags WHERE game_id = ?", g.GameID); err != nil {
			return fmt.Errorf("clear tags for %d: %w", g.GameID, err)
		}
		for kind, values := range map[string][]string{
			tagMechanism: g.Mechanisms,
			tagCategory:  g.Categories,
			tagFamily:    g.Families,
			tagDesigner:  g.Designers,
		} {
			for i, v := range values {
				if _, err := tagStmt.Exec(g.GameID, kind, i, v); err != nil {
					return fmt.Errorf("insert %s tag for %d: %w", kind, g.GameID, err)
				}
			}
		}
	}
	return tx.Commit()
}

// LoadGamesForUser returns metadata for every stored game referenced by the
// plays of user, ordered by game id.
func (db *DB) LoadGamesForUser(user string) ([]model.Game, error) {
	return db.loadGames(`
		SELECT game_id, name, published, weight, thumbnail FROM games
		WHERE game_id IN (SELECT DISTINCT game_id FROM plays WHERE user = ?)
		ORDER BY game_id`, user)
}

// LoadAllGames returns every stored game ordered by game id.
func (db *DB) LoadAllGames() ([]model.Game, error) {
	return db.loadGames(`SELECT game_id, name, published, weight, thumbnail FROM games ORDER BY game_id`)
}

func (db *DB) loadGames(query string, args ...any) ([]model.Game, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	var games []model.Game
	index := make(map[int]int)
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.GameID, &g.Name, &g.Published, &g.Weight, &g.Thumbnail); err != nil {
			rows.Close()
			return nil, err
		}
		index[g.GameID] = len(games)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(games) == 0 {
		return games, nil
	}

	trows, err := db.conn.Query(`SELECT game_id, kind, value FROM game_tags ORDER BY game_id, kind, pos`)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var id int
		var kind, value string
		if err := trows.Scan(&id, &kind, &value); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		g := &games[i]
		switch kind {
		case tagMechanism:
			g.Mechanisms = append(g.Mechanisms, value)
		case tagCategory:
			g.Categories = append(g.Categories, value)
		case tagFamily:
			g.Families = append(g.Families, value)
		case tagDesigner:
			g.Designers = append(g.Designers, value)
		}
	}
	return games, trows.Err()
}

// MissingGameIDs returns game ids referenced by the plays of user that have
// no stored metadata yet.
func (db *DB) MissingGameIDs(user string) ([]int, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT p.game_id FROM plays p
		LEFT JOIN games g ON g.game_id = p.game_id
		WHERE p.user = ? AND g.game_id IS NULL
		ORDER BY p.game_id`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveCollection replaces the stored collection of user.
func (db *DB) SaveCollection(user string, entries []model.CollectionEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM collection WHERE user = ?", user); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO collection(
			user, game_id, name, own, prevowned, fortrade, want, wanttoplay,
			wanttobuy, wishlist, preordered, rating, num_plays, thumbnail
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		st := e.Status
		_, err = stmt.Exec(
			user, e.GameID, e.Name,
			boolInt(st.Own), boolInt(st.PrevOwned), boolInt(st.ForTrade), boolInt(st.Want),
			boolInt(st.WantToPlay), boolInt(st.WantToBuy), boolInt(st.Wishlist), boolInt(st.Preordered),
			e.Rating, e.Plays, e.Thumbnail,
		)
		if err != nil {
			return fmt.Errorf("insert collection entry %d: %w", e.GameID, err)
		}
	}
	return tx.Commit()
}

// LoadCollection returns the stored collection of user ordered by name.
func (db *DB) LoadCollection(user string) ([]model.CollectionEntry, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, name, own, prevowned, fortrade, want, wanttoplay,
		       wanttobuy, wishlist, preordered, rating, num_plays, thumbnail
		FROM collection WHERE user = ? ORDER BY name, game_id`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CollectionEntry
	for rows.Next() {
		var e model.CollectionEntry
		var own, prev, trade, want, toPlay, toBuy, wish, pre int
		if err := rows.Scan(&e.GameID, &e.Name, &own, &prev, &trade, &want, &toPlay,
			&toBuy, &wish, &pre, &e.Rating, &e.Plays, &e.Thumbnail); err != nil {
			return nil, err
		}
		e.Status = model.CollectionStatus{
			Own: own != 0, PrevOwned: prev != 0, ForTrade: trade != 0, Want: want != 0,
			WantToPlay: toPlay != 0, WantToBuy: toBuy != 0, Wishlist: wish != 0, Preordered: pre != 0,
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DropUser deletes every stored row belonging to user. Games are shared and kept.
func (db *DB) DropUser(user string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM play_players WHERE user = ?",
		"DELETE FROM plays WHERE user = ?",
		"DELETE FROM collection WHERE user = ?",
		"DELETE FROM malformed_plays WHERE run_id IN (SELECT run_id FROM stats_runs WHERE user = ?)",
		"DELETE FROM player_stats WHERE run_id IN (SELECT run_id FROM stats_runs WHERE user = ?)",
		"DELETE FROM stats_runs WHERE user = ?",
	} {
		if _, err := tx.Exec(q, user); err != nil {
			return fmt.Errorf("drop user %s: %w", user, err)
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString maps sql.NullString to "".
func nullString(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}
