package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-bgg-stats/internal/model"
)

// ListUsers summarizes every stored dataset, ordered by user name.
func (db *DB) ListUsers() ([]model.UserSummary, error) {
	rows, err := db.conn.Query(`
		SELECT p.user,
		       SUM(p.quantity),
		       COUNT(DISTINCT p.date),
		       MIN(p.date),
		       MAX(p.date),
		       (SELECT COUNT(DISTINCT pp.name) FROM play_players pp WHERE pp.user = p.user),
		       (SELECT r.created_at FROM stats_runs r WHERE r.user = p.user ORDER BY r.created_at DESC, r.rowid DESC LIMIT 1),
		       (SELECT r.run_id FROM stats_runs r WHERE r.user = p.user ORDER BY r.created_at DESC, r.rowid DESC LIMIT 1)
		FROM plays p
		GROUP BY p.user
		ORDER BY p.user`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserSummary
	for rows.Next() {
		var u model.UserSummary
		var lastAt, lastRun sql.NullString
		if err := rows.Scan(&u.User, &u.Plays, &u.Dates, &u.FirstDate, &u.LastDate,
			&u.Players, &lastAt, &lastRun); err != nil {
			return nil, err
		}
		u.LastStatsAt = nullString(lastAt)
		u.LastRunID = nullString(lastRun)
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetUser returns the summary of one dataset, or nil if user has no plays.
func (db *DB) GetUser(user string) (*model.UserSummary, error) {
	users, err := db.ListUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].User == user {
			return &users[i], nil
		}
	}
	return nil, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			case float64:
				row[i] = fmt.Sprintf("%.4g", x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
