// Copyright 2020-2026 The Playout Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package log

import (
	"database/sql"
	"strconv"
)

// Query filters a log database lookup.
type Query struct {
	Levels   []Level
	Time     UnixMillisecond
	Sources  []string
	Channels []string
	Limit    int
}

// Query for logs in database.
func (l *Logger) Query(q Query) (*[]Log, error) {
	sqlStmt := "SELECT time,level,src,channel,layer,msg FROM logs"
	sqlStmt += " WHERE level " + genIN(len(q.Levels))
	sqlStmt += " AND src " + genIN(len(q.Sources))

	if len(q.Channels) != 0 {
		sqlStmt += " AND channel " + genIN(len(q.Channels))
	}

	if q.Time != 0 {
		sqlStmt += " AND time < (?)"
	}

	sqlStmt += " ORDER BY time DESC"

	if q.Limit != 0 {
		sqlStmt += " LIMIT " + strconv.Itoa(q.Limit)
	}

	stmt, err := l.db.Prepare(sqlStmt)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	args := []interface{}{}
	args = append(args, toInterfaces(q.Levels)...)
	args = append(args, toInterfaces(q.Sources)...)
	args = append(args, toInterfaces(q.Channels)...)
	if q.Time != 0 {
		args = append(args, q.Time)
	}

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return parseRows(rows)
}

func parseRows(rows *sql.Rows) (*[]Log, error) {
	var logs []Log
	for rows.Next() {
		var t UnixMillisecond
		var level uint8
		var src string
		var channel string
		var layer sql.NullInt64
		var msg string

		err := rows.Scan(&t, &level, &src, &channel, &layer, &msg)
		if err != nil {
			return nil, err
		}

		logs = append(logs, Log{
			Time:     t,
			Level:    Level(level),
			Src:      src,
			Channel:  channel,
			Layer:    int(layer.Int64),
			HasLayer: layer.Valid,
			Msg:      msg,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &logs, nil
}

func genIN(n int) string {
	// Input: 1 Output: "IN (?)"
	// Input: 2 Output: "IN (?, ?)"
	output := "IN ("
	for i := 1; i <= n; i++ {
		if i != n {
			output += "?, "
		} else {
			output += "?"
		}
	}
	return output + ")"
}

func toInterfaces[T any](slice []T) []interface{} {
	output := make([]interface{}, len(slice))
	for i, v := range slice {
		output[i] = v
	}
	return output
}
