package store

import (
	"database/sql/driver"
	"fmt"

	"go.uber.org/zap"
	"modernc.org/sqlite"
)

// Scalar functions that evaluate matchQuery inside SQLite search queries.
const (
	fieldMatchFunc   = "verdict_field_match"
	keywordMatchFunc = "verdict_keyword_match"
)

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(fieldMatchFunc, 2, fieldMatch); err != nil {
		panic(fmt.Sprintf("register %s: %v", fieldMatchFunc, err))
	}
	if err := sqlite.RegisterDeterministicScalarFunction(keywordMatchFunc, 2, keywordMatch); err != nil {
		panic(fmt.Sprintf("register %s: %v", keywordMatchFunc, err))
	}
}

// fieldMatch(query, field) is 1 when the Unicode-lowered field contains query.
func fieldMatch(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return matchFlag(matchQuery(sqlText(args[0]), sqlText(args[1]))), nil
}

// keywordMatch(query, keywords) decodes the stored keyword list and matches
// each keyword on its own.
func keywordMatch(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return matchFlag(matchQuery(sqlText(args[0]), decodeKeywords(sqlText(args[1]))...)), nil
}

func matchFlag(ok bool) int64 {
	if ok {
		return 1
	}
	return 0
}

func sqlText(v driver.Value) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

func (s *SQLiteStore) SearchQuestions(query string, offset, limit int) ([]Question, int) {
	query = normalizeQuery(query)
	if query == "" {
		return []Question{}, 0
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = -1
	}
	const where = fieldMatchFunc + `(?1, title) OR ` + fieldMatchFunc + `(?1, body) OR ` + keywordMatchFunc + `(?1, keywords)`

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM questions WHERE `+where+`;`, query).Scan(&total); err != nil {
		s.logger.Error("count question search", zap.Error(err))
		return nil, 0
	}

	rows, err := s.db.Query(
		`SELECT `+questionColumns+` FROM questions WHERE `+where+` ORDER BY seq DESC LIMIT ?2 OFFSET ?3;`,
		query, limit, offset,
	)
	if err != nil {
		s.logger.Error("search questions", zap.Error(err))
		return nil, 0
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			s.logger.Error("scan question", zap.Error(err))
			return nil, 0
		}
		out = append(out, q)
	}
	return out, total
}

func (s *SQLiteStore) SearchUsers(query string, offset, limit int) ([]User, int) {
	query = normalizeQuery(query)
	if query == "" {
		return []User{}, 0
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = -1
	}
	const where = fieldMatchFunc + `(?1, u.username) OR ` + fieldMatchFunc + `(?1, u.nickname) OR ` + fieldMatchFunc + `(?1, u.title)`

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users u WHERE `+where+`;`, query).Scan(&total); err != nil {
		s.logger.Error("count user search", zap.Error(err))
		return nil, 0
	}

	rows, err := s.db.Query(
		`SELECT `+userColumns+` FROM users u WHERE `+where+` ORDER BY u.seq ASC LIMIT ?2 OFFSET ?3;`,
		query, limit, offset,
	)
	if err != nil {
		s.logger.Error("search users", zap.Error(err))
		return nil, 0
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			s.logger.Error("scan user", zap.Error(err))
			return nil, 0
		}
		out = append(out, u)
	}
	return out, total
}

func (s *SQLiteStore) XPEvents(userID string, offset, limit int) ([]XPEvent, int, error) {
	if _, ok := s.GetUser(userID); !ok {
		return nil, 0, ErrNotFound
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = -1
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM xp_events WHERE user_id = ?;`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, amount, reason, created_at
		 FROM xp_events
		 WHERE user_id = ?
		 ORDER BY seq DESC
		 LIMIT ? OFFSET ?;`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []XPEvent{}
	for rows.Next() {
		var e XPEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
