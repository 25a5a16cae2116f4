package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/verdict-com/verdict/server/badge"
)

// SQLiteStore is the database-backed implementation of API.
//
// It keeps the in-memory ID format (u_1, q_1, ...) so payloads do not change
// when persistence is switched on.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
	clock  func() time.Time
}

// OpenSQLite opens (or creates) a SQLite database at the given path and runs migrations.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	normalized := filepath.ToSlash(path)
	dsn := "file:" + normalized + "?cache=shared" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger, clock: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	if err := s.seedBadges(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed badges: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS users (
			seq INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			nickname TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			vertical TEXT NOT NULL DEFAULT '',
			verified INTEGER NOT NULL DEFAULT 0,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS accounts (
			account TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			password_hash TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS tokens (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE
		);`,

		`CREATE TABLE IF NOT EXISTS xp_events (
			seq INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			reason TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_xp_events_user_seq ON xp_events(user_id, seq);`,

		`CREATE TABLE IF NOT EXISTS badges (
			seq INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			rarity TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_badges (
			user_id TEXT NOT NULL,
			badge_id TEXT NOT NULL,
			earned_at TEXT NOT NULL,
			PRIMARY KEY (user_id, badge_id)
		);`,

		`CREATE TABLE IF NOT EXISTS questions (
			seq INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			vertical TEXT NOT NULL,
			author_id TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			category TEXT NOT NULL,
			keywords TEXT NOT NULL,
			accepted_opinion_id TEXT,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_vertical_seq ON questions(vertical, seq);`,
		`CREATE TABLE IF NOT EXISTS opinions (
			seq INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			question_id TEXT NOT NULL,
			author_id TEXT NOT NULL,
			body TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			accepted INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_opinions_question_seq ON opinions(question_id, seq);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	// Session tokens are not retained across restarts.
	_, _ = s.db.Exec(`DELETE FROM tokens;`)
	return nil
}

func isSQLiteConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint") || strings.Contains(msg, "unique")
}

func nullStringOrValue(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func (s *SQLiteStore) seedBadges() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM badges;`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	badges := defaultBadges()
	for i, b := range badges {
		if _, err := tx.Exec(
			`INSERT INTO badges(seq, id, name, description, category, rarity) VALUES(?, ?, ?, ?, ?, ?);`,
			i+1,
			b.ID,
			b.Name,
			b.Description,
			string(b.Category),
			string(b.Rarity),
		); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("seed badges inserted", zap.Int("count", len(badges)))
	return nil
}

func (s *SQLiteStore) nextCounter(tx *sql.Tx, name string) (int, error) {
	if _, err := tx.Exec(`INSERT OR IGNORE INTO counters(name, value) VALUES(?, 0);`, name); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`UPDATE counters SET value = value + 1 WHERE name = ?;`, name); err != nil {
		return 0, err
	}
	var value int
	if err := tx.QueryRow(`SELECT value FROM counters WHERE name = ?;`, name).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *SQLiteStore) nowRFC3339() string {
	return s.clock().UTC().Format(time.RFC3339)
}

func (s *SQLiteStore) rotateToken(tx *sql.Tx, userID string) (string, error) {
	if _, err := tx.Exec(`DELETE FROM tokens WHERE user_id = ?;`, userID); err != nil {
		return "", err
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		token, err := newToken()
		if err != nil {
			return "", err
		}
		if _, err := tx.Exec(`INSERT INTO tokens(token, user_id) VALUES(?, ?);`, token, userID); err != nil {
			lastErr = err
			if isSQLiteConstraintError(err) {
				continue
			}
			return "", err
		}
		return token, nil
	}
	if lastErr == nil {
		lastErr = errors.New("failed to generate token")
	}
	return "", lastErr
}

const userColumns = `u.id, u.username, u.nickname, u.title, u.vertical, u.verified, u.is_admin, u.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (User, error) {
	var (
		user     User
		vertical string
	)
	dest := append([]any{&user.ID, &user.Username, &user.Nickname, &user.Title, &vertical, &user.Verified, &user.IsAdmin, &user.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return User{}, err
	}
	user.Vertical = badge.Vertical(vertical)
	return user, nil
}

func (s *SQLiteStore) Register(account, password, nickname string, admin bool) (User, error) {
	normalizedAccount, trimmedPassword, trimmedNickname, err := validateRegistration(account, password, nickname)
	if err != nil {
		return User{}, err
	}

	passwordHash, err := hashPassword(trimmedPassword)
	if err != nil {
		return User{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRow(`SELECT user_id FROM accounts WHERE account = ?;`, normalizedAccount).Scan(&existing)
	if err == nil {
		return User{}, ErrAccountExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	username, err := uniqueUsernameTx(tx, slugify(trimmedNickname))
	if err != nil {
		return User{}, err
	}
	seq, err := s.nextCounter(tx, "user")
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:        fmt.Sprintf("u_%d", seq),
		Username:  username,
		Nickname:  trimmedNickname,
		IsAdmin:   admin,
		CreatedAt: s.nowRFC3339(),
	}

	if _, err := tx.Exec(
		`INSERT INTO users(seq, id, username, nickname, is_admin, created_at) VALUES(?, ?, ?, ?, ?, ?);`,
		seq,
		user.ID,
		user.Username,
		user.Nickname,
		boolToInt(user.IsAdmin),
		user.CreatedAt,
	); err != nil {
		return User{}, err
	}
	if _, err := tx.Exec(
		`INSERT INTO accounts(account, user_id, password_hash) VALUES(?, ?, ?);`,
		normalizedAccount,
		user.ID,
		passwordHash,
	); err != nil {
		if isSQLiteConstraintError(err) {
			return User{}, ErrAccountExists
		}
		return User{}, err
	}

	if err := tx.Commit(); err != nil {
		return User{}, err
	}
	return user, nil
}

func uniqueUsernameTx(tx *sql.Tx, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM users WHERE username = ?;`, candidate).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *SQLiteStore) Login(account, password string) (string, User, error) {
	normalizedAccount := normalizeEmail(account)
	trimmedPassword := strings.TrimSpace(password)
	if normalizedAccount == "" || trimmedPassword == "" {
		return "", User{}, ErrInvalidInput
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var passwordHash sql.NullString
	user, err := scanUser(tx.QueryRow(
		`SELECT `+userColumns+`, a.password_hash
		 FROM accounts a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.account = ?;`,
		normalizedAccount,
	), &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", User{}, err
	}

	if !verifyPassword(strings.TrimSpace(passwordHash.String), trimmedPassword) {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.rotateToken(tx, user.ID)
	if err != nil {
		return "", User{}, err
	}

	if err := tx.Commit(); err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

func (s *SQLiteStore) UserByToken(token string) (User, bool) {
	user, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+`
		 FROM users u
		 JOIN tokens t ON t.user_id = u.id
		 WHERE t.token = ?;`,
		token,
	))
	if err != nil {
		return User{}, false
	}
	return user, true
}

func (s *SQLiteStore) GetUser(userID string) (User, bool) {
	user, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users u WHERE u.id = ?;`, userID))
	if err != nil {
		return User{}, false
	}
	return user, true
}

func (s *SQLiteStore) UserByUsername(username string) (User, bool) {
	user, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users u WHERE u.username = ?;`, slugify(username)))
	if err != nil {
		return User{}, false
	}
	return user, true
}

// UpdateProfile applies PATCH semantics: empty fields are left unchanged.
func (s *SQLiteStore) UpdateProfile(userID string, update ProfileUpdate) (User, error) {
	update, err := normalizeProfileUpdate(update)
	if err != nil {
		return User{}, err
	}
	if update.Vertical != "" {
		v, err := badge.ParseVertical(string(update.Vertical))
		if err != nil {
			return User{}, ErrInvalidInput
		}
		update.Vertical = v
	}

	res, err := s.db.Exec(
		`UPDATE users SET
			nickname = COALESCE(?, nickname),
			title = COALESCE(?, title),
			vertical = COALESCE(?, vertical)
		 WHERE id = ?;`,
		nullStringOrValue(update.Nickname),
		nullStringOrValue(update.Title),
		nullStringOrValue(string(update.Vertical)),
		userID,
	)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, ErrNotFound
	}
	user, ok := s.GetUser(userID)
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *SQLiteStore) SetVerified(userID string, verified bool) (User, error) {
	return s.setFlag(`UPDATE users SET verified = ? WHERE id = ?;`, userID, verified)
}

func (s *SQLiteStore) setFlag(stmt, userID string, value bool) (User, error) {
	res, err := s.db.Exec(stmt, boolToInt(value), userID)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, ErrNotFound
	}
	user, ok := s.GetUser(userID)
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *SQLiteStore) AwardXP(userID string, amount int, reason string) (XPAward, error) {
	event, err := newXPEvent(userID, amount, reason, s.clock())
	if err != nil {
		return XPAward{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return XPAward{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRow(`SELECT 1 FROM users WHERE id = ?;`, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return XPAward{}, ErrNotFound
		}
		return XPAward{}, err
	}

	var before int
	if err := tx.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM xp_events WHERE user_id = ?;`, userID).Scan(&before); err != nil {
		return XPAward{}, err
	}

	seq, err := s.nextCounter(tx, "xp_event")
	if err != nil {
		return XPAward{}, err
	}
	if _, err := tx.Exec(
		`INSERT INTO xp_events(seq, id, user_id, amount, reason, created_at) VALUES(?, ?, ?, ?, ?, ?);`,
		seq,
		event.ID,
		event.UserID,
		event.Amount,
		event.Reason,
		event.CreatedAt,
	); err != nil {
		return XPAward{}, err
	}

	if err := tx.Commit(); err != nil {
		return XPAward{}, err
	}
	return awardFor(event, before), nil
}

func (s *SQLiteStore) XPSummary(userID string, now time.Time) (XPSummary, error) {
	if _, ok := s.GetUser(userID); !ok {
		return XPSummary{}, ErrNotFound
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, amount, reason, created_at
		 FROM xp_events
		 WHERE user_id = ?
		 ORDER BY seq ASC;`,
		userID,
	)
	if err != nil {
		return XPSummary{}, err
	}
	defer rows.Close()

	var events []XPEvent
	for rows.Next() {
		var e XPEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &e.CreatedAt); err != nil {
			return XPSummary{}, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return XPSummary{}, err
	}
	return summarize(events, now), nil
}

// Leaderboard ranks users by total XP; ties keep registration order.
func (s *SQLiteStore) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT `+userColumns+`, COALESCE(SUM(e.amount), 0) AS total
		 FROM users u
		 LEFT JOIN xp_events e ON e.user_id = u.id
		 GROUP BY u.id
		 ORDER BY total DESC, u.seq ASC
		 LIMIT ?;`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var total int
		user, err := scanUser(rows, &total)
		if err != nil {
			return nil, err
		}
		out = append(out, LeaderboardEntry{User: user, TotalXP: total})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Badges() []Badge {
	rows, err := s.db.Query(`SELECT id, name, description, category, rarity FROM badges ORDER BY seq ASC;`)
	if err != nil {
		s.logger.Error("list badges", zap.Error(err))
		return nil
	}
	defer rows.Close()

	var out []Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			s.logger.Error("scan badge", zap.Error(err))
			return nil
		}
		out = append(out, b)
	}
	return out
}

func scanBadge(row rowScanner, extra ...any) (Badge, error) {
	var (
		b        Badge
		category string
		rarity   string
	)
	dest := append([]any{&b.ID, &b.Name, &b.Description, &category, &rarity}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Badge{}, err
	}
	var err error
	if b.Category, err = badge.ParseCategory(category); err != nil {
		return Badge{}, fmt.Errorf("badge %s: %w", b.ID, err)
	}
	if b.Rarity, err = badge.ParseRarity(rarity); err != nil {
		return Badge{}, fmt.Errorf("badge %s: %w", b.ID, err)
	}
	return b, nil
}

// AwardBadge is idempotent: awarding an owned badge returns the original award.
func (s *SQLiteStore) AwardBadge(userID, badgeID string) (UserBadge, error) {
	if _, ok := s.GetUser(userID); !ok {
		return UserBadge{}, ErrNotFound
	}
	var one int
	if err := s.db.QueryRow(`SELECT 1 FROM badges WHERE id = ?;`, badgeID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserBadge{}, ErrNotFound
		}
		return UserBadge{}, err
	}

	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO user_badges(user_id, badge_id, earned_at) VALUES(?, ?, ?);`,
		userID,
		badgeID,
		s.nowRFC3339(),
	); err != nil {
		return UserBadge{}, err
	}

	award := UserBadge{UserID: userID}
	b, err := scanBadge(s.db.QueryRow(
		`SELECT b.id, b.name, b.description, b.category, b.rarity, ub.earned_at
		 FROM user_badges ub
		 JOIN badges b ON b.id = ub.badge_id
		 WHERE ub.user_id = ? AND ub.badge_id = ?;`,
		userID,
		badgeID,
	), &award.EarnedAt)
	if err != nil {
		return UserBadge{}, err
	}
	award.Badge = b
	return award, nil
}

func (s *SQLiteStore) UserBadges(userID string) []UserBadge {
	rows, err := s.db.Query(
		`SELECT b.id, b.name, b.description, b.category, b.rarity, ub.earned_at
		 FROM user_badges ub
		 JOIN badges b ON b.id = ub.badge_id
		 WHERE ub.user_id = ?
		 ORDER BY ub.rowid ASC;`,
		userID,
	)
	if err != nil {
		s.logger.Error("list user badges", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	defer rows.Close()

	out := []UserBadge{}
	for rows.Next() {
		award := UserBadge{UserID: userID}
		b, err := scanBadge(rows, &award.EarnedAt)
		if err != nil {
			s.logger.Error("scan user badge", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
		award.Badge = b
		out = append(out, award)
	}
	return out
}

func (s *SQLiteStore) CreateQuestion(authorID string, vertical badge.Vertical, title, body, category string, keywords []string) (Question, error) {
	in, err := normalizeQuestion(vertical, title, body, category, keywords)
	if err != nil {
		return Question{}, err
	}
	if _, ok := s.GetUser(authorID); !ok {
		return Question{}, ErrNotFound
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Question{}, err
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := s.nextCounter(tx, "question")
	if err != nil {
		return Question{}, err
	}
	question := Question{
		ID:        fmt.Sprintf("q_%d", seq),
		Vertical:  in.vertical,
		AuthorID:  authorID,
		Title:     in.title,
		Body:      in.body,
		Category:  in.category,
		Keywords:  in.keywords,
		CreatedAt: s.nowRFC3339(),
	}
	if _, err := tx.Exec(
		`INSERT INTO questions(seq, id, vertical, author_id, title, body, category, keywords, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		seq,
		question.ID,
		string(question.Vertical),
		question.AuthorID,
		question.Title,
		question.Body,
		question.Category,
		encodeKeywords(question.Keywords),
		question.CreatedAt,
	); err != nil {
		return Question{}, err
	}
	if err := tx.Commit(); err != nil {
		return Question{}, err
	}
	return question, nil
}

const questionColumns = `id, vertical, author_id, title, body, category, keywords, accepted_opinion_id, created_at`

func scanQuestion(row rowScanner) (Question, error) {
	var (
		q        Question
		vertical string
		keywords string
		accepted sql.NullString
	)
	if err := row.Scan(&q.ID, &vertical, &q.AuthorID, &q.Title, &q.Body, &q.Category, &keywords, &accepted, &q.CreatedAt); err != nil {
		return Question{}, err
	}
	q.Vertical = badge.Vertical(vertical)
	q.Keywords = decodeKeywords(keywords)
	q.AcceptedOpinionID = accepted.String
	return q, nil
}

// Questions lists newest first. An empty vertical lists every vertical.
func (s *SQLiteStore) Questions(vertical badge.Vertical, offset, limit int) ([]Question, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = -1
	}
	filter := string(vertical)

	var total int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM questions WHERE ? = '' OR vertical = ?;`,
		filter,
		filter,
	).Scan(&total); err != nil {
		s.logger.Error("count questions", zap.Error(err))
		return nil, 0
	}

	rows, err := s.db.Query(
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE ? = '' OR vertical = ?
		 ORDER BY seq DESC
		 LIMIT ? OFFSET ?;`,
		filter,
		filter,
		limit,
		offset,
	)
	if err != nil {
		s.logger.Error("list questions", zap.Error(err))
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

func (s *SQLiteStore) GetQuestion(questionID string) (Question, bool) {
	q, err := scanQuestion(s.db.QueryRow(`SELECT `+questionColumns+` FROM questions WHERE id = ?;`, questionID))
	if err != nil {
		return Question{}, false
	}
	return q, true
}

func (s *SQLiteStore) CreateOpinion(questionID, authorID, body string, confidence int) (Opinion, error) {
	trimmed, err := normalizeOpinion(body, confidence)
	if err != nil {
		return Opinion{}, err
	}
	if _, ok := s.GetUser(authorID); !ok {
		return Opinion{}, ErrNotFound
	}
	if _, ok := s.GetQuestion(questionID); !ok {
		return Opinion{}, ErrNotFound
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Opinion{}, err
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := s.nextCounter(tx, "opinion")
	if err != nil {
		return Opinion{}, err
	}
	opinion := Opinion{
		ID:         fmt.Sprintf("o_%d", seq),
		QuestionID: questionID,
		AuthorID:   authorID,
		Body:       trimmed,
		Confidence: confidence,
		CreatedAt:  s.nowRFC3339(),
	}
	if _, err := tx.Exec(
		`INSERT INTO opinions(seq, id, question_id, author_id, body, confidence, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?);`,
		seq,
		opinion.ID,
		opinion.QuestionID,
		opinion.AuthorID,
		opinion.Body,
		opinion.Confidence,
		opinion.CreatedAt,
	); err != nil {
		return Opinion{}, err
	}
	if err := tx.Commit(); err != nil {
		return Opinion{}, err
	}
	return opinion, nil
}

const opinionColumns = `id, question_id, author_id, body, confidence, accepted, created_at`

func scanOpinion(row rowScanner) (Opinion, error) {
	var o Opinion
	if err := row.Scan(&o.ID, &o.QuestionID, &o.AuthorID, &o.Body, &o.Confidence, &o.Accepted, &o.CreatedAt); err != nil {
		return Opinion{}, err
	}
	return o, nil
}

func (s *SQLiteStore) Opinions(questionID string) []Opinion {
	rows, err := s.db.Query(
		`SELECT `+opinionColumns+` FROM opinions WHERE question_id = ? ORDER BY seq ASC;`,
		questionID,
	)
	if err != nil {
		s.logger.Error("list opinions", zap.String("question_id", questionID), zap.Error(err))
		return nil
	}
	defer rows.Close()

	out := []Opinion{}
	for rows.Next() {
		o, err := scanOpinion(rows)
		if err != nil {
			s.logger.Error("scan opinion", zap.Error(err))
			return nil
		}
		out = append(out, o)
	}
	return out
}

// AcceptOpinion marks an opinion as the accepted answer. Only the question
// author or an admin may accept, never their own opinion, and only once per
// question.
func (s *SQLiteStore) AcceptOpinion(questionID, opinionID, actorID string) (Opinion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Opinion{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		authorID string
		accepted sql.NullString
	)
	err = tx.QueryRow(`SELECT author_id, accepted_opinion_id FROM questions WHERE id = ?;`, questionID).
		Scan(&authorID, &accepted)
	if errors.Is(err, sql.ErrNoRows) {
		return Opinion{}, ErrNotFound
	}
	if err != nil {
		return Opinion{}, err
	}

	var isAdmin bool
	err = tx.QueryRow(`SELECT is_admin FROM users WHERE id = ?;`, actorID).Scan(&isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return Opinion{}, ErrNotFound
	}
	if err != nil {
		return Opinion{}, err
	}
	if authorID != actorID && !isAdmin {
		return Opinion{}, ErrForbidden
	}
	if strings.TrimSpace(accepted.String) != "" {
		return Opinion{}, ErrAlreadyAccepted
	}

	opinion, err := scanOpinion(tx.QueryRow(
		`SELECT `+opinionColumns+` FROM opinions WHERE id = ? AND question_id = ?;`,
		opinionID,
		questionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return Opinion{}, ErrNotFound
	}
	if err != nil {
		return Opinion{}, err
	}
	if opinion.AuthorID == actorID {
		return Opinion{}, ErrForbidden
	}

	if _, err := tx.Exec(`UPDATE opinions SET accepted = 1 WHERE id = ?;`, opinionID); err != nil {
		return Opinion{}, err
	}
	if _, err := tx.Exec(`UPDATE questions SET accepted_opinion_id = ? WHERE id = ?;`, opinionID, questionID); err != nil {
		return Opinion{}, err
	}
	if err := tx.Commit(); err != nil {
		return Opinion{}, err
	}
	opinion.Accepted = true
	return opinion, nil
}
