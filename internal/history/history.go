// Package history 将搜索关键字记录在 SQLite 中，用于统计热门搜索。
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/catlover7211/news-aggregator/internal/news"
)

// Trend 热门关键字
type Trend struct {
	Keyword      string    `json:"keyword"`
	Count        int       `json:"count"`
	LastSearched time.Time `json:"last_searched"`
}

// Store 搜索历史存储
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open 打开（必要时创建）数据库文件
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS searches (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			keyword     TEXT NOT NULL,
			scope       TEXT NOT NULL,
			searched_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_searches_at ON searches(searched_at DESC);
		CREATE INDEX IF NOT EXISTS idx_searches_keyword ON searches(keyword);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close 关闭数据库
func (s *Store) Close() error {
	return s.db.Close()
}

// Record 记录一次搜索
func (s *Store) Record(ctx context.Context, keyword string, scope news.Scope) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return news.ErrKeywordRequired
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (keyword, scope, searched_at) VALUES (?, ?, ?)`,
		keyword, string(scope), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("recording search %q: %w", keyword, err)
	}
	return nil
}

// Trending 返回 window 时间内搜索次数最多的关键字
func (s *Store) Trending(ctx context.Context, window time.Duration, limit int) ([]Trend, error) {
	if limit <= 0 {
		limit = 10
	}
	since := s.now().Add(-window).Unix()

	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword, COUNT(*) AS cnt, MAX(searched_at) AS last
		FROM searches
		WHERE searched_at >= ?
		GROUP BY keyword
		ORDER BY cnt DESC, last DESC, keyword ASC
		LIMIT ?
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("querying trending: %w", err)
	}
	defer rows.Close()

	trends := []Trend{}
	for rows.Next() {
		var (
			t    Trend
			last int64
		)
		if err := rows.Scan(&t.Keyword, &t.Count, &last); err != nil {
			return nil, fmt.Errorf("scanning trend: %w", err)
		}
		t.LastSearched = time.Unix(last, 0)
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// Prune 删除早于 maxAge 的记录
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE searched_at < ?`, s.now().Add(-maxAge).Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	return res.RowsAffected()
}
