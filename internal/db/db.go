package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // 纯 Go 实现的 SQLite，无需 CGO

	"khunt/config"
)

// MemoryDBPath 内存数据库标识
const MemoryDBPath = ":memory:"

// DB 发现结果数据库封装
type DB struct {
	conn     *sql.DB
	path     string
	inMemory bool
}

// Open 打开数据库
func Open(path string) (*DB, error) {
	if path == "" {
		path = config.DefaultDBPath
	}

	inMemory := path == MemoryDBPath

	// 内存数据库不需要创建目录
	if !inMemory {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("创建数据库目录失败: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	db := &DB{conn: conn, path: path, inMemory: inMemory}

	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

// OpenMemory 打开内存数据库（无文件落地）
func OpenMemory() (*DB, error) {
	return Open(MemoryDBPath)
}

// Close 关闭数据库
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path 返回数据库路径
func (db *DB) Path() string {
	return db.path
}

// IsInMemory 返回是否是内存数据库
func (db *DB) IsInMemory() bool {
	return db.inMemory
}

// initSchema 初始化表结构
func (db *DB) initSchema() error {
	schema := `
	-- 发现表，只追加不更新
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		subject_kind TEXT NOT NULL,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		evidence TEXT,
		target TEXT NOT NULL,
		collected_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_findings_kind ON findings(kind);
	CREATE INDEX IF NOT EXISTS idx_findings_category ON findings(category);
	CREATE INDEX IF NOT EXISTS idx_findings_target ON findings(target);
	CREATE INDEX IF NOT EXISTS idx_findings_collected_at ON findings(collected_at);
	`

	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("初始化数据库表结构失败: %w", err)
	}

	return nil
}

// DefaultPath 返回默认数据库路径
func DefaultPath() string {
	return config.DefaultDBPath
}
