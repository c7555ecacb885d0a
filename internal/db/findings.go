package db

import (
	"database/sql"
	"fmt"

	"khunt/pkg/types"
)

// FindingRepository 发现数据仓库
type FindingRepository struct {
	db *DB
}

// NewFindingRepository 创建发现仓库
func NewFindingRepository(db *DB) *FindingRepository {
	return &FindingRepository{db: db}
}

// Save 保存单个发现
func (r *FindingRepository) Save(record *types.FindingRecord) error {
	query := `
	INSERT INTO findings (
		kind, subject_kind, category, name, evidence, target, collected_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn.Exec(query,
		record.Kind, record.SubjectKind, record.Category,
		record.Name, record.Evidence, record.Target, record.CollectedAt,
	)

	return err
}

// SaveBatch 批量保存发现
func (r *FindingRepository) SaveBatch(records []*types.FindingRecord) (int, error) {
	tx, err := r.db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("开始事务失败: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO findings (
			kind, subject_kind, category, name, evidence, target, collected_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("准备语句失败: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	saved := 0
	for _, record := range records {
		_, err := stmt.Exec(
			record.Kind, record.SubjectKind, record.Category,
			record.Name, record.Evidence, record.Target, record.CollectedAt,
		)
		if err != nil {
			return saved, fmt.Errorf("保存发现 %s 失败: %w", record.Kind, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return saved, fmt.Errorf("提交事务失败: %w", err)
	}

	return saved, nil
}

// GetAll 获取所有发现（按采集时间倒序）
func (r *FindingRepository) GetAll() ([]*types.FindingRecord, error) {
	return r.query(`
		SELECT id, kind, subject_kind, category, name, evidence, target, collected_at
		FROM findings ORDER BY collected_at DESC, id DESC
	`)
}

// GetByCategory 按分类获取
func (r *FindingRepository) GetByCategory(category string) ([]*types.FindingRecord, error) {
	return r.query(`
		SELECT id, kind, subject_kind, category, name, evidence, target, collected_at
		FROM findings WHERE category = ? ORDER BY collected_at DESC, id DESC
	`, category)
}

// GetByTarget 按目标获取
func (r *FindingRepository) GetByTarget(target string) ([]*types.FindingRecord, error) {
	return r.query(`
		SELECT id, kind, subject_kind, category, name, evidence, target, collected_at
		FROM findings WHERE target = ? ORDER BY collected_at DESC, id DESC
	`, target)
}

// Count 获取总数
func (r *FindingRepository) Count() (int, error) {
	var count int
	err := r.db.conn.QueryRow("SELECT COUNT(*) FROM findings").Scan(&count)
	return count, err
}

// GetStats 按分类统计数量
func (r *FindingRepository) GetStats() (map[string]int, error) {
	stats := make(map[string]int)

	rows, err := r.db.conn.Query(`
		SELECT category, COUNT(*) as count
		FROM findings
		GROUP BY category
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats[category] = count
	}

	return stats, rows.Err()
}

// Clear 清空所有记录
func (r *FindingRepository) Clear() error {
	_, err := r.db.conn.Exec("DELETE FROM findings")
	return err
}

// query 通用查询方法
func (r *FindingRepository) query(query string, args ...interface{}) ([]*types.FindingRecord, error) {
	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanFindingRows(rows)
}

// scanFindingRows 扫描行
func scanFindingRows(rows *sql.Rows) ([]*types.FindingRecord, error) {
	var records []*types.FindingRecord
	for rows.Next() {
		var f types.FindingRecord
		err := rows.Scan(
			&f.ID, &f.Kind, &f.SubjectKind, &f.Category,
			&f.Name, &f.Evidence, &f.Target, &f.CollectedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &f)
	}
	return records, rows.Err()
}
