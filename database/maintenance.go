package database

import (
	"context"
	"fmt"

	"navhub/config"
)

// Initialize 手动补齐默认数据（只写入空表），返回当前数据量
func (d *DB) Initialize(ctx context.Context) (SeedCounts, error) {
	if err := d.ready(ctx); err != nil {
		return SeedCounts{}, err
	}
	var counts SeedCounts
	err := d.transaction(ctx, func(q *querier) error {
		if err := seed(ctx, q, d.admin, false); err != nil {
			return err
		}
		var err error
		counts, err = seedCounts(ctx, q)
		return err
	})
	return counts, err
}

// Reset 清空所有业务数据、重置自增序列并重新写入默认数据
func (d *DB) Reset(ctx context.Context) (SeedCounts, error) {
	if err := d.ready(ctx); err != nil {
		return SeedCounts{}, err
	}
	var counts SeedCounts
	err := d.transaction(ctx, func(q *querier) error {
		for _, table := range seededTables {
			if _, err := q.run(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		if err := resetSequences(ctx, q); err != nil {
			return err
		}
		d.logger.Info("数据清空完成")
		if err := seed(ctx, q, d.admin, true); err != nil {
			return err
		}
		var err error
		counts, err = seedCounts(ctx, q)
		return err
	})
	return counts, err
}

func resetSequences(ctx context.Context, q *querier) error {
	for _, table := range seededTables {
		var stmt string
		switch q.eng.dialect() {
		case config.DriverPostgres:
			stmt = fmt.Sprintf("SELECT setval('%s_id_seq', 1, false)", table)
		default:
			stmt = fmt.Sprintf("DELETE FROM sqlite_sequence WHERE name = '%s'", table)
		}
		if _, err := q.run(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// TableStatus 单表诊断信息
type TableStatus struct {
	Count int64 `json:"count"`
	Data  []Row `json:"data,omitempty"`
}

// Status 诊断信息：各表数据量和前 10 个菜单
type Status struct {
	Database string                 `json:"database"`
	Driver   string                 `json:"driver"`
	Ready    bool                   `json:"ready"`
	Tables   map[string]TableStatus `json:"tables"`
}

// Status 返回诊断信息
func (d *DB) Status(ctx context.Context) (Status, error) {
	st := Status{Database: "connected", Driver: d.Dialect(), Tables: map[string]TableStatus{}}
	if err := d.ready(ctx); err != nil {
		return st, err
	}
	st.Ready = true

	for _, table := range []string{"menus", "users", "friends"} {
		n, err := count(ctx, d.q, table)
		if err != nil {
			return st, err
		}
		st.Tables[table] = TableStatus{Count: n}
	}
	menus, err := d.q.all(ctx, "SELECT * FROM menus ORDER BY sort_order LIMIT 10")
	if err != nil {
		return st, err
	}
	ms := st.Tables["menus"]
	ms.Data = menus
	st.Tables["menus"] = ms
	return st, nil
}
