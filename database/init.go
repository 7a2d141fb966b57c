package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Init 立即执行初始化。进程启动时调用；失败后下一次查询会重新尝试。
func (d *DB) Init(ctx context.Context) error {
	return d.ready(ctx)
}

// Ready 初始化是否已完成
func (d *DB) Ready() bool {
	return d.initialized.Load()
}

// ready 首次使用时建表并写入默认数据。
// 并发调用者共享同一次进行中的初始化；失败时事务整体回滚，状态保持未初始化。
func (d *DB) ready(ctx context.Context) error {
	if d.initialized.Load() {
		return nil
	}
	_, err, _ := d.group.Do("init", func() (any, error) {
		if d.initialized.Load() {
			return nil, nil
		}
		// 共享的初始化不受首个调用者取消的影响
		if err := d.bootstrap(context.WithoutCancel(ctx)); err != nil {
			d.logger.Error("数据库初始化失败", "err", err)
			return nil, fmt.Errorf("数据库初始化失败: %w", err)
		}
		d.initialized.Store(true)
		d.logger.Info("数据库初始化完成", "driver", d.Dialect())
		return nil, nil
	})
	return err
}

func (d *DB) bootstrap(ctx context.Context) error {
	d.bootstraps.Add(1)
	return d.transaction(ctx, func(q *querier) error {
		if err := createSchema(ctx, q); err != nil {
			return err
		}
		return seed(ctx, q, d.admin, false)
	})
}

// transaction 在事务中执行 fn，fn 返回错误时回滚
func (d *DB) transaction(ctx context.Context, fn func(q *querier) error) error {
	tx, err := d.x.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&querier{ext: tx, eng: d.q.eng, logger: d.logger}); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback: %s: %w", err.Error(), rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
