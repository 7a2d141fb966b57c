package database

import (
	"context"

	"navhub/config"
	"navhub/models"

	"golang.org/x/crypto/bcrypt"
)

// 统计表由统计功能自行按需创建，不在这里
var schemas = map[string][]string{
	config.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS menus (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			sort_order INTEGER DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menus_order ON menus(sort_order)`,
		`CREATE TABLE IF NOT EXISTS sub_menus (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			parent_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			sort_order INTEGER DEFAULT 0,
			FOREIGN KEY(parent_id) REFERENCES menus(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sub_menus_parent_id ON sub_menus(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sub_menus_order ON sub_menus(sort_order)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			menu_id INTEGER,
			sub_menu_id INTEGER,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			logo_url TEXT,
			custom_logo_path TEXT,
			description TEXT,
			sort_order INTEGER DEFAULT 0,
			FOREIGN KEY(menu_id) REFERENCES menus(id) ON DELETE CASCADE,
			FOREIGN KEY(sub_menu_id) REFERENCES sub_menus(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_menu_id ON cards(menu_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_sub_menu_id ON cards(sub_menu_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_order ON cards(sort_order)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			last_login_time TEXT,
			last_login_ip TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE TABLE IF NOT EXISTS ads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position TEXT NOT NULL,
			img TEXT NOT NULL,
			url TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ads_position ON ads(position)`,
		`CREATE TABLE IF NOT EXISTS friends (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			logo TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_friends_title ON friends(title)`,
		`CREATE TABLE IF NOT EXISTS site_settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT UNIQUE NOT NULL,
			value TEXT,
			description TEXT
		)`,
	},
	config.DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS menus (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			sort_order INTEGER DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menus_order ON menus(sort_order)`,
		`CREATE TABLE IF NOT EXISTS sub_menus (
			id SERIAL PRIMARY KEY,
			parent_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			sort_order INTEGER DEFAULT 0,
			FOREIGN KEY(parent_id) REFERENCES menus(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sub_menus_parent_id ON sub_menus(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sub_menus_order ON sub_menus(sort_order)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id SERIAL PRIMARY KEY,
			menu_id INTEGER,
			sub_menu_id INTEGER,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			logo_url TEXT,
			custom_logo_path TEXT,
			description TEXT,
			sort_order INTEGER DEFAULT 0,
			FOREIGN KEY(menu_id) REFERENCES menus(id) ON DELETE CASCADE,
			FOREIGN KEY(sub_menu_id) REFERENCES sub_menus(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_menu_id ON cards(menu_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_sub_menu_id ON cards(sub_menu_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_order ON cards(sort_order)`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			last_login_time TIMESTAMP,
			last_login_ip TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE TABLE IF NOT EXISTS ads (
			id SERIAL PRIMARY KEY,
			position TEXT NOT NULL,
			img TEXT NOT NULL,
			url TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ads_position ON ads(position)`,
		`CREATE TABLE IF NOT EXISTS friends (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			logo TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_friends_title ON friends(title)`,
		`CREATE TABLE IF NOT EXISTS site_settings (
			id SERIAL PRIMARY KEY,
			key TEXT UNIQUE NOT NULL,
			value TEXT,
			description TEXT
		)`,
	},
}

// seededTables 重置时按依赖顺序清空
var seededTables = []string{"cards", "sub_menus", "menus", "users", "friends", "ads"}

// SeedCounts 初始化/重置后的数据量
type SeedCounts struct {
	Menus   int64 `json:"menus"`
	Users   int64 `json:"users"`
	Friends int64 `json:"friends"`
}

func createSchema(ctx context.Context, q *querier) error {
	for _, stmt := range schemas[q.eng.dialect()] {
		if _, err := q.run(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func count(ctx context.Context, q *querier, table string) (int64, error) {
	row, err := q.get(ctx, "SELECT COUNT(*) AS count FROM "+table)
	if err != nil {
		return 0, err
	}
	return Int64(row["count"]), nil
}

// seed 写入默认数据。force 为 false 时每张表单独判断是否为空，
// 部分写入过的库也能补齐。
func seed(ctx context.Context, q *querier, admin config.AdminConfig, force bool) error {
	n, err := count(ctx, q, "menus")
	if err != nil {
		return err
	}
	if force || n == 0 {
		for _, m := range models.DefaultMenus() {
			if _, err := q.run(ctx, "INSERT INTO menus (name, sort_order) VALUES (?, ?)", m.Name, m.SortOrder); err != nil {
				return err
			}
		}
		q.logger.Info("默认菜单插入完成")
	}

	if n, err = count(ctx, q, "users"); err != nil {
		return err
	}
	if force || n == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := q.run(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", admin.Username, string(hash)); err != nil {
			return err
		}
		q.logger.Info("默认管理员账号创建完成", "username", admin.Username)
	}

	if n, err = count(ctx, q, "friends"); err != nil {
		return err
	}
	if force || n == 0 {
		for _, f := range models.DefaultFriends() {
			if _, err := q.run(ctx, "INSERT INTO friends (title, url, logo) VALUES (?, ?, ?)", f.Title, f.URL, f.Logo); err != nil {
				return err
			}
		}
		q.logger.Info("默认友情链接插入完成")
	}
	return nil
}

func seedCounts(ctx context.Context, q *querier) (SeedCounts, error) {
	var c SeedCounts
	var err error
	if c.Menus, err = count(ctx, q, "menus"); err != nil {
		return c, err
	}
	if c.Users, err = count(ctx, q, "users"); err != nil {
		return c, err
	}
	if c.Friends, err = count(ctx, q, "friends"); err != nil {
		return c, err
	}
	return c, nil
}
