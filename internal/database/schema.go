package database

import "database/sql"

// Schema statements per driver. The two dialects differ only in the
// auto-increment primary key spelling; everything else (CURRENT_TIMESTAMP
// defaults, ? placeholders, foreign key references) is shared so the
// repositories can stay driver-agnostic. Cascades are performed by the
// repositories inside transactions, never by the database, so no
// ON DELETE CASCADE clauses appear here.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		username VARCHAR(15) NOT NULL UNIQUE,
		email VARCHAR(50) NOT NULL UNIQUE,
		password_hash VARCHAR(128) NOT NULL,
		address VARCHAR(200),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL REFERENCES users(id),
		token_hash VARCHAR(64) NOT NULL UNIQUE,
		expires_at TIMESTAMP NOT NULL,
		revoked_at TIMESTAMP NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(50) NOT NULL UNIQUE,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS subcategories (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(50) NOT NULL,
		category_id BIGINT UNSIGNED NOT NULL REFERENCES categories(id)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL,
		inventory_count INT NOT NULL DEFAULT 0,
		image_url VARCHAR(255),
		available_sizes TEXT,
		available_colors TEXT,
		user_id BIGINT UNSIGNED NOT NULL REFERENCES users(id),
		subcategory_id BIGINT UNSIGNED NULL REFERENCES subcategories(id)
	)`,
	`CREATE TABLE IF NOT EXISTS product_categories (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		product_id BIGINT UNSIGNED NOT NULL REFERENCES products(id),
		category_id BIGINT UNSIGNED NOT NULL REFERENCES categories(id),
		featured BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL REFERENCES users(id),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		total_amount DECIMAL(10,2) NOT NULL,
		shipping_address VARCHAR(255),
		items_json TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		address TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMP NOT NULL,
		revoked_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS subcategories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category_id INTEGER NOT NULL REFERENCES categories(id)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		price TEXT NOT NULL,
		inventory_count INTEGER NOT NULL DEFAULT 0,
		image_url TEXT,
		available_sizes TEXT,
		available_colors TEXT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		subcategory_id INTEGER REFERENCES subcategories(id)
	)`,
	`CREATE TABLE IF NOT EXISTS product_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id),
		category_id INTEGER NOT NULL REFERENCES categories(id),
		featured BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'pending',
		total_amount TEXT NOT NULL,
		shipping_address TEXT,
		items_json TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate applies the schema for the given driver ("mysql" or "sqlite3").
// Statements are idempotent, so calling Migrate on every startup is safe.
func Migrate(db *sql.DB, driver string) error {
	stmts := mysqlSchema
	if driver == "sqlite3" {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
