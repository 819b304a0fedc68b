package storage

import (
	"database/sql"
	"log"
	"loginwatch/internal/server"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS login_attempts (
	seq INTEGER PRIMARY KEY,
	username TEXT NOT NULL,
	password TEXT NOT NULL DEFAULT '-',
	ip_address TEXT,
	login_time TEXT NOT NULL,
	device_id TEXT,
	geo_location TEXT,
	login_result TEXT NOT NULL
);
`

func InitDB(config server.Config) *sql.DB {
	db, err := sql.Open(config.DB.Driver, config.DB.Dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	log.Println("Database connected")
	return db
}
