package db

import (
	"log"
	"log/slog"
	"time"

	"github.com/curaious/civicpulse/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func NewConn(conf *config.Config) *sqlx.DB {
	slog.Info("Connecting to database", slog.String("host", conf.DB_HOST), slog.String("db", conf.DB_NAME))

	// Connect to database
	db, err := sqlx.Open("postgres", conf.DSN())
	if err != nil {
		log.Fatal(err)
	}
	err = db.Ping()
	if err != nil {
		log.Fatalln("Unable to connect to database", err.Error())
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(time.Minute)

	slog.Info("Connected to database")

	return db
}
