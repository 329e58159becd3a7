package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20260301090000",
		up:      mig_20260301090000_users_up,
		down:    mig_20260301090000_users_down,
	})
}

func mig_20260301090000_users_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username VARCHAR(150) NOT NULL UNIQUE,
            email VARCHAR(254) NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            role VARCHAR(20) NOT NULL DEFAULT 'CITIZEN' CHECK (role IN ('ADMIN', 'OFFICIAL', 'CITIZEN')),
            is_staff BOOLEAN NOT NULL DEFAULT FALSE,
            is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
        );
    `)
	return err
}

func mig_20260301090000_users_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS users;`)
	return err
}
