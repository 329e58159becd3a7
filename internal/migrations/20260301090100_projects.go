package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20260301090100",
		up:      mig_20260301090100_projects_up,
		down:    mig_20260301090100_projects_down,
	})
}

func mig_20260301090100_projects_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS projects (
            id BIGSERIAL PRIMARY KEY,
            title VARCHAR(200) NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            county VARCHAR(100) NOT NULL DEFAULT '',
            status VARCHAR(20) NOT NULL DEFAULT 'PLANNED' CHECK (status IN ('PLANNED', 'ONGOING', 'COMPLETED', 'STALLED')),
            budget NUMERIC(14, 2),
            spent_amount NUMERIC(14, 2),
            progress SMALLINT NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
            latitude NUMERIC(9, 6),
            longitude NUMERIC(9, 6),
            start_date DATE,
            end_date DATE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at DESC);
        CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
    `)
	return err
}

func mig_20260301090100_projects_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS projects;`)
	return err
}
