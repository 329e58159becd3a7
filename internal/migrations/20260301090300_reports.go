package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20260301090300",
		up:      mig_20260301090300_reports_up,
		down:    mig_20260301090300_reports_down,
	})
}

func mig_20260301090300_reports_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS reports (
            id BIGSERIAL PRIMARY KEY,
            project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category VARCHAR(30) NOT NULL DEFAULT 'OTHER' CHECK (category IN ('CORRUPTION', 'DELAY', 'QUALITY', 'BUDGET', 'OTHER')),
            description TEXT NOT NULL CHECK (btrim(description) <> ''),
            status VARCHAR(20) NOT NULL DEFAULT 'OPEN' CHECK (status IN ('OPEN', 'IN_REVIEW', 'RESOLVED', 'DISMISSED')),
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_reports_project_created ON reports(project_id, created_at DESC);
        CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
    `)
	return err
}

func mig_20260301090300_reports_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS reports;`)
	return err
}
