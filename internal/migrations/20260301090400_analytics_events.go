package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20260301090400",
		up:      mig_20260301090400_analytics_events_up,
		down:    mig_20260301090400_analytics_events_down,
	})
}

func mig_20260301090400_analytics_events_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS search_events (
            id BIGSERIAL PRIMARY KEY,
            query VARCHAR(200) NOT NULL DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS project_view_events (
            id BIGSERIAL PRIMARY KEY,
            project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_search_events_created ON search_events(created_at DESC);
        CREATE INDEX IF NOT EXISTS idx_project_view_events_project ON project_view_events(project_id);
        CREATE INDEX IF NOT EXISTS idx_project_view_events_created ON project_view_events(created_at DESC);
    `)
	return err
}

func mig_20260301090400_analytics_events_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS project_view_events;`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP TABLE IF EXISTS search_events;`)
	return err
}
