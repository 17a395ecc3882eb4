package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Swings table - one row per analyzed swing
		`CREATE TABLE IF NOT EXISTS swings (
			id TEXT PRIMARY KEY,
			video_path TEXT NOT NULL DEFAULT '',
			frame_count INTEGER NOT NULL DEFAULT 0,
			detected_frames INTEGER NOT NULL DEFAULT 0,
			interpolated_frames INTEGER NOT NULL DEFAULT 0,
			fps REAL NOT NULL DEFAULT 0,
			success INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			attack_angle REAL,
			swing_path REAL,
			plane_angle REAL,
			plane_shift REAL,
			max_deviation REAL,
			avg_deviation REAL,
			deviation_at_impact REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Shaft positions table - tracked 3D shaft segments per frame
		`CREATE TABLE IF NOT EXISTS shaft_positions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			swing_id TEXT NOT NULL REFERENCES swings(id) ON DELETE CASCADE,
			frame_number INTEGER NOT NULL,
			base_x REAL NOT NULL,
			base_y REAL NOT NULL,
			base_z REAL NOT NULL,
			tip_x REAL NOT NULL,
			tip_y REAL NOT NULL,
			tip_z REAL NOT NULL,
			timestamp REAL NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_shaft_positions_swing_id ON shaft_positions(swing_id)`,
		`CREATE INDEX IF NOT EXISTS idx_swings_created_at ON swings(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
