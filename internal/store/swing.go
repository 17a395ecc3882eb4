package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
	"github.com/greggjuri/golf-swing-analyzer/internal/plane"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Swing represents one analyzed swing stored in the database. Metric
// fields are nil when the analysis did not produce them.
type Swing struct {
	ID                 string
	VideoPath          string
	FrameCount         int
	DetectedFrames     int
	InterpolatedFrames int
	FPS                float64
	Success            bool
	ErrorMessage       string

	AttackAngle       *float64
	SwingPath         *float64
	PlaneAngle        *float64
	PlaneShift        *float64
	MaxDeviation      *float64
	AvgDeviation      *float64
	DeviationAtImpact *float64

	CreatedAt time.Time
}

// SwingRepository provides CRUD operations for swings and their shaft
// positions.
type SwingRepository struct {
	db *sql.DB
}

// Swings returns the swing repository for this store.
func (s *Store) Swings() *SwingRepository {
	return &SwingRepository{db: s.db}
}

// Create inserts a new swing into the database.
func (r *SwingRepository) Create(sw *Swing) error {
	sw.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO swings (id, video_path, frame_count, detected_frames,
			interpolated_frames, fps, success, error_message,
			attack_angle, swing_path, plane_angle, plane_shift,
			max_deviation, avg_deviation, deviation_at_impact, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sw.ID, sw.VideoPath, sw.FrameCount, sw.DetectedFrames,
		sw.InterpolatedFrames, sw.FPS, sw.Success, sw.ErrorMessage,
		sw.AttackAngle, sw.SwingPath, sw.PlaneAngle, sw.PlaneShift,
		sw.MaxDeviation, sw.AvgDeviation, sw.DeviationAtImpact, sw.CreatedAt,
	)
	return err
}

// GetByID retrieves a swing by its ID.
func (r *SwingRepository) GetByID(id string) (*Swing, error) {
	sw := &Swing{}

	err := r.db.QueryRow(
		`SELECT id, video_path, frame_count, detected_frames,
			interpolated_frames, fps, success, error_message,
			attack_angle, swing_path, plane_angle, plane_shift,
			max_deviation, avg_deviation, deviation_at_impact, created_at
		 FROM swings WHERE id = ?`,
		id,
	).Scan(&sw.ID, &sw.VideoPath, &sw.FrameCount, &sw.DetectedFrames,
		&sw.InterpolatedFrames, &sw.FPS, &sw.Success, &sw.ErrorMessage,
		&sw.AttackAngle, &sw.SwingPath, &sw.PlaneAngle, &sw.PlaneShift,
		&sw.MaxDeviation, &sw.AvgDeviation, &sw.DeviationAtImpact, &sw.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sw, nil
}

// List retrieves all swings ordered by creation time, newest first.
func (r *SwingRepository) List() ([]*Swing, error) {
	rows, err := r.db.Query(
		`SELECT id, video_path, frame_count, detected_frames,
			interpolated_frames, fps, success, error_message,
			attack_angle, swing_path, plane_angle, plane_shift,
			max_deviation, avg_deviation, deviation_at_impact, created_at
		 FROM swings ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var swings []*Swing
	for rows.Next() {
		sw := &Swing{}
		err := rows.Scan(&sw.ID, &sw.VideoPath, &sw.FrameCount, &sw.DetectedFrames,
			&sw.InterpolatedFrames, &sw.FPS, &sw.Success, &sw.ErrorMessage,
			&sw.AttackAngle, &sw.SwingPath, &sw.PlaneAngle, &sw.PlaneShift,
			&sw.MaxDeviation, &sw.AvgDeviation, &sw.DeviationAtImpact, &sw.CreatedAt)
		if err != nil {
			return nil, err
		}
		swings = append(swings, sw)
	}

	return swings, rows.Err()
}

// Delete removes a swing and, via cascade, its shaft positions.
func (r *SwingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM swings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// SavePositions stores a swing's shaft position sequence in one
// transaction, replacing any previously stored sequence.
func (r *SwingRepository) SavePositions(swingID string, positions []plane.ShaftPosition) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM shaft_positions WHERE swing_id = ?`, swingID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO shaft_positions (swing_id, frame_number,
			base_x, base_y, base_z, tip_x, tip_y, tip_z, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range positions {
		_, err := stmt.Exec(swingID, p.FrameNumber,
			p.BasePoint.X, p.BasePoint.Y, p.BasePoint.Z,
			p.TipPoint.X, p.TipPoint.Y, p.TipPoint.Z, p.Timestamp)
		if err != nil {
			return fmt.Errorf("insert position frame %d: %w", p.FrameNumber, err)
		}
	}

	return tx.Commit()
}

// GetPositions retrieves a swing's shaft positions in frame order.
func (r *SwingRepository) GetPositions(swingID string) ([]plane.ShaftPosition, error) {
	rows, err := r.db.Query(
		`SELECT frame_number, base_x, base_y, base_z, tip_x, tip_y, tip_z, timestamp
		 FROM shaft_positions WHERE swing_id = ? ORDER BY frame_number`,
		swingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []plane.ShaftPosition
	for rows.Next() {
		var p plane.ShaftPosition
		var base, tip geom.Point3D
		err := rows.Scan(&p.FrameNumber,
			&base.X, &base.Y, &base.Z,
			&tip.X, &tip.Y, &tip.Z, &p.Timestamp)
		if err != nil {
			return nil, err
		}
		p.BasePoint = base
		p.TipPoint = tip
		positions = append(positions, p)
	}

	return positions, rows.Err()
}
