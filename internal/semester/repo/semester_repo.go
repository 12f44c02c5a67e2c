package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-academics/internal/semester/entity"
)

// SemesterRepo reads the academic calendar.
type SemesterRepo struct {
	db *sqlx.DB
}

func NewSemesterRepo(db *sqlx.DB) *SemesterRepo { return &SemesterRepo{db: db} }

// Containing returns the semester whose range covers day (YYYY-MM-DD), or
// sql.ErrNoRows. Overlaps resolve to the latest start, then the lowest id.
func (r *SemesterRepo) Containing(ctx context.Context, day string) (*entity.Semester, error) {
	const q = `SELECT semester_id, name, start_date, end_date
		FROM semesters
		WHERE $1::date BETWEEN start_date AND end_date
		ORDER BY start_date DESC, semester_id
		LIMIT 1`
	var s entity.Semester
	if err := r.db.GetContext(ctx, &s, q, day); err != nil {
		return nil, err
	}
	return &s, nil
}

// NthFrom returns the semester at offset (0-based, by start date) among those
// starting on or after day, or sql.ErrNoRows.
func (r *SemesterRepo) NthFrom(ctx context.Context, day string, offset int) (*entity.Semester, error) {
	const q = `SELECT semester_id, name, start_date, end_date
		FROM semesters
		WHERE start_date >= $1::date
		ORDER BY start_date, semester_id
		OFFSET $2 LIMIT 1`
	var s entity.Semester
	if err := r.db.GetContext(ctx, &s, q, day, offset); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns every semester, newest first.
func (r *SemesterRepo) List(ctx context.Context) ([]entity.Semester, error) {
	const q = `SELECT semester_id, name, start_date, end_date FROM semesters ORDER BY start_date DESC, semester_id`
	out := []entity.Semester{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}
