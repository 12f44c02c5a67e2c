package repo

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-academics/internal/academic/entity"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/database"
)

// AcademicRepo runs the read-only views over courses, classes, schedules,
// enrollments, placements and recruiters. Every view restricts itself to
// active rows; filter values only travel as arguments.
type AcademicRepo struct {
	db *sqlx.DB
}

func NewAcademicRepo(db *sqlx.DB) *AcademicRepo { return &AcademicRepo{db: db} }

// weekdayOrder sorts day names Monday first. Slot times are selected as
// text so TIME columns keep their clock form instead of decoding to time.Time.
const weekdayOrder = `CASE cs.day_of_week
		WHEN 'Monday' THEN 1
		WHEN 'Tuesday' THEN 2
		WHEN 'Wednesday' THEN 3
		WHEN 'Thursday' THEN 4
		WHEN 'Friday' THEN 5
		WHEN 'Saturday' THEN 6
		WHEN 'Sunday' THEN 7
		ELSE 8 END`

const (
	professorClassesBase = `SELECT cl.class_id, crs.course_name, crs.department, s.name AS semester_name
		FROM classes AS cl
		JOIN courses AS crs ON cl.course_id = crs.course_id
		JOIN semesters AS s ON cl.semester_id = s.semester_id
		WHERE cl.professor_id = ? AND cl.is_active = TRUE AND crs.is_active = TRUE`

	professorScheduleBase = `SELECT crs.course_name, cs.day_of_week, cs.start_time::text AS start_time, cs.end_time::text AS end_time, cs.room, cl.class_id
		FROM classschedule AS cs
		JOIN classes AS cl ON cs.class_id = cl.class_id
		JOIN courses AS crs ON cl.course_id = crs.course_id
		WHERE cl.professor_id = ? AND cl.is_active = TRUE AND crs.is_active = TRUE`

	studentScheduleBase = `SELECT crs.course_name, cs.day_of_week, cs.start_time::text AS start_time, cs.end_time::text AS end_time, cs.room,
			p.name AS professor_name, cl.class_id
		FROM classschedule AS cs
		JOIN classes AS cl ON cs.class_id = cl.class_id
		JOIN courses AS crs ON cl.course_id = crs.course_id
		JOIN enrollments AS e ON cl.class_id = e.class_id
		LEFT JOIN professors AS p ON cl.professor_id = p.professor_id AND p.is_active = TRUE
		WHERE e.student_id = ? AND cl.is_active = TRUE AND crs.is_active = TRUE`

	studentEnrollmentsBase = `SELECT crs.course_name, s.name AS semester_name
		FROM enrollments AS e
		JOIN classes AS cl ON e.class_id = cl.class_id
		JOIN courses AS crs ON cl.course_id = crs.course_id
		JOIN semesters AS s ON cl.semester_id = s.semester_id
		WHERE e.student_id = ? AND cl.is_active = TRUE AND crs.is_active = TRUE`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *AcademicRepo) selectQuery(ctx context.Context, dest any, q *database.Query) error {
	stmt, args := q.Build()
	return r.db.SelectContext(ctx, dest, stmt, args...)
}

func (r *AcademicRepo) getQuery(ctx context.Context, dest any, q *database.Query) error {
	stmt, args := q.Build()
	return r.db.GetContext(ctx, dest, stmt, args...)
}

// ListCourses returns active courses ordered by department then name.
func (r *AcademicRepo) ListCourses(ctx context.Context, f entity.CourseFilter) ([]entity.Course, error) {
	q := database.NewQuery(`SELECT c.course_id, c.course_name, c.credits, c.department
		FROM courses AS c
		WHERE c.is_active = TRUE`)
	if f.Department != nil {
		q.And("c.department = ?", *f.Department)
	}
	q.Append("ORDER BY c.department, c.course_name")
	out := []entity.Course{}
	if err := r.selectQuery(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchCourses matches keyword as a case-insensitive literal substring of the name.
func (r *AcademicRepo) SearchCourses(ctx context.Context, keyword string) ([]entity.CourseHit, error) {
	q := database.NewQuery(`SELECT c.course_id, c.course_name, c.department
		FROM courses AS c
		WHERE c.is_active = TRUE`).
		And("c.course_name ILIKE ?", "%"+likeEscaper.Replace(keyword)+"%").
		Append("ORDER BY c.course_name")
	out := []entity.CourseHit{}
	if err := r.selectQuery(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseOffering returns the course joined with its most recent active
// offering. With semesterID set only that semester's offering (or a course
// without any offering) qualifies. sql.ErrNoRows when nothing matches.
func (r *AcademicRepo) CourseOffering(ctx context.Context, courseID int64, semesterID *int64) (*entity.CourseDetail, error) {
	q := database.NewQuery(`SELECT c.course_id, c.course_name, c.credits, c.department,
			p.professor_id, p.name AS professor_name,
			s.semester_id, s.name AS semester_name
		FROM courses AS c
		LEFT JOIN classes cl ON c.course_id = cl.course_id AND cl.is_active = TRUE
		LEFT JOIN professors p ON cl.professor_id = p.professor_id AND p.is_active = TRUE
		LEFT JOIN semesters s ON cl.semester_id = s.semester_id
		WHERE c.course_id = ? AND c.is_active = TRUE`, courseID)
	if semesterID != nil {
		q.And("(cl.semester_id = ? OR cl.semester_id IS NULL)", *semesterID)
	}
	q.Append("ORDER BY s.start_date DESC NULLS LAST LIMIT 1")
	var d entity.CourseDetail
	if err := r.getQuery(ctx, &d, q); err != nil {
		return nil, err
	}
	return &d, nil
}

// CourseByID returns an active course or sql.ErrNoRows.
func (r *AcademicRepo) CourseByID(ctx context.Context, courseID int64) (*entity.Course, error) {
	const q = `SELECT course_id, course_name, credits, department FROM courses WHERE course_id = $1 AND is_active = TRUE`
	var c entity.Course
	if err := r.db.GetContext(ctx, &c, q, courseID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AcademicRepo) exists(ctx context.Context, q string, id int64) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, q, id); err != nil {
		return false, err
	}
	return ok, nil
}

// ClassActive reports whether an active class with classID exists.
func (r *AcademicRepo) ClassActive(ctx context.Context, classID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM classes WHERE class_id = $1 AND is_active = TRUE)`, classID)
}

// ClassSchedule returns the weekly slots of a class, Monday first, then by start time.
func (r *AcademicRepo) ClassSchedule(ctx context.Context, classID int64) ([]entity.Slot, error) {
	q := database.NewQuery(`SELECT cs.day_of_week, cs.start_time::text AS start_time, cs.end_time::text AS end_time, cs.room
		FROM classschedule AS cs
		WHERE cs.class_id = ?`, classID).
		Append("ORDER BY " + weekdayOrder + ", cs.start_time")
	out := []entity.Slot{}
	if err := r.selectQuery(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfessorByID returns an active professor or sql.ErrNoRows.
func (r *AcademicRepo) ProfessorByID(ctx context.Context, professorID int64) (*entity.ProfessorProfile, error) {
	const q = `SELECT professor_id, name, department FROM professors WHERE professor_id = $1 AND is_active = TRUE`
	var p entity.ProfessorProfile
	if err := r.db.GetContext(ctx, &p, q, professorID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProfessorClasses orders by semester start, newest first, then course name.
func (r *AcademicRepo) ProfessorClasses(ctx context.Context, professorID int64, f entity.ClassFilter) ([]entity.ProfessorClass, error) {
	q := database.NewQuery(professorClassesBase, professorID)
	if f.SemesterID != nil {
		q.And("cl.semester_id = ?", *f.SemesterID)
	}
	q.Append("ORDER BY s.start_date DESC, crs.course_name")
	out := []entity.ProfessorClass{}
	if err := r.selectQuery(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

func applySchedule(q *database.Query, f entity.ScheduleFilter) *database.Query {
	if f.SemesterID != nil {
		q.And("cl.semester_id = ?", *f.SemesterID)
	}
	if f.Day != nil {
		q.And("cs.day_of_week = ?", *f.Day)
	}
	return q.Append("ORDER BY cs.start_time")
}

// ProfessorSchedule orders by start time.
func (r *AcademicRepo) ProfessorSchedule(ctx context.Context, professorID int64, f entity.ScheduleFilter) ([]entity.ScheduleEntry, error) {
	q := applySchedule(database.NewQuery(professorScheduleBase, professorID), f)
	out := []entity.ScheduleEntry{}
	if err := r.selectQuery(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// StudentByID returns an active student or sql.ErrNoRows.
func (r *AcademicRepo) StudentByID(ctx context.Context, studentID int64) (*entity.StudentProfile, error) {
	const q = `SELECT student_id, name, department, entry_date::text AS entry_date
		FROM students WHERE student_id = $1 AND is_active = TRUE`
	var s entity.StudentProfile
	if err := r.db.GetContext(ctx, &s, q, studentID); err != nil {
		return nil, err
	}
	return &s, nil
}

// StudentActive reports whether an active student with studentID exists.
func (r *AcademicRepo) StudentActive(ctx context.Context, studentID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE student_id = $1 AND is_active = TRUE)`, studentID)
}

// StudentSchedule orders by start time.
func (r *AcademicRepo) StudentSchedule(ctx context.Context, studentID int64, f entity.ScheduleFilter) ([]entity.StudentScheduleEntry, error) {
	q := applySchedule(database.NewQuery(studentScheduleBase, studentID), f)
	out := []entity.StudentScheduleEntry{}
	if err := r.selectQuery(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// StudentEnrollments orders by semester start, newest first, then course name.
func (r *AcademicRepo) StudentEnrollments(ctx context.Context, studentID int64, f entity.EnrollmentFilter) ([]entity.Enrollment, error) {
	q := database.NewQuery(studentEnrollmentsBase, studentID)
	if f.SemesterID != nil {
		q.And("cl.semester_id = ?", *f.SemesterID)
	}
	q.Append("ORDER BY s.start_date DESC, crs.course_name")
	out := []entity.Enrollment{}
	if err := r.selectQuery(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// StudentPlacements lists placements with active recruiters by company name.
func (r *AcademicRepo) StudentPlacements(ctx context.Context, studentID int64) ([]entity.StudentPlacement, error) {
	const q = `SELECT r.company_name, p.status, p.ctc_lpa
		FROM placements AS p
		JOIN recruiters AS r ON p.company_id = r.company_id
		WHERE p.student_id = $1 AND r.is_active = TRUE
		ORDER BY r.company_name`
	out := []entity.StudentPlacement{}
	if err := r.db.SelectContext(ctx, &out, q, studentID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AcademicRepo) ListRecruiters(ctx context.Context) ([]entity.Recruiter, error) {
	const q = `SELECT company_id, company_name, job_roles FROM recruiters WHERE is_active = TRUE ORDER BY company_name`
	out := []entity.Recruiter{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// RecruiterByID returns an active recruiter or sql.ErrNoRows.
func (r *AcademicRepo) RecruiterByID(ctx context.Context, companyID int64) (*entity.Recruiter, error) {
	const q = `SELECT company_id, company_name, job_roles FROM recruiters WHERE company_id = $1 AND is_active = TRUE`
	var rec entity.Recruiter
	if err := r.db.GetContext(ctx, &rec, q, companyID); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecruiterPlacements lists a company's placements of active students by student name.
func (r *AcademicRepo) RecruiterPlacements(ctx context.Context, companyID int64) ([]entity.RecruiterPlacement, error) {
	const q = `SELECT p.placement_id, s.student_id, s.name AS student_name, s.department, p.status, p.ctc_lpa
		FROM placements AS p
		JOIN students AS s ON p.student_id = s.student_id
		WHERE p.company_id = $1 AND s.is_active = TRUE
		ORDER BY s.name`
	out := []entity.RecruiterPlacement{}
	if err := r.db.SelectContext(ctx, &out, q, companyID); err != nil {
		return nil, err
	}
	return out, nil
}
