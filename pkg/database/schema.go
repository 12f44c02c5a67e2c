package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// schemaDDL is idempotent; prefer real migrations once the schema settles.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS roles (
  role_id SERIAL PRIMARY KEY,
  role_name TEXT NOT NULL UNIQUE
);
INSERT INTO roles (role_name) VALUES ('Student'), ('Professor'), ('Admin')
  ON CONFLICT (role_name) DO NOTHING;

CREATE TABLE IF NOT EXISTS users (
  user_id BIGSERIAL PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role_id INT NOT NULL REFERENCES roles(role_id),
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS students (
  student_id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL UNIQUE REFERENCES users(user_id),
  name TEXT NOT NULL,
  department TEXT,
  entry_date DATE NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS professors (
  professor_id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL UNIQUE REFERENCES users(user_id),
  name TEXT NOT NULL,
  department TEXT,
  is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS semesters (
  semester_id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  start_date DATE NOT NULL,
  end_date DATE NOT NULL,
  CHECK (start_date <= end_date)
);
CREATE INDEX IF NOT EXISTS idx_semesters_range ON semesters (start_date, end_date);

CREATE TABLE IF NOT EXISTS courses (
  course_id BIGSERIAL PRIMARY KEY,
  course_name TEXT NOT NULL,
  credits INT NOT NULL DEFAULT 0,
  department TEXT,
  is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS classes (
  class_id BIGSERIAL PRIMARY KEY,
  course_id BIGINT NOT NULL REFERENCES courses(course_id),
  semester_id BIGINT NOT NULL REFERENCES semesters(semester_id),
  professor_id BIGINT REFERENCES professors(professor_id),
  is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_classes_professor ON classes (professor_id);

CREATE TABLE IF NOT EXISTS classschedule (
  schedule_id BIGSERIAL PRIMARY KEY,
  class_id BIGINT NOT NULL REFERENCES classes(class_id),
  day_of_week TEXT NOT NULL,
  start_time TIME NOT NULL,
  end_time TIME NOT NULL,
  room TEXT
);
CREATE INDEX IF NOT EXISTS idx_classschedule_class ON classschedule (class_id);

CREATE TABLE IF NOT EXISTS enrollments (
  enrollment_id BIGSERIAL PRIMARY KEY,
  student_id BIGINT NOT NULL REFERENCES students(student_id),
  class_id BIGINT NOT NULL REFERENCES classes(class_id),
  UNIQUE (student_id, class_id)
);

CREATE TABLE IF NOT EXISTS recruiters (
  company_id BIGSERIAL PRIMARY KEY,
  company_name TEXT NOT NULL,
  job_roles TEXT,
  is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS placements (
  placement_id BIGSERIAL PRIMARY KEY,
  student_id BIGINT NOT NULL REFERENCES students(student_id),
  company_id BIGINT NOT NULL REFERENCES recruiters(company_id),
  status TEXT NOT NULL,
  ctc_lpa NUMERIC(10,2)
);
`

// EnsureSchema creates the academic records tables and seeds the role catalog.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schemaDDL)
	return err
}
