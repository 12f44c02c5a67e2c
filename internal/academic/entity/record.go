package entity

// Course is an active catalog entry.
type Course struct {
	CourseID   int64   `db:"course_id" json:"course_id"`
	CourseName string  `db:"course_name" json:"course_name"`
	Credits    int     `db:"credits" json:"credits"`
	Department *string `db:"department" json:"department"`
}

// CourseHit is a course search result.
type CourseHit struct {
	CourseID   int64   `db:"course_id" json:"course_id"`
	CourseName string  `db:"course_name" json:"course_name"`
	Department *string `db:"department" json:"department"`
}

// CourseDetail is a course with its preferred offering. The offering
// fields are null when no class matches the current semester.
type CourseDetail struct {
	Course
	ProfessorID   *int64  `db:"professor_id" json:"professor_id"`
	ProfessorName *string `db:"professor_name" json:"professor_name"`
	SemesterID    *int64  `db:"semester_id" json:"semester_id"`
	SemesterName  *string `db:"semester_name" json:"semester_name"`
}

// Slot is one weekly meeting of a class.
type Slot struct {
	DayOfWeek string  `db:"day_of_week" json:"day_of_week"`
	StartTime string  `db:"start_time" json:"start_time"`
	EndTime   string  `db:"end_time" json:"end_time"`
	Room      *string `db:"room" json:"room"`
}

// ScheduleEntry is a slot of a professor's class.
type ScheduleEntry struct {
	CourseName string `db:"course_name" json:"course_name"`
	Slot
	ClassID int64 `db:"class_id" json:"class_id"`
}

// StudentScheduleEntry is a slot of a class the student is enrolled in.
type StudentScheduleEntry struct {
	ScheduleEntry
	ProfessorName *string `db:"professor_name" json:"professor_name"`
}

type ProfessorClass struct {
	ClassID      int64   `db:"class_id" json:"class_id"`
	CourseName   string  `db:"course_name" json:"course_name"`
	Department   *string `db:"department" json:"department"`
	SemesterName string  `db:"semester_name" json:"semester_name"`
}

type Enrollment struct {
	CourseName   string `db:"course_name" json:"course_name"`
	SemesterName string `db:"semester_name" json:"semester_name"`
}

type StudentPlacement struct {
	CompanyName string   `db:"company_name" json:"company_name"`
	Status      string   `db:"status" json:"status"`
	CtcLpa      *float64 `db:"ctc_lpa" json:"ctc_lpa"`
}

type Recruiter struct {
	CompanyID   int64   `db:"company_id" json:"company_id"`
	CompanyName string  `db:"company_name" json:"company_name"`
	JobRoles    *string `db:"job_roles" json:"job_roles"`
}

type RecruiterPlacement struct {
	PlacementID int64    `db:"placement_id" json:"placement_id"`
	StudentID   int64    `db:"student_id" json:"student_id"`
	StudentName string   `db:"student_name" json:"student_name"`
	Department  *string  `db:"department" json:"department"`
	Status      string   `db:"status" json:"status"`
	CtcLpa      *float64 `db:"ctc_lpa" json:"ctc_lpa"`
}

// StudentProfile is an active student; EntryDate is YYYY-MM-DD.
type StudentProfile struct {
	StudentID  int64   `db:"student_id" json:"student_id"`
	Name       string  `db:"name" json:"name"`
	Department *string `db:"department" json:"department"`
	EntryDate  string  `db:"entry_date" json:"entry_date"`
}

type ProfessorProfile struct {
	ProfessorID int64   `db:"professor_id" json:"professor_id"`
	Name        string  `db:"name" json:"name"`
	Department  *string `db:"department" json:"department"`
}
