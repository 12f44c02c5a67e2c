package entity

import "time"

// Semester is a closed date interval of the academic calendar.
type Semester struct {
	ID        int64     `db:"semester_id" json:"semester_id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
}

// StudentSemester is the caller's current semester and its relative number.
type StudentSemester struct {
	CurrentSemesterID      int64  `json:"current_semester_id"`
	CurrentSemesterName    string `json:"current_semester_name"`
	RelativeSemesterNumber int    `json:"relative_semester_number"`
}
