package entity

// Filters hold the optional query parameters of each view. A nil field is
// not applied.

type CourseFilter struct {
	Department *string
}

type ClassFilter struct {
	SemesterID *int64
}

// ScheduleFilter narrows schedule views. RelativeSem is only honoured on
// the caller's own schedule and is turned into SemesterID before the store
// sees the filter.
type ScheduleFilter struct {
	SemesterID  *int64
	Day         *string
	RelativeSem *int
}

// EnrollmentFilter narrows enrollment views; RelativeSem as in ScheduleFilter.
type EnrollmentFilter struct {
	SemesterID  *int64
	RelativeSem *int
}
