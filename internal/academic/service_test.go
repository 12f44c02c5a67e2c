package academic

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-academics/internal/academic/entity"
	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	semesterentity "github.com/ovaphlow/pitchfork/service-academics/internal/semester/entity"
)

func strPtr(s string) *string { return &s }
func idPtr(v int64) *int64    { return &v }
func intPtr(v int) *int       { return &v }

// fakeRepo records the last filters it was handed.
type fakeRepo struct {
	courses        map[int64]entity.Course
	offerings      map[int64]entity.CourseDetail
	activeClasses  map[int64]bool
	activeStudents map[int64]bool
	recruiters     map[int64]entity.Recruiter
	schedule       []entity.ScheduleEntry
	err            error

	offeringSemester *int64
	scheduleFilter   entity.ScheduleFilter
	enrollFilter     entity.EnrollmentFilter
	scheduleCalls    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		courses:        map[int64]entity.Course{},
		offerings:      map[int64]entity.CourseDetail{},
		activeClasses:  map[int64]bool{},
		activeStudents: map[int64]bool{},
		recruiters:     map[int64]entity.Recruiter{},
	}
}

func (f *fakeRepo) ListCourses(context.Context, entity.CourseFilter) ([]entity.Course, error) {
	return nil, f.err
}

func (f *fakeRepo) SearchCourses(context.Context, string) ([]entity.CourseHit, error) {
	return []entity.CourseHit{}, f.err
}

func (f *fakeRepo) CourseOffering(_ context.Context, id int64, sem *int64) (*entity.CourseDetail, error) {
	f.offeringSemester = sem
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.offerings[id]
	if !ok || (sem != nil && d.SemesterID != nil && *d.SemesterID != *sem) {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (f *fakeRepo) CourseByID(_ context.Context, id int64) (*entity.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (f *fakeRepo) ClassActive(_ context.Context, id int64) (bool, error) {
	return f.activeClasses[id], f.err
}

func (f *fakeRepo) ClassSchedule(context.Context, int64) ([]entity.Slot, error) {
	return []entity.Slot{{DayOfWeek: "Monday"}}, nil
}

func (f *fakeRepo) ProfessorByID(_ context.Context, id int64) (*entity.ProfessorProfile, error) {
	if id != 9 {
		return nil, sql.ErrNoRows
	}
	return &entity.ProfessorProfile{ProfessorID: 9, Name: "Dr. Hopper"}, nil
}

func (f *fakeRepo) ProfessorClasses(context.Context, int64, entity.ClassFilter) ([]entity.ProfessorClass, error) {
	return []entity.ProfessorClass{}, nil
}

func (f *fakeRepo) ProfessorSchedule(_ context.Context, _ int64, flt entity.ScheduleFilter) ([]entity.ScheduleEntry, error) {
	f.scheduleFilter = flt
	f.scheduleCalls++
	var out []entity.ScheduleEntry
	for _, e := range f.schedule {
		if flt.Day == nil || e.DayOfWeek == *flt.Day {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) StudentByID(_ context.Context, id int64) (*entity.StudentProfile, error) {
	if !f.activeStudents[id] {
		return nil, sql.ErrNoRows
	}
	return &entity.StudentProfile{StudentID: id, Name: "Ada", EntryDate: "2023-01-15"}, nil
}

func (f *fakeRepo) StudentActive(_ context.Context, id int64) (bool, error) {
	return f.activeStudents[id], nil
}

func (f *fakeRepo) StudentSchedule(_ context.Context, _ int64, flt entity.ScheduleFilter) ([]entity.StudentScheduleEntry, error) {
	f.scheduleFilter = flt
	f.scheduleCalls++
	return []entity.StudentScheduleEntry{}, nil
}

func (f *fakeRepo) StudentEnrollments(_ context.Context, _ int64, flt entity.EnrollmentFilter) ([]entity.Enrollment, error) {
	f.enrollFilter = flt
	return []entity.Enrollment{}, nil
}

func (f *fakeRepo) StudentPlacements(context.Context, int64) ([]entity.StudentPlacement, error) {
	return []entity.StudentPlacement{}, f.err
}

func (f *fakeRepo) ListRecruiters(context.Context) ([]entity.Recruiter, error) {
	return []entity.Recruiter{}, nil
}

func (f *fakeRepo) RecruiterByID(_ context.Context, id int64) (*entity.Recruiter, error) {
	r, ok := f.recruiters[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (f *fakeRepo) RecruiterPlacements(context.Context, int64) ([]entity.RecruiterPlacement, error) {
	return []entity.RecruiterPlacement{}, nil
}

type fakeSemesters struct {
	current *semesterentity.Semester
	byOrder []semesterentity.Semester
	entry   time.Time
}

func (f *fakeSemesters) Current(context.Context) (*semesterentity.Semester, bool, error) {
	return f.current, f.current != nil, nil
}

func (f *fakeSemesters) ResolveByOffset(_ context.Context, entry time.Time, offset int) (*semesterentity.Semester, bool, error) {
	f.entry = entry
	if offset >= len(f.byOrder) {
		return nil, false, nil
	}
	return &f.byOrder[offset], true, nil
}

func (f *fakeSemesters) ForStudent(_ context.Context, entryDate string) (*semesterentity.StudentSemester, error) {
	if f.current == nil {
		return nil, apperr.NotFound("No current semester found.")
	}
	return &semesterentity.StudentSemester{CurrentSemesterID: f.current.ID, CurrentSemesterName: f.current.Name, RelativeSemesterNumber: 2}, nil
}

func studentClaims() *auth.Claims {
	return &auth.Claims{Identity: auth.Identity{AccountID: 1, Role: auth.RoleStudent, StudentID: idPtr(4), EntryDate: strPtr("2023-01-15")}}
}

func professorClaims() *auth.Claims {
	return &auth.Claims{Identity: auth.Identity{AccountID: 2, Role: auth.RoleProfessor, ProfessorID: idPtr(9)}}
}

func newTestService() (*Service, *fakeRepo, *fakeSemesters) {
	repo := newFakeRepo()
	sems := &fakeSemesters{
		current: &semesterentity.Semester{ID: 2, Name: "Fall 2023"},
		byOrder: []semesterentity.Semester{{ID: 1, Name: "Spring 2023"}, {ID: 2, Name: "Fall 2023"}},
	}
	return NewService(repo, sems, nil), repo, sems
}

func TestCourseDetailFallsBackToBareCourse(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.courses[5] = entity.Course{CourseID: 5, CourseName: "Networks", Credits: 3}
	repo.offerings[5] = entity.CourseDetail{
		Course:        repo.courses[5],
		ProfessorName: strPtr("Dr. Hopper"),
		SemesterID:    idPtr(1),
		SemesterName:  strPtr("Spring 2023"),
	}

	d, err := svc.CourseDetail(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, repo.offeringSemester)
	assert.Equal(t, int64(2), *repo.offeringSemester)
	assert.Equal(t, "Networks", d.CourseName)
	assert.Nil(t, d.ProfessorName)
	assert.Nil(t, d.SemesterName)
}

func TestCourseDetailCurrentOffering(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.courses[5] = entity.Course{CourseID: 5, CourseName: "Networks"}
	repo.offerings[5] = entity.CourseDetail{Course: repo.courses[5], SemesterID: idPtr(2), SemesterName: strPtr("Fall 2023")}

	d, err := svc.CourseDetail(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Fall 2023", *d.SemesterName)
}

func TestCourseDetailBetweenTerms(t *testing.T) {
	svc, repo, sems := newTestService()
	sems.current = nil
	repo.courses[5] = entity.Course{CourseID: 5}
	repo.offerings[5] = entity.CourseDetail{Course: repo.courses[5], SemesterID: idPtr(1)}

	_, err := svc.CourseDetail(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, repo.offeringSemester)
}

func TestCourseDetailInactiveCourse(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CourseDetail(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCourseDetailStoreFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.err = errors.New("pq: connection reset")
	_, err := svc.CourseDetail(context.Background(), 5)
	assert.ErrorIs(t, err, apperr.ErrStoreFailure)
	assert.Equal(t, "internal server error", err.(*apperr.Error).Message)
}

func TestClassScheduleInactiveClass(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := svc.ClassSchedule(context.Background(), 11)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	repo.activeClasses[11] = true
	out, err := svc.ClassSchedule(context.Background(), 11)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestSearchRequiresKeyword(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.SearchCourses(context.Background(), "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNormalizeDay(t *testing.T) {
	d, err := NormalizeDay("wednesday")
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", d)

	_, err = NormalizeDay("Someday")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMyTeachingScheduleByDay(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.schedule = []entity.ScheduleEntry{
		{CourseName: "Algorithms", Slot: entity.Slot{DayOfWeek: "Wednesday", StartTime: "09:00:00"}},
		{CourseName: "Compilers", Slot: entity.Slot{DayOfWeek: "Thursday", StartTime: "08:00:00"}},
	}

	out, err := svc.MyTeachingSchedule(context.Background(), professorClaims(), entity.ScheduleFilter{Day: strPtr("WEDNESDAY")})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Algorithms", out[0].CourseName)
	assert.Equal(t, "Wednesday", *repo.scheduleFilter.Day)
}

func TestScheduleRejectsUnknownDay(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := svc.MyTeachingSchedule(context.Background(), professorClaims(), entity.ScheduleFilter{Day: strPtr("Funday")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, repo.scheduleCalls)
}

func TestRoleScoping(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.MyTeachingSchedule(ctx, studentClaims(), entity.ScheduleFilter{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = svc.MyClasses(ctx, studentClaims(), entity.ClassFilter{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = svc.MyPlacements(ctx, professorClaims())
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = svc.MyEnrollments(ctx, nil, entity.EnrollmentFilter{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	p, err := svc.MyProfessorProfile(ctx, professorClaims())
	require.NoError(t, err)
	assert.Equal(t, "Dr. Hopper", p.Name)
}

func TestMyEnrollmentsRelativeSemester(t *testing.T) {
	svc, repo, sems := newTestService()
	ctx := context.Background()

	_, err := svc.MyEnrollments(ctx, studentClaims(), entity.EnrollmentFilter{SemesterID: idPtr(7), RelativeSem: intPtr(2)})
	require.NoError(t, err)
	require.NotNil(t, repo.enrollFilter.SemesterID)
	assert.Equal(t, int64(2), *repo.enrollFilter.SemesterID)
	assert.Nil(t, repo.enrollFilter.RelativeSem)
	assert.Equal(t, "2023-01-15", sems.entry.Format("2006-01-02"))

	_, err = svc.MyEnrollments(ctx, studentClaims(), entity.EnrollmentFilter{RelativeSem: intPtr(0)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.MyEnrollments(ctx, studentClaims(), entity.EnrollmentFilter{RelativeSem: intPtr(5)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMyScheduleRelativeSemester(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := svc.MySchedule(context.Background(), studentClaims(), entity.ScheduleFilter{RelativeSem: intPtr(1), Day: strPtr("monday")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), *repo.scheduleFilter.SemesterID)
	assert.Equal(t, "Monday", *repo.scheduleFilter.Day)
}

func TestPublicStudentViewsRequireActiveStudent(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.StudentSchedule(ctx, 4, entity.ScheduleFilter{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.StudentEnrollments(ctx, 4, entity.EnrollmentFilter{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	repo.activeStudents[4] = true
	_, err = svc.StudentSchedule(ctx, 4, entity.ScheduleFilter{RelativeSem: intPtr(1)})
	require.NoError(t, err)
	assert.Nil(t, repo.scheduleFilter.SemesterID)
}

func TestMyCurrentSemester(t *testing.T) {
	svc, _, sems := newTestService()
	ctx := context.Background()

	out, err := svc.MyCurrentSemester(ctx, studentClaims())
	require.NoError(t, err)
	assert.Equal(t, "Fall 2023", out.CurrentSemesterName)

	noEntry := studentClaims()
	noEntry.EntryDate = nil
	_, err = svc.MyCurrentSemester(ctx, noEntry)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	sems.current = nil
	_, err = svc.MyCurrentSemester(ctx, studentClaims())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecruiterPlacementsRequireActiveRecruiter(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := svc.RecruiterPlacements(context.Background(), 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	repo.recruiters[3] = entity.Recruiter{CompanyID: 3, CompanyName: "Acme"}
	out, err := svc.RecruiterPlacements(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, out)
}
