package academic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/academic/entity"
	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	semesterentity "github.com/ovaphlow/pitchfork/service-academics/internal/semester/entity"
)

// Repository is the read side of the academic records store.
type Repository interface {
	ListCourses(ctx context.Context, f entity.CourseFilter) ([]entity.Course, error)
	SearchCourses(ctx context.Context, keyword string) ([]entity.CourseHit, error)
	CourseOffering(ctx context.Context, courseID int64, semesterID *int64) (*entity.CourseDetail, error)
	CourseByID(ctx context.Context, courseID int64) (*entity.Course, error)
	ClassActive(ctx context.Context, classID int64) (bool, error)
	ClassSchedule(ctx context.Context, classID int64) ([]entity.Slot, error)
	ProfessorByID(ctx context.Context, professorID int64) (*entity.ProfessorProfile, error)
	ProfessorClasses(ctx context.Context, professorID int64, f entity.ClassFilter) ([]entity.ProfessorClass, error)
	ProfessorSchedule(ctx context.Context, professorID int64, f entity.ScheduleFilter) ([]entity.ScheduleEntry, error)
	StudentByID(ctx context.Context, studentID int64) (*entity.StudentProfile, error)
	StudentActive(ctx context.Context, studentID int64) (bool, error)
	StudentSchedule(ctx context.Context, studentID int64, f entity.ScheduleFilter) ([]entity.StudentScheduleEntry, error)
	StudentEnrollments(ctx context.Context, studentID int64, f entity.EnrollmentFilter) ([]entity.Enrollment, error)
	StudentPlacements(ctx context.Context, studentID int64) ([]entity.StudentPlacement, error)
	ListRecruiters(ctx context.Context) ([]entity.Recruiter, error)
	RecruiterByID(ctx context.Context, companyID int64) (*entity.Recruiter, error)
	RecruiterPlacements(ctx context.Context, companyID int64) ([]entity.RecruiterPlacement, error)
}

// SemesterResolver is the calendar lookup the views depend on.
type SemesterResolver interface {
	Current(ctx context.Context) (*semesterentity.Semester, bool, error)
	ResolveByOffset(ctx context.Context, entry time.Time, offset int) (*semesterentity.Semester, bool, error)
	ForStudent(ctx context.Context, entryDate string) (*semesterentity.StudentSemester, error)
}

// Service answers role-scoped queries over the academic records. Caller
// claims are passed explicitly to every scoped view.
type Service struct {
	repo      Repository
	semesters SemesterResolver
	logger    *zap.SugaredLogger
}

func NewService(r Repository, semesters SemesterResolver, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: r, semesters: semesters, logger: logger}
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// NormalizeDay accepts a weekday name in any case and returns its canonical form.
func NormalizeDay(day string) (string, error) {
	d := strings.TrimSpace(day)
	for _, w := range weekdays {
		if strings.EqualFold(d, w) {
			return w, nil
		}
	}
	return "", apperr.Validation("Invalid day value. Use Monday through Sunday.")
}

func storeErr(op string, err error) error {
	return apperr.Store(fmt.Errorf("%s: %w", op, err))
}

// notFoundOr maps sql.ErrNoRows to NotFound(msg) and anything else to StoreFailure.
func notFoundOr(op, msg string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(msg)
	}
	return storeErr(op, err)
}

func (s *Service) ListCourses(ctx context.Context, f entity.CourseFilter) ([]entity.Course, error) {
	if f.Department != nil && strings.TrimSpace(*f.Department) == "" {
		f.Department = nil
	}
	out, err := s.repo.ListCourses(ctx, f)
	if err != nil {
		return nil, storeErr("list courses", err)
	}
	return out, nil
}

func (s *Service) SearchCourses(ctx context.Context, keyword string) ([]entity.CourseHit, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.Validation("Search query parameter 'q' is required.")
	}
	out, err := s.repo.SearchCourses(ctx, keyword)
	if err != nil {
		return nil, storeErr("search courses", err)
	}
	return out, nil
}

// CourseDetail prefers the current semester's offering. A course with no
// such offering is still returned with null offering fields; only a missing
// or inactive course is NotFound.
func (s *Service) CourseDetail(ctx context.Context, courseID int64) (*entity.CourseDetail, error) {
	var semesterID *int64
	cur, ok, err := s.semesters.Current(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		semesterID = &cur.ID
	}

	d, err := s.repo.CourseOffering(ctx, courseID, semesterID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeErr("course offering", err)
	}

	c, err := s.repo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, notFoundOr("course by id", "Active course not found.", err)
	}
	return &entity.CourseDetail{Course: *c}, nil
}

// ClassSchedule is NotFound for a missing or inactive class even when slots exist.
func (s *Service) ClassSchedule(ctx context.Context, classID int64) ([]entity.Slot, error) {
	ok, err := s.repo.ClassActive(ctx, classID)
	if err != nil {
		return nil, storeErr("class active", err)
	}
	if !ok {
		return nil, apperr.NotFound("Active class offering not found.")
	}
	out, err := s.repo.ClassSchedule(ctx, classID)
	if err != nil {
		return nil, storeErr("class schedule", err)
	}
	return out, nil
}

func (s *Service) Professor(ctx context.Context, professorID int64) (*entity.ProfessorProfile, error) {
	p, err := s.repo.ProfessorByID(ctx, professorID)
	if err != nil {
		return nil, notFoundOr("professor by id", "Professor not found or inactive.", err)
	}
	return p, nil
}

func (s *Service) MyProfessorProfile(ctx context.Context, c *auth.Claims) (*entity.ProfessorProfile, error) {
	id, err := auth.RequireProfessor(c)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.ProfessorByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("professor by id", "Professor profile not found or inactive.", err)
	}
	return p, nil
}

func (s *Service) ProfessorClasses(ctx context.Context, professorID int64, f entity.ClassFilter) ([]entity.ProfessorClass, error) {
	out, err := s.repo.ProfessorClasses(ctx, professorID, f)
	if err != nil {
		return nil, storeErr("professor classes", err)
	}
	return out, nil
}

func (s *Service) MyClasses(ctx context.Context, c *auth.Claims, f entity.ClassFilter) ([]entity.ProfessorClass, error) {
	id, err := auth.RequireProfessor(c)
	if err != nil {
		return nil, err
	}
	return s.ProfessorClasses(ctx, id, f)
}

func (s *Service) ProfessorSchedule(ctx context.Context, professorID int64, f entity.ScheduleFilter) ([]entity.ScheduleEntry, error) {
	if err := normalizeScheduleDay(&f); err != nil {
		return nil, err
	}
	f.RelativeSem = nil
	out, err := s.repo.ProfessorSchedule(ctx, professorID, f)
	if err != nil {
		return nil, storeErr("professor schedule", err)
	}
	return out, nil
}

func (s *Service) MyTeachingSchedule(ctx context.Context, c *auth.Claims, f entity.ScheduleFilter) ([]entity.ScheduleEntry, error) {
	id, err := auth.RequireProfessor(c)
	if err != nil {
		return nil, err
	}
	return s.ProfessorSchedule(ctx, id, f)
}

func normalizeScheduleDay(f *entity.ScheduleFilter) error {
	if f.Day == nil {
		return nil
	}
	day, err := NormalizeDay(*f.Day)
	if err != nil {
		return err
	}
	f.Day = &day
	return nil
}

func (s *Service) MyStudentProfile(ctx context.Context, c *auth.Claims) (*entity.StudentProfile, error) {
	id, err := auth.RequireStudent(c)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.StudentByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("student by id", "Student profile not found or inactive.", err)
	}
	return p, nil
}

// resolveRelative turns a 1-based relative semester number into a semester id.
func (s *Service) resolveRelative(ctx context.Context, c *auth.Claims, n int) (int64, error) {
	if n < 1 {
		return 0, apperr.Validation("Invalid relative_sem value.")
	}
	if c.EntryDate == nil {
		return 0, apperr.Forbidden("Access denied or missing entry date.")
	}
	entry, err := time.Parse("2006-01-02", *c.EntryDate)
	if err != nil {
		return 0, apperr.Forbidden("Access denied or missing entry date.")
	}
	sem, ok, err := s.semesters.ResolveByOffset(ctx, entry, n-1)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperr.NotFound(fmt.Sprintf("No semester found for relative_sem %d.", n))
	}
	return sem.ID, nil
}

func (s *Service) MySchedule(ctx context.Context, c *auth.Claims, f entity.ScheduleFilter) ([]entity.StudentScheduleEntry, error) {
	id, err := auth.RequireStudent(c)
	if err != nil {
		return nil, err
	}
	if f.RelativeSem != nil {
		semID, err := s.resolveRelative(ctx, c, *f.RelativeSem)
		if err != nil {
			return nil, err
		}
		f.SemesterID, f.RelativeSem = &semID, nil
	}
	return s.studentSchedule(ctx, id, f)
}

// StudentSchedule is public but NotFound unless the student is active.
func (s *Service) StudentSchedule(ctx context.Context, studentID int64, f entity.ScheduleFilter) ([]entity.StudentScheduleEntry, error) {
	if err := s.requireActiveStudent(ctx, studentID); err != nil {
		return nil, err
	}
	f.RelativeSem = nil
	return s.studentSchedule(ctx, studentID, f)
}

func (s *Service) studentSchedule(ctx context.Context, studentID int64, f entity.ScheduleFilter) ([]entity.StudentScheduleEntry, error) {
	if err := normalizeScheduleDay(&f); err != nil {
		return nil, err
	}
	out, err := s.repo.StudentSchedule(ctx, studentID, f)
	if err != nil {
		return nil, storeErr("student schedule", err)
	}
	return out, nil
}

func (s *Service) MyEnrollments(ctx context.Context, c *auth.Claims, f entity.EnrollmentFilter) ([]entity.Enrollment, error) {
	id, err := auth.RequireStudent(c)
	if err != nil {
		return nil, err
	}
	if f.RelativeSem != nil {
		semID, err := s.resolveRelative(ctx, c, *f.RelativeSem)
		if err != nil {
			return nil, err
		}
		f.SemesterID, f.RelativeSem = &semID, nil
	}
	return s.studentEnrollments(ctx, id, f)
}

// StudentEnrollments is public but NotFound unless the student is active.
func (s *Service) StudentEnrollments(ctx context.Context, studentID int64, f entity.EnrollmentFilter) ([]entity.Enrollment, error) {
	if err := s.requireActiveStudent(ctx, studentID); err != nil {
		return nil, err
	}
	f.RelativeSem = nil
	return s.studentEnrollments(ctx, studentID, f)
}

func (s *Service) studentEnrollments(ctx context.Context, studentID int64, f entity.EnrollmentFilter) ([]entity.Enrollment, error) {
	out, err := s.repo.StudentEnrollments(ctx, studentID, f)
	if err != nil {
		return nil, storeErr("student enrollments", err)
	}
	return out, nil
}

func (s *Service) requireActiveStudent(ctx context.Context, studentID int64) error {
	ok, err := s.repo.StudentActive(ctx, studentID)
	if err != nil {
		return storeErr("student active", err)
	}
	if !ok {
		return apperr.NotFound("Active student not found.")
	}
	return nil
}

func (s *Service) MyPlacements(ctx context.Context, c *auth.Claims) ([]entity.StudentPlacement, error) {
	id, err := auth.RequireStudent(c)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.StudentPlacements(ctx, id)
	if err != nil {
		return nil, storeErr("student placements", err)
	}
	return out, nil
}

// MyCurrentSemester numbers today's semester relative to the caller's entry date.
func (s *Service) MyCurrentSemester(ctx context.Context, c *auth.Claims) (*semesterentity.StudentSemester, error) {
	if _, err := auth.RequireStudent(c); err != nil || c.EntryDate == nil {
		return nil, apperr.Forbidden("Access denied or missing entry date.")
	}
	return s.semesters.ForStudent(ctx, *c.EntryDate)
}

func (s *Service) ListRecruiters(ctx context.Context) ([]entity.Recruiter, error) {
	out, err := s.repo.ListRecruiters(ctx)
	if err != nil {
		return nil, storeErr("list recruiters", err)
	}
	return out, nil
}

func (s *Service) Recruiter(ctx context.Context, companyID int64) (*entity.Recruiter, error) {
	r, err := s.repo.RecruiterByID(ctx, companyID)
	if err != nil {
		return nil, notFoundOr("recruiter by id", "Active recruiter not found", err)
	}
	return r, nil
}

func (s *Service) RecruiterPlacements(ctx context.Context, companyID int64) ([]entity.RecruiterPlacement, error) {
	if _, err := s.Recruiter(ctx, companyID); err != nil {
		return nil, err
	}
	out, err := s.repo.RecruiterPlacements(ctx, companyID)
	if err != nil {
		return nil, storeErr("recruiter placements", err)
	}
	return out, nil
}
