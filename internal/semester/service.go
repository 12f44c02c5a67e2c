package semester

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/internal/semester/entity"
)

const (
	dayLayout          = "2006-01-02"
	monthsPerSemester  = 6.0
	semesterRoundingEp = 0.1
)

// Repository reads the academic calendar.
type Repository interface {
	Containing(ctx context.Context, day string) (*entity.Semester, error)
	NthFrom(ctx context.Context, day string, offset int) (*entity.Semester, error)
	List(ctx context.Context) ([]entity.Semester, error)
}

// Service resolves the current semester and relative semester numbers.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService builds the resolver; cache may be nil.
func NewService(r Repository, cache *Cache, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: r, cache: cache, logger: logger, now: time.Now}
}

// Today is the resolver's calendar day.
func (s *Service) Today() string {
	return s.now().Format(dayLayout)
}

// Current returns the semester containing today. ok is false between terms.
func (s *Service) Current(ctx context.Context) (sem *entity.Semester, ok bool, err error) {
	day := s.Today()
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, day)
		if err != nil {
			s.logger.Warnw("semester cache read failed", "day", day, "err", err)
		} else if cached != nil {
			return cached, true, nil
		}
	}

	sem, err = s.repo.Containing(ctx, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperr.Store(fmt.Errorf("current semester: %w", err))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, day, sem); err != nil {
			s.logger.Warnw("semester cache write failed", "day", day, "err", err)
		}
	}
	return sem, true, nil
}

// ResolveByOffset returns the (offset+1)-th semester starting on or after entry.
func (s *Service) ResolveByOffset(ctx context.Context, entry time.Time, offset int) (*entity.Semester, bool, error) {
	if offset < 0 {
		return nil, false, apperr.Validation("Invalid relative_sem value.")
	}
	sem, err := s.repo.NthFrom(ctx, entry.Format(dayLayout), offset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperr.Store(fmt.Errorf("semester by offset: %w", err))
	}
	return sem, true, nil
}

// List returns the whole calendar, newest first.
func (s *Service) List(ctx context.Context) ([]entity.Semester, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Store(fmt.Errorf("list semesters: %w", err))
	}
	return out, nil
}

// ForStudent returns today's semester numbered relative to entryDate (YYYY-MM-DD).
func (s *Service) ForStudent(ctx context.Context, entryDate string) (*entity.StudentSemester, error) {
	entry, err := time.Parse(dayLayout, entryDate)
	if err != nil {
		return nil, apperr.Validation("Invalid entry date.")
	}
	cur, ok, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("No current semester found.")
	}
	return &entity.StudentSemester{
		CurrentSemesterID:      cur.ID,
		CurrentSemesterName:    cur.Name,
		RelativeSemesterNumber: RelativeNumber(entry, cur.StartDate),
	}, nil
}

// RelativeNumber numbers semesters from 1 at entry, advancing every six
// months. The small bias keeps starts a few days short of a boundary from
// falling back one semester.
func RelativeNumber(entry, semesterStart time.Time) int {
	months := monthsBetween(dateOnly(entry), dateOnly(semesterStart))
	n := int(math.Floor(months/monthsPerSemester+semesterRoundingEp)) + 1
	if n < 1 {
		return 1
	}
	return n
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthsBetween returns the calendar months from a to b, with the remainder
// as a fraction of the month it falls in.
func monthsBetween(a, b time.Time) float64 {
	if b.Before(a) {
		return -monthsBetween(b, a)
	}
	whole := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	anchor := a.AddDate(0, whole, 0)
	if anchor.After(b) {
		whole--
		anchor = a.AddDate(0, whole, 0)
	}
	next := a.AddDate(0, whole+1, 0)
	frac := b.Sub(anchor).Hours() / next.Sub(anchor).Hours()
	return float64(whole) + frac
}
