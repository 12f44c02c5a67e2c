package academic

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/academic/entity"
	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/utilities"
)

// Handler exposes the course, professor, student and recruiter views.
// Routes under /me must be mounted behind the auth gate.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		utilities.WriteError(w, h.logger, r, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, v)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid " + name + ".")
	}
	return id, nil
}

func optionalString(r *http.Request, name string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt64(r *http.Request, name string) (*int64, error) {
	v := optionalString(r, name)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		return nil, apperr.Validation("Invalid " + name + " value.")
	}
	return &n, nil
}

func optionalInt(r *http.Request, name string) (*int, error) {
	n, err := optionalInt64(r, name)
	if err != nil || n == nil {
		return nil, err
	}
	i := int(*n)
	return &i, nil
}

func scheduleFilter(r *http.Request, relative bool) (entity.ScheduleFilter, error) {
	var f entity.ScheduleFilter
	var err error
	if f.SemesterID, err = optionalInt64(r, "semester_id"); err != nil {
		return f, err
	}
	f.Day = optionalString(r, "day")
	if relative {
		f.RelativeSem, err = optionalInt(r, "relative_sem")
	}
	return f, err
}

func enrollmentFilter(r *http.Request, relative bool) (entity.EnrollmentFilter, error) {
	var f entity.EnrollmentFilter
	var err error
	if f.SemesterID, err = optionalInt64(r, "semester_id"); err != nil {
		return f, err
	}
	if relative {
		f.RelativeSem, err = optionalInt(r, "relative_sem")
	}
	return f, err
}

func claims(r *http.Request) *auth.Claims {
	c, _ := auth.ClaimsFromContext(r.Context())
	return c
}

// Courses

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListCourses(r.Context(), entity.CourseFilter{Department: optionalString(r, "department")})
	h.respond(w, r, out, err)
}

func (h *Handler) SearchCourses(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.SearchCourses(r.Context(), r.URL.Query().Get("q"))
	h.respond(w, r, out, err)
}

func (h *Handler) CourseDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.CourseDetail(r.Context(), id)
	h.respond(w, r, out, err)
}

func (h *Handler) ClassSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "class_id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.ClassSchedule(r.Context(), id)
	h.respond(w, r, out, err)
}

// Professors

func (h *Handler) MyProfessorProfile(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.MyProfessorProfile(r.Context(), claims(r))
	h.respond(w, r, out, err)
}

func (h *Handler) MyClasses(w http.ResponseWriter, r *http.Request) {
	sem, err := optionalInt64(r, "semester_id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.MyClasses(r.Context(), claims(r), entity.ClassFilter{SemesterID: sem})
	h.respond(w, r, out, err)
}

func (h *Handler) MyTeachingSchedule(w http.ResponseWriter, r *http.Request) {
	f, err := scheduleFilter(r, false)
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.MyTeachingSchedule(r.Context(), claims(r), f)
	h.respond(w, r, out, err)
}

func (h *Handler) Professor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.Professor(r.Context(), id)
	h.respond(w, r, out, err)
}

func (h *Handler) ProfessorClasses(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	sem, err := optionalInt64(r, "semester_id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.ProfessorClasses(r.Context(), id, entity.ClassFilter{SemesterID: sem})
	h.respond(w, r, out, err)
}

func (h *Handler) ProfessorSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	f, err := scheduleFilter(r, false)
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.ProfessorSchedule(r.Context(), id, f)
	h.respond(w, r, out, err)
}

// Students

func (h *Handler) MyStudentProfile(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.MyStudentProfile(r.Context(), claims(r))
	h.respond(w, r, out, err)
}

func (h *Handler) MySchedule(w http.ResponseWriter, r *http.Request) {
	f, err := scheduleFilter(r, true)
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.MySchedule(r.Context(), claims(r), f)
	h.respond(w, r, out, err)
}

func (h *Handler) MyEnrollments(w http.ResponseWriter, r *http.Request) {
	f, err := enrollmentFilter(r, true)
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.MyEnrollments(r.Context(), claims(r), f)
	h.respond(w, r, out, err)
}

func (h *Handler) MyPlacements(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.MyPlacements(r.Context(), claims(r))
	h.respond(w, r, out, err)
}

func (h *Handler) MyCurrentSemester(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.MyCurrentSemester(r.Context(), claims(r))
	h.respond(w, r, out, err)
}

func (h *Handler) StudentSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	f, err := scheduleFilter(r, false)
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.StudentSchedule(r.Context(), id, f)
	h.respond(w, r, out, err)
}

func (h *Handler) StudentEnrollments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	f, err := enrollmentFilter(r, false)
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.StudentEnrollments(r.Context(), id, f)
	h.respond(w, r, out, err)
}

// Recruiters

func (h *Handler) ListRecruiters(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListRecruiters(r.Context())
	h.respond(w, r, out, err)
}

func (h *Handler) Recruiter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.Recruiter(r.Context(), id)
	h.respond(w, r, out, err)
}

func (h *Handler) RecruiterPlacements(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}
	out, err := h.svc.RecruiterPlacements(r.Context(), id)
	h.respond(w, r, out, err)
}

// Routes mounts the views on r; gate guards the /me routes.
func (h *Handler) Routes(r chi.Router, gate func(http.Handler) http.Handler) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Get("/search", h.SearchCourses)
		r.Get("/classes/{class_id}/schedule", h.ClassSchedule)
		r.Get("/{id}", h.CourseDetail)
	})
	r.Route("/professors", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(gate)
			r.Get("/me", h.MyProfessorProfile)
			r.Get("/me/classes", h.MyClasses)
			r.Get("/me/schedule", h.MyTeachingSchedule)
		})
		r.Get("/{id}", h.Professor)
		r.Get("/{id}/classes", h.ProfessorClasses)
		r.Get("/{id}/schedule", h.ProfessorSchedule)
	})
	r.Route("/students", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(gate)
			r.Get("/me", h.MyStudentProfile)
			r.Get("/me/schedule", h.MySchedule)
			r.Get("/me/enrollments", h.MyEnrollments)
			r.Get("/me/placements", h.MyPlacements)
			r.Get("/me/current-semester", h.MyCurrentSemester)
		})
		r.Get("/{id}/schedule", h.StudentSchedule)
		r.Get("/{id}/enrollments", h.StudentEnrollments)
	})
	r.Route("/recruiters", func(r chi.Router) {
		r.Get("/", h.ListRecruiters)
		r.Get("/{id}", h.Recruiter)
		r.Get("/{id}/placements", h.RecruiterPlacements)
	})
}
