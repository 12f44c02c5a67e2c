package semester

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/semester/entity"
)

func TestHandlerCurrent(t *testing.T) {
	h := NewHandler(withToday(NewService(calendar(), nil, nil), "2023-09-10"), zap.NewNop().Sugar())
	res := httptest.NewRecorder()
	h.Current(res, httptest.NewRequest(http.MethodGet, "/api/semesters/current", nil))

	require.Equal(t, http.StatusOK, res.Code)
	var sem entity.Semester
	require.NoError(t, json.NewDecoder(res.Body).Decode(&sem))
	assert.Equal(t, "Fall 2023", sem.Name)
}

func TestHandlerCurrentBetweenTerms(t *testing.T) {
	h := NewHandler(withToday(NewService(calendar(), nil, nil), "2023-06-15"), zap.NewNop().Sugar())
	res := httptest.NewRecorder()
	h.Current(res, httptest.NewRequest(http.MethodGet, "/api/semesters/current", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestHandlerList(t *testing.T) {
	h := NewHandler(NewService(calendar(), nil, nil), zap.NewNop().Sugar())
	res := httptest.NewRecorder()
	h.List(res, httptest.NewRequest(http.MethodGet, "/api/semesters", nil))

	require.Equal(t, http.StatusOK, res.Code)
	var out []entity.Semester
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Len(t, out, 3)
}
