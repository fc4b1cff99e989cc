package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextdash/dashboard-backend/internal/action"
	"github.com/nextdash/dashboard-backend/internal/projects/domain"
	"github.com/nextdash/dashboard-backend/internal/validation"
)

type fakeService struct {
	lastForm  url.Values
	lastID    string
	lastQuery string
	lastPage  int
	result    action.Result
	detail    *domain.ProjectDetail
	err       error
}

func (f *fakeService) Create(_ context.Context, form url.Values) action.Result {
	f.lastForm = form
	return f.result
}

func (f *fakeService) Update(_ context.Context, id string, form url.Values) action.Result {
	f.lastID, f.lastForm = id, form
	return f.result
}

func (f *fakeService) Get(_ context.Context, id string) (*domain.ProjectDetail, error) {
	f.lastID = id
	return f.detail, f.err
}

func (f *fakeService) List(_ context.Context, query string, page int) (*domain.ProjectPage, error) {
	f.lastQuery, f.lastPage = query, page
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ProjectPage{Projects: []domain.ProjectListItem{{ID: "p1", Title: "Apollo"}}, Page: page, TotalPages: 1}, nil
}

func setupRouter(svc Service, mutate ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(svc).Register(r.Group("/api/v1/projects"), mutate...)
	return r
}

func postForm(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreate_RedirectsOnSuccess(t *testing.T) {
	svc := &fakeService{result: action.Redirect("/dashboard/projects")}
	r := setupRouter(svc)

	form := url.Values{"customerId": {"c1"}, "title": {"Apollo"}, "description": {"desc"}, "images": {"u1", "u2"}}
	rr := postForm(r, http.MethodPost, "/api/v1/projects", form)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/projects", rr.Header().Get("Location"))
	assert.Equal(t, []string{"u1", "u2"}, svc.lastForm["images"])
	assert.Equal(t, "Apollo", svc.lastForm.Get("title"))
}

func TestCreate_InvalidRendersState(t *testing.T) {
	svc := &fakeService{result: action.Invalid(validation.FieldErrors{"title": {"Please enter a project title."}}, "Missing Fields. Failed to Create Project.")}
	r := setupRouter(svc)

	rr := postForm(r, http.MethodPost, "/api/v1/projects", url.Values{})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var body action.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []string{"Please enter a project title."}, body.Errors["title"])
}

func TestUpdate_PassesID(t *testing.T) {
	svc := &fakeService{result: action.Redirect("/dashboard/projects")}
	r := setupRouter(svc)

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		rr := postForm(r, method, "/api/v1/projects/abc", url.Values{"title": {"x"}})
		assert.Equal(t, http.StatusSeeOther, rr.Code, method)
		assert.Equal(t, "abc", svc.lastID)
	}
}

func TestCreate_MultipartImages(t *testing.T) {
	svc := &fakeService{result: action.Redirect("/dashboard/projects")}
	r := setupRouter(svc)

	body := "--b\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nApollo\r\n" +
		"--b\r\nContent-Disposition: form-data; name=\"images\"\r\n\r\nu1\r\n" +
		"--b\r\nContent-Disposition: form-data; name=\"images\"\r\n\r\nu2\r\n--b--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, []string{"u1", "u2"}, svc.lastForm["images"])
}

func TestMutateMiddlewareGuardsWrites(t *testing.T) {
	svc := &fakeService{result: action.Redirect("/dashboard/projects")}
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	r := setupRouter(svc, deny)

	rr := postForm(r, http.MethodPost, "/api/v1/projects", url.Values{})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Nil(t, svc.lastForm)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeService{detail: &domain.ProjectDetail{Project: domain.Project{ID: "p1", Title: "Apollo"}}}
		rr := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"title":"Apollo"`)
	})

	t.Run("missing", func(t *testing.T) {
		svc := &fakeService{err: domain.ErrNotFound}
		rr := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/projects/p9", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("store error is not leaked", func(t *testing.T) {
		svc := &fakeService{err: errors.New("pq: relation does not exist")}
		rr := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "relation")
	})
}

func TestList(t *testing.T) {
	svc := &fakeService{}
	rr := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/projects?query=apo&page=2", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "apo", svc.lastQuery)
	assert.Equal(t, 2, svc.lastPage)

	var body struct {
		OK         bool                     `json:"ok"`
		Projects   []domain.ProjectListItem `json:"projects"`
		TotalPages int                      `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Len(t, body.Projects, 1)
}
