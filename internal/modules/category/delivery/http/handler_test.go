package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/complainthub/internal/modules/category/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func setup(svc *MockCategoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoryHandler(svc)
	r := gin.New()
	r.POST("/categories", h.CreateCategory)
	r.GET("/categories/:id", h.GetCategory)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateCategoryDuplicate(t *testing.T) {
	svc := new(MockCategoryService)
	svc.On("CreateCategory", mock.Anything, dto.CategoryRequest{Name: "Kesehatan"}).
		Return(nil, &pgconn.PgError{Code: "23505", ConstraintName: "idx_categories_name", TableName: "categories"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Kesehatan"}`))
	req.Header.Set("Content-Type", "application/json")
	setup(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name must be unique", decode(t, w)["errors"])
}

func TestCreateCategoryValidation(t *testing.T) {
	svc := new(MockCategoryService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	setup(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []interface{}{"name: is required"}, decode(t, w)["errors"])
	svc.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
}

func TestGetCategoryCreatedEnvelope(t *testing.T) {
	svc := new(MockCategoryService)
	id := uuid.New()
	svc.On("GetCategory", mock.Anything, id).Return(&dto.CategoryResponse{ID: id, Name: "Jalan"}, nil)

	w := httptest.NewRecorder()
	setup(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories/"+id.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Category retrieved successfully", body["message"])
	assert.Equal(t, "Jalan", body["data"].(map[string]interface{})["name"])
}

func TestGetCategoryMalformedID(t *testing.T) {
	w := httptest.NewRecorder()
	setup(new(MockCategoryService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
