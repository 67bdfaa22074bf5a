package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/internal/modules/complaint/dto"
	commonDto "anoa.com/complainthub/pkg/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockComplaintService struct {
	mock.Mock
}

func (m *MockComplaintService) CreateComplaint(ctx context.Context, userID uuid.UUID, req dto.CreateComplaintRequest, evidence *commonDto.UploadFile) (*dto.ComplaintResponse, error) {
	args := m.Called(ctx, userID, req, evidence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ComplaintResponse), args.Error(1)
}

func (m *MockComplaintService) GetComplaint(ctx context.Context, id uuid.UUID) (*dto.ComplaintResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ComplaintResponse), args.Error(1)
}

func (m *MockComplaintService) GetAllComplaints(ctx context.Context, query commonDto.PageQuery) ([]dto.ComplaintResponse, commonDto.PaginationMeta, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]dto.ComplaintResponse), args.Get(1).(commonDto.PaginationMeta), args.Error(2)
}

func (m *MockComplaintService) SearchComplaints(ctx context.Context, query dto.SearchQuery) ([]dto.ComplaintResponse, commonDto.PaginationMeta, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]dto.ComplaintResponse), args.Get(1).(commonDto.PaginationMeta), args.Error(2)
}

func (m *MockComplaintService) UpdateComplaint(ctx context.Context, id, userID uuid.UUID, req dto.UpdateComplaintRequest, evidence *commonDto.UploadFile) (*dto.ComplaintResponse, error) {
	args := m.Called(ctx, id, userID, req, evidence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ComplaintResponse), args.Error(1)
}

func (m *MockComplaintService) DeleteComplaint(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.DeleteComplaintResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DeleteComplaintResponse), args.Error(1)
}

func (m *MockComplaintService) DeleteHistory(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.DeleteHistoryResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DeleteHistoryResponse), args.Error(1)
}

func (m *MockComplaintService) DeleteAllHistories(ctx context.Context, caller entity.Identity, userID uuid.UUID) (*dto.DeleteHistoriesResponse, error) {
	args := m.Called(ctx, caller, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DeleteHistoriesResponse), args.Error(1)
}

func setup(svc *MockComplaintService, caller entity.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewComplaintHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", caller.UserID.String())
		c.Set("identity", caller)
		c.Next()
	})
	r.GET("/complaints", h.GetAllComplaints)
	r.POST("/complaints", h.CreateComplaint)
	r.DELETE("/complaints/histories/all", h.DeleteAllHistories)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func multipartBody(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withFile {
		fw, err := mw.CreateFormFile("evidence", "bukti.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestCreateComplaintMultipart(t *testing.T) {
	svc := new(MockComplaintService)
	caller := entity.Identity{UserID: uuid.New(), Role: entity.RoleUser}
	categoryID := uuid.New().String()
	want := dto.CreateComplaintRequest{
		Title:      "Lampu mati",
		Content:    "Sudah seminggu",
		DateEvent:  "2024-05-01",
		Location:   "Gang Melati",
		CategoryID: categoryID,
	}
	svc.On("CreateComplaint", mock.Anything, caller.UserID, want, mock.MatchedBy(func(f *commonDto.UploadFile) bool {
		return f != nil && f.FileName == "bukti.png" && f.Size == 3
	})).Return(&dto.ComplaintResponse{Title: "Lampu mati", CurrentStatus: entity.StatusSubmitted}, nil)

	body, contentType := multipartBody(t, map[string]string{
		"title":       want.Title,
		"content":     want.Content,
		"date_event":  want.DateEvent,
		"location":    want.Location,
		"category_id": categoryID,
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/complaints", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	setup(svc, caller).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Submitted", decode(t, w)["data"].(map[string]interface{})["current_status"])
	svc.AssertExpectations(t)
}

func TestCreateComplaintValidation(t *testing.T) {
	svc := new(MockComplaintService)
	body, contentType := multipartBody(t, map[string]string{
		"title":       "ab",
		"content":     "Sudah seminggu",
		"date_event":  "2024-05-01",
		"location":    "Gang Melati",
		"category_id": "not-a-uuid",
	}, false)
	req := httptest.NewRequest(http.MethodPost, "/complaints", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	setup(svc, entity.Identity{UserID: uuid.New(), Role: entity.RoleUser}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.ElementsMatch(t, []interface{}{
		"title: must be at least 3 characters",
		"category_id: must be a valid id",
	}, decode(t, w)["errors"])
	svc.AssertNotCalled(t, "CreateComplaint", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAllComplaintsMeta(t *testing.T) {
	svc := new(MockComplaintService)
	svc.On("GetAllComplaints", mock.Anything, commonDto.PageQuery{Page: 2, Limit: 5}).
		Return([]dto.ComplaintResponse{{Title: "a"}}, commonDto.PaginationMeta{Total: 6, Page: 2, Entries: 5}, nil)

	w := httptest.NewRecorder()
	setup(svc, entity.Identity{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/complaints?page=2&limit=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	meta := decode(t, w)["meta"].(map[string]interface{})
	assert.EqualValues(t, 6, meta["total"])
	assert.EqualValues(t, 2, meta["page"])
	assert.EqualValues(t, 5, meta["entries"])
}

func TestDeleteAllHistoriesDefaultsToCaller(t *testing.T) {
	svc := new(MockComplaintService)
	admin := entity.Identity{UserID: uuid.New(), Role: entity.RoleAdmin}
	svc.On("DeleteAllHistories", mock.Anything, admin, admin.UserID).
		Return(&dto.DeleteHistoriesResponse{HistoriesDeleted: true}, nil)

	w := httptest.NewRecorder()
	setup(svc, admin).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/complaints/histories/all", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["data"].(map[string]interface{})["histories_deleted"])
}
