package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/internal/modules/notification/dto"
	"anoa.com/complainthub/internal/modules/notification/service"
	commonDto "anoa.com/complainthub/pkg/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyStatusChange(ctx context.Context, complaint *entity.Complaint, actorID uuid.UUID) error {
	return m.Called(ctx, complaint, actorID).Error(0)
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, query commonDto.PageQuery) ([]dto.NotificationResponse, commonDto.PaginationMeta, error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).([]dto.NotificationResponse), args.Get(1).(commonDto.PaginationMeta), args.Error(2)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UnreadCountResponse), args.Error(1)
}

func (m *MockNotificationService) Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.PubSub), args.Error(1)
}

func setup(svc *MockNotificationService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHandler(svc, []string{"http://localhost:3000"}, zap.NewNop())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Next()
	})
	r.GET("/notifications/ws", h.HandleWebSocket)
	r.GET("/notifications/unread-count", h.UnreadCount)
	return r
}

func TestWebSocketWithoutRedis(t *testing.T) {
	svc := new(MockNotificationService)
	userID := uuid.New()
	svc.On("Subscribe", mock.Anything, userID).Return(nil, service.ErrStreamUnavailable)

	w := httptest.NewRecorder()
	setup(svc, userID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications/ws", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnreadCount(t *testing.T) {
	svc := new(MockNotificationService)
	userID := uuid.New()
	svc.On("UnreadCount", mock.Anything, userID).Return(&dto.UnreadCountResponse{Count: 7}, nil)

	w := httptest.NewRecorder()
	setup(svc, userID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":7`)
}

func TestCheckOrigin(t *testing.T) {
	h := NewNotificationHandler(new(MockNotificationService), []string{"http://localhost:3000"}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/notifications/ws", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, h.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, h.upgrader.CheckOrigin(req))
}
