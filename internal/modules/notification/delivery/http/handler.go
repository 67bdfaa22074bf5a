package handler

import (
	"errors"
	"net/http"

	"anoa.com/complainthub/internal/modules/notification/service"
	"anoa.com/complainthub/pkg/apperror"
	commonDto "anoa.com/complainthub/pkg/dto"
	"anoa.com/complainthub/pkg/response"
	"anoa.com/complainthub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service  service.NotificationService
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewNotificationHandler accepts websocket upgrades from allowedOrigins; a
// "*" entry allows any origin.
func NewNotificationHandler(service service.NotificationService, allowedOrigins []string, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query commonDto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, validator.Wrap(err))
		return
	}

	notifications, meta, err := h.service.GetNotifications(c.Request.Context(), userID, query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Notifications retrieved successfully", notifications, meta)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Marked as read", nil)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "All notifications marked as read", nil)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Unread count retrieved successfully", count)
}

// HandleWebSocket forwards the user's redis channel to the socket until
// either side goes away.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ctx := c.Request.Context()
	pubsub, err := h.service.Subscribe(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrStreamUnavailable) {
			response.ResponseError(c, apperror.New(http.StatusServiceUnavailable, "Live notifications are not available", err))
			return
		}
		response.ResponseError(c, err)
		return
	}
	defer pubsub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.log.Debug("websocket write failed", zap.String("user_id", userID.String()), zap.Error(err))
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
