package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/internal/modules/notification/dto"
	"anoa.com/complainthub/internal/modules/notification/repository"
	"anoa.com/complainthub/pkg/apperror"
	commonDto "anoa.com/complainthub/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrStreamUnavailable is returned by Subscribe when redis is not configured.
var ErrStreamUnavailable = errors.New("notification stream is not available")

type NotificationService interface {
	NotifyStatusChange(ctx context.Context, complaint *entity.Complaint, actorID uuid.UUID) error
	GetNotifications(ctx context.Context, userID uuid.UUID, query commonDto.PageQuery) ([]dto.NotificationResponse, commonDto.PaginationMeta, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error)
	Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
	log         *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client, log *zap.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
		log:         log,
	}
}

func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

// NotifyStatusChange stores a notification for the complaint owner and
// pushes it to any open websocket of that user.
func (s *notificationService) NotifyStatusChange(ctx context.Context, complaint *entity.Complaint, actorID uuid.UUID) error {
	notification := &entity.Notification{
		UserID:      complaint.UserID,
		ActorID:     &actorID,
		ComplaintID: complaint.ID,
		Type:        entity.NotificationStatusChanged,
		Message:     fmt.Sprintf("Your complaint %q is now %s", complaint.Title, complaint.CurrentStatus),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.redisClient == nil {
		return nil
	}

	payload, err := json.Marshal(dto.ToNotificationResponse(notification))
	if err != nil {
		return err
	}
	if err := s.redisClient.Publish(ctx, Channel(notification.UserID), payload).Err(); err != nil {
		s.log.Warn("failed to publish notification", zap.String("user_id", notification.UserID.String()), zap.Error(err))
	}
	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, query commonDto.PageQuery) ([]dto.NotificationResponse, commonDto.PaginationMeta, error) {
	query = query.Normalize()

	notifications, total, err := s.repo.FindByUser(ctx, userID, query.Offset(), query.Limit)
	if err != nil {
		return nil, commonDto.PaginationMeta{}, err
	}

	res := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		res = append(res, dto.ToNotificationResponse(&notifications[i]))
	}
	return res, commonDto.NewPaginationMeta(query, total), nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

// Subscribe returns a confirmed subscription to the user's channel. The
// caller closes it.
func (s *notificationService) Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	if s.redisClient == nil {
		return nil, ErrStreamUnavailable
	}

	pubsub := s.redisClient.Subscribe(ctx, Channel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Channel(userID), err)
	}
	return pubsub, nil
}
