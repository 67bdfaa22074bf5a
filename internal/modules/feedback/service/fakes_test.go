package service

import (
	"context"
	"errors"
	"sync"

	"anoa.com/complainthub/internal/entity"
	attachmentDto "anoa.com/complainthub/internal/modules/attachment/dto"
	notificationDto "anoa.com/complainthub/internal/modules/notification/dto"
	commonDto "anoa.com/complainthub/pkg/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// store backs the complaint, tracking and feedback fakes so the unique
// indexes behave like postgres.
type store struct {
	mu         sync.Mutex
	complaints map[uuid.UUID]*entity.Complaint
	tracking   []entity.TrackingStatus
	feedbacks  map[uuid.UUID]*entity.AdminFeedback
	failUpdate error
}

func newStore() *store {
	return &store{
		complaints: map[uuid.UUID]*entity.Complaint{},
		feedbacks:  map[uuid.UUID]*entity.AdminFeedback{},
	}
}

func (s *store) addComplaint(status entity.ComplaintStatus) *entity.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &entity.Complaint{ID: uuid.New(), UserID: uuid.New(), Title: "Jalan rusak", CurrentStatus: status}
	s.complaints[c.ID] = c
	return c
}

type complaints struct{ *store }

func (r complaints) get(id uuid.UUID) (*entity.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r complaints) Create(ctx context.Context, c *entity.Complaint) error { return errors.New("unused") }
func (r complaints) FindByID(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	return r.get(id)
}
func (r complaints) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	return r.get(id)
}
func (r complaints) FindDetail(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	return r.get(id)
}
func (r complaints) FindAll(ctx context.Context, offset, limit int) ([]entity.Complaint, int64, error) {
	return nil, 0, errors.New("unused")
}
func (r complaints) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Complaint, error) {
	return nil, errors.New("unused")
}
func (r complaints) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Complaint, error) {
	return nil, errors.New("unused")
}
func (r complaints) ExistsBySlug(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	return false, errors.New("unused")
}
func (r complaints) Update(ctx context.Context, c *entity.Complaint) error { return errors.New("unused") }
func (r complaints) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus, feedbackID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return r.failUpdate
	}
	c := r.complaints[id]
	c.CurrentStatus = status
	if feedbackID != nil {
		c.AdminFeedbackID = feedbackID
	}
	return nil
}
func (r complaints) SoftDelete(ctx context.Context, id uuid.UUID) error { return errors.New("unused") }
func (r complaints) SoftDeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, errors.New("unused")
}
func (r complaints) Delete(ctx context.Context, id uuid.UUID) error { return errors.New("unused") }

type tracking struct{ *store }

func (r tracking) Create(ctx context.Context, t *entity.TrackingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tracking {
		if existing.ComplaintID == t.ComplaintID && existing.Status == t.Status {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_tracking_complaint_status"}
		}
	}
	t.ID = uuid.New()
	r.tracking = append(r.tracking, *t)
	return nil
}

func (r tracking) Exists(ctx context.Context, complaintID uuid.UUID, status entity.ComplaintStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tracking {
		if t.ComplaintID == complaintID && t.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (r tracking) FindByComplaint(ctx context.Context, complaintID uuid.UUID) ([]entity.TrackingStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.TrackingStatus
	for i := len(r.tracking) - 1; i >= 0; i-- {
		if r.tracking[i].ComplaintID == complaintID {
			out = append(out, r.tracking[i])
		}
	}
	return out, nil
}

type feedbacks struct{ *store }

func (r feedbacks) Create(ctx context.Context, f *entity.AdminFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.feedbacks {
		if existing.ComplaintID == f.ComplaintID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_admin_feedbacks_complaint_id", TableName: "admin_feedbacks"}
		}
	}
	f.ID = uuid.New()
	r.feedbacks[f.ID] = f
	return nil
}

func (r feedbacks) FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feedbacks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r feedbacks) FindAll(ctx context.Context) ([]entity.AdminFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.AdminFeedback, 0, len(r.feedbacks))
	for _, f := range r.feedbacks {
		out = append(out, *f)
	}
	return out, nil
}

type fakeAttachments struct {
	staged    []*entity.Attachment
	committed map[string]uuid.UUID
	discarded []string
}

func newFakeAttachments() *fakeAttachments {
	return &fakeAttachments{committed: map[string]uuid.UUID{}}
}

func (f *fakeAttachments) Stage(ctx context.Context, file *commonDto.UploadFile, folder string) (*entity.Attachment, error) {
	a := &entity.Attachment{Path: folder + "/" + file.FileName, Folder: folder}
	f.staged = append(f.staged, a)
	return a, nil
}

func (f *fakeAttachments) Commit(ctx context.Context, staged *entity.Attachment, ownerType string, ownerID uuid.UUID) error {
	f.committed[staged.Path] = ownerID
	return nil
}

func (f *fakeAttachments) Release(ctx context.Context, path, folder string) error { return nil }
func (f *fakeAttachments) ReleaseOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]string, error) {
	return nil, nil
}
func (f *fakeAttachments) Purge(ctx context.Context, paths ...string) {}
func (f *fakeAttachments) Discard(ctx context.Context, staged *entity.Attachment) {
	f.discarded = append(f.discarded, staged.Path)
}
func (f *fakeAttachments) CleanupOrphans(ctx context.Context) (*attachmentDto.SweepResponse, error) {
	return &attachmentDto.SweepResponse{}, nil
}

type fakeNotifications struct {
	sent []entity.ComplaintStatus
}

func (f *fakeNotifications) NotifyStatusChange(ctx context.Context, complaint *entity.Complaint, actorID uuid.UUID) error {
	f.sent = append(f.sent, complaint.CurrentStatus)
	return nil
}
func (f *fakeNotifications) GetNotifications(ctx context.Context, userID uuid.UUID, query commonDto.PageQuery) ([]notificationDto.NotificationResponse, commonDto.PaginationMeta, error) {
	return nil, commonDto.PaginationMeta{}, nil
}
func (f *fakeNotifications) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error { return nil }
func (f *fakeNotifications) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error { return nil }
func (f *fakeNotifications) UnreadCount(ctx context.Context, userID uuid.UUID) (*notificationDto.UnreadCountResponse, error) {
	return &notificationDto.UnreadCountResponse{}, nil
}
func (f *fakeNotifications) Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	return nil, errNoStream
}

var errNoStream = errors.New("no stream")
