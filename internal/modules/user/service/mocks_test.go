package service

import (
	"context"

	"anoa.com/complainthub/internal/entity"
	attachmentDto "anoa.com/complainthub/internal/modules/attachment/dto"
	commonDto "anoa.com/complainthub/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByNIK(ctx context.Context, nik string) (*entity.User, error) {
	args := m.Called(ctx, nik)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, offset, limit int) ([]*entity.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]*entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Verify(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockComplaintRepository struct {
	mock.Mock
}

func (m *MockComplaintRepository) Create(ctx context.Context, complaint *entity.Complaint) error {
	return m.Called(ctx, complaint).Error(0)
}

func (m *MockComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) FindDetail(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) FindAll(ctx context.Context, offset, limit int) ([]entity.Complaint, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]entity.Complaint), args.Get(1).(int64), args.Error(2)
}

func (m *MockComplaintRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Complaint, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]entity.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Complaint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]entity.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) ExistsBySlug(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockComplaintRepository) Update(ctx context.Context, complaint *entity.Complaint) error {
	return m.Called(ctx, complaint).Error(0)
}

func (m *MockComplaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus, feedbackID *uuid.UUID) error {
	return m.Called(ctx, id, status, feedbackID).Error(0)
}

func (m *MockComplaintRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockComplaintRepository) SoftDeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Stage(ctx context.Context, file *commonDto.UploadFile, folder string) (*entity.Attachment, error) {
	args := m.Called(ctx, file, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Commit(ctx context.Context, staged *entity.Attachment, ownerType string, ownerID uuid.UUID) error {
	return m.Called(ctx, staged, ownerType, ownerID).Error(0)
}

func (m *MockAttachmentService) Release(ctx context.Context, path, folder string) error {
	return m.Called(ctx, path, folder).Error(0)
}

func (m *MockAttachmentService) ReleaseOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, ownerType, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAttachmentService) Purge(ctx context.Context, paths ...string) {
	m.Called(ctx, paths)
}

func (m *MockAttachmentService) Discard(ctx context.Context, staged *entity.Attachment) {
	m.Called(ctx, staged)
}

func (m *MockAttachmentService) CleanupOrphans(ctx context.Context) (*attachmentDto.SweepResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attachmentDto.SweepResponse), args.Error(1)
}
