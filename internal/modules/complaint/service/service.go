package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"anoa.com/complainthub/internal/entity"
	attachmentService "anoa.com/complainthub/internal/modules/attachment/service"
	categoryRepository "anoa.com/complainthub/internal/modules/category/repository"
	"anoa.com/complainthub/internal/modules/complaint/dto"
	"anoa.com/complainthub/internal/modules/complaint/repository"
	searchService "anoa.com/complainthub/internal/modules/search/service"
	"anoa.com/complainthub/pkg/apperror"
	"anoa.com/complainthub/pkg/database"
	commonDto "anoa.com/complainthub/pkg/dto"
	"anoa.com/complainthub/pkg/ratelimiter"
	"anoa.com/complainthub/pkg/sanitize"
	"anoa.com/complainthub/pkg/slug"
	"anoa.com/complainthub/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	rateLimitAction = "complaint"
	minTextLength   = 3
)

type ComplaintService interface {
	CreateComplaint(ctx context.Context, userID uuid.UUID, req dto.CreateComplaintRequest, evidence *commonDto.UploadFile) (*dto.ComplaintResponse, error)
	GetComplaint(ctx context.Context, id uuid.UUID) (*dto.ComplaintResponse, error)
	GetAllComplaints(ctx context.Context, query commonDto.PageQuery) ([]dto.ComplaintResponse, commonDto.PaginationMeta, error)
	SearchComplaints(ctx context.Context, query dto.SearchQuery) ([]dto.ComplaintResponse, commonDto.PaginationMeta, error)
	UpdateComplaint(ctx context.Context, id, userID uuid.UUID, req dto.UpdateComplaintRequest, evidence *commonDto.UploadFile) (*dto.ComplaintResponse, error)
	DeleteComplaint(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.DeleteComplaintResponse, error)
	DeleteHistory(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.DeleteHistoryResponse, error)
	DeleteAllHistories(ctx context.Context, caller entity.Identity, userID uuid.UUID) (*dto.DeleteHistoriesResponse, error)
}

type Config struct {
	SubmitCooldown time.Duration
}

type complaintService struct {
	repo         repository.ComplaintRepository
	trackingRepo repository.TrackingRepository
	categoryRepo categoryRepository.CategoryRepository
	attachments  attachmentService.AttachmentService
	index        searchService.ComplaintIndex
	limiter      *ratelimiter.Limiter
	tx           database.Transactor
	log          *zap.Logger
	cfg          Config
}

func NewComplaintService(
	repo repository.ComplaintRepository,
	trackingRepo repository.TrackingRepository,
	categoryRepo categoryRepository.CategoryRepository,
	attachments attachmentService.AttachmentService,
	index searchService.ComplaintIndex,
	limiter *ratelimiter.Limiter,
	tx database.Transactor,
	log *zap.Logger,
	cfg Config,
) ComplaintService {
	return &complaintService{
		repo:         repo,
		trackingRepo: trackingRepo,
		categoryRepo: categoryRepo,
		attachments:  attachments,
		index:        index,
		limiter:      limiter,
		tx:           tx,
		log:          log,
		cfg:          cfg,
	}
}

func (s *complaintService) CreateComplaint(ctx context.Context, userID uuid.UUID, req dto.CreateComplaintRequest, evidence *commonDto.UploadFile) (*dto.ComplaintResponse, error) {
	title := sanitize.Text(req.Title)
	content := sanitize.Multiline(req.Content)
	location := sanitize.Text(req.Location)
	for _, f := range []struct{ name, value string }{
		{"title", title},
		{"content", content},
		{"location", location},
	} {
		if err := validator.MinLength(f.name, f.value, minTextLength); err != nil {
			return nil, err
		}
	}

	complaintSlug := slug.Scoped(title, userID.String())

	exists, err := s.repo.ExistsBySlug(ctx, complaintSlug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("Your same complaint have been created before")
	}

	if evidence == nil {
		return nil, apperror.BadRequest("Evidence of complaint is required")
	}

	dateEvent, err := validator.ParseDate("date_event", req.DateEvent)
	if err != nil {
		return nil, err
	}

	category, err := s.findCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.reserveSubmission(ctx, userID); err != nil {
		return nil, err
	}

	staged, err := s.attachments.Stage(ctx, evidence, attachmentService.FolderEvidence)
	if err != nil {
		s.releaseSubmission(ctx, userID)
		return nil, err
	}

	complaint := &entity.Complaint{
		Title:         title,
		Slug:          complaintSlug,
		Content:       content,
		DateEvent:     dateEvent,
		Location:      location,
		Evidence:      staged.Path,
		CurrentStatus: entity.StatusSubmitted,
		UserID:        userID,
		CategoryID:    category.ID,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, complaint); err != nil {
			return err
		}
		if err := s.trackingRepo.Create(ctx, &entity.TrackingStatus{
			ComplaintID: complaint.ID,
			Status:      entity.StatusSubmitted,
			Notes:       "Complaint submitted",
		}); err != nil {
			return err
		}
		return s.attachments.Commit(ctx, staged, entity.OwnerComplaint, complaint.ID)
	})
	if err != nil {
		s.attachments.Discard(ctx, staged)
		s.releaseSubmission(ctx, userID)
		return nil, duplicateSlug(err, "Your same complaint have been created before")
	}

	complaint.Category = category
	s.reindex(ctx, complaint)

	res := dto.ToComplaintResponse(complaint)
	return &res, nil
}

func (s *complaintService) GetComplaint(ctx context.Context, id uuid.UUID) (*dto.ComplaintResponse, error) {
	complaint, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	res := dto.ToComplaintResponse(complaint)
	return &res, nil
}

func (s *complaintService) GetAllComplaints(ctx context.Context, query commonDto.PageQuery) ([]dto.ComplaintResponse, commonDto.PaginationMeta, error) {
	query = query.Normalize()

	complaints, total, err := s.repo.FindAll(ctx, query.Offset(), query.Limit)
	if err != nil {
		return nil, commonDto.PaginationMeta{}, err
	}

	return dto.ToComplaintResponses(complaints), commonDto.NewPaginationMeta(query, total), nil
}

func (s *complaintService) SearchComplaints(ctx context.Context, query dto.SearchQuery) ([]dto.ComplaintResponse, commonDto.PaginationMeta, error) {
	page := query.PageQuery.Normalize()

	ids, total, err := s.index.SearchComplaints(ctx, query.Q, page.Offset(), page.Limit)
	if err != nil {
		return nil, commonDto.PaginationMeta{}, err
	}

	complaints, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, commonDto.PaginationMeta{}, err
	}

	return dto.ToComplaintResponses(complaints), commonDto.NewPaginationMeta(page, total), nil
}

func (s *complaintService) UpdateComplaint(ctx context.Context, id, userID uuid.UUID, req dto.UpdateComplaintRequest, evidence *commonDto.UploadFile) (*dto.ComplaintResponse, error) {
	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if complaint.UserID != userID {
		return nil, apperror.Forbidden("You are not the owner of this complaint")
	}

	if req.Title != nil {
		title := sanitize.Text(*req.Title)
		if err := validator.MinLength("title", title, minTextLength); err != nil {
			return nil, err
		}
		if title != complaint.Title {
			newSlug := slug.Scoped(title, userID.String())
			exists, err := s.repo.ExistsBySlug(ctx, newSlug, complaint.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, apperror.Conflict("Complaint with same title already exists")
			}
			complaint.Title = title
			complaint.Slug = newSlug
		}
	}
	if req.Content != nil {
		content := sanitize.Multiline(*req.Content)
		if err := validator.MinLength("content", content, minTextLength); err != nil {
			return nil, err
		}
		complaint.Content = content
	}
	if req.Location != nil {
		location := sanitize.Text(*req.Location)
		if err := validator.MinLength("location", location, minTextLength); err != nil {
			return nil, err
		}
		complaint.Location = location
	}
	if req.DateEvent != nil {
		dateEvent, err := validator.ParseDate("date_event", *req.DateEvent)
		if err != nil {
			return nil, err
		}
		complaint.DateEvent = dateEvent
	}

	var category *entity.Category
	if req.CategoryID != nil {
		category, err = s.findCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		complaint.CategoryID = category.ID
	}

	var staged *entity.Attachment
	oldEvidence := complaint.Evidence
	if evidence != nil {
		staged, err = s.attachments.Stage(ctx, evidence, attachmentService.FolderEvidence)
		if err != nil {
			return nil, err
		}
		complaint.Evidence = staged.Path
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, complaint); err != nil {
			return err
		}
		if staged == nil {
			return nil
		}
		if err := s.attachments.Release(ctx, oldEvidence, attachmentService.FolderEvidence); err != nil {
			return err
		}
		return s.attachments.Commit(ctx, staged, entity.OwnerComplaint, complaint.ID)
	})
	if err != nil {
		s.attachments.Discard(ctx, staged)
		return nil, duplicateSlug(err, "Complaint with same title already exists")
	}

	if staged != nil {
		s.attachments.Purge(ctx, oldEvidence)
	}

	detail, err := s.repo.FindDetail(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, detail)

	res := dto.ToComplaintResponse(detail)
	return &res, nil
}

func (s *complaintService) DeleteComplaint(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.DeleteComplaintResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperror.Forbidden("Only admin can perform this action")
	}

	complaint, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	var released []string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		paths, err := s.releaseFiles(ctx, complaint)
		if err != nil {
			return err
		}
		released = paths
		return s.repo.Delete(ctx, complaint.ID)
	})
	if err != nil {
		return nil, err
	}

	s.attachments.Purge(ctx, released...)
	if err := s.index.DeleteComplaint(ctx, complaint.ID); err != nil {
		s.log.Warn("failed to remove complaint from search index", zap.String("complaint_id", complaint.ID.String()), zap.Error(err))
	}

	return &dto.DeleteComplaintResponse{
		ComplaintID: complaint.ID,
		Slug:        complaint.Slug,
		IsDeleted:   true,
	}, nil
}

func (s *complaintService) DeleteHistory(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.DeleteHistoryResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperror.Forbidden("Only admin can perform this action")
	}

	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if err := s.repo.SoftDelete(ctx, complaint.ID); err != nil {
		return nil, err
	}

	complaint.IsDeleted = true
	s.reindex(ctx, complaint)

	return &dto.DeleteHistoryResponse{ComplaintID: complaint.ID, DeletedFromHistory: true}, nil
}

func (s *complaintService) DeleteAllHistories(ctx context.Context, caller entity.Identity, userID uuid.UUID) (*dto.DeleteHistoriesResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperror.Forbidden("Only admin can perform this action")
	}

	affected, err := s.repo.SoftDeleteByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.DeleteHistoriesResponse{HistoriesDeleted: true, Affected: affected}, nil
}

// releaseFiles marks the evidence and the feedback attachment released.
// Files uploaded before the registry existed are released by path.
func (s *complaintService) releaseFiles(ctx context.Context, complaint *entity.Complaint) ([]string, error) {
	paths, err := s.attachments.ReleaseOwner(ctx, entity.OwnerComplaint, complaint.ID)
	if err != nil {
		return nil, err
	}
	if !contains(paths, complaint.Evidence) && complaint.Evidence != "" {
		if err := s.attachments.Release(ctx, complaint.Evidence, attachmentService.FolderEvidence); err != nil {
			return nil, err
		}
		paths = append(paths, complaint.Evidence)
	}

	if feedback := complaint.AdminFeedback; feedback != nil {
		feedbackPaths, err := s.attachments.ReleaseOwner(ctx, entity.OwnerFeedback, feedback.ID)
		if err != nil {
			return nil, err
		}
		paths = append(paths, feedbackPaths...)
		if feedback.Attachment != nil && !contains(feedbackPaths, *feedback.Attachment) {
			if err := s.attachments.Release(ctx, *feedback.Attachment, attachmentService.FolderFeedback); err != nil {
				return nil, err
			}
			paths = append(paths, *feedback.Attachment)
		}
	}
	return paths, nil
}

func (s *complaintService) findCategory(ctx context.Context, rawID string) (*entity.Category, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperror.BadRequest("category not found")
	}
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("category not found")
		}
		return nil, err
	}
	return category, nil
}

func (s *complaintService) reserveSubmission(ctx context.Context, userID uuid.UUID) error {
	allowed, err := s.limiter.Allow(ctx, userID, rateLimitAction, s.cfg.SubmitCooldown)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	ttl, _ := s.limiter.TTL(ctx, userID, rateLimitAction)
	wait := math.Ceil(ttl.Seconds())
	if wait < 1 {
		wait = 1
	}
	return apperror.TooManyRequests(fmt.Sprintf("You are submitting complaints too fast. Please wait %.0f seconds", wait))
}

func (s *complaintService) releaseSubmission(ctx context.Context, userID uuid.UUID) {
	if err := s.limiter.Clear(context.WithoutCancel(ctx), userID, rateLimitAction); err != nil {
		s.log.Warn("failed to clear complaint cooldown", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *complaintService) reindex(ctx context.Context, complaint *entity.Complaint) {
	if err := s.index.IndexComplaint(ctx, complaint); err != nil {
		s.log.Warn("failed to index complaint", zap.String("complaint_id", complaint.ID.String()), zap.Error(err))
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Complaint not found")
	}
	return err
}

// duplicateSlug turns a slug unique violation that slipped past the
// pre-check into the same 409 the pre-check returns.
func duplicateSlug(err error, message string) error {
	if field, ok := apperror.UniqueViolation(err); ok && field == "slug" {
		return apperror.Conflict(message)
	}
	return err
}

func contains(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
