package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/complainthub/internal/entity"
	attachmentService "anoa.com/complainthub/internal/modules/attachment/service"
	complaintDto "anoa.com/complainthub/internal/modules/complaint/dto"
	complaintRepository "anoa.com/complainthub/internal/modules/complaint/repository"
	"anoa.com/complainthub/internal/modules/feedback/dto"
	"anoa.com/complainthub/internal/modules/feedback/repository"
	notificationService "anoa.com/complainthub/internal/modules/notification/service"
	searchService "anoa.com/complainthub/internal/modules/search/service"
	"anoa.com/complainthub/pkg/apperror"
	"anoa.com/complainthub/pkg/database"
	commonDto "anoa.com/complainthub/pkg/dto"
	"anoa.com/complainthub/pkg/locker"
	"anoa.com/complainthub/pkg/metrics"
	"anoa.com/complainthub/pkg/sanitize"
	"anoa.com/complainthub/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const lockTTL = 30 * time.Second

type FeedbackService interface {
	ProcessComplaint(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, req dto.ProcessRequest) (*complaintDto.ComplaintResponse, error)
	ApproveComplaint(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, req dto.FeedbackRequest, attachment *commonDto.UploadFile) (*dto.FeedbackResponse, error)
	RejectComplaint(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, req dto.FeedbackRequest, attachment *commonDto.UploadFile) (*dto.FeedbackResponse, error)
	GetFeedback(ctx context.Context, id uuid.UUID) (*dto.FeedbackResponse, error)
	GetAllFeedbacks(ctx context.Context, caller entity.Identity) ([]dto.FeedbackResponse, error)
}

type feedbackService struct {
	repo          repository.FeedbackRepository
	complaintRepo complaintRepository.ComplaintRepository
	trackingRepo  complaintRepository.TrackingRepository
	attachments   attachmentService.AttachmentService
	notifications notificationService.NotificationService
	index         searchService.ComplaintIndex
	locks         *locker.Locker
	tx            database.Transactor
	log           *zap.Logger
}

func NewFeedbackService(
	repo repository.FeedbackRepository,
	complaintRepo complaintRepository.ComplaintRepository,
	trackingRepo complaintRepository.TrackingRepository,
	attachments attachmentService.AttachmentService,
	notifications notificationService.NotificationService,
	index searchService.ComplaintIndex,
	locks *locker.Locker,
	tx database.Transactor,
	log *zap.Logger,
) FeedbackService {
	return &feedbackService{
		repo:          repo,
		complaintRepo: complaintRepo,
		trackingRepo:  trackingRepo,
		attachments:   attachments,
		notifications: notifications,
		index:         index,
		locks:         locks,
		tx:            tx,
		log:           log,
	}
}

// transition describes one admin action on a complaint.
type transition struct {
	to                 entity.ComplaintStatus
	duplicateMessage   string
	notes              string
	feedback           *entity.AdminFeedback
	attachment         *commonDto.UploadFile
	attachmentRequired bool
}

func (s *feedbackService) ProcessComplaint(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, req dto.ProcessRequest) (*complaintDto.ComplaintResponse, error) {
	notes := sanitize.Multiline(req.Notes)
	if notes == "" {
		notes = "Complaint is being processed"
	}

	complaint, err := s.apply(ctx, caller, complaintID, transition{
		to:               entity.StatusProcessing,
		duplicateMessage: "Complaint has been processed before",
		notes:            notes,
	})
	if err != nil {
		return nil, err
	}

	res := complaintDto.ToComplaintResponse(complaint)
	return &res, nil
}

func (s *feedbackService) ApproveComplaint(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, req dto.FeedbackRequest, attachment *commonDto.UploadFile) (*dto.FeedbackResponse, error) {
	return s.decide(ctx, caller, complaintID, req, transition{
		to:                 entity.StatusFinished,
		duplicateMessage:   "Complaint has been approved before",
		attachment:         attachment,
		attachmentRequired: true,
	})
}

func (s *feedbackService) RejectComplaint(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, req dto.FeedbackRequest, attachment *commonDto.UploadFile) (*dto.FeedbackResponse, error) {
	return s.decide(ctx, caller, complaintID, req, transition{
		to:               entity.StatusRejected,
		duplicateMessage: "Complaint has been Rejected before",
		attachment:       attachment,
	})
}

func (s *feedbackService) GetFeedback(ctx context.Context, id uuid.UUID) (*dto.FeedbackResponse, error) {
	feedback, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Admin feedback not found")
		}
		return nil, err
	}

	res := dto.ToFeedbackResponse(feedback)
	return &res, nil
}

func (s *feedbackService) GetAllFeedbacks(ctx context.Context, caller entity.Identity) ([]dto.FeedbackResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperror.Forbidden("Only admin can get all feedbacks")
	}

	feedbacks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		res = append(res, dto.ToFeedbackResponse(&feedbacks[i]))
	}
	return res, nil
}

// decide runs a terminal transition that leaves an AdminFeedback behind.
func (s *feedbackService) decide(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, req dto.FeedbackRequest, t transition) (*dto.FeedbackResponse, error) {
	date, err := validator.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	title := sanitize.Text(req.Title)
	if err := validator.MinLength("title", title, 3); err != nil {
		return nil, err
	}
	description := sanitize.Multiline(req.Description)
	if err := validator.MinLength("description", description, 3); err != nil {
		return nil, err
	}

	t.feedback = &entity.AdminFeedback{
		Title:       title,
		Description: description,
		Date:        date,
		ComplaintID: complaintID,
	}
	t.notes = t.feedback.Title

	if _, err := s.apply(ctx, caller, complaintID, t); err != nil {
		return nil, err
	}

	res := dto.ToFeedbackResponse(t.feedback)
	return &res, nil
}

// apply checks role, existence, repeat and legality in that order, then
// writes status, ledger entry, feedback and attachment in one transaction
// while holding the complaint row.
func (s *feedbackService) apply(ctx context.Context, caller entity.Identity, complaintID uuid.UUID, t transition) (*entity.Complaint, error) {
	if !caller.IsAdmin() {
		return nil, apperror.Forbidden("You're not an admin")
	}

	complaint, err := s.complaintRepo.FindByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Complaint not found")
		}
		return nil, err
	}

	if err := s.checkTransition(ctx, complaint, t); err != nil {
		return nil, err
	}

	if t.attachmentRequired && t.attachment == nil {
		return nil, apperror.BadRequest("Attachment of feedback is required")
	}

	release, err := s.locks.Acquire(ctx, complaintID.String(), lockTTL)
	if err != nil {
		if errors.Is(err, locker.ErrLocked) {
			return nil, apperror.Conflict("Complaint is being updated by another admin")
		}
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("failed to release complaint lock", zap.String("complaint_id", complaintID.String()), zap.Error(err))
		}
	}()

	var staged *entity.Attachment
	if t.attachment != nil {
		staged, err = s.attachments.Stage(ctx, t.attachment, attachmentService.FolderFeedback)
		if err != nil {
			return nil, err
		}
		t.feedback.Attachment = &staged.Path
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.complaintRepo.FindByIDForUpdate(ctx, complaintID)
		if err != nil {
			return err
		}
		if err := s.checkTransition(ctx, locked, t); err != nil {
			return err
		}
		complaint = locked

		var feedbackID *uuid.UUID
		if t.feedback != nil {
			if err := s.repo.Create(ctx, t.feedback); err != nil {
				return err
			}
			if staged != nil {
				if err := s.attachments.Commit(ctx, staged, entity.OwnerFeedback, t.feedback.ID); err != nil {
					return err
				}
			}
			feedbackID = &t.feedback.ID
		}

		if err := s.complaintRepo.UpdateStatus(ctx, complaintID, t.to, feedbackID); err != nil {
			return err
		}
		return s.trackingRepo.Create(ctx, &entity.TrackingStatus{
			ComplaintID: complaintID,
			Status:      t.to,
			Notes:       t.notes,
			AdminID:     &caller.UserID,
		})
	})
	if err != nil {
		if staged != nil {
			s.attachments.Discard(ctx, staged)
		}
		if _, ok := apperror.UniqueViolation(err); ok {
			return nil, apperror.Conflict(t.duplicateMessage)
		}
		return nil, err
	}

	metrics.RecordTransition(string(t.to))

	complaint.CurrentStatus = t.to
	if t.feedback != nil {
		complaint.AdminFeedbackID = &t.feedback.ID
	}
	if err := s.notifications.NotifyStatusChange(ctx, complaint, caller.UserID); err != nil {
		s.log.Warn("failed to notify complaint owner", zap.String("complaint_id", complaintID.String()), zap.Error(err))
	}
	if err := s.index.IndexComplaint(ctx, complaint); err != nil {
		s.log.Warn("failed to index complaint", zap.String("complaint_id", complaintID.String()), zap.Error(err))
	}

	return complaint, nil
}

func (s *feedbackService) checkTransition(ctx context.Context, complaint *entity.Complaint, t transition) error {
	repeated, err := s.trackingRepo.Exists(ctx, complaint.ID, t.to)
	if err != nil {
		return err
	}
	if repeated {
		return apperror.Conflict(t.duplicateMessage)
	}

	if complaint.CurrentStatus.IsTerminal() {
		return apperror.Conflict(fmt.Sprintf("Complaint is already %s and can no longer change", complaint.CurrentStatus))
	}
	if !complaint.CurrentStatus.CanTransition(t.to) {
		return apperror.Conflict(fmt.Sprintf("cannot move complaint from %s to %s", complaint.CurrentStatus, t.to))
	}
	return nil
}
