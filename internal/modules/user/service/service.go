package service

import (
	"context"
	"errors"

	"anoa.com/complainthub/internal/entity"
	attachmentService "anoa.com/complainthub/internal/modules/attachment/service"
	complaintDto "anoa.com/complainthub/internal/modules/complaint/dto"
	complaintRepository "anoa.com/complainthub/internal/modules/complaint/repository"
	"anoa.com/complainthub/internal/modules/user/dto"
	"anoa.com/complainthub/internal/modules/user/repository"
	"anoa.com/complainthub/pkg/apperror"
	"anoa.com/complainthub/pkg/database"
	commonDto "anoa.com/complainthub/pkg/dto"
	"anoa.com/complainthub/pkg/sanitize"
	"anoa.com/complainthub/pkg/token"
	"anoa.com/complainthub/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, claims *token.Claims) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *commonDto.UploadFile) (*dto.UserResponse, error)
	GetComplaints(ctx context.Context, userID uuid.UUID) (*dto.UserComplaintsResponse, error)
	GetAllUsers(ctx context.Context, caller entity.Identity, query commonDto.PageQuery) ([]dto.UserResponse, commonDto.PaginationMeta, error)
	VerifyUser(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.DeleteUserResponse, error)
}

type Config struct {
	HashCost int
}

type userService struct {
	repo          repository.UserRepository
	complaintRepo complaintRepository.ComplaintRepository
	attachments   attachmentService.AttachmentService
	tokens        *token.Manager
	denylist      *token.Denylist
	tx            database.Transactor
	log           *zap.Logger
	cfg           Config
}

func NewUserService(
	repo repository.UserRepository,
	complaintRepo complaintRepository.ComplaintRepository,
	attachments attachmentService.AttachmentService,
	tokens *token.Manager,
	denylist *token.Denylist,
	tx database.Transactor,
	log *zap.Logger,
	cfg Config,
) UserService {
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &userService{
		repo:          repo,
		complaintRepo: complaintRepo,
		attachments:   attachments,
		tokens:        tokens,
		denylist:      denylist,
		tx:            tx,
		log:           log,
		cfg:           cfg,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	name := sanitize.Text(req.Name)
	if err := validator.MinLength("name", name, 3); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("User already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByNIK(ctx, req.NIK); err == nil {
		return nil, apperror.Conflict("User with this NIK already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.HashCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		NIK:          req.NIK,
		Name:         name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicateUser(err)
	}

	res := dto.ToUserResponse(user)
	return &res, nil
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("User not verified or does not exist")
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, apperror.Unauthorized("User not verified or does not exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Email or password is wrong")
	}

	signed, expiresAt, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		UserResponse: dto.ToUserResponse(user),
		Token:        signed,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *userService) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := dto.ToUserResponse(user)
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *commonDto.UploadFile) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := sanitize.Text(req.Name)
	if err := validator.MinLength("name", name, 3); err != nil {
		return nil, err
	}
	var address *string
	if req.Address != "" {
		cleaned := sanitize.Text(req.Address)
		if err := validator.MinLength("address", cleaned, 3); err != nil {
			return nil, err
		}
		address = &cleaned
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != user.ID {
		return nil, apperror.Conflict("Email already used")
	}

	if req.NewPassword != "" {
		hash, err := s.changePassword(user, req)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.Name = name
	user.Email = req.Email
	// an empty address clears it
	user.Address = address

	var staged *entity.Attachment
	oldAvatar := user.Avatar
	if avatar != nil {
		staged, err = s.attachments.Stage(ctx, avatar, attachmentService.FolderAvatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = &staged.Path
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, user); err != nil {
			return err
		}
		if staged == nil {
			return nil
		}
		if oldAvatar != nil {
			if err := s.attachments.Release(ctx, *oldAvatar, attachmentService.FolderAvatar); err != nil {
				return err
			}
		}
		return s.attachments.Commit(ctx, staged, entity.OwnerUser, user.ID)
	})
	if err != nil {
		s.attachments.Discard(ctx, staged)
		return nil, duplicateUser(err)
	}

	if staged != nil && oldAvatar != nil {
		s.attachments.Purge(ctx, *oldAvatar)
	}

	res := dto.ToUserResponse(user)
	return &res, nil
}

func (s *userService) GetComplaints(ctx context.Context, userID uuid.UUID) (*dto.UserComplaintsResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	complaints, err := s.complaintRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.UserComplaintsResponse{
		UserResponse: dto.ToUserResponse(user),
		Complaints:   complaintDto.ToComplaintResponses(complaints),
	}, nil
}

func (s *userService) GetAllUsers(ctx context.Context, caller entity.Identity, query commonDto.PageQuery) ([]dto.UserResponse, commonDto.PaginationMeta, error) {
	if !caller.IsAdmin() {
		return nil, commonDto.PaginationMeta{}, apperror.Forbidden("Only admin can access all users")
	}

	query = query.Normalize()
	users, total, err := s.repo.FindAll(ctx, query.Offset(), query.Limit)
	if err != nil {
		return nil, commonDto.PaginationMeta{}, err
	}

	return dto.ToUserResponses(users), commonDto.NewPaginationMeta(query, total), nil
}

func (s *userService) VerifyUser(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperror.Forbidden("Only admin can verify user accounts")
	}

	if err := s.repo.Verify(ctx, id); err != nil {
		return nil, userNotFound(err)
	}

	return s.GetProfile(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, caller entity.Identity, id uuid.UUID) (*dto.DeleteUserResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperror.Forbidden("Only admin can delete user")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	var released []string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		paths, err := s.attachments.ReleaseOwner(ctx, entity.OwnerUser, user.ID)
		if err != nil {
			return err
		}
		if user.Avatar != nil && !contains(paths, *user.Avatar) {
			if err := s.attachments.Release(ctx, *user.Avatar, attachmentService.FolderAvatar); err != nil {
				return err
			}
			paths = append(paths, *user.Avatar)
		}
		released = paths
		return s.repo.Delete(ctx, user.ID)
	})
	if err != nil {
		return nil, userNotFound(err)
	}

	s.attachments.Purge(ctx, released...)

	return &dto.DeleteUserResponse{ID: user.ID, Email: user.Email, IsDeleted: true}, nil
}

func (s *userService) changePassword(user *entity.User, req dto.UpdateProfileRequest) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return "", apperror.Unauthorized("Incorrect old password")
	}
	if req.NewPassword == req.OldPassword {
		return "", apperror.BadRequest("New password can't be the same with old password")
	}
	if req.ConfirmPassword != req.NewPassword {
		return "", apperror.BadRequest("Confirm password not same with new password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	return user, nil
}

func userNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("User not found")
	}
	return err
}

// duplicateUser turns a unique index hit that slipped past the lookups into
// the same conflict the lookups report.
func duplicateUser(err error) error {
	field, ok := apperror.UniqueViolation(err)
	if !ok {
		return err
	}
	switch field {
	case "email":
		return apperror.Conflict("Email already used")
	case "nik":
		return apperror.Conflict("User with this NIK already exists")
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
