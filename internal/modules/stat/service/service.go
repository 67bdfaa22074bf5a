package service

import (
	"context"
	"fmt"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/internal/modules/stat/dto"
	"anoa.com/complainthub/internal/modules/stat/repository"
	"anoa.com/complainthub/pkg/apperror"
)

type StatService interface {
	Summary(ctx context.Context) (*dto.SummaryResponse, error)
	TotalUsers(ctx context.Context) (*dto.TotalResponse, error)
	TotalComplaints(ctx context.Context) (*dto.TotalResponse, error)
	TotalFeedbacks(ctx context.Context) (*dto.TotalResponse, error)
	TotalByStatus(ctx context.Context, status string) (*dto.TotalResponse, error)
	CategoryPercentages(ctx context.Context) (*dto.CategoryPercentagesResponse, error)
}

type statService struct {
	repo repository.StatRepository
}

func NewStatService(repo repository.StatRepository) StatService {
	return &statService{repo: repo}
}

func (s *statService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	feedbacks, err := s.repo.CountFeedbacks(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var complaints int64
	for _, n := range byStatus {
		complaints += n
	}

	return &dto.SummaryResponse{
		TotalUsers:      users,
		TotalComplaints: complaints,
		TotalFeedbacks:  feedbacks,
		Submitted:       byStatus[entity.StatusSubmitted],
		Processing:      byStatus[entity.StatusProcessing],
		Finished:        byStatus[entity.StatusFinished],
		Rejected:        byStatus[entity.StatusRejected],
	}, nil
}

func (s *statService) TotalUsers(ctx context.Context) (*dto.TotalResponse, error) {
	return total(s.repo.CountUsers(ctx))
}

func (s *statService) TotalComplaints(ctx context.Context) (*dto.TotalResponse, error) {
	return total(s.repo.CountComplaints(ctx))
}

func (s *statService) TotalFeedbacks(ctx context.Context) (*dto.TotalResponse, error) {
	return total(s.repo.CountFeedbacks(ctx))
}

// TotalByStatus accepts the lowercase path form: finished, rejected, processing.
func (s *statService) TotalByStatus(ctx context.Context, status string) (*dto.TotalResponse, error) {
	want, ok := entity.ParseComplaintStatus(status)
	if !ok || want == entity.StatusSubmitted {
		return nil, apperror.BadRequest(fmt.Sprintf("unknown complaint status %q", status))
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.TotalResponse{Total: byStatus[want]}, nil
}

func (s *statService) CategoryPercentages(ctx context.Context) (*dto.CategoryPercentagesResponse, error) {
	rows, err := s.repo.CountPerCategory(ctx)
	if err != nil {
		return nil, err
	}

	var totalComplaints int64
	for _, row := range rows {
		totalComplaints += row.Total
	}

	percentages := make([]dto.CategoryPercentage, 0, len(rows))
	for _, row := range rows {
		percentages = append(percentages, dto.CategoryPercentage{
			ID:            row.ID,
			Name:          row.Name,
			HasComplaints: row.Total,
			Percentage:    formatPercentage(row.Total, totalComplaints),
		})
	}

	return &dto.CategoryPercentagesResponse{
		TotalComplaints:     totalComplaints,
		CategoryPercentages: percentages,
	}, nil
}

func formatPercentage(part, whole int64) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

func total(n int64, err error) (*dto.TotalResponse, error) {
	if err != nil {
		return nil, err
	}
	return &dto.TotalResponse{Total: n}, nil
}
