package service

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/sanitize"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const complaintsIndex = "complaints"

// ComplaintIndex keeps the full-text complaint index in sync. Search returns
// matching ids in relevance order together with the estimated hit count.
type ComplaintIndex interface {
	IndexComplaint(ctx context.Context, complaint *entity.Complaint) error
	DeleteComplaint(ctx context.Context, id uuid.UUID) error
	SearchComplaints(ctx context.Context, query string, offset, limit int) ([]uuid.UUID, int64, error)
}

type complaintDoc struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Location     string `json:"location"`
	Slug         string `json:"slug"`
	Status       string `json:"status"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	UserID       string `json:"user_id"`
	IsDeleted    bool   `json:"is_deleted"`
	CreatedAt    int64  `json:"created_at"`
}

type searchHits struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
	EstimatedTotalHits int64 `json:"estimatedTotalHits"`
	TotalHits          int64 `json:"totalHits"`
}

type meiliComplaintIndex struct {
	client meilisearch.ServiceManager
	log    *zap.Logger
}

// NewComplaintIndex returns a no-op index when client is nil.
func NewComplaintIndex(client meilisearch.ServiceManager, log *zap.Logger) ComplaintIndex {
	if client == nil {
		return noopIndex{}
	}
	s := &meiliComplaintIndex{client: client, log: log}
	s.initIndex()
	return s
}

func (s *meiliComplaintIndex) initIndex() {
	filterable := []interface{}{"status", "category_id", "user_id", "is_deleted"}
	if _, err := s.client.Index(complaintsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		s.log.Warn("failed to update complaints filterable attributes", zap.Error(err))
	}

	sortable := []string{"created_at"}
	if _, err := s.client.Index(complaintsIndex).UpdateSortableAttributes(&sortable); err != nil {
		s.log.Warn("failed to update complaints sortable attributes", zap.Error(err))
	}
}

func toDoc(complaint *entity.Complaint) complaintDoc {
	doc := complaintDoc{
		ID:         complaint.ID.String(),
		Title:      complaint.Title,
		Content:    sanitize.Text(complaint.Content),
		Location:   complaint.Location,
		Slug:       complaint.Slug,
		Status:     string(complaint.CurrentStatus),
		CategoryID: complaint.CategoryID.String(),
		UserID:     complaint.UserID.String(),
		IsDeleted:  complaint.IsDeleted,
		CreatedAt:  complaint.CreatedAt.Unix(),
	}
	if complaint.Category != nil {
		doc.CategoryName = complaint.Category.Name
	}
	return doc
}

func (s *meiliComplaintIndex) IndexComplaint(ctx context.Context, complaint *entity.Complaint) error {
	primaryKey := "id"
	task, err := s.client.Index(complaintsIndex).AddDocuments([]complaintDoc{toDoc(complaint)}, &primaryKey)
	if err != nil {
		return fmt.Errorf("failed to index complaint %s: %w", complaint.ID, err)
	}
	s.log.Debug("indexed complaint", zap.String("id", complaint.ID.String()), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliComplaintIndex) DeleteComplaint(ctx context.Context, id uuid.UUID) error {
	if _, err := s.client.Index(complaintsIndex).DeleteDocument(id.String()); err != nil {
		return fmt.Errorf("failed to remove complaint %s from index: %w", id, err)
	}
	return nil
}

func (s *meiliComplaintIndex) SearchComplaints(ctx context.Context, query string, offset, limit int) ([]uuid.UUID, int64, error) {
	raw, err := s.client.Index(complaintsIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Offset:               int64(offset),
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search complaints: %w", err)
	}

	var res searchHits
	if err := json.Unmarshal(*raw, &res); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	total := res.EstimatedTotalHits
	if res.TotalHits > total {
		total = res.TotalHits
	}
	return ids, total, nil
}

type noopIndex struct{}

func (noopIndex) IndexComplaint(context.Context, *entity.Complaint) error { return nil }
func (noopIndex) DeleteComplaint(context.Context, uuid.UUID) error { return nil }
func (noopIndex) SearchComplaints(context.Context, string, int, int) ([]uuid.UUID, int64, error) {
	return []uuid.UUID{}, 0, nil
}
