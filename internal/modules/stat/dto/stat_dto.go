package dto

import "github.com/google/uuid"

type TotalResponse struct {
	Total int64 `json:"total"`
}

type SummaryResponse struct {
	TotalUsers      int64 `json:"total_users"`
	TotalComplaints int64 `json:"total_complaints"`
	TotalFeedbacks  int64 `json:"total_feedbacks"`
	Submitted       int64 `json:"submitted"`
	Processing      int64 `json:"processing"`
	Finished        int64 `json:"finished"`
	Rejected        int64 `json:"rejected"`
}

type CategoryPercentage struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	HasComplaints int64     `json:"has_complaints"`
	Percentage    string    `json:"percentage"`
}

type CategoryPercentagesResponse struct {
	TotalComplaints     int64                `json:"total_complaints"`
	CategoryPercentages []CategoryPercentage `json:"category_percentages"`
}
