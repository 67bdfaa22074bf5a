package dto

type SweepResponse struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
