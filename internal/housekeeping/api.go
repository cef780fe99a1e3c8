package housekeeping

import "hotel-pms-backend/internal/store"

// ApiResponse is the envelope returned by the facilities system feed.
type ApiResponse struct {
	Code int `json:"code"`
	Data struct {
		Page     int                  `json:"page"`
		PageSize int                  `json:"pageSize"`
		Total    int                  `json:"total"`
		Items    []store.FacilityItem `json:"items"`
	} `json:"data"`
}
