package store

// FacilityItem is a single room record from the facilities system feed.
type FacilityItem struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	RoomType      string `json:"roomType"`
	Capacity      int    `json:"capacity"`
	ConditionCode int    `json:"conditionCode"`
	FloorCode     string `json:"floorCode"`
}
