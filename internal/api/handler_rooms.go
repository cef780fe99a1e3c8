package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hotel-pms-backend/internal/model"
)

// RoomResponse represents the API response for a single room.
type RoomResponse struct {
	ID        int64  `json:"id"`
	Number    string `json:"number"`
	Wing      string `json:"wing,omitempty"`
	Floor     int    `json:"floor"`
	RoomType  string `json:"room_type,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
	Condition string `json:"condition"`
}

// GetRooms handles the GET /api/rooms request.
func GetRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rooms []model.Room
		if err := db.Preload("RoomType").Order("number").Find(&rooms).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
			return
		}

		responses := make([]RoomResponse, 0, len(rooms))
		for _, r := range rooms {
			responses = append(responses, RoomResponse{
				ID:        r.ID,
				Number:    r.Number,
				Wing:      r.Wing,
				Floor:     r.Floor,
				RoomType:  r.RoomType.Name,
				Capacity:  r.RoomType.Capacity,
				Condition: string(r.Condition),
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}

// FloorResponse represents the API response for one floor of one wing.
type FloorResponse struct {
	Wing       string `json:"wing,omitempty"`
	Floor      int    `json:"floor"`
	TotalRooms int64  `json:"totalRooms"`
	InService  int64  `json:"inService"`
}

// GetFloors handles the GET /api/floors request.
func GetFloors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type aggRow struct {
			Wing       string
			Floor      int
			TotalRooms int64
			InService  int64
		}
		var aggs []aggRow
		if err := db.
			Model(&model.Room{}).
			Select("wing, floor, COUNT(*) as total_rooms, " +
				"SUM(CASE WHEN condition = 'available' THEN 1 ELSE 0 END) as in_service").
			Group("wing, floor").
			Order("wing, floor").
			Scan(&aggs).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate rooms"})
			return
		}

		responses := make([]FloorResponse, 0, len(aggs))
		for _, a := range aggs {
			responses = append(responses, FloorResponse{
				Wing: a.Wing, Floor: a.Floor,
				TotalRooms: a.TotalRooms, InService: a.InService,
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}
