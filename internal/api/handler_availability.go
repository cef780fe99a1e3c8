package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-pms-backend/internal/booking"
)

// roomAvailabilityResponse is the API view of a room's derived display state
// for a query window.
type roomAvailabilityResponse struct {
	RoomNumber string             `json:"room_number"`
	Condition  string             `json:"condition"`
	Status     string             `json:"status"`
	Conflicts  []conflictResponse `json:"conflicts,omitempty"`
}

// queryWindow parses the from/to query parameters into an interval.
func queryWindow(c *gin.Context) (booking.Interval, bool) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be formatted as YYYY-MM-DD"})
		return booking.Interval{}, false
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be formatted as YYYY-MM-DD"})
		return booking.Interval{}, false
	}
	return booking.NewInterval(from, to), true
}

// GetRoomAvailability handles GET /api/rooms/{number}/availability.
func (h *Handler) GetRoomAvailability(c *gin.Context) {
	window, ok := queryWindow(c)
	if !ok {
		return
	}

	number := c.Param("number")
	status, conflicts, err := h.resolver.ResolveStatus(c.Request.Context(), number, window)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}

	resp := roomAvailabilityResponse{
		RoomNumber: number,
		Status:     string(status),
	}
	for _, res := range conflicts {
		resp.Conflicts = append(resp.Conflicts, newConflictResponse(res))
	}
	c.JSON(http.StatusOK, resp)
}

// GetAvailability handles GET /api/availability, the batch dashboard view.
func (h *Handler) GetAvailability(c *gin.Context) {
	window, ok := queryWindow(c)
	if !ok {
		return
	}

	all, err := h.resolver.ResolveAll(c.Request.Context(), window)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}

	out := make([]roomAvailabilityResponse, 0, len(all))
	for _, ra := range all {
		resp := roomAvailabilityResponse{
			RoomNumber: ra.Room.Number,
			Condition:  string(ra.Room.Condition),
			Status:     string(ra.Status),
		}
		for _, res := range ra.Conflicts {
			resp.Conflicts = append(resp.Conflicts, newConflictResponse(res))
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}
