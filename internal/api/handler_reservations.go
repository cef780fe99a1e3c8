package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-pms-backend/internal/booking"
	"hotel-pms-backend/internal/model"
)

// reservationResponse is the API view of a reservation.
type reservationResponse struct {
	ID            int64  `json:"id"`
	Reference     string `json:"reference"`
	RoomNumber    string `json:"room_number"`
	GuestRef      string `json:"guest_ref"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Nights        int    `json:"nights"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
	Status        string `json:"status"`
}

func newReservationResponse(res *model.Reservation) reservationResponse {
	interval := booking.NewInterval(res.CheckIn, res.CheckOut)
	return reservationResponse{
		ID:            res.ID,
		Reference:     res.Reference,
		RoomNumber:    res.RoomNumber,
		GuestRef:      res.GuestRef,
		CheckIn:       res.CheckIn.Format(dateLayout),
		CheckOut:      res.CheckOut.Format(dateLayout),
		Nights:        interval.Nights(),
		Adults:        res.Adults,
		Children:      res.Children,
		ArrivalTime:   res.ArrivalTime,
		DepartureTime: res.DepartureTime,
		Status:        string(res.Status),
	}
}

type createReservationRequest struct {
	RoomNumber    string `json:"room_number" binding:"required"`
	GuestRef      string `json:"guest_ref" binding:"required"`
	CheckIn       string `json:"check_in" binding:"required"`
	CheckOut      string `json:"check_out" binding:"required"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	Status        string `json:"status"`
}

// PostReservation handles POST /api/reservations.
func (h *Handler) PostReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be formatted as YYYY-MM-DD"})
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be formatted as YYYY-MM-DD"})
		return
	}

	status := model.ReservationStatus(req.Status)
	if req.Status == "" {
		status = model.StatusPending
	}

	res, err := h.manager.Create(c.Request.Context(), booking.CreateParams{
		RoomNumber:    req.RoomNumber,
		GuestRef:      req.GuestRef,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Adults:        req.Adults,
		Children:      req.Children,
		ArrivalTime:   req.ArrivalTime,
		DepartureTime: req.DepartureTime,
		InitialStatus: status,
	})
	if err != nil {
		abortWithBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newReservationResponse(res))
}

// GetReservation handles GET /api/reservations/{id}.
func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	res, err := h.store.ReservationByID(c.Request.Context(), id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservation"})
		return
	}
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}

	c.JSON(http.StatusOK, newReservationResponse(res))
}

// ConfirmReservation handles POST /api/reservations/{id}/confirm.
func (h *Handler) ConfirmReservation(c *gin.Context) {
	h.transition(c, h.manager.Confirm)
}

// CheckInReservation handles POST /api/reservations/{id}/check-in.
func (h *Handler) CheckInReservation(c *gin.Context) {
	h.transition(c, h.manager.CheckIn)
}

// CheckOutReservation handles POST /api/reservations/{id}/check-out.
func (h *Handler) CheckOutReservation(c *gin.Context) {
	h.transition(c, h.manager.CheckOut)
}

// CancelReservation handles POST /api/reservations/{id}/cancel.
func (h *Handler) CancelReservation(c *gin.Context) {
	h.transition(c, h.manager.Cancel)
}

type extendReservationRequest struct {
	NewCheckOut string `json:"new_check_out" binding:"required"`
}

// ExtendReservation handles POST /api/reservations/{id}/extend.
func (h *Handler) ExtendReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req extendReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	newCheckOut, err := time.Parse(dateLayout, req.NewCheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new_check_out must be formatted as YYYY-MM-DD"})
		return
	}

	res, err := h.manager.Extend(c.Request.Context(), id, newCheckOut)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationResponse(res))
}

type reassignRoomRequest struct {
	NewRoomNumber string `json:"new_room_number" binding:"required"`
}

// ReassignRoom handles POST /api/reservations/{id}/reassign.
func (h *Handler) ReassignRoom(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req reassignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.manager.ReassignRoom(c.Request.Context(), id, req.NewRoomNumber)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationResponse(res))
}

// transition runs one of the manager's id-only lifecycle operations and
// renders the result.
func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, id int64) (*model.Reservation, error)) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	res, err := op(c.Request.Context(), id)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationResponse(res))
}

func reservationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid reservation ID"})
		return 0, false
	}
	return id, true
}
