package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"hotel-pms-backend/internal/booking"
	"hotel-pms-backend/internal/model"
	"hotel-pms-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	manager  *booking.Manager
	resolver *booking.Resolver
	webpush  *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, manager *booking.Manager, resolver *booking.Resolver, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		manager:  manager,
		resolver: resolver,
		webpush:  webpushOptions,
	}
}

// abortWithBookingError maps the scheduler's error taxonomy onto HTTP
// statuses. Conflicts carry the blocking reservations so the front desk can
// name the competing guest and dates.
func abortWithBookingError(c *gin.Context, err error) {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
		return
	}

	var nf *booking.NotFoundError
	if errors.As(err, &nf) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	var cerr *booking.ConflictError
	if errors.As(err, &cerr) {
		conflicts := make([]conflictResponse, len(cerr.Conflicts))
		for i, res := range cerr.Conflicts {
			conflicts[i] = newConflictResponse(res)
		}
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     cerr.Error(),
			"room":      cerr.RoomNumber,
			"conflicts": conflicts,
		})
		return
	}

	var serr *booking.InvalidStateError
	if errors.As(err, &serr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": serr.Error()})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// conflictResponse is the diagnostic view of a blocking reservation.
type conflictResponse struct {
	Reference string `json:"reference"`
	GuestRef  string `json:"guest_ref"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

func newConflictResponse(res model.Reservation) conflictResponse {
	return conflictResponse{
		Reference: res.Reference,
		GuestRef:  res.GuestRef,
		CheckIn:   res.CheckIn.Format(dateLayout),
		CheckOut:  res.CheckOut.Format(dateLayout),
	}
}

const dateLayout = "2006-01-02"
