package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "glowbook/internal/handler/dto/request"
	resdto "glowbook/internal/handler/dto/response"
	"glowbook/internal/handler/httperr"
	"glowbook/internal/handler/middleware"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/commands"
	"glowbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Create a booking request for a stylist service profile
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.bookingCommands.CreateBooking(c.Request.Context(), req, by)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.OK(resdto.FromBookingView(view)))
}

// @Summary Get booking
// @Description Get booking by ID; visible to its participants and admins
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format")
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), by, id)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromBookingView(view)))
}

// @Summary List bookings
// @Description List bookings where the caller is customer or stylist
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} resdto.Envelope{data=[]resdto.BookingListResponse}
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	limit := parseInt32(c.DefaultQuery("limit", "20"), 20)
	offset := parseInt32(c.DefaultQuery("offset", "0"), 0)

	items, err := h.bookingQueries.ListByParticipant(c.Request.Context(), by.ID, limit, offset)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	resp := make([]*resdto.BookingListResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, resdto.FromBookingListItem(item))
	}
	c.JSON(http.StatusOK, resdto.OK(resp))
}

// @Summary Change booking status
// @Description Transition a booking along its lifecycle
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ChangeBookingStatusRequest true "Target status"
// @Success 200 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format")
		return
	}

	var req reqdto.ChangeBookingStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.bookingCommands.ChangeStatus(c.Request.Context(), id, req.ToStatus(), by)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromBookingView(view)))
}

// @Summary Cancel booking
// @Description Cancel a booking; the refund tier depends on notice before the appointment
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest true "Cancellation reason"
// @Success 200 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format")
		return
	}

	var req reqdto.CancelBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.bookingCommands.CancelBooking(c.Request.Context(), id, by, req.Reason, req.GetNote())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromBookingView(view)))
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found")
	case errors.Is(err, errs.ErrUnauthorized):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not a participant of this booking")
	case errors.Is(err, errs.ErrConcurrentModification):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking was modified concurrently, retry")
	case errors.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Status transition not allowed")
	case errors.Is(err, errs.ErrCancelNotAllowed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking can no longer be cancelled")
	case errors.Is(err, errs.ErrCancelReasonNeeded):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cancellation reason is required")
	case errors.Is(err, errs.ErrAppointmentInPast):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Appointment time must be in the future")
	case errors.Is(err, errs.ErrInvalidDuration):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid service duration")
	case errors.Is(err, errs.ErrInvalidAmount):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid amount")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}

func parseInt32(s string, fallback int32) int32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v < 0 {
		return fallback
	}
	return int32(v)
}
