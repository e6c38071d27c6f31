package api

import (
	"errors"
	"net/http"

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

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Initiate payment
// @Description Start a deposit or full payment collection through the gateway
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.InitiatePaymentRequest true "Payment request"
// @Success 201 {object} resdto.Envelope{data=resdto.PaymentResponse}
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments [post]
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	var req reqdto.InitiatePaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.paymentCommands.InitiatePayment(c.Request.Context(), req, by)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.OK(resdto.FromPaymentView(view)))
}

// @Summary Get payment
// @Description Get payment with escrow state and timeline
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.Envelope{data=resdto.PaymentResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format")
		return
	}

	view, err := h.paymentQueries.GetByID(c.Request.Context(), by, id)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromPaymentView(view)))
}

// @Summary Poll payment
// @Description Ask the gateway for the collection status and settle the payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.Envelope{data=resdto.PaymentResponse}
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/{id}/poll [post]
func (h *PaymentHandler) PollPayment(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format")
		return
	}

	view, err := h.paymentCommands.PollPayment(c.Request.Context(), id, by)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromPaymentView(view)))
}

// @Summary Release escrow
// @Description Release held funds to the stylist
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body reqdto.ReleaseEscrowRequest true "Release reason"
// @Success 200 {object} resdto.Envelope{data=resdto.PaymentResponse}
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/{id}/release [post]
func (h *PaymentHandler) ReleaseEscrow(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format")
		return
	}

	var req reqdto.ReleaseEscrowRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.paymentCommands.ReleaseEscrow(c.Request.Context(), id, by, req.Reason)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromPaymentView(view)))
}

// @Summary Refund payment
// @Description Refund part or all of a held or completed payment through the gateway
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body reqdto.RefundPaymentRequest true "Refund request"
// @Success 200 {object} resdto.Envelope{data=resdto.PaymentResponse}
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format")
		return
	}

	var req reqdto.RefundPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.paymentCommands.RefundPayment(c.Request.Context(), id, by, req.AmountCents, req.Reason)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromPaymentView(view)))
}

// @Summary Resolve dispute
// @Description Admin decision on a disputed payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body reqdto.ResolveDisputeRequest true "Resolution"
// @Success 200 {object} resdto.Envelope{data=resdto.PaymentResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/{id}/dispute/resolve [post]
func (h *PaymentHandler) ResolveDispute(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format")
		return
	}

	var req reqdto.ResolveDisputeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.paymentCommands.ResolveDispute(c.Request.Context(), id, by, req.ToOutcome(), req.Reason)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromPaymentView(view)))
}

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrPaymentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found")
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found")
	case errors.Is(err, errs.ErrUnauthorized):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not allowed for this payment")
	case errors.Is(err, errs.ErrPaymentExists):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking already has a payment")
	case errors.Is(err, errs.ErrConcurrentModification):
		httperr.AbortWithError(c, http.StatusConflict, err, "Payment was modified concurrently, retry")
	case errors.Is(err, errs.ErrBookingNotPayable):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking is not ready for payment")
	case errors.Is(err, errs.ErrInvalidPaymentChange):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payment state does not allow this operation")
	case errors.Is(err, errs.ErrEscrowNotReady):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Escrow is not ready for release")
	case errors.Is(err, errs.ErrRefundTooLarge):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Refund exceeds the payment amount")
	case errors.Is(err, errs.ErrInvalidAmount):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid amount")
	case errors.Is(err, errs.ErrGatewayUnavailable):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway is unavailable, try again")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}
