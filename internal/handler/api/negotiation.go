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

type NegotiationHandler struct {
	negotiationCommands commands.NegotiationCommands
	negotiationQueries  queries.NegotiationQueries
}

func NewNegotiationHandler(negotiationCommands commands.NegotiationCommands, negotiationQueries queries.NegotiationQueries) *NegotiationHandler {
	return &NegotiationHandler{
		negotiationCommands: negotiationCommands,
		negotiationQueries:  negotiationQueries,
	}
}

// @Summary Propose offer
// @Description Propose a price for the booking; at most one offer may be pending
// @Tags negotiations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param request body reqdto.ProposeOfferRequest true "Offer"
// @Success 201 {object} resdto.Envelope{data=resdto.ConversationResponse}
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /negotiations/{id}/offer [post]
func (h *NegotiationHandler) ProposeOffer(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid conversation ID format")
		return
	}

	var req reqdto.ProposeOfferRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.negotiationCommands.ProposeOffer(c.Request.Context(), id, req, by)
	if err != nil {
		respondNegotiationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.OK(resdto.FromConversationView(view)))
}

// @Summary Respond to offer
// @Description Accept or reject the pending offer; rejection may carry a counter-offer
// @Tags negotiations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param request body reqdto.RespondToOfferRequest true "Decision"
// @Success 200 {object} resdto.Envelope{data=resdto.ConversationResponse}
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /negotiations/{id}/respond [post]
func (h *NegotiationHandler) RespondToOffer(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid conversation ID format")
		return
	}

	var req reqdto.RespondToOfferRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	view, err := h.negotiationCommands.RespondToOffer(c.Request.Context(), id, req, by)
	if err != nil {
		respondNegotiationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromConversationView(view)))
}

// @Summary Get conversation
// @Description Get negotiation conversation with offer history
// @Tags negotiations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} resdto.Envelope{data=resdto.ConversationResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /negotiations/{id} [get]
func (h *NegotiationHandler) GetConversation(c *gin.Context) {
	by, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.ErrUnauthorized, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid conversation ID format")
		return
	}

	view, err := h.negotiationQueries.GetByID(c.Request.Context(), by, id)
	if err != nil {
		respondNegotiationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK(resdto.FromConversationView(view)))
}

func respondNegotiationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrConversationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Conversation not found")
	case errors.Is(err, errs.ErrUnauthorized):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not a participant of this negotiation")
	case errors.Is(err, errs.ErrOfferInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "An offer is already pending")
	case errors.Is(err, errs.ErrNegotiationClosed):
		httperr.AbortWithError(c, http.StatusConflict, err, "Negotiation is closed")
	case errors.Is(err, errs.ErrConcurrentModification):
		httperr.AbortWithError(c, http.StatusConflict, err, "Conversation was modified concurrently, retry")
	case errors.Is(err, errs.ErrOfferTooLow):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Offer is below the minimum price")
	case errors.Is(err, errs.ErrOfferExpired):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Offer has expired")
	case errors.Is(err, errs.ErrNoActiveOffer):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "No pending offer to respond to")
	case errors.Is(err, errs.ErrInvalidDecision):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid decision for the pending offer")
	case errors.Is(err, errs.ErrInvalidAmount):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid amount")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}
