//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"glowbook/internal/domain/actor"
	"glowbook/internal/handler/api"
	resdto "glowbook/internal/handler/dto/response"
	"glowbook/internal/pkg/errs"
	"glowbook/tests/common/builder"
	"glowbook/tests/common/httptest"
	"glowbook/tests/common/testutil"
	commandsmock "glowbook/tests/mock/commands"
	queriesmock "glowbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type NegotiationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockNegotiationCommands
	mockQueries  *queriesmock.MockNegotiationQueries
	handler      *api.NegotiationHandler
	actorID      uuid.UUID
}

func (s *NegotiationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockNegotiationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockNegotiationQueries(s.mockCtrl)
	s.handler = api.NewNegotiationHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	auth := fakeAuth(s.actorID, actor.RoleCustomer)
	s.router.GET("/negotiations/:id", auth, s.handler.GetConversation)
	s.router.POST("/negotiations/:id/offer", auth, s.handler.ProposeOffer)
	s.router.POST("/negotiations/:id/respond", auth, s.handler.RespondToOffer)
}

func (s *NegotiationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestNegotiationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NegotiationHandlerTestSuite))
}

func (s *NegotiationHandlerTestSuite) TestProposeOffer() {
	conversationID := uuid.New()
	url := "/negotiations/" + conversationID.String() + "/offer"

	reqBody := builder.NewConversationBuilder().BuildProposeRequestDTO(9000)
	returnView := builder.NewConversationBuilder().BuildView()
	returnView.ID = conversationID

	s.Run("success: returns 201 Created with the conversation view", func() {
		s.mockCommands.EXPECT().ProposeOffer(gomock.Any(), conversationID, reqBody, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.ConversationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(conversationID, response.ID)
		s.Equal(returnView.FloorPriceCents, response.FloorPriceCents)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing amount", mutate: testutil.Field("amount_cents", nil)},
			{name: "zero amount", mutate: testutil.Field("amount_cents", 0)},
			{name: "negative amount", mutate: testutil.Field("amount_cents", -500)},
			{name: "zero expiry", mutate: testutil.Field("expiry_hours", 0)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "below floor", commandsError: errs.ErrOfferTooLow, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "below the minimum"},
			{name: "offer already pending", commandsError: errs.ErrOfferInProgress, expectedStatus: http.StatusConflict, expectedMsg: "already pending"},
			{name: "negotiation closed", commandsError: errs.ErrNegotiationClosed, expectedStatus: http.StatusConflict, expectedMsg: "closed"},
			{name: "outsider", commandsError: errs.ErrUnauthorized, expectedStatus: http.StatusForbidden, expectedMsg: "Not a participant"},
			{name: "unknown conversation", commandsError: errs.ErrConversationNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Conversation not found"},
			{name: "concurrent modification", commandsError: errs.ErrConcurrentModification, expectedStatus: http.StatusConflict, expectedMsg: "modified concurrently"},
			{name: "database error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().ProposeOffer(gomock.Any(), conversationID, reqBody, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *NegotiationHandlerTestSuite) TestRespondToOffer() {
	conversationID := uuid.New()
	url := "/negotiations/" + conversationID.String() + "/respond"
	reqBody := map[string]any{"decision": "accepted"}

	returnView := builder.NewConversationBuilder().BuildView()
	returnView.ID = conversationID
	returnView.Active = false

	s.Run("success: returns 200 OK with the resolved conversation", func() {
		s.mockCommands.EXPECT().RespondToOffer(gomock.Any(), conversationID, gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.ConversationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(conversationID, response.ID)
		s.False(response.Active)
	})

	s.Run("success: rejection with counter offer", func() {
		s.mockCommands.EXPECT().RespondToOffer(gomock.Any(), conversationID, gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		body := map[string]any{"decision": "rejected", "counter_offer_cents": 9000}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name string
			body map[string]any
		}{
			{name: "missing decision", body: map[string]any{}},
			{name: "unknown decision", body: map[string]any{"decision": "maybe"}},
			{name: "zero counter offer", body: map[string]any{"decision": "rejected", "counter_offer_cents": 0}},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, tc.body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "expired offer", commandsError: errs.ErrOfferExpired, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "expired"},
			{name: "nothing pending", commandsError: errs.ErrNoActiveOffer, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "No pending offer"},
			{name: "invalid decision", commandsError: errs.ErrInvalidDecision, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "Invalid decision"},
			{name: "negotiation closed", commandsError: errs.ErrNegotiationClosed, expectedStatus: http.StatusConflict, expectedMsg: "closed"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().RespondToOffer(gomock.Any(), conversationID, gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *NegotiationHandlerTestSuite) TestGetConversation() {
	conversationID := uuid.New()
	url := "/negotiations/" + conversationID.String()

	returnView := builder.NewConversationBuilder().BuildView()
	returnView.ID = conversationID

	s.Run("success: returns 200 OK with ConversationResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), conversationID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.ConversationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(conversationID, response.ID)
		s.Equal(returnView.BasePriceCents, response.BasePriceCents)
		s.True(response.Active)
	})

	s.Run("error: 400 Bad Request for malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/negotiations/nope", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 404 Not Found for unknown conversation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), conversationID).
			Return(nil, errs.ErrConversationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Conversation not found")
	})
}
