//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"glowbook/internal/domain/actor"
	"glowbook/internal/handler/api"
	resdto "glowbook/internal/handler/dto/response"
	"glowbook/internal/handler/middleware"
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

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	handler      *api.PaymentHandler
	actorID      uuid.UUID
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	auth := fakeAuth(s.actorID, actor.RoleCustomer)
	adminGate := middleware.NewAuthMiddleware(nil).RequireAdmin()

	s.router.POST("/payments", auth, s.handler.InitiatePayment)
	s.router.GET("/payments/:id", auth, s.handler.GetPayment)
	s.router.POST("/payments/:id/poll", auth, s.handler.PollPayment)
	s.router.POST("/payments/:id/release", auth, s.handler.ReleaseEscrow)
	s.router.POST("/payments/:id/refund", auth, s.handler.RefundPayment)
	s.router.POST("/payments/:id/dispute/resolve", fakeAuth(s.actorID, actor.RoleAdmin), adminGate, s.handler.ResolveDispute)
	s.router.POST("/customer/payments/:id/dispute/resolve", auth, adminGate, s.handler.ResolveDispute)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestInitiatePayment() {
	url := "/payments"

	reqBody := builder.NewPaymentBuilder().BuildInitiateRequestDTO()
	returnView := builder.NewPaymentBuilder().BuildView()

	s.Run("success: returns 201 Created with the payment view", func() {
		s.mockCommands.EXPECT().InitiatePayment(gomock.Any(), reqBody, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.AmountCents, response.AmountCents)
		s.Equal(returnView.PlatformFeeCents, response.PlatformFeeCents)
		s.Equal("pending", response.Status)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing booking_id", mutate: testutil.Field("booking_id", nil)},
			{name: "unknown type", mutate: testutil.Field("type", "tip")},
			{name: "refund type not accepted here", mutate: testutil.Field("type", "refund")},
			{name: "unknown method", mutate: testutil.Field("method", "cash")},
			{name: "missing payer_phone", mutate: testutil.Field("payer_phone", nil)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
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
			{name: "duplicate payment", commandsError: errs.ErrPaymentExists, expectedStatus: http.StatusConflict, expectedMsg: "already has a payment"},
			{name: "booking not payable", commandsError: errs.ErrBookingNotPayable, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "not ready for payment"},
			{name: "unknown booking", commandsError: errs.ErrBookingNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Booking not found"},
			{name: "gateway down", commandsError: errs.ErrGatewayUnavailable, expectedStatus: http.StatusBadGateway, expectedMsg: "gateway is unavailable"},
			{name: "database error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().InitiatePayment(gomock.Any(), reqBody, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *PaymentHandlerTestSuite) TestGetPayment() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String()

	returnView := builder.NewPaymentBuilder().BuildView()
	returnView.ID = paymentID

	s.Run("success: returns 200 OK with PaymentResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), paymentID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(paymentID, response.ID)
		s.Equal(returnView.NetAmountCents, response.NetAmountCents)
	})

	s.Run("error: 404 Not Found for unknown payment", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), paymentID).
			Return(nil, errs.ErrPaymentNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Payment not found")
	})

	s.Run("error: 403 Forbidden for outsiders", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), paymentID).
			Return(nil, errs.ErrUnauthorized).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Not allowed")
	})
}

func (s *PaymentHandlerTestSuite) TestPollPayment() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String() + "/poll"

	returnView := builder.NewPaymentBuilder().BuildView()
	returnView.ID = paymentID
	returnView.Status = "held"

	s.Run("success: returns 200 OK with the advanced payment", func() {
		s.mockCommands.EXPECT().PollPayment(gomock.Any(), paymentID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("held", response.Status)
	})

	s.Run("error: 502 Bad Gateway when the collaborator is down", func() {
		s.mockCommands.EXPECT().PollPayment(gomock.Any(), paymentID, gomock.Any()).
			Return(nil, errs.ErrGatewayUnavailable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "gateway is unavailable")
	})
}

func (s *PaymentHandlerTestSuite) TestReleaseEscrow() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String() + "/release"
	reqBody := map[string]any{"reason": "service_completed"}

	returnView := builder.NewPaymentBuilder().BuildView()
	returnView.ID = paymentID
	returnView.Status = "completed"

	s.Run("success: returns 200 OK with the released payment", func() {
		s.mockCommands.EXPECT().ReleaseEscrow(gomock.Any(), paymentID, gomock.Any(), "service_completed").
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("completed", response.Status)
	})

	s.Run("error: 422 when escrow is not ready", func() {
		s.mockCommands.EXPECT().ReleaseEscrow(gomock.Any(), paymentID, gomock.Any(), "service_completed").
			Return(nil, errs.ErrEscrowNotReady).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "not ready for release")
	})

	s.Run("error: 400 Bad Request when the reason is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

func (s *PaymentHandlerTestSuite) TestRefundPayment() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String() + "/refund"
	reqBody := map[string]any{"amount_cents": 5000, "reason": "customer cancelled"}

	returnView := builder.NewPaymentBuilder().BuildView()
	returnView.ID = paymentID
	returnView.Status = "refunded"

	s.Run("success: returns 200 OK with the refunded payment", func() {
		s.mockCommands.EXPECT().RefundPayment(gomock.Any(), paymentID, gomock.Any(), int64(5000), "customer cancelled").
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("refunded", response.Status)
	})

	s.Run("error: 422 when the refund exceeds the payment", func() {
		s.mockCommands.EXPECT().RefundPayment(gomock.Any(), paymentID, gomock.Any(), int64(5000), "customer cancelled").
			Return(nil, errs.ErrRefundTooLarge).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "exceeds the payment amount")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []map[string]any{
			{"reason": "no amount"},
			{"amount_cents": 0, "reason": "zero"},
			{"amount_cents": 5000},
		}
		for _, body := range cases {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
		}
	})
}

func (s *PaymentHandlerTestSuite) TestResolveDispute() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String() + "/dispute/resolve"
	reqBody := map[string]any{"outcome": "refunded", "reason": "customer upheld"}

	returnView := builder.NewPaymentBuilder().BuildView()
	returnView.ID = paymentID
	returnView.Status = "refunded"

	s.Run("success: admin resolves the dispute", func() {
		s.mockCommands.EXPECT().ResolveDispute(gomock.Any(), paymentID, gomock.Any(), gomock.Any(), "customer upheld").
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("refunded", response.Status)
	})

	s.Run("error: 403 Forbidden for non-admin callers", func() {
		customerURL := "/customer/payments/" + paymentID.String() + "/dispute/resolve"
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, customerURL, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("error: 400 Bad Request for an invalid outcome", func() {
		body := map[string]any{"outcome": "held", "reason": "x"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 422 when the payment is not disputed", func() {
		s.mockCommands.EXPECT().ResolveDispute(gomock.Any(), paymentID, gomock.Any(), gomock.Any(), "customer upheld").
			Return(nil, errs.ErrInvalidPaymentChange).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "does not allow this operation")
	})
}
