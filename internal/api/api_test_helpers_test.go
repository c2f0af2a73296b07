package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tatame-api/internal/api"
	"github.com/phrazzld/tatame-api/internal/api/middleware"
	"github.com/phrazzld/tatame-api/internal/config"
	"github.com/phrazzld/tatame-api/internal/mocks"
	"github.com/phrazzld/tatame-api/internal/service"
	"github.com/phrazzld/tatame-api/internal/service/auth"
	"github.com/phrazzld/tatame-api/internal/testutils"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fixedClock pins "today" to 2024-03-20.
func fixedClock() time.Time {
	return time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)
}

var testAuthConfig = config.AuthConfig{
	JWTSecret:                   "test-secret-that-is-at-least-32-characters",
	TokenLifetimeMinutes:        15,
	RefreshTokenLifetimeMinutes: 60,
	BcryptCost:                  bcrypt.MinCost,
	ResetTokenLifetimeMinutes:   30,
}

var testPaymentConfig = config.PaymentConfig{
	CheckoutURL:  "https://pay.example.com/checkout/faixa-preta",
	PlanName:     "Plano Faixa Preta",
	MonthlyPrice: "R$ 29,90",
	Benefits:     []string{"Sessões ilimitadas", "Técnicas ilimitadas", "Metas ilimitadas"},
}

type testServer struct {
	handler  http.Handler
	stores   testutils.TestStores
	profiles service.ProfileService
	mailer   *mocks.MockMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutils.NewTestDB(t)
	stores := testutils.CreateTestStores(db)

	tokens, err := auth.NewJWTService(testAuthConfig)
	require.NoError(t, err)
	mailer := &mocks.MockMailer{}

	sessions := service.NewSessionService(stores.Sessions, nil, nil, fixedClock, nil)
	techniques := service.NewTechniqueService(stores.Techniques, nil, nil, nil)
	goals := service.NewGoalService(stores.Goals, nil, nil, fixedClock, nil)

	profiles, err := service.NewProfileService(stores.Profiles, stores.Users, fixedClock, nil,
		sessions, techniques, goals)
	require.NoError(t, err)

	accounts, err := service.NewAccountService(
		service.AccountStores{
			DB:       db,
			Users:    stores.Users,
			Profiles: stores.Profiles,
			Resets:   stores.Resets,
			Revoked:  stores.Revoked,
		},
		tokens,
		auth.NewBcryptVerifier(bcrypt.MinCost),
		mailer,
		testAuthConfig,
		fixedClock,
		nil,
	)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(nil))
	api.RegisterRoutes(r, api.Handlers{
		Auth:          api.NewAuthHandler(accounts, nil),
		Profile:       api.NewProfileHandler(profiles),
		Sessions:      api.NewSessionHandler(sessions),
		Techniques:    api.NewTechniqueHandler(techniques),
		Goals:         api.NewGoalHandler(goals),
		Subscriptions: api.NewSubscriptionHandler(service.NewSubscriptionService(testPaymentConfig)),
	}, api.RouteMiddleware{
		Authenticate: middleware.NewAuthMiddleware(tokens, profiles).Authenticate,
	})

	return &testServer{handler: r, stores: stores, profiles: profiles, mailer: mailer}
}

// do sends a request with an optional bearer token and JSON body.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// register signs up a free-tier athlete and returns the access token.
func (s *testServer) register(t *testing.T, email string) service.TokenPair {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":            email,
		"password":         "oss123",
		"confirm_password": "oss123",
		"name":             "Atleta Teste",
		"rank":             "Azul",
		"academy":          "Tatame Central",
		"start_date":       "2023-03-20",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var pair service.TokenPair
	decodeBody(t, rec, &pair)
	return pair
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// errorBody is the error envelope as clients see it.
type errorBody struct {
	Error      string `json:"error"`
	Field      string `json:"field"`
	TraceID    string `json:"trace_id"`
	Resource   string `json:"resource"`
	Limit      int    `json:"limit"`
	UpgradeURL string `json:"upgrade_url"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decodeBody(t, rec, &body)
	return body
}

func sessionBody(day int) map[string]interface{} {
	return map[string]interface{}{
		"date":       fmt.Sprintf("2024-03-%02d", day),
		"type":       "Aula",
		"techniques": "Armlock, Triângulo",
		"effort":     3,
	}
}
