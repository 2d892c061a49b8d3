package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	partnerapp "github.com/b2bportal/backend/internal/application/partner"
	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/infrastructure/auth"
	"github.com/b2bportal/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "b2bportal-test",
		MaxRefreshCount:        10,
	})
}

func setupAuthRouter(auth gin.HandlerFunc) (*gin.Engine, *MockCustomerRepository, *auth.JWTService) {
	gin.SetMode(gin.TestMode)

	customerRepo := new(MockCustomerRepository)
	jwtService := newAuthTestJWTService()
	service := partnerapp.NewCustomerService(customerRepo, jwtService, zap.NewNop())
	h := NewAuthHandler(service)

	r := gin.New()
	api := r.Group("/api/v1")
	if auth != nil {
		api.Use(auth)
	}
	h.RegisterRoutes(api)
	return r, customerRepo, jwtService
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	router, customerRepo, _ := setupAuthRouter(nil)
	customer := newActiveCustomer(t)

	customerRepo.On("FindByEmail", mock.Anything, customer.Email).Return(customer, nil)

	w := postJSON(router, "/api/v1/auth/login", map[string]string{
		"email":    customer.Email,
		"password": "s3cret-password",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenType    string `json:"token_type"`
			Customer     struct {
				Email string `json:"email"`
			} `json:"customer"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.NotEmpty(t, resp.Data.RefreshToken)
	assert.Equal(t, "Bearer", resp.Data.TokenType)
	assert.Equal(t, customer.Email, resp.Data.Customer.Email)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	router, customerRepo, _ := setupAuthRouter(nil)
	customer := newActiveCustomer(t)

	customerRepo.On("FindByEmail", mock.Anything, customer.Email).Return(customer, nil)

	w := postJSON(router, "/api/v1/auth/login", map[string]string{
		"email":    customer.Email,
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	router, customerRepo, _ := setupAuthRouter(nil)

	customerRepo.On("FindByEmail", mock.Anything, "nobody@acme.com").Return(nil, shared.ErrNotFound)

	w := postJSON(router, "/api/v1/auth/login", map[string]string{
		"email":    "nobody@acme.com",
		"password": "whatever-password",
	})

	// Unknown accounts get the same response as a bad password
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_Login_DeactivatedAccount(t *testing.T) {
	router, customerRepo, _ := setupAuthRouter(nil)
	customer := newActiveCustomer(t)
	customer.SetActive(false)

	customerRepo.On("FindByEmail", mock.Anything, customer.Email).Return(customer, nil)

	w := postJSON(router, "/api/v1/auth/login", map[string]string{
		"email":    customer.Email,
		"password": "s3cret-password",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_INACTIVE")
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	router, _, _ := setupAuthRouter(nil)

	w := postJSON(router, "/api/v1/auth/login", map[string]string{"email": "orders@acme.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_AcceptInvitation(t *testing.T) {
	router, customerRepo, _ := setupAuthRouter(nil)

	customer, err := partner.NewInvitedCustomer("Acme Corp", "orders@acme.com")
	require.NoError(t, err)
	customer.ClearDomainEvents()

	customerRepo.On("FindByEmail", mock.Anything, customer.Email).Return(customer, nil)
	customerRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

	w := postJSON(router, "/api/v1/auth/accept-invitation", map[string]string{
		"email":    customer.Email,
		"password": "chosen-password",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, customer.VerifyPassword("chosen-password"))
	customerRepo.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*partner.Customer"))
}

func TestAuthHandler_AcceptInvitation_AlreadyActivated(t *testing.T) {
	router, customerRepo, _ := setupAuthRouter(nil)
	customer := newActiveCustomer(t)

	customerRepo.On("FindByEmail", mock.Anything, customer.Email).Return(customer, nil)

	w := postJSON(router, "/api/v1/auth/accept-invitation", map[string]string{
		"email":    customer.Email,
		"password": "another-password",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_ACTIVATED")
}

func TestAuthHandler_Refresh(t *testing.T) {
	router, customerRepo, jwtService := setupAuthRouter(nil)
	customer := newActiveCustomer(t)

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Name:       customer.Name,
		Admin:      customer.Admin,
	})
	require.NoError(t, err)

	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

	w := postJSON(router, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.NotEmpty(t, resp.Data.RefreshToken)
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	router, _, _ := setupAuthRouter(nil)

	w := postJSON(router, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": "not-a-valid-token",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	customer := newActiveCustomer(t)
	router, customerRepo, _ := setupAuthRouter(asCustomer(customer.ID))

	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, customer.Email, resp.Data.Email)
	assert.Equal(t, customer.Name, resp.Data.Name)
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	router, _, _ := setupAuthRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
