package partner

import (
	"context"
	"strings"

	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer account operations: invitation,
// activation, authentication and administration.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	jwtService   *auth.JWTService
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, jwtService *auth.JWTService, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// Invite creates an inactive customer account. The invitation email goes out
// through the outbox after the account is committed.
func (s *CustomerService) Invite(ctx context.Context, req InviteCustomerRequest) (*CustomerResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.customerRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	customer, err := partner.NewInvitedCustomer(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer invited",
		zap.String("customer_id", customer.ID.String()),
		zap.String("email", customer.Email))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// AcceptInvitation sets the password on an invited account and activates it
func (s *CustomerService) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (*CustomerResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	customer, err := s.customerRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if customer.PasswordHash != "" {
		return nil, shared.NewDomainError("ALREADY_ACTIVATED", "Account has already been activated")
	}

	if err := customer.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer activated account", zap.String("customer_id", customer.ID.String()))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// CreateAdmin creates an active admin account
func (s *CustomerService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*CustomerResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.customerRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	admin, err := partner.NewAdmin(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin account created", zap.String("customer_id", admin.ID.String()))

	response := ToCustomerResponse(admin)
	return &response, nil
}

// Login authenticates an account and returns a token pair. Unknown emails
// and wrong passwords produce the same error.
func (s *CustomerService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	customer, err := s.customerRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("Login attempt for unknown email", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !customer.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("customer_id", customer.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !customer.Active {
		s.logger.Warn("Login attempt for inactive account", zap.String("customer_id", customer.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Name:       customer.Name,
		Admin:      customer.Admin,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("Customer logged in", zap.String("customer_id", customer.ID.String()))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Customer:              ToCustomerResponse(customer),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The account
// is re-loaded so deactivation takes effect immediately.
func (s *CustomerService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	customerID, err := claims.GetCustomerUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid customer ID in token")
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Account no longer exists")
	}
	if !customer.Active {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, auth.GenerateTokenInput{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Name:       customer.Name,
		Admin:      customer.Admin,
	})
	if err != nil {
		return nil, mapTokenError(err)
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Customer:              ToCustomerResponse(customer),
	}, nil
}

// GetByID retrieves a customer account by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customer accounts with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer's name or active flag
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		customer.SetActive(*req.Active)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
