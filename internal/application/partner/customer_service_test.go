package partner

import (
	"context"
	"testing"
	"time"

	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/infrastructure/auth"
	"github.com/b2bportal/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Customer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAdmins(ctx context.Context) ([]partner.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newTestService(repo *MockCustomerRepository) *CustomerService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "b2bportal-test",
		MaxRefreshCount:        3,
	})
	return NewCustomerService(repo, jwtService, zap.NewNop())
}

func TestCustomerService_Invite(t *testing.T) {
	t.Run("invites with normalized email", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := newTestService(repo)

		repo.On("ExistsByEmail", mock.Anything, "orders@acme.com").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := service.Invite(context.Background(), InviteCustomerRequest{
			Name:  "Acme Corp",
			Email: "Orders@Acme.COM",
		})
		require.NoError(t, err)
		assert.Equal(t, "orders@acme.com", resp.Email)
		assert.False(t, resp.Active)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := newTestService(repo)

		repo.On("ExistsByEmail", mock.Anything, "orders@acme.com").Return(true, nil)

		_, err := service.Invite(context.Background(), InviteCustomerRequest{
			Name:  "Acme Corp",
			Email: "orders@acme.com",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestCustomerService_AcceptInvitation(t *testing.T) {
	t.Run("activates invited account", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := newTestService(repo)

		customer, _ := partner.NewInvitedCustomer("Acme", "orders@acme.com")
		repo.On("FindByEmail", mock.Anything, "orders@acme.com").Return(customer, nil)
		repo.On("Save", mock.Anything, customer).Return(nil)

		resp, err := service.AcceptInvitation(context.Background(), AcceptInvitationRequest{
			Email:    "orders@acme.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.True(t, resp.Active)
		assert.True(t, customer.VerifyPassword("s3cret-pass"))
	})

	t.Run("already activated account rejected", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := newTestService(repo)

		customer, _ := partner.NewInvitedCustomer("Acme", "orders@acme.com")
		require.NoError(t, customer.SetPassword("original-pass"))
		repo.On("FindByEmail", mock.Anything, "orders@acme.com").Return(customer, nil)

		_, err := service.AcceptInvitation(context.Background(), AcceptInvitationRequest{
			Email:    "orders@acme.com",
			Password: "hijack-pass",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_ACTIVATED", domainErr.Code)
		assert.True(t, customer.VerifyPassword("original-pass"))
	})
}

func TestCustomerService_Login(t *testing.T) {
	activeCustomer := func(t *testing.T) *partner.Customer {
		c, err := partner.NewInvitedCustomer("Acme", "orders@acme.com")
		require.NoError(t, err)
		require.NoError(t, c.SetPassword("s3cret-pass"))
		return c
	}

	t.Run("successful login returns token pair", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := newTestService(repo)

		customer := activeCustomer(t)
		repo.On("FindByEmail", mock.Anything, "orders@acme.com").Return(customer, nil)

		result, err := service.Login(context.Background(), LoginRequest{
			Email:    "orders@acme.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, customer.ID, result.Customer.ID)
	})

	t.Run("wrong password and unknown email yield the same error", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := newTestService(repo)

		customer := activeCustomer(t)
		repo.On("FindByEmail", mock.Anything, "orders@acme.com").Return(customer, nil)
		repo.On("FindByEmail", mock.Anything, "nobody@acme.com").Return(nil, shared.ErrNotFound)

		_, err1 := service.Login(context.Background(), LoginRequest{Email: "orders@acme.com", Password: "wrong"})
		_, err2 := service.Login(context.Background(), LoginRequest{Email: "nobody@acme.com", Password: "whatever"})

		require.Error(t, err1)
		require.Error(t, err2)
		assert.Equal(t, err1.Error(), err2.Error())
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := newTestService(repo)

		customer := activeCustomer(t)
		customer.SetActive(false)
		repo.On("FindByEmail", mock.Anything, "orders@acme.com").Return(customer, nil)

		_, err := service.Login(context.Background(), LoginRequest{Email: "orders@acme.com", Password: "s3cret-pass"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})
}

func TestCustomerService_RefreshToken(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newTestService(repo)

	customer, _ := partner.NewInvitedCustomer("Acme", "orders@acme.com")
	require.NoError(t, customer.SetPassword("s3cret-pass"))
	repo.On("FindByEmail", mock.Anything, "orders@acme.com").Return(customer, nil)
	repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

	login, err := service.Login(context.Background(), LoginRequest{Email: "orders@acme.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	t.Run("deactivated account cannot refresh", func(t *testing.T) {
		customer.SetActive(false)
		_, err := service.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: refreshed.RefreshToken})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})
}
