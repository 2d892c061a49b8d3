package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Password cost for bcrypt
const bcryptCost = 12

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// Customer represents an account on the ordering portal. Admin accounts manage
// the catalog and all orders; customer accounts browse their own price list and
// place orders. It is the aggregate root for account-related operations.
type Customer struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(200);not null"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(200)"`
	Admin        bool   `gorm:"not null;default:false"`
	Active       bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewInvitedCustomer creates a customer account in the invited state: no
// password, inactive until the customer sets one.
func NewInvitedCustomer(name, email string) (*Customer, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Admin:             false,
		Active:            false,
	}

	customer.AddDomainEvent(NewCustomerInvitedEvent(customer))

	return customer, nil
}

// NewAdmin creates an active admin account
func NewAdmin(name, email, password string) (*Customer, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	admin := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Admin:             true,
		Active:            false,
	}
	if err := admin.SetPassword(password); err != nil {
		return nil, err
	}
	return admin, nil
}

// SetPassword hashes and stores the password and activates the account.
// Invited customers become able to sign in after this succeeds.
func (c *Customer) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_FAILED", "Failed to hash password")
	}
	c.PasswordHash = string(hash)
	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (c *Customer) VerifyPassword(password string) bool {
	if c.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// Update updates the customer's display name
func (c *Customer) Update(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetActive toggles whether the account can sign in and place orders
func (c *Customer) SetActive(active bool) {
	c.Active = active
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CanOrder returns true if this account may place orders
func (c *Customer) CanOrder() bool {
	return c.Active && !c.Admin
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return email, nil
}
