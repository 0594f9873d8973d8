package ports

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/99minutos/ims-console/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string
	Username string
	Email    string
}

// RegisterInput carries the sign-up form fields sent to the auth service.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ImageUpload is an optional profile picture attached to a profile update.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProfileUpdateInput carries the edit-profile form. Password fields are sent
// only when ChangePassword is set.
type ProfileUpdateInput struct {
	Username        string
	Email           string
	ChangePassword  bool
	CurrentPassword string
	NewPassword     string
	Image           *ImageUpload
}

// Profile is the identity returned by the auth service.
type Profile struct {
	Username     string
	Email        string
	ProfileImage string
}

// AuthGateway wraps the auth service endpoints.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) (string, error)
	UpdateProfile(ctx context.Context, token string, in ProfileUpdateInput) (*Profile, error)
	Me(ctx context.Context, token string) (*Profile, error)
}

// ProductGateway wraps /api/products.
type ProductGateway interface {
	List(ctx context.Context, token string) ([]domain.Product, error)
	Create(ctx context.Context, token string, in domain.ProductInput) error
	Update(ctx context.Context, token string, id int64, in domain.ProductInput) error
	Delete(ctx context.Context, token string, id int64) error
}

// OrderGateway wraps /api/orders. List returns enriched records.
type OrderGateway interface {
	List(ctx context.Context, token string) ([]domain.Order, error)
	Create(ctx context.Context, token string, in domain.OrderInput) error
	UpdateStatus(ctx context.Context, token string, id int64, status domain.OrderStatus) error
	Delete(ctx context.Context, token string, id int64) error
	PriceOf(ctx context.Context, token string, id int64) (decimal.Decimal, error)
	TotalOf(ctx context.Context, token string, id int64) (decimal.Decimal, error)
}

// SupplierGateway wraps /api/suppliers.
type SupplierGateway interface {
	List(ctx context.Context, token string) ([]domain.Supplier, error)
	Create(ctx context.Context, token string, in domain.SupplierInput) error
	Update(ctx context.Context, token string, id int64, in domain.SupplierInput) error
	Delete(ctx context.Context, token string, id int64) error
}

// ReportGateway wraps /api/reports.
type ReportGateway interface {
	Generate(ctx context.Context, token string, q domain.ReportQuery) (*domain.Report, error)
}
