package seller

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"com.martdev.sellerhub/internal/util"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Seller is the canonical identity record. The password hash never
// leaves the server: it is excluded from JSON and only loaded when a
// query explicitly opts in.
type Seller struct {
	ID             string    `json:"id"`
	Fname          string    `json:"fname"`
	Lname          string    `json:"lname"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Password       string    `json:"-"`
	IsVerified     bool      `json:"isVerified"`
	IsSocial       bool      `json:"isSocial"`
	AvatarPublicID string    `json:"avatarPublicId,omitempty"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (s *Seller) FullName() string {
	return s.Fname + " " + s.Lname
}

type SellerStore struct {
	DB *sql.DB
}

// uniqueViolation is the Postgres error code raised when an insert
// collides with the unique email index.
const uniqueViolation = "23505"

func (s *SellerStore) CreateSeller(ctx context.Context, seller *Seller) error {
	query := `
		INSERT INTO sellers (id, fname, lname, email, role, password, is_verified, is_social, avatar_public_id, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	if seller.ID == "" {
		seller.ID = uuid.New().String()
	}
	if seller.Role == "" {
		seller.Role = RoleSeller
	}
	seller.Email = strings.ToLower(seller.Email)

	ctx, cancel := context.WithTimeout(ctx, util.QueryTimeoutDuration)
	defer cancel()

	err := s.DB.QueryRowContext(ctx, query,
		seller.ID,
		seller.Fname,
		seller.Lname,
		seller.Email,
		seller.Role,
		seller.Password,
		seller.IsVerified,
		seller.IsSocial,
		seller.AvatarPublicID,
		seller.AvatarURL,
	).Scan(&seller.CreatedAt, &seller.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return util.ErrorDuplicateEmail
		}
		return err
	}

	return nil
}

// GetSellerByEmail omits the password hash; signin must use
// GetSellerByEmailWithPassword instead.
func (s *SellerStore) GetSellerByEmail(ctx context.Context, email string) (*Seller, error) {
	query := `
		SELECT id, fname, lname, email, role, is_verified, is_social, avatar_public_id, avatar_url, created_at, updated_at
		FROM sellers WHERE email = $1
	`

	return s.querySeller(ctx, query, false, strings.ToLower(email))
}

func (s *SellerStore) GetSellerByEmailWithPassword(ctx context.Context, email string) (*Seller, error) {
	query := `
		SELECT id, fname, lname, email, role, password, is_verified, is_social, avatar_public_id, avatar_url, created_at, updated_at
		FROM sellers WHERE email = $1
	`

	return s.querySeller(ctx, query, true, strings.ToLower(email))
}

func (s *SellerStore) GetSellerByID(ctx context.Context, sellerID string) (*Seller, error) {
	query := `
		SELECT id, fname, lname, email, role, is_verified, is_social, avatar_public_id, avatar_url, created_at, updated_at
		FROM sellers WHERE id = $1
	`

	return s.querySeller(ctx, query, false, sellerID)
}

func (s *SellerStore) querySeller(ctx context.Context, query string, withPassword bool, arg any) (*Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, util.QueryTimeoutDuration)
	defer cancel()

	var seller Seller
	dest := []any{
		&seller.ID,
		&seller.Fname,
		&seller.Lname,
		&seller.Email,
		&seller.Role,
	}
	if withPassword {
		dest = append(dest, &seller.Password)
	}
	dest = append(dest,
		&seller.IsVerified,
		&seller.IsSocial,
		&seller.AvatarPublicID,
		&seller.AvatarURL,
		&seller.CreatedAt,
		&seller.UpdatedAt,
	)

	if err := s.DB.QueryRowContext(ctx, query, arg).Scan(dest...); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, util.ErrorNotFound
		default:
			return nil, err
		}
	}

	return &seller, nil
}
