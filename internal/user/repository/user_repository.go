package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"social_network_service/internal/user/domain"
)

// UserRepository definition get user info
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindByUser(ctx context.Context, userQuery *domain.UserQuery) (*domain.User, error)
	UpdateOtp(ctx context.Context, userID, otp string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID, name, picture string) error
	UpdateLastLogin(ctx context.Context, userID string) error
	Deactivate(ctx context.Context, userID string) error
	SoftDelete(ctx context.Context, userID string) error
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, user_id, name, email, mobile, password, role, picture, is_verified, is_active, is_deleted, otp, otp_expires_at, last_login, created_at"

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users(user_id, name, email, mobile, password, role, otp, otp_expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.UserID, user.Name, user.Email, user.Mobile, user.Password, user.Role, user.Otp, user.OtpExpiresAt)
	return err
}

func (r *userRepository) FindByUser(ctx context.Context, userQuery *domain.UserQuery) (*domain.User, error) {
	queryStr := "SELECT " + userColumns + " FROM users WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if userQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *userQuery.Email)
		paramCount++
	}
	if userQuery.UserID != nil {
		queryStr += fmt.Sprintf(" AND user_id = $%d", paramCount)
		params = append(params, *userQuery.UserID)
		paramCount++
	}
	if userQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *userQuery.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var user domain.User
	err := row.Scan(&user.ID, &user.UserID, &user.Name, &user.Email, &user.Mobile,
		&user.Password, &user.Role, &user.Picture, &user.IsVerified, &user.IsActive,
		&user.IsDeleted, &user.Otp, &user.OtpExpiresAt, &user.LastLogin, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("no user found with given criteria")
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) UpdateOtp(ctx context.Context, userID, otp string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET otp = $1, otp_expires_at = $2 WHERE user_id = $3",
		otp, expiresAt, userID)
	return err
}

func (r *userRepository) MarkVerified(ctx context.Context, userID string) error {
	// 驗證成功同時啟用帳號並清除 OTP，到期時間直接設成現在讓舊碼失效
	_, err := r.db.Exec(ctx,
		"UPDATE users SET is_verified = true, is_active = true, otp = '', otp_expires_at = now() WHERE user_id = $1",
		userID)
	return err
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID, name, picture string) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET name = $1, picture = $2 WHERE user_id = $3",
		name, picture, userID)
	return err
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_login = now() WHERE user_id = $1", userID)
	return err
}

func (r *userRepository) Deactivate(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET is_active = false WHERE user_id = $1", userID)
	return err
}

func (r *userRepository) SoftDelete(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET is_deleted = true, is_active = false WHERE user_id = $1", userID)
	return err
}
