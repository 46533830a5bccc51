package repositories

import (
	"context"
	"database/sql"
	"time"

	"daygrid/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)

	// refresh helpers
	UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)

	UpdateTelegramLink(ctx context.Context, userID int64, chatID int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES ($1,$2,$3,NOW())
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, user.Name, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const q = `SELECT id, name, email, password_hash, telegram_chat_id,
		refresh_token, refresh_expires_at, created_at
		FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT id, name, email, password_hash, telegram_chat_id,
		refresh_token, refresh_expires_at, created_at
		FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const q = `SELECT id, name, email, password_hash, telegram_chat_id,
		refresh_token, refresh_expires_at, created_at
		FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token=$1, refresh_expires_at=$2 WHERE id=$3`,
		token, expiresAt, userID)
	return err
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	const q = `SELECT id, name, email, password_hash, telegram_chat_id,
		refresh_token, refresh_expires_at, created_at
		FROM users WHERE refresh_token = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, token))
}

func (r *userRepository) UpdateTelegramLink(ctx context.Context, userID int64, chatID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET telegram_chat_id=$1 WHERE id=$2`, chatID, userID)
	return err
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var chatID sql.NullInt64
	var refresh sql.NullString
	var refreshExp sql.NullTime
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&chatID, &refresh, &refreshExp, &user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if chatID.Valid {
		v := chatID.Int64
		user.TelegramChatID = &v
	}
	if refresh.Valid {
		v := refresh.String
		user.RefreshToken = &v
	}
	if refreshExp.Valid {
		v := refreshExp.Time
		user.RefreshExpiresAt = &v
	}
	return user, nil
}
