package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/usersignup/internal/model"
	"github.com/lib/pq"
)

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, city, state, created_at FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, city, state, created_at FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
// users_email_key の一意制約違反はErrDuplicateEmailに変換する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, city, state, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		user.Name, user.Email, user.City, user.State, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// DeleteAll は全ユーザーを削除し、IDの採番をリセットする。
func (r *PostgresUserRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE TABLE users RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to truncate users: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) scanOne(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.City, &user.State, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// isUniqueViolation はエラーがPostgreSQLの一意制約違反かを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// compile-time interface check
var (
	_ UserRepository = (*PostgresUserRepo)(nil)
	_ UserClearer    = (*PostgresUserRepo)(nil)
)
