package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/usersignup/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
// 事前の重複チェックをすり抜けた同時登録はこのエラーで検出される。
var ErrDuplicateEmail = errors.New("repository: duplicate email")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
}

// UserClearer は全ユーザーを削除するメンテナンス用インターフェース。
// テストハーネスからのみ利用し、HTTPハンドラーには公開しない。
type UserClearer interface {
	DeleteAll(ctx context.Context) error
}
