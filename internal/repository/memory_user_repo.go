package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/usersignup/internal/model"
)

// MemoryUserRepo はインメモリのユーザーリポジトリ。
// ローカル開発とハンドラーの結合テストで使用する。
// メールアドレスの一意性はミューテックス下で保証する。
type MemoryUserRepo struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*model.User
	byEmail map[string]int64
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		nextID:  1,
		byID:    make(map[int64]*model.User),
		byEmail: make(map[string]int64),
	}
}

// FindByID は指定IDのユーザーのコピーを返す。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *r.byID[id]
	return &cp, nil
}

// Create はユーザーを保存し、採番したIDをuser.IDに設定する。
func (r *MemoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}

	user.ID = r.nextID
	r.nextID++

	cp := *user
	r.byID[cp.ID] = &cp
	r.byEmail[cp.Email] = cp.ID
	return nil
}

// DeleteAll は全ユーザーを削除し、IDの採番をリセットする。
func (r *MemoryUserRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID = 1
	r.byID = make(map[int64]*model.User)
	r.byEmail = make(map[string]int64)
	return nil
}

// Count は保存済みユーザー数を返す。テスト用。
func (r *MemoryUserRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// compile-time interface check
var (
	_ UserRepository = (*MemoryUserRepo)(nil)
	_ UserClearer    = (*MemoryUserRepo)(nil)
)
