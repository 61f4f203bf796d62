package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/usersignup/internal/config"
	"github.com/hitoshi/usersignup/internal/repository"
)

// ErrNotTestEnvironment はテストモード以外で全件削除を要求した場合のエラー。
var ErrNotTestEnvironment = errors.New("user: clearing users is only allowed in the test environment")

// Maintenance はテストハーネス専用のメンテナンス操作。
// ルーターやappからは生成しない。
type Maintenance struct {
	repo   repository.UserClearer
	logger *slog.Logger
}

// NewMaintenance は実行モードがテストの場合のみMaintenanceを生成する。
// loggerがnilの場合はslog.Default()を使う。
func NewMaintenance(repo repository.UserClearer, env config.Environment, logger *slog.Logger) (*Maintenance, error) {
	if env != config.EnvTest {
		return nil, fmt.Errorf("%w (APP_ENV=%s)", ErrNotTestEnvironment, env)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Maintenance{repo: repo, logger: logger}, nil
}

// ClearAll は全ユーザーを削除する。
func (m *Maintenance) ClearAll(ctx context.Context) error {
	if err := m.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("ユーザーの全件削除に失敗しました: %w", err)
	}
	m.logger.Warn("全ユーザーを削除しました")
	return nil
}
