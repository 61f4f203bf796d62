// Package user はユーザー登録と参照のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/hitoshi/usersignup/internal/metrics"
	"github.com/hitoshi/usersignup/internal/model"
	"github.com/hitoshi/usersignup/internal/repository"
)

// OutcomeCreated はサインアップ成功時のメトリクスラベル。
const OutcomeCreated = "created"

// Geocoder は座標を地点候補に変換する逆ジオコーディングのインターフェース。
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) ([]model.LocationCandidate, error)
}

// RegionVerifier は地点候補がサービス提供地域内かを判定する。
type RegionVerifier interface {
	Verify(candidates []model.LocationCandidate) error
}

// Service はサインアップと参照のサービス層。
type Service struct {
	repo     repository.UserRepository
	geocoder Geocoder
	region   RegionVerifier
	clock    clockwork.Clock
	metrics  metrics.MetricsCollector
	logger   *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
// clock、collector、loggerがnilの場合は実時間、記録なし、slog.Default()を使う。
func NewService(
	repo repository.UserRepository,
	geocoder Geocoder,
	region RegionVerifier,
	clock clockwork.Clock,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if collector == nil {
		collector = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		geocoder: geocoder,
		region:   region,
		clock:    clock,
		metrics:  collector,
		logger:   logger,
	}
}

// Signup は座標を検証してユーザーを登録する。
// 処理順: 逆ジオコーディング → 地域判定 → メールアドレス重複チェック → 作成。
// いずれかの段階で失敗した場合は以降の処理を行わず、ストレージへの書き込みも発生しない。
// 入力の形式検証はHTTP境界で完了している前提。
//
// 重複チェックは読み取り後に書き込むため、同時リクエストでは両方がチェックを通過しうる。
// その場合はストレージの一意制約違反（repository.ErrDuplicateEmail）を同じエラーに変換する。
func (s *Service) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	start := s.clock.Now()
	candidates, err := s.geocoder.ReverseGeocode(ctx, req.Latitude, req.Longitude)
	s.metrics.RecordGeocodeLatency(s.clock.Since(start))
	if err != nil {
		s.metrics.RecordGeocodeFailure()
		s.logger.Error("逆ジオコーディングに失敗しました",
			slog.Float64("latitude", req.Latitude),
			slog.Float64("longitude", req.Longitude),
			slog.String("error", err.Error()),
		)
		return nil, s.reject(model.NewUpstreamError())
	}

	if err := s.region.Verify(candidates); err != nil {
		return nil, s.reject(err)
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.reject(fmt.Errorf("メールアドレスの検索に失敗しました: %w", err))
	}
	if existing != nil {
		return nil, s.reject(model.NewDuplicateEmailError())
	}

	location := candidates[0]
	user := &model.User{
		Name:      req.Name,
		Email:     req.Email,
		City:      location.City,
		State:     location.State,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, s.reject(model.NewDuplicateEmailError())
		}
		return nil, s.reject(fmt.Errorf("ユーザーの作成に失敗しました: %w", err))
	}

	s.metrics.RecordSignup(OutcomeCreated)
	s.logger.Info("ユーザーを登録しました",
		slog.Int64("user_id", user.ID),
		slog.String("country", location.Country),
	)

	return user, nil
}

// FindUser は指定IDのユーザーを返す。存在しない場合はUSER_NOT_FOUNDを返す。
func (s *Service) FindUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(id)
	}
	return user, nil
}

// reject は失敗理由をメトリクスに記録してエラーをそのまま返す。
func (s *Service) reject(err error) error {
	outcome := model.ErrCodeInternal
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		outcome = apiErr.Code
	}
	s.metrics.RecordSignup(outcome)
	return err
}
