// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, location, user, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeInvalidLocation   = "INVALID_LOCATION"
	ErrCodeUnsupportedRegion = "UNSUPPORTED_REGION"
	ErrCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "Check the request body and try again.",
	}
}

// NewUpstreamError はジオコーディングプロバイダ呼び出し失敗エラーを生成する。
func NewUpstreamError() *APIError {
	return &APIError{
		Code:     ErrCodeUpstream,
		Message:  "Failed To Parse Location Data",
		Category: "system",
		Action:   "Please wait and try again later.",
	}
}

// NewInvalidLocationError は座標がどの地点にも解決されなかった場合のエラーを生成する。
func NewInvalidLocationError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLocation,
		Message:  "Invalid Location",
		Category: "location",
		Action:   "Check the latitude and longitude.",
	}
}

// NewUnsupportedRegionError はサービス提供地域外の場合のエラーを生成する。
func NewUnsupportedRegionError() *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedRegion,
		Message:  "This service is not currently available in your region",
		Category: "location",
		Action:   "Signups are only accepted from supported countries.",
	}
}

// NewDuplicateEmailError はメールアドレスが登録済みの場合のエラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "A user with this email already exists",
		Category: "user",
		Action:   "Use a different email address.",
	}
}

// NewUserNotFoundError は指定IDのユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("A user with the id %d wasn't found", id),
		Category: "user",
		Action:   "Check the user id.",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Please wait and retry after the time given in Retry-After.",
	}
}

// NewInternalError は内部エラーを生成する。詳細はクライアントに返さない。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "An internal error occurred.",
		Category: "system",
		Action:   "Please wait and try again later.",
	}
}
