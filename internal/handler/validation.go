package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"

	"github.com/hitoshi/usersignup/internal/model"
)

const (
	maxNameLength  = 255
	maxEmailLength = 320
	// maxRequestBodySize はサインアップリクエストボディの上限（バイト）。
	maxRequestBodySize = 16 << 10
)

// NameSanitizer はユーザー名からマークアップを除去する。
type NameSanitizer interface {
	Sanitize(name string) string
}

// signupRequest はサインアップリクエストのボディ。
// 座標はゼロ値（0, 0）と未指定を区別するためポインタで受け取る。
type signupRequest struct {
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Latitude  *coordinate `json:"latitude"`
	Longitude *coordinate `json:"longitude"`
}

// coordinate はJSONの数値または数値文字列（"37.77493"）で表された座標。
// 解釈できない値はデコードエラーにせず、validateで範囲外と同じメッセージを返す。
type coordinate struct {
	value float64
	ok    bool
}

func (c *coordinate) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	// JSONの数値リテラルとして妥当なものだけを受け付ける（"0x10", "NaN", "1_0" などは不可）
	if !isJSONNumber(raw) {
		*c = coordinate{}
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		*c = coordinate{}
		return nil
	}
	*c = coordinate{value: v, ok: true}
	return nil
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	return json.Valid([]byte(s))
}

// within は座標が解釈でき、かつ[-limit, limit]の範囲内かを返す。
func (c coordinate) within(limit float64) bool {
	return c.ok && c.value >= -limit && c.value <= limit
}

// decodeSignupRequest はボディをJSONとして読み込む。
// 未知のフィールド（city, stateを含む）と末尾の余分なデータは拒否する。
func decodeSignupRequest(body io.Reader) (*signupRequest, error) {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req signupRequest
	if err := dec.Decode(&req); err != nil {
		return nil, model.NewValidationError(describeDecodeError(err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, model.NewValidationError("request body must contain a single JSON object")
	}
	return &req, nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("%s must be a %s", typeErr.Field, describeJSONType(typeErr.Type.Kind()))
		}
		return "request body must be a JSON object"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "request body is not valid JSON"
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "property " + strings.TrimPrefix(err.Error(), "json: unknown field ") + " should not exist"
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("request body must not exceed %d bytes", maxBytesErr.Limit)
	default:
		return "request body is invalid"
	}
}

// describeJSONType はGoの型の種類をJSONの型名で表す。
func describeJSONType(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// validate は入力の形式を検証し、サービス層に渡すSignupRequestを返す。
// 名前はサニタイズ後に検証する。メールアドレスは前後の空白のみ除去する。
func (r *signupRequest) validate(sanitizer NameSanitizer) (model.SignupRequest, error) {
	var problems []string

	name := sanitizer.Sanitize(r.Name)
	switch {
	case name == "":
		problems = append(problems, "name should not be empty")
	case utf8.RuneCountInString(name) > maxNameLength:
		problems = append(problems, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}

	email := strings.TrimSpace(r.Email)
	if msg := validateEmail(email); msg != "" {
		problems = append(problems, msg)
	}

	switch {
	case r.Latitude == nil:
		problems = append(problems, "latitude is required")
	case !r.Latitude.within(90):
		problems = append(problems, "latitude must be a latitude string or number")
	}
	switch {
	case r.Longitude == nil:
		problems = append(problems, "longitude is required")
	case !r.Longitude.within(180):
		problems = append(problems, "longitude must be a longitude string or number")
	}

	if len(problems) > 0 {
		return model.SignupRequest{}, model.NewValidationError(strings.Join(problems, "; "))
	}

	return model.SignupRequest{
		Name:      name,
		Email:     email,
		Latitude:  r.Latitude.value,
		Longitude: r.Longitude.value,
	}, nil
}

// validateEmail はメールアドレスの構文を検証し、問題があればメッセージを返す。
// 表示名付きの形式は受け付けず、ドメインはIDNAとして有効でTLDを含む必要がある。
func validateEmail(email string) string {
	const invalid = "email must be an email"

	if email == "" {
		return "email should not be empty"
	}
	if len(email) > maxEmailLength {
		return fmt.Sprintf("email must be at most %d characters", maxEmailLength)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return invalid
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return invalid
	}
	domain := email[at+1:]

	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return invalid
	}
	labels := strings.Split(ascii, ".")
	if len(labels) < 2 || len(labels[len(labels)-1]) < 2 {
		return invalid
	}
	return ""
}
