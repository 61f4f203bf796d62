package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxSanitizePasses は実体参照のネストを展開する最大回数。
// これを超えても安定しない入力は空文字として扱う。
const maxSanitizePasses = 8

// NameSanitizer はユーザー名からHTMLタグを取り除く。
// bluemondayのポリシーはゴルーチンセーフなので1インスタンスを共有してよい。
type NameSanitizer struct {
	policy *bluemonday.Policy
}

// NewNameSanitizer は全タグを拒否するStrictPolicyでNameSanitizerを生成する。
func NewNameSanitizer() *NameSanitizer {
	return &NameSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はタグを除去し、前後の空白を取り除いた名前を返す。
// StrictPolicyがエスケープした実体参照は元の文字に戻す（"O'Brien" などを保持するため）。
// 戻した結果にタグが現れる場合（"&lt;b&gt;" など）は、出力が変化しなくなるまで除去を繰り返す。
func (s *NameSanitizer) Sanitize(name string) string {
	current := name
	for range maxSanitizePasses {
		next := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(current)))
		if next == current {
			return next
		}
		current = next
	}
	return ""
}
