// Package region はサインアップを受け付ける地域の判定を提供する。
package region

import "github.com/hitoshi/usersignup/internal/model"

// Policy は許可国リストに基づく地域判定を行う。
// 国名は大文字小文字を区別して完全一致で比較する。
type Policy struct {
	allowed map[string]struct{}
}

// NewPolicy は許可国リストからPolicyを生成する。
func NewPolicy(allowedCountries []string) *Policy {
	allowed := make(map[string]struct{}, len(allowedCountries))
	for _, c := range allowedCountries {
		allowed[c] = struct{}{}
	}
	return &Policy{allowed: allowed}
}

// Verify はジオコーディング結果を検証する。
// 候補が空の場合はINVALID_LOCATION、先頭候補の国が許可されていない場合は
// UNSUPPORTED_REGIONのAPIErrorを返す。成功時、呼び出し元はcandidates[0]を使用する。
func (p *Policy) Verify(candidates []model.LocationCandidate) error {
	if len(candidates) == 0 {
		return model.NewInvalidLocationError()
	}
	if !p.Allows(candidates[0].Country) {
		return model.NewUnsupportedRegionError()
	}
	return nil
}

// Allows は国名が許可リストに含まれるかを返す。
func (p *Policy) Allows(country string) bool {
	_, ok := p.allowed[country]
	return ok
}
