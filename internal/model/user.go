package model

import "time"

// User はサインアップ済みのユーザーを表す。
// City と State はジオコーディング結果から導出され、クライアントから受け取ることはない。
type User struct {
	ID        int64
	Name      string
	Email     string
	City      string
	State     string
	CreatedAt time.Time
}

// LocationCandidate は逆ジオコーディングで得られた地点の候補を表す。
// 永続化はされない。
type LocationCandidate struct {
	Country     string
	CountryCode string
	City        string
	State       string
	Formatted   string
}

// SignupRequest はサインアップ入力を表す。
// スキーマ検証はHTTP境界で完了している前提で扱う。
type SignupRequest struct {
	Name      string
	Email     string
	Latitude  float64
	Longitude float64
}
