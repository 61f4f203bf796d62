// Package geocode は逆ジオコーディングプロバイダ（OpenCage Geocoding API）のクライアントを提供する。
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/usersignup/internal/model"
)

// DefaultEndpoint はOpenCage Geocoding APIのエンドポイント。
const DefaultEndpoint = "https://api.opencagedata.com/geocode/v1/json"

// maxErrorBodySize はエラーレスポンスからログに残すボディの上限。
const maxErrorBodySize = 512

// ErrUpstream はプロバイダ呼び出しの失敗を表す。
// 通信エラー、認証エラー、レスポンスのパース失敗はすべてこのエラーをラップして返す。
var ErrUpstream = errors.New("geocode: upstream failure")

// Client はOpenCage Geocoding APIのクライアント。
// リトライは行わず、失敗は呼び出し元で終端として扱う。
type Client struct {
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
}

// NewClient はClientの新しいインスタンスを生成する。
// endpointが空の場合はDefaultEndpointを使用する。
func NewClient(apiKey, endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
	}
}

// ReverseGeocode は座標を地点候補の列に変換する。
// 候補はプロバイダの返却順（最も確からしいものが先頭）で返す。
// 該当地点がない場合は空スライスを返す。
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) ([]model.LocationCandidate, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint: %v", ErrUpstream, err)
	}

	q := reqURL.Query()
	q.Set("q", formatCoord(lat)+","+formatCoord(lon))
	q.Set("key", c.apiKey)
	q.Set("no_annotations", "1")
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "usersignup/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("geocoder request failed",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: reverse geocode request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		c.logger.Error("geocoder returned error status",
			slog.Int("http_status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error("failed to decode geocoder response",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	// OpenCageはボディ内にもステータスを持つ
	if body.Status.Code != 0 && body.Status.Code != http.StatusOK {
		c.logger.Error("geocoder reported error status",
			slog.Int("status_code", body.Status.Code),
			slog.String("status_message", body.Status.Message),
		)
		return nil, fmt.Errorf("%w: provider status %d: %s", ErrUpstream, body.Status.Code, body.Status.Message)
	}

	candidates := make([]model.LocationCandidate, 0, len(body.Results))
	for _, r := range body.Results {
		candidates = append(candidates, r.toCandidate())
	}
	return candidates, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OpenCage API response types.

type response struct {
	Results []result `json:"results"`
	Status  status   `json:"status"`
}

type status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type result struct {
	Formatted  string     `json:"formatted"`
	Components components `json:"components"`
}

type components struct {
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	State        string `json:"state"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Hamlet       string `json:"hamlet"`
	Municipality string `json:"municipality"`
}

func (r result) toCandidate() model.LocationCandidate {
	c := r.Components
	return model.LocationCandidate{
		Country:     c.Country,
		CountryCode: strings.ToUpper(c.CountryCode),
		City:        firstNonEmpty(c.City, c.Town, c.Village, c.Hamlet, c.Municipality),
		State:       c.State,
		Formatted:   r.Formatted,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
