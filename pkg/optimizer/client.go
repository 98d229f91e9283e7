// Package optimizer 远程排课优化服务客户端
//
// 每次调用只发送一个 POST /optimize 请求，不做重试。
package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"study-strata/config"
)

var (
	// ErrUnavailable 网络错误、超时或非 2xx 响应
	ErrUnavailable = errors.New("排课优化服务不可用")
	// ErrRejected 服务返回 success=false
	ErrRejected = errors.New("排课优化服务拒绝了请求")
)

// ── 请求 ──

// APScore AP 成绩
type APScore struct {
	ExamName string `json:"examName"`
	Score    int    `json:"score"`
}

// StudentProfile 学生档案
type StudentProfile struct {
	Year             string    `json:"year"`
	Major            string    `json:"major"`
	CompletedCourses []string  `json:"completedCourses"`
	APScores         []APScore `json:"apScores"`
	CurrentGPA       *float64  `json:"currentGPA,omitempty"`
}

// Course 可选课程
type Course struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Credits    int      `json:"credits"`
	Type       string   `json:"type"`
	Difficulty string   `json:"difficulty"`
	Days       []string `json:"days,omitempty"`
	StartTime  string   `json:"startTime,omitempty"`
	EndTime    string   `json:"endTime,omitempty"`
}

// TimeSlot 偏好或回避的时间段
type TimeSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// QuarterRef 学季 + 学年
type QuarterRef struct {
	Season string `json:"season"`
	Year   int    `json:"year"`
}

// Constraints 排课约束
type Constraints struct {
	MaxCreditsPerQuarter int         `json:"maxCreditsPerQuarter"`
	MinCreditsPerQuarter int         `json:"minCreditsPerQuarter"`
	PreferredTimeSlots   []TimeSlot  `json:"preferredTimeSlots"`
	AvoidTimeSlots       []TimeSlot  `json:"avoidTimeSlots"`
	MaxWorkloadPerWeek   int         `json:"maxWorkloadPerWeek"`
	GPAGoal              float64     `json:"gpaGoal"`
	GraduationDeadline   *QuarterRef `json:"graduationDeadline,omitempty"`
}

// Goals 优化目标
type Goals struct {
	PrioritizeGPA         bool `json:"prioritizeGPA"`
	PrioritizeWorkload    bool `json:"prioritizeWorkload"`
	PrioritizeGraduation  bool `json:"prioritizeGraduation"`
	PrioritizePreferences bool `json:"prioritizePreferences"`
}

// Request 优化请求
type Request struct {
	StudentProfile    StudentProfile `json:"studentProfile"`
	AvailableCourses  []Course       `json:"availableCourses"`
	Constraints       Constraints    `json:"constraints"`
	TargetQuarters    int            `json:"targetQuarters"`
	OptimizationGoals Goals          `json:"optimizationGoals"`
}

// ── 响应 ──

// Conflict 排课冲突；Severity 为 ERROR 或 WARNING
type Conflict struct {
	Severity    string   `json:"severity"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Metadata 排课结果摘要
type Metadata struct {
	TotalCredits      int        `json:"totalCredits"`
	ProjectedGPA      float64    `json:"projectedGPA"`
	GraduationQuarter QuarterRef `json:"graduationQuarter"`
}

// Result 优化结果
type Result struct {
	Score     float64    `json:"score"`
	Metadata  Metadata   `json:"metadata"`
	Conflicts []Conflict `json:"conflicts"`
	Warnings  []string   `json:"warnings"`
}

// Response 服务响应
type Response struct {
	Success bool    `json:"success"`
	Data    *Result `json:"data,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// ── 客户端 ──

// Client 优化服务 HTTP 客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建客户端
func NewClient(cfg *config.OptimizerConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Optimize 发送一次优化请求
//
// 网络错误、超时与非 2xx 响应包装为 ErrUnavailable；
// success=false 包装为 ErrRejected，错误信息中带上服务端 error 字段。
func (c *Client) Optimize(ctx context.Context, req *Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("序列化优化请求失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/optimize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建优化请求失败: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: 读取响应失败: %v", ErrUnavailable, err)
	}

	c.logger.Debug("排课优化请求完成",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrUnavailable, resp.StatusCode, excerpt(raw))
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: 响应格式无效: %v", ErrUnavailable, err)
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "未知错误"
		}
		return nil, fmt.Errorf("%w: %s", ErrRejected, msg)
	}
	if out.Data == nil {
		return nil, fmt.Errorf("%w: 响应缺少 data", ErrUnavailable)
	}
	return out.Data, nil
}

// excerpt 截取响应体前 200 个字符，按 rune 截断
func excerpt(b []byte) string {
	const limit = 200
	s := strings.ToValidUTF8(strings.TrimSpace(string(b)), "\uFFFD")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
