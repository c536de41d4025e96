// Package client 远端考勤后端的 REST 客户端
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"campus-attendance/model"
)

// DefaultTimeout 未提供 http.Client 时使用的请求超时
const DefaultTimeout = 30 * time.Second

// ErrInvalidRequest 请求字段未通过校验
var ErrInvalidRequest = errors.New("client: invalid request")

// StatusError 后端返回非 2xx 状态码
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %s", e.Status)
	}
	return fmt.Sprintf("backend returned %s: %s", e.Status, e.Body)
}

// Client 后端客户端
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// New 创建客户端，httpClient 为 nil 时使用带超时的默认客户端
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		validate: validator.New(),
	}
}

// Register 注册/登录学生 (POST /student/register)
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.RegisterNumber = strings.TrimSpace(req.RegisterNumber)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, describe(err))
	}

	_, err := c.do(ctx, http.MethodPost, "/student/register", req)
	return err
}

// MarkAttendance 标记出勤 (POST /student/markAttendance)，返回后端给出的提示信息
func (c *Client) MarkAttendance(ctx context.Context, req model.AttendanceMarkRequest) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/student/markAttendance", req)
	if err != nil {
		return "", err
	}

	var resp model.MarkResponse
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("解析 markAttendance 响应失败: %w", err)
		}
	}
	if resp.Message != "" {
		return resp.Message, nil
	}
	return resp.Error, nil
}

// Students 获取全部学生记录 (GET /student/all)
func (c *Client) Students(ctx context.Context) ([]model.Student, error) {
	body, err := c.do(ctx, http.MethodGet, "/student/all", nil)
	if err != nil {
		return nil, err
	}
	var students []model.Student
	if err := sonic.Unmarshal(body, &students); err != nil {
		return nil, fmt.Errorf("解析学生列表失败: %w", err)
	}
	return students, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

// describe 把校验错误压缩成 "字段:规则" 列表
func describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field()+":"+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
