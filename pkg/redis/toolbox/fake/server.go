// Package fake 提供一个内存版的工具箱接口，供测试使用。
package fake

import (
	"encoding/json"
	"fmt"
	sdkhttp "github.com/QQGoblin/dbm-toolbox/pkg/http"
	"go.uber.org/zap"
	"io"
	"net/http"
	"sync"
)

// Request 服务端收到的一次请求
type Request struct {
	Method    string
	Path      string
	RequestID string
	Body      map[string]interface{}
}

type Server struct {
	sdkhttp.Server

	mu       sync.Mutex
	requests []Request
}

func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Server: sdkhttp.NewHttpServer("fake-toolbox",
			sdkhttp.RecoverFilterBuilder,
			sdkhttp.LoggingFilterBuilder(logger),
		),
	}
}

func Path(bizID int, api string) string {
	return fmt.Sprintf("/apis/redis/bizs/%d/toolbox/%s/", bizID, api)
}

// Respond 为 POST {Path(bizID, api)} 注册固定的 200 响应。
// payload 为 string 或 json.RawMessage 时原样返回。
func (s *Server) Respond(bizID int, api string, payload interface{}) {
	s.Route(http.MethodPost, Path(bizID, api), func(c *sdkhttp.Context) {
		if !s.record(c) {
			return
		}
		switch p := payload.(type) {
		case string:
			_ = c.Write(http.StatusOK, []byte(p))
		case json.RawMessage:
			_ = c.Write(http.StatusOK, p)
		default:
			_ = c.StatusOK(p)
		}
	})
}

// Fail 为 POST {Path(bizID, api)} 注册固定的错误响应
func (s *Server) Fail(bizID int, api string, code int, message string) {
	s.Route(http.MethodPost, Path(bizID, api), func(c *sdkhttp.Context) {
		if !s.record(c) {
			return
		}
		_ = c.WriteJSON(code, map[string]interface{}{"result": false, "message": message})
	})
}

func (s *Server) record(c *sdkhttp.Context) bool {
	req := Request{
		Method:    c.R.Method,
		Path:      c.R.URL.Path,
		RequestID: c.R.Header.Get("X-Request-Id"),
	}
	raw, err := io.ReadAll(c.R.Body)
	if err != nil {
		_ = c.StatusBadRequest(map[string]string{"message": err.Error()})
		return false
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req.Body); err != nil {
			_ = c.StatusBadRequest(map[string]string{"message": err.Error()})
			return false
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return true
}

// Requests 返回已收到请求的副本
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}
