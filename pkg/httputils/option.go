package httputils

import (
	"context"
	"crypto/tls"
	"github.com/google/uuid"
	"net"
	"time"
)

type CallInfo struct {
	Cookie map[string]string
	Header map[string]string
}

const (
	ContentTypeKey   = "Content-Type"
	UserAgentKey     = "User-Agent"
	RequestIDKey     = "X-Request-Id"
	UserAgentVersion = "dbm-toolbox/1.0.0"
	ContentTypeJSON  = "application/json;charset=utf-8"
)

type CallOption func(info *CallInfo)

func defaultCallInfo() *CallInfo {

	header := map[string]string{
		UserAgentKey: UserAgentVersion,
		RequestIDKey: NewRequestID(),
	}

	return &CallInfo{
		Cookie: nil,
		Header: header,
	}
}

// NewRequestID 生成一个随机的请求 ID
func NewRequestID() string {
	return uuid.New().String()
}

func WithHeader(header map[string]string) CallOption {
	return func(info *CallInfo) {
		if info.Header == nil {
			info.Header = make(map[string]string)
		}
		for k, v := range header {
			info.Header[k] = v
		}
	}
}

// WithRequestID 覆盖默认生成的请求 ID，便于调用方在日志中关联
func WithRequestID(id string) CallOption {
	return WithHeader(map[string]string{RequestIDKey: id})
}

func WithCookie(cookie map[string]string) CallOption {
	return func(info *CallInfo) {
		if info.Cookie == nil {
			info.Cookie = make(map[string]string)
		}
		for k, v := range cookie {
			info.Cookie[k] = v
		}
	}
}

type httpConfig struct {
	Codec                 Codec
	Timeout               time.Duration
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ExpectContinueTimeout time.Duration
	DialTimeout           time.Duration
	DialKeepAlive         time.Duration
	TlsConfig             *tls.Config
	DialContext           func(ctx context.Context, network, address string) (net.Conn, error)
}

func (p *httpConfig) setDefault() {
	p.Codec = &JSONCodec{}
	p.Timeout = 60 * time.Second
	p.MaxIdleConnsPerHost = 200
	p.IdleConnTimeout = 90 * time.Second
	p.TLSHandshakeTimeout = 10 * time.Second
	p.ExpectContinueTimeout = 1 * time.Second
	p.DialTimeout = 3 * time.Second
	p.DialKeepAlive = 5 * time.Second
}

func (p *httpConfig) dialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   p.DialTimeout,
		KeepAlive: p.DialKeepAlive,
	}
}

type HTTPOption func(config *httpConfig)

func WithTimeout(timeout time.Duration) HTTPOption {
	return func(config *httpConfig) {
		config.Timeout = timeout
	}
}

func WithMaxIdleConnsPerHost(count int) HTTPOption {
	return func(config *httpConfig) {
		config.MaxIdleConnsPerHost = count
	}
}

func WithIdleConnTimeout(timeout time.Duration) HTTPOption {
	return func(config *httpConfig) {
		config.IdleConnTimeout = timeout
	}
}

func WithTLSHandshakeTimeout(timeout time.Duration) HTTPOption {
	return func(config *httpConfig) {
		config.TLSHandshakeTimeout = timeout
	}
}

func WithDialTimeout(timeout time.Duration) HTTPOption {
	return func(config *httpConfig) {
		config.DialTimeout = timeout
	}
}

func WithTlsClientConfig(tlsConfig *tls.Config) HTTPOption {
	return func(config *httpConfig) {
		config.TlsConfig = tlsConfig
	}
}

func WithCodec(codec Codec) HTTPOption {
	return func(config *httpConfig) {
		config.Codec = codec
	}
}

func WithDialContext(dialContext func(ctx context.Context, network, address string) (net.Conn, error)) HTTPOption {
	return func(config *httpConfig) {
		config.DialContext = dialContext
	}
}
