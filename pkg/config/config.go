// Package config 读取命令行工具的配置，来源优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
package config

import (
	"github.com/QQGoblin/dbm-toolbox/pkg/httputils"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"net/url"
	"strings"
	"time"
)

const EnvPrefix = "DBM_TOOLBOX"

const (
	KeyEndpoint    = "endpoint"
	KeyBizID       = "biz-id"
	KeyTimeout     = "timeout"
	KeyOutput      = "output"
	KeyLogLevel    = "log-level"
	KeyCACert      = "ca-cert"
	KeyCert        = "cert"
	KeyKey         = "key"
	KeyInsecure    = "insecure"
	KeyDNSResolver = "dns-resolver"
)

const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

type Config struct {
	// DB 管理平台地址，如 http://bkdbm.example.com
	Endpoint string
	// 业务 ID，工具箱接口都在该业务下调用，为 0 表示未设置
	BizID    int
	Timeout  time.Duration
	Output   string
	LogLevel string

	CACert   string
	Cert     string
	Key      string
	Insecure bool

	// 自定义 DNS 服务器地址，如 10.0.0.53:53
	DNSResolver string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEndpoint, "http://localhost:8000")
	v.SetDefault(KeyTimeout, 60*time.Second)
	v.SetDefault(KeyOutput, OutputJSON)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyInsecure, false)
}

// NewViper 返回读取环境变量的 viper 实例，DBM_TOOLBOX_BIZ_ID 对应 biz-id
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// ReadFile 读取 yaml 配置文件，file 为空时忽略
func ReadFile(v *viper.Viper, file string) error {
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config file %s", file)
	}
	return nil
}

func Load(v *viper.Viper) *Config {
	return &Config{
		Endpoint:    v.GetString(KeyEndpoint),
		BizID:       v.GetInt(KeyBizID),
		Timeout:     v.GetDuration(KeyTimeout),
		Output:      strings.ToLower(v.GetString(KeyOutput)),
		LogLevel:    v.GetString(KeyLogLevel),
		CACert:      v.GetString(KeyCACert),
		Cert:        v.GetString(KeyCert),
		Key:         v.GetString(KeyKey),
		Insecure:    v.GetBool(KeyInsecure),
		DNSResolver: v.GetString(KeyDNSResolver),
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return errors.Wrapf(err, "invalid endpoint %s", c.Endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("invalid endpoint %s: scheme must be http or https", c.Endpoint)
	}
	if c.BizID < 0 {
		return errors.Errorf("invalid biz id %d", c.BizID)
	}
	if c.Timeout <= 0 {
		return errors.Errorf("invalid timeout %s", c.Timeout)
	}
	if c.Output != OutputJSON && c.Output != OutputYAML {
		return errors.Errorf("invalid output %s, allowed values: json, yaml", c.Output)
	}
	if (c.Cert == "") != (c.Key == "") {
		return errors.New("cert and key must be specified together")
	}
	return nil
}

// HTTPOptions 根据配置生成 HTTP 客户端参数
func (c *Config) HTTPOptions() ([]httputils.HTTPOption, error) {

	opts := []httputils.HTTPOption{
		httputils.WithTimeout(c.Timeout),
	}

	if c.CACert != "" || c.Cert != "" || c.Insecure {
		tlsConfig, err := httputils.CreateTlsConfigFromFiles(c.CACert, c.Cert, c.Key, c.Insecure)
		if err != nil {
			return nil, errors.Wrap(err, "create tls config")
		}
		opts = append(opts, httputils.WithTlsClientConfig(tlsConfig))
	}

	if c.DNSResolver != "" {
		opts = append(opts, httputils.WithDialContext(httputils.CreateDialerWithResolver(c.DNSResolver)))
	}
	return opts, nil
}
