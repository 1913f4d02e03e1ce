package httputils

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"io/ioutil"
	certutil "k8s.io/client-go/util/cert"
	"k8s.io/klog/v2"
	"net"
	"net/http"
	"time"
)

const (
	DNSResolverTimeoutMS = 5000
	DNSResolverProto     = "udp"
)

// CreateTlsConfigFromFiles 从文件加载 TLS 配置，certFile/keyFile 为空时不使用客户端证书
func CreateTlsConfigFromFiles(caCertFile, certFile, keyFile string, insecureSkipVerify bool) (*tls.Config, error) {

	var cert, key, caCert []byte
	var err error

	if certFile != "" || keyFile != "" {
		if cert, err = ioutil.ReadFile(certFile); err != nil {
			return nil, errors.Wrapf(err, "read cert file %s", certFile)
		}
		if key, err = ioutil.ReadFile(keyFile); err != nil {
			return nil, errors.Wrapf(err, "read key file %s", keyFile)
		}
	}

	if caCertFile != "" {
		if caCert, err = ioutil.ReadFile(caCertFile); err != nil {
			return nil, errors.Wrapf(err, "read ca file %s", caCertFile)
		}
	}

	return CreateTlsConfig(caCert, cert, key, insecureSkipVerify)
}

func CreateTlsConfig(caCert, cert, key []byte, insecureSkipVerify bool) (*tls.Config, error) {

	cfg := tls.Config{
		InsecureSkipVerify: insecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	if cert != nil {
		tlsCert, err := tls.X509KeyPair(cert, key)
		if err != nil {
			klog.Errorf("error parse bundle cert and key: %s", err)
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{tlsCert}
	}

	if caCert != nil {
		caCerts, err := certutil.ParseCertsPEM(caCert)
		if err != nil {
			klog.Errorf("error parse CACert: %s", err)
			return nil, err
		}
		cfg.RootCAs = x509.NewCertPool()
		for _, c := range caCerts {
			cfg.RootCAs.AddCert(c)
		}
	}

	return &cfg, nil
}

func CreateDialerWithResolver(resolverIP string) func(ctx context.Context, network string, addr string) (net.Conn, error) {

	dialer := &net.Dialer{
		Resolver: &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				d := net.Dialer{
					Timeout: time.Duration(DNSResolverTimeoutMS) * time.Millisecond,
				}
				return d.DialContext(ctx, DNSResolverProto, resolverIP)
			},
		},
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr)
	}

}

// Healthz 以固定间隔探测 endpoint，直到返回 200/403 或者达到最大重试次数
func Healthz(ctx context.Context, cli *http.Client, endpoint string, interval time.Duration, attempts uint64) ([]byte, error) {

	var contents []byte

	f := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := cli.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusForbidden {
			return &StatusError{Code: resp.StatusCode, Body: string(body)}
		}
		contents = body
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts), ctx)
	if err := backoff.Retry(f, b); err != nil {
		return nil, errors.Wrapf(err, "healthz %s", endpoint)
	}

	return contents, nil
}
