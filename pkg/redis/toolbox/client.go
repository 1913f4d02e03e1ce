// Package toolbox 封装 DB 管理平台 Redis 工具箱接口，查询集群拓扑与主机信息。
package toolbox

import (
	"context"
	"fmt"
	"github.com/QQGoblin/dbm-toolbox/pkg/httputils"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"strings"
)

const (
	apiQueryByIP             = "query_by_ip"
	apiQueryClusterIPs       = "query_cluster_ips"
	apiQueryMasterSlaveByIP  = "query_master_slave_by_ip"
	apiQueryMasterSlavePairs = "query_master_slave_pairs"
)

// Client 调用工具箱接口。每次调用都显式传入业务 ID，Client 本身不保存业务上下文，可并发使用。
type Client struct {
	endpoint string
	cli      *httputils.HTTPClient
	logger   *zap.Logger
	clock    clockwork.Clock
}

type Option func(c *Client)

func WithHTTPClient(cli *httputils.HTTPClient) Option {
	return func(c *Client) {
		c.cli = cli
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		logger:   zap.NewNop(),
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cli == nil {
		c.cli = httputils.NewHTTPClient()
	}
	return c
}

// RootPath 返回业务下工具箱接口的根路径
func RootPath(bizID int) string {
	return fmt.Sprintf("/apis/redis/bizs/%d/toolbox", bizID)
}

func (c *Client) url(bizID int, api string) string {
	return fmt.Sprintf("%s%s/%s/", c.endpoint, RootPath(bizID), api)
}

func (c *Client) post(ctx context.Context, bizID int, api string, body requestBody, reply interface{}) error {

	url := c.url(bizID, api)
	requestID := httputils.NewRequestID()
	start := c.clock.Now()

	err := c.cli.Post(ctx, url, body, reply, httputils.WithRequestID(requestID))
	cost := c.clock.Since(start)
	if err != nil {
		c.logger.Warn("toolbox request failed",
			zap.String("url", url),
			zap.String("request_id", requestID),
			zap.Duration("cost", cost),
			zap.Error(err),
		)
		return errors.Wrapf(err, "post %s", api)
	}

	c.logger.Debug("toolbox request",
		zap.String("url", url),
		zap.String("request_id", requestID),
		zap.Duration("cost", cost),
	)
	return nil
}

// QueryInfoByIP 根据 IP 查询集群、角色和规格，结果顺序与服务端返回一致
func (c *Client) QueryInfoByIP(ctx context.Context, bizID int, ips []string) ([]NodeByIP, error) {
	var nodes []NodeByIP
	body := newRequestBody().withStrings("ips", ips)
	if err := c.post(ctx, bizID, apiQueryByIP, body, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// QueryClusterHostList 查询集群下的主机列表
func (c *Client) QueryClusterHostList(ctx context.Context, bizID int, params ClusterHostParams) ([]HostRecord, error) {
	var hosts []HostRecord
	body := newRequestBody().
		withInt("cluster_id", params.ClusterID).
		withString("ip", params.IP)
	if err := c.post(ctx, bizID, apiQueryClusterIPs, body, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// QueryMasterSlaveByIP 根据 master IP 查询集群、实例和 slave
func (c *Client) QueryMasterSlaveByIP(ctx context.Context, bizID int, ips []string) ([]MasterSlavePair, error) {
	var pairs []MasterSlavePair
	body := newRequestBody().withStrings("ips", ips)
	if err := c.post(ctx, bizID, apiQueryMasterSlaveByIP, body, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// QueryMasterSlavePairs 根据 cluster_id 查询主从关系对
func (c *Client) QueryMasterSlavePairs(ctx context.Context, bizID int, clusterID int) ([]MasterSlaveIPPair, error) {
	var pairs []MasterSlaveIPPair
	body := newRequestBody().with("cluster_id", clusterID)
	if err := c.post(ctx, bizID, apiQueryMasterSlavePairs, body, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// GetRedisHostList 查询集群下的主机列表，只返回 master 主机
func (c *Client) GetRedisHostList(ctx context.Context, params RedisHostListParams) (*HostList, error) {
	var hosts []HostRecord
	body := newRequestBody().
		withString("ip", params.InstanceAddress).
		withInt("cluster_id", params.ClusterID).
		withString("role", params.Role)
	if err := c.post(ctx, params.BizID, apiQueryClusterIPs, body, &hosts); err != nil {
		return nil, err
	}

	masters := make([]HostRecord, 0, len(hosts))
	for _, h := range hosts {
		if h.IsMaster {
			masters = append(masters, h)
		}
	}
	return &HostList{
		Count:   len(masters),
		Results: masters,
	}, nil
}
