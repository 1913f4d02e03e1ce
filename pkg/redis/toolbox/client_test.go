package toolbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/QQGoblin/dbm-toolbox/pkg/httputils"
	"github.com/QQGoblin/dbm-toolbox/pkg/redis/toolbox/fake"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap/zaptest"
)

const hostsPayload = `[
  {"bk_host_id": 1, "ip": "10.0.0.1", "role": "redis_master", "cluster_domain": "cache.a.db", "instance_count": 4},
  {"bk_host_id": 2, "ip": "10.0.0.2", "role": "redis_slave", "cluster_domain": "cache.a.db", "instance_count": 4},
  {"bk_host_id": 3, "ip": "10.0.0.3", "role": "redis_master", "cluster_domain": "cache.a.db", "instance_count": 4, "isMaster": false}
]`

func newTestClient(t *testing.T) (*Client, *fake.Server, *httptest.Server) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	srv := fake.NewServer(nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	cli := NewClient(ts.URL+"/",
		WithLogger(logger),
		WithClock(clockwork.NewFakeClock()),
		WithHTTPClient(httputils.NewHTTPClient()),
	)
	return cli, srv, ts
}

func intPtr(i int) *int {
	return &i
}

func TestQueryInfoByIP(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Respond(3, apiQueryByIP, `[
	  {"ip": "10.0.0.2", "role": "redis_slave", "bk_host_id": 12, "cluster": {"id": 5, "immute_domain": "cache.a.db", "cluster_type": "TwemproxyRedisInstance"}},
	  {"ip": "10.0.0.1", "role": "redis_master", "bk_host_id": 11, "cluster": {"id": 5, "immute_domain": "cache.a.db"},
	   "spec_config": {"id": 7, "name": "2c4g", "cpu": {"min": 2, "max": 2}, "storage_spec": [{"mount_point": "/data", "size": 100, "type": "ssd"}]}}
	]`)

	ips := []string{"10.0.0.1", "10.0.0.2"}
	nodes, err := cli.QueryInfoByIP(context.Background(), 3, ips)
	if err != nil {
		t.Fatalf("QueryInfoByIP error: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("request count: want (%d), got (%d)", 1, len(reqs))
	}
	want := map[string]interface{}{"ips": []interface{}{"10.0.0.1", "10.0.0.2"}}
	if !reflect.DeepEqual(reqs[0].Body, want) {
		t.Errorf("request body: want (%v), got (%v)", want, reqs[0].Body)
	}
	if reqs[0].Method != http.MethodPost {
		t.Errorf("method: want (%s), got (%s)", http.MethodPost, reqs[0].Method)
	}
	if reqs[0].RequestID == "" {
		t.Errorf("missing request id header")
	}

	if len(nodes) != 2 {
		t.Fatalf("node count: want (%d), got (%d)", 2, len(nodes))
	}
	if nodes[0].IP != "10.0.0.2" || nodes[1].IP != "10.0.0.1" {
		t.Errorf("order not preserved: %+v", nodes)
	}
	if nodes[0].IsMaster() || !nodes[1].IsMaster() {
		t.Errorf("role: want slave/master, got %s/%s", nodes[0].Role, nodes[1].Role)
	}
	if nodes[1].Cluster.ImmuteDomain != "cache.a.db" || nodes[1].SpecConfig.StorageSpec[0].MountPoint != "/data" {
		t.Errorf("payload fields not decoded: %+v", nodes[1])
	}
}

func TestQueryInfoByIPEmpty(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Respond(3, apiQueryByIP, `[]`)

	nodes, err := cli.QueryInfoByIP(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("QueryInfoByIP error: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("want empty result, got %v", nodes)
	}
	want := map[string]interface{}{"ips": []interface{}{}}
	if got := srv.Requests()[0].Body; !reflect.DeepEqual(got, want) {
		t.Errorf("request body: want (%v), got (%v)", want, got)
	}
}

func TestQueryClusterHostList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params ClusterHostParams
		want   map[string]interface{}
	}{
		{
			name:   "no filter",
			params: ClusterHostParams{},
			want:   map[string]interface{}{},
		},
		{
			name:   "cluster only",
			params: ClusterHostParams{ClusterID: intPtr(5)},
			want:   map[string]interface{}{"cluster_id": float64(5)},
		},
		{
			name:   "cluster and ip",
			params: ClusterHostParams{ClusterID: intPtr(0), IP: "10.0.0.1"},
			want:   map[string]interface{}{"cluster_id": float64(0), "ip": "10.0.0.1"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cli, srv, _ := newTestClient(t)
			srv.Respond(8, apiQueryClusterIPs, hostsPayload)

			hosts, err := cli.QueryClusterHostList(context.Background(), 8, tt.params)
			if err != nil {
				t.Fatalf("QueryClusterHostList error: %v", err)
			}
			if len(hosts) != 3 {
				t.Fatalf("host count: want (%d), got (%d)", 3, len(hosts))
			}
			if !hosts[0].IsMaster || hosts[1].IsMaster || !hosts[2].IsMaster {
				t.Errorf("isMaster not derived from role: %+v", hosts)
			}
			if got := srv.Requests()[0].Body; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("request body: want (%v), got (%v)", tt.want, got)
			}
		})
	}
}

func TestQueryMasterSlaveByIP(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Respond(3, apiQueryMasterSlaveByIP, `[
	  {"cluster": {"id": 5, "bk_cloud_id": 0, "cluster_type": "PredixyTendisplusCluster", "deploy_plan_id": 2,
	               "immute_domain": "cache.a.db", "major_version": "Redis-6", "name": "a", "region": "sz"},
	   "instances": [{"bk_biz_id": 3, "bk_host_id": 11, "bk_instance_id": 101, "instance": "10.0.0.1:30000",
	                  "ip": "10.0.0.1", "name": "a", "phase": "online", "port": 30000, "status": "running"}],
	   "master_ip": "10.0.0.1", "slave_ip": "10.0.0.2"},
	  {"cluster": null, "instances": null, "master_ip": "10.0.0.9", "slave_ip": ""}
	]`)

	pairs, err := cli.QueryMasterSlaveByIP(context.Background(), 3, []string{"10.0.0.1", "10.0.0.9"})
	if err != nil {
		t.Fatalf("QueryMasterSlaveByIP error: %v", err)
	}

	want := []MasterSlavePair{
		{
			Cluster: &ClusterRef{
				ID: 5, ClusterType: "PredixyTendisplusCluster", DeployPlanID: 2,
				ImmuteDomain: "cache.a.db", MajorVersion: "Redis-6", Name: "a", Region: "sz",
			},
			Instances: []InstanceRef{{
				BkBizID: 3, BkHostID: 11, BkInstanceID: 101, Instance: "10.0.0.1:30000",
				IP: "10.0.0.1", Name: "a", Phase: "online", Port: 30000, Status: "running",
			}},
			MasterIP: "10.0.0.1",
			SlaveIP:  "10.0.0.2",
		},
		{MasterIP: "10.0.0.9"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("pairs: want (%+v), got (%+v)", want, pairs)
	}

	body := srv.Requests()[0].Body
	if !reflect.DeepEqual(body, map[string]interface{}{"ips": []interface{}{"10.0.0.1", "10.0.0.9"}}) {
		t.Errorf("unexpected request body %v", body)
	}
}

func TestQueryMasterSlavePairs(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Respond(3, apiQueryMasterSlavePairs, []MasterSlaveIPPair{
		{MasterIP: "10.0.0.1", SlaveIP: "10.0.0.2"},
		{MasterIP: "10.0.0.3", SlaveIP: "10.0.0.4"},
	})

	pairs, err := cli.QueryMasterSlavePairs(context.Background(), 3, 5)
	if err != nil {
		t.Fatalf("QueryMasterSlavePairs error: %v", err)
	}
	want := []MasterSlaveIPPair{
		{MasterIP: "10.0.0.1", SlaveIP: "10.0.0.2"},
		{MasterIP: "10.0.0.3", SlaveIP: "10.0.0.4"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("pairs: want (%v), got (%v)", want, pairs)
	}
	if got := srv.Requests()[0].Body; !reflect.DeepEqual(got, map[string]interface{}{"cluster_id": float64(5)}) {
		t.Errorf("unexpected request body %v", got)
	}
}

func TestGetRedisHostListBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params RedisHostListParams
		want   map[string]interface{}
	}{
		{
			name:   "optional fields absent",
			params: RedisHostListParams{BizID: 3, ClusterID: intPtr(5)},
			want:   map[string]interface{}{"cluster_id": float64(5)},
		},
		{
			name:   "all fields",
			params: RedisHostListParams{BizID: 3, ClusterID: intPtr(5), Role: RoleRedisMaster, InstanceAddress: "10.0.0.1"},
			want:   map[string]interface{}{"cluster_id": float64(5), "role": "redis_master", "ip": "10.0.0.1"},
		},
		{
			name:   "address only",
			params: RedisHostListParams{BizID: 3, InstanceAddress: "10.0.0.1"},
			want:   map[string]interface{}{"ip": "10.0.0.1"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cli, srv, _ := newTestClient(t)
			srv.Respond(tt.params.BizID, apiQueryClusterIPs, `[]`)

			if _, err := cli.GetRedisHostList(context.Background(), tt.params); err != nil {
				t.Fatalf("GetRedisHostList error: %v", err)
			}
			reqs := srv.Requests()
			if len(reqs) != 1 {
				t.Fatalf("request count: want (%d), got (%d)", 1, len(reqs))
			}
			if !reflect.DeepEqual(reqs[0].Body, tt.want) {
				t.Errorf("request body: want (%v), got (%v)", tt.want, reqs[0].Body)
			}
		})
	}
}

func TestGetRedisHostListFiltersMasters(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Respond(3, apiQueryClusterIPs, hostsPayload)

	list, err := cli.GetRedisHostList(context.Background(), RedisHostListParams{BizID: 3, ClusterID: intPtr(5)})
	if err != nil {
		t.Fatalf("GetRedisHostList error: %v", err)
	}
	if list.Count != 2 || len(list.Results) != 2 {
		t.Fatalf("count: want (%d), got (%d/%d)", 2, list.Count, len(list.Results))
	}
	if list.Results[0].IP != "10.0.0.1" || list.Results[1].IP != "10.0.0.3" {
		t.Errorf("unexpected results %+v", list.Results)
	}
	for _, h := range list.Results {
		if h.Role != RoleRedisMaster {
			t.Errorf("non-master host in results: %+v", h)
		}
	}
	if got := srv.Requests()[0].Path; got != fake.Path(3, apiQueryClusterIPs) {
		t.Errorf("path: want (%s), got (%s)", fake.Path(3, apiQueryClusterIPs), got)
	}
}

func TestGetRedisHostListNoMasters(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Respond(3, apiQueryClusterIPs, `[{"ip": "10.0.0.2", "role": "redis_slave"}]`)

	list, err := cli.GetRedisHostList(context.Background(), RedisHostListParams{BizID: 3})
	if err != nil {
		t.Fatalf("GetRedisHostList error: %v", err)
	}
	if list.Count != 0 || list.Results == nil || len(list.Results) != 0 {
		t.Errorf("want empty non-nil results, got %+v", list)
	}
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()
	cli, _, ts := newTestClient(t)
	ts.Close()
	ctx := context.Background()

	if res, err := cli.QueryInfoByIP(ctx, 3, []string{"10.0.0.1"}); err == nil || res != nil {
		t.Errorf("QueryInfoByIP: want error, got (%v, %v)", res, err)
	}
	if res, err := cli.QueryClusterHostList(ctx, 3, ClusterHostParams{}); err == nil || res != nil {
		t.Errorf("QueryClusterHostList: want error, got (%v, %v)", res, err)
	}
	if res, err := cli.QueryMasterSlaveByIP(ctx, 3, []string{"10.0.0.1"}); err == nil || res != nil {
		t.Errorf("QueryMasterSlaveByIP: want error, got (%v, %v)", res, err)
	}
	if res, err := cli.QueryMasterSlavePairs(ctx, 3, 5); err == nil || res != nil {
		t.Errorf("QueryMasterSlavePairs: want error, got (%v, %v)", res, err)
	}
	if res, err := cli.GetRedisHostList(ctx, RedisHostListParams{BizID: 3}); err == nil || res != nil {
		t.Errorf("GetRedisHostList: want error, got (%v, %v)", res, err)
	}
}

func TestServerErrorPassThrough(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Fail(3, apiQueryMasterSlavePairs, http.StatusInternalServerError, "boom")

	pairs, err := cli.QueryMasterSlavePairs(context.Background(), 3, 5)
	if err == nil || pairs != nil {
		t.Fatalf("want error, got (%v, %v)", pairs, err)
	}
	if !httputils.IsStatusError(err, http.StatusInternalServerError) {
		t.Errorf("want status error 500, got %v", err)
	}
}

func TestMalformedResponse(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Respond(3, apiQueryByIP, `{not json`)

	if nodes, err := cli.QueryInfoByIP(context.Background(), 3, []string{"10.0.0.1"}); err == nil || nodes != nil {
		t.Errorf("want decode error, got (%v, %v)", nodes, err)
	}
}

func TestUnknownBizIsNotFound(t *testing.T) {
	t.Parallel()
	cli, srv, _ := newTestClient(t)
	srv.Respond(3, apiQueryByIP, `[]`)

	_, err := cli.QueryInfoByIP(context.Background(), 4, []string{"10.0.0.1"})
	if !httputils.IsStatusError(err, http.StatusNotFound) {
		t.Errorf("want 404 status error, got %v", err)
	}
}
