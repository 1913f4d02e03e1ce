package app

import (
	"github.com/QQGoblin/dbm-toolbox/pkg/concurrency"
	"github.com/QQGoblin/dbm-toolbox/pkg/redis/toolbox"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 批量查询主从关系时的最大并发数
const pairsConcurrency = 4

func newQueryByIPCommand(o *options) *cobra.Command {

	var ips []string

	cmd := &cobra.Command{
		Use:   "query-by-ip",
		Short: "Query cluster, role and spec of hosts by ip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			biz, err := o.bizID()
			if err != nil {
				return err
			}
			nodes, err := o.client.QueryInfoByIP(cmd.Context(), biz, ips)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), nodes)
		},
	}
	cmd.Flags().StringSliceVar(&ips, "ip", nil, "Host ip, can be repeated or comma separated.")
	return cmd
}

func newClusterHostsCommand(o *options) *cobra.Command {

	var (
		clusterID int
		ip        string
	)

	cmd := &cobra.Command{
		Use:   "cluster-hosts",
		Short: "List hosts of a cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			biz, err := o.bizID()
			if err != nil {
				return err
			}
			params := toolbox.ClusterHostParams{IP: ip}
			if cmd.Flags().Changed("cluster-id") {
				params.ClusterID = &clusterID
			}
			hosts, err := o.client.QueryClusterHostList(cmd.Context(), biz, params)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), hosts)
		},
	}
	cmd.Flags().IntVar(&clusterID, "cluster-id", 0, "Cluster id.")
	cmd.Flags().StringVar(&ip, "ip", "", "Host ip.")
	return cmd
}

func newMasterSlaveByIPCommand(o *options) *cobra.Command {

	var ips []string

	cmd := &cobra.Command{
		Use:   "master-slave-by-ip",
		Short: "Query cluster, instances and slave of master ips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			biz, err := o.bizID()
			if err != nil {
				return err
			}
			pairs, err := o.client.QueryMasterSlaveByIP(cmd.Context(), biz, ips)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), pairs)
		},
	}
	cmd.Flags().StringSliceVar(&ips, "ip", nil, "Master ip, can be repeated or comma separated.")
	return cmd
}

type clusterPairs struct {
	ClusterID int                         `json:"cluster_id"`
	Pairs     []toolbox.MasterSlaveIPPair `json:"pairs"`
}

func newMasterSlavePairsCommand(o *options) *cobra.Command {

	var clusterIDs []int

	cmd := &cobra.Command{
		Use:   "master-slave-pairs",
		Short: "List master/slave ip pairs of clusters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			biz, err := o.bizID()
			if err != nil {
				return err
			}
			if len(clusterIDs) == 0 {
				return errors.New("at least one --cluster-id is required")
			}

			// 每个集群一个请求，结果按参数顺序输出
			results := make([]clusterPairs, len(clusterIDs))
			wg := concurrency.NewWaitGroup(pairsConcurrency)
			for i, id := range clusterIDs {
				i, id := i, id
				wg.Go(func() error {
					pairs, err := o.client.QueryMasterSlavePairs(cmd.Context(), biz, id)
					if err != nil {
						o.logger.Warn("query master slave pairs failed", zap.Int("cluster_id", id), zap.Error(err))
						return errors.Wrapf(err, "cluster %d", id)
					}
					results[i] = clusterPairs{ClusterID: id, Pairs: pairs}
					return nil
				})
			}
			if err := wg.Wait(); err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().IntSliceVar(&clusterIDs, "cluster-id", nil, "Cluster id, can be repeated or comma separated.")
	return cmd
}

func newMasterHostsCommand(o *options) *cobra.Command {

	var (
		clusterID       int
		role            string
		instanceAddress string
	)

	cmd := &cobra.Command{
		Use:   "master-hosts",
		Short: "List master hosts of a cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			biz, err := o.bizID()
			if err != nil {
				return err
			}
			params := toolbox.RedisHostListParams{
				BizID:           biz,
				Role:            role,
				InstanceAddress: instanceAddress,
			}
			if cmd.Flags().Changed("cluster-id") {
				params.ClusterID = &clusterID
			}
			list, err := o.client.GetRedisHostList(cmd.Context(), params)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().IntVar(&clusterID, "cluster-id", 0, "Cluster id.")
	cmd.Flags().StringVar(&role, "role", "", "Instance role sent to the server, e.g. redis_master.")
	cmd.Flags().StringVar(&instanceAddress, "instance-address", "", "Host ip.")
	return cmd
}
