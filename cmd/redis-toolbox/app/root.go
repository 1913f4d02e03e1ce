package app

import (
	"github.com/QQGoblin/dbm-toolbox/pkg/config"
	"github.com/QQGoblin/dbm-toolbox/pkg/httputils"
	"github.com/QQGoblin/dbm-toolbox/pkg/logutil"
	"github.com/QQGoblin/dbm-toolbox/pkg/redis/toolbox"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"time"
)

type options struct {
	v       *viper.Viper
	cfgFile string

	cfg        *config.Config
	logger     *zap.Logger
	httpClient *httputils.HTTPClient
	client     *toolbox.Client
}

func NewRootCommand() *cobra.Command {

	o := &options{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "redis-toolbox",
		Short: "Query redis cluster topology and hosts through the DB management toolbox API",
		Long: `redis-toolbox calls the redis toolbox API of the DB management console.
Every request is scoped by a business id (--biz-id or DBM_TOOLBOX_BIZ_ID).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.complete()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.SortFlags = false
	flags.StringVar(&o.cfgFile, "config", "", "Path of the yaml configuration file.")
	flags.StringP(config.KeyEndpoint, "e", "http://localhost:8000", "Address of the DB management console.")
	flags.IntP(config.KeyBizID, "b", 0, "Business id every toolbox request is scoped by.")
	flags.Duration(config.KeyTimeout, 60*time.Second, "Timeout of a single request.")
	flags.StringP(config.KeyOutput, "o", config.OutputJSON, "Output format. Allowed values: json, yaml.")
	flags.StringP(config.KeyLogLevel, "l", "info", "Log level. Allowed values: debug, info, warn, error.")
	flags.String(config.KeyCACert, "", "CA certificate file for https endpoints.")
	flags.String(config.KeyCert, "", "Client certificate file.")
	flags.String(config.KeyKey, "", "Client key file.")
	flags.Bool(config.KeyInsecure, false, "Skip server certificate verification.")
	flags.String(config.KeyDNSResolver, "", "DNS server used to resolve the endpoint, e.g. 10.0.0.53:53.")

	for _, key := range []string{
		config.KeyEndpoint, config.KeyBizID, config.KeyTimeout, config.KeyOutput, config.KeyLogLevel,
		config.KeyCACert, config.KeyCert, config.KeyKey, config.KeyInsecure, config.KeyDNSResolver,
	} {
		_ = o.v.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddCommand(
		newQueryByIPCommand(o),
		newClusterHostsCommand(o),
		newMasterSlaveByIPCommand(o),
		newMasterSlavePairsCommand(o),
		newMasterHostsCommand(o),
		newRoutesCommand(o),
		newPingCommand(o),
	)
	return cmd
}

func (o *options) complete() error {

	if err := config.ReadFile(o.v, o.cfgFile); err != nil {
		return err
	}

	cfg := config.Load(o.v)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logutil.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	httpOpts, err := cfg.HTTPOptions()
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logger
	o.httpClient = httputils.NewHTTPClient(httpOpts...)
	o.client = toolbox.NewClient(cfg.Endpoint,
		toolbox.WithHTTPClient(o.httpClient),
		toolbox.WithLogger(logger.Named("toolbox")),
	)
	return nil
}

func (o *options) bizID() (int, error) {
	if o.cfg.BizID == 0 {
		return 0, errors.New("biz id is required, set --biz-id or DBM_TOOLBOX_BIZ_ID")
	}
	return o.cfg.BizID, nil
}
