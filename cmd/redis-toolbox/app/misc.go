package app

import (
	"fmt"
	"github.com/QQGoblin/dbm-toolbox/pkg/httputils"
	"github.com/QQGoblin/dbm-toolbox/pkg/tickets"
	"github.com/spf13/cobra"
	"strings"
	"time"
)

type routeView struct {
	Name      string       `json:"name"`
	Path      string       `json:"path"`
	Meta      tickets.Meta `json:"meta"`
	Component string       `json:"component"`
}

func newRoutesCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the ticket route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := tickets.GetRoutes()
			if err := tickets.Validate(rs); err != nil {
				return err
			}
			views := make([]routeView, 0, len(rs))
			for _, r := range rs {
				views = append(views, routeView{
					Name:      r.Name,
					Path:      r.Path,
					Meta:      r.Meta,
					Component: r.Component(),
				})
			}
			return o.print(cmd.OutOrStdout(), views)
		},
	}
}

func newPingCommand(o *options) *cobra.Command {

	var (
		path     string
		interval time.Duration
		attempts uint64
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the endpoint is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := strings.TrimRight(o.cfg.Endpoint, "/") + "/" + strings.TrimLeft(path, "/")
			if _, err := httputils.Healthz(cmd.Context(), o.httpClient.Client, endpoint, interval, attempts); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", endpoint)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "path", "/", "Path probed on the endpoint.")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Interval between attempts.")
	cmd.Flags().Uint64Var(&attempts, "attempts", 3, "Max retries after the first attempt.")
	return cmd
}
