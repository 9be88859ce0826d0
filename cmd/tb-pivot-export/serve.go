package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diyip/tb-pivot-excel/pkg/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the widget over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			w, cfg, err := buildWidget(log)
			if err != nil {
				return err
			}

			listen := addr
			if listen == "" {
				listen = cfg.ListenAddr
			}
			log.Info("serving widget API", zap.String("addr", listen), zap.String("engine", cfg.Engine.URL))
			return server.New(w).Router().Run(listen)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: config listen_addr)")
	return cmd
}
