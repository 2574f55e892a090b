package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/JiscSD/openenum/broker"
	"github.com/JiscSD/openenum/broker/message"
	"github.com/JiscSD/openenum/registry"
	"github.com/JiscSD/openenum/server"
	"github.com/JiscSD/openenum/version"
)

func NewCmdServer(logger logrus.FieldLogger, config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Serve the registry over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.WithField("v", version.VERSION).Info("Starting server...")
			return doServer(cmd.Context(), logger, config)
		},
	}
}

func doServer(ctx context.Context, logger logrus.FieldLogger, config *Config) error {
	store, closeStore, err := newStore(ctx, logger, config)
	if err != nil {
		return err
	}
	defer closeStore()

	interval, err := config.reloadInterval()
	if err != nil {
		return err
	}
	reg, err := registry.NewRegistry(logger.WithField("component", "registry"), store, interval)
	if err != nil {
		return err
	}

	var g run.Group
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			<-cancel
			return nil
		}, func(error) {
			reg.Stop()
			close(cancel)
		})
	}
	if config.Broker.QueueURL != "" {
		l, err := listener(logger, config, reg)
		if err != nil {
			return err
		}
		g.Add(func() error {
			l.Run()
			return nil
		}, func(error) {
			l.Stop()
		})
	}
	{
		srv, err := server.New(logger.WithField("component", "server"), reg, prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		ln, err := net.Listen("tcp", config.Server.Addr)
		if err != nil {
			return err
		}
		logger.WithField("addr", ln.Addr().String()).Info("HTTP server listening")

		g.Add(func() error {
			mux := http.NewServeMux()

			srv.Routes(mux)

			// Health check.
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "OK")
			})

			// Prometheus metrics.
			mux.Handle("/metrics", promhttp.Handler())

			// Profiling data.
			mux.HandleFunc("/debug/pprof/", pprof.Index)
			mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

			return http.Serve(ln, mux)
		}, func(error) {
			ln.Close()
		})
	}
	{
		cancel := make(chan struct{})

		g.Add(func() error {
			err := interrupt(cancel, logger, reg)
			logger.Warn("Shutting down...")
			return err
		}, func(error) {
			close(cancel)
		})
	}

	return g.Run()
}

// listener returns an SQS listener that reloads the registry on every
// registry event.
func listener(logger logrus.FieldLogger, config *Config, reg *registry.Registry) (*broker.Listener, error) {
	incomingMessages := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "openenum",
		Name:      "incoming_messages_total",
		Help:      "The total number of messages received.",
	})
	prometheus.MustRegister(incomingMessages)

	client, err := newSQS(logger, config)
	if err != nil {
		return nil, err
	}
	l := broker.NewListener(logger.WithField("component", "listener"), client, config.Broker.QueueURL, incomingMessages)
	reload := func(e *message.Event) error {
		reg.Reload()
		return nil
	}
	l.Subscribe(message.EventType_EVENT_TYPE_PUBLISHED, reload)
	l.Subscribe(message.EventType_EVENT_TYPE_RETIRED, reload)
	return l, nil
}
