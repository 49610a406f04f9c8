package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/playok/compliancemon/internal/demosource"
	"github.com/playok/compliancemon/internal/logging"
	"github.com/playok/compliancemon/internal/model"
)

func newDemoCmd() *cobra.Command {
	var (
		listen       string
		failA, failB bool
	)
	cmd := &cobra.Command{
		Use:   "demo-sources",
		Short: "Serve both metrics endpoints from built-in demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.Component(logging.Default(), "demo")

			demo := demosource.NewServer(nil)
			demo.SetDown(model.SourceA, failA)
			demo.SetDown(model.SourceB, failB)

			srv := &http.Server{Addr: listen, Handler: demo.Handler()}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutCtx)
			}()

			log.WithField("listen", listen).Info("demo sources listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8000", "Listen address")
	cmd.Flags().BoolVar(&failA, "fail-a", false, "Answer 503 on the operations dashboard endpoint")
	cmd.Flags().BoolVar(&failB, "fail-b", false, "Answer 503 on the GDPR statistics endpoint")
	return cmd
}
