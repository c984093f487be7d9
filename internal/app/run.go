package app

import (
	"context"
	"fmt"

	"github.com/annaglova/breedhub-sub002/internal/notify"
)

// Serve runs the long-lived process: it applies the configured seed, repairs
// every derived value, forwards store changes to the notify endpoint when one
// is configured and serves health and metrics until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Serve started")

	if a.config.NotifyURL != "" {
		client, err := notify.Dial(ctx, notify.DialConfig{
			URL:       a.config.NotifyURL,
			Namespace: a.config.NotifyNamespace,
		})
		if err != nil {
			return fmt.Errorf("failed to connect notify endpoint: %w", err)
		}
		defer client.Disconnect()

		fwd := notify.NewForwarder(client, a.logger, notify.DefaultQueueSize)
		unsubscribe := fwd.Attach(a.store)
		defer unsubscribe()

		done := make(chan struct{})
		fwdCtx, stopForwarder := context.WithCancel(ctx)
		go func() {
			defer close(done)
			_ = fwd.Run(fwdCtx)
		}()
		defer func() {
			stopForwarder()
			<-done
		}()
	}

	if a.config.SeedPath != "" {
		if _, err := a.Seed(ctx); err != nil {
			return err
		}
	}
	if err := a.engine.RebuildAll(ctx); err != nil {
		return fmt.Errorf("initial rebuild failed: %w", err)
	}

	a.startHealthcheckServer()
	defer func() { _ = a.closeHealthcheckServer() }()

	a.logger.Info("Serving, waiting for shutdown")
	<-ctx.Done()
	a.logger.Debug("App.Serve finished")
	return nil
}
