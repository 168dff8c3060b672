package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/numconv/internal/config"
	"github.com/dshills/numconv/internal/config/watcher"
	"github.com/dshills/numconv/internal/hostproto"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		watch    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer conversion requests as JSON lines on stdin/stdout",
		Long: `Run as a helper process for an editor. Each line on stdin is a JSON
request, each line on stdout the matching response. Requests are handled
one at a time in arrival order.

  {"id":"1","text":"x = 0x1f;","offset":6,"to":"dec"}
  {"id":"1","ok":true,"start":4,"end":8,"text":"31","saturated":false}

With --watch the settings files are watched and reloaded when they change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			unsubscribe := e.store.OnChange(func(c config.Change) {
				e.logger.Info("settings reloaded",
					zap.Uint64("revision", c.Revision),
					zap.String("source", c.Source),
				)
			})
			defer unsubscribe()

			if watch {
				w, err := watchSettings(e, debounce)
				if err != nil {
					return err
				}
				defer w.Close()
				go func() {
					if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						e.logger.Warn("settings watcher stopped", zap.Error(err))
					}
				}()
			}

			server := hostproto.NewServer(e.store, hostproto.WithLogger(e.logger.Named("hostproto")))
			done := make(chan error, 1)
			go func() {
				done <- server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			}()

			select {
			case err := <-done:
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			case <-ctx.Done():
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reload settings when their files change")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "wait this long for changes to settle before reloading")

	return cmd
}

// watchSettings reloads the store whenever one of its files changes. The
// watched set is refreshed after each reload since includes may change.
func watchSettings(e *env, debounce time.Duration) (*watcher.Watcher, error) {
	var w *watcher.Watcher
	w, err := watcher.New(e.store.Files(), func(ctx context.Context, events []watcher.Event) {
		if err := e.store.Reload(ctx, events[0].Path); err != nil {
			return
		}
		if err := w.SetFiles(e.store.Files()); err != nil {
			e.logger.Warn("updating watched settings files", zap.Error(err))
		}
	},
		watcher.WithDebounce(debounce),
		watcher.WithLogger(e.logger.Named("watcher")),
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}
