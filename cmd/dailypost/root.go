package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/noahxzhu/daily-post/internal/config"
	"github.com/noahxzhu/daily-post/internal/logger"
	"github.com/noahxzhu/daily-post/internal/storage"
	"github.com/noahxzhu/daily-post/internal/telegram"
	"github.com/noahxzhu/daily-post/internal/twitter"
	"github.com/noahxzhu/daily-post/internal/worker"
)

func newRootCmd() *cobra.Command {
	var schedulePath string

	cmd := &cobra.Command{
		Use:           "dailypost",
		Short:         "Post a counted message once a day at a fixed time",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(os.Getenv("DAILYPOST_CONFIG"))
			if err != nil {
				return err
			}
			if schedulePath != "" {
				cfg.ScheduleFile = schedulePath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "path to the schedule file (default from config, tweet.json)")
	return cmd
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	log := logger.Init(cfg.LogLevel, cfg.Environment)
	log.WithFields(logrus.Fields{
		"platform":    cfg.Platform,
		"schedule":    cfg.ScheduleFile,
		"environment": cfg.Environment,
	}).Info("Configuration loaded")

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}

	store := storage.NewStore(cfg.ScheduleFile)
	w := worker.NewWorker(store, publisher, log,
		worker.WithPollInterval(cfg.PollInterval),
		worker.WithCooldown(cfg.Cooldown),
	)

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() {
		err := store.Watch(watchCtx, func() {
			log.WithField("file", store.Path()).Info("Schedule file changed")
			w.PrintSchedule()
		})
		if err != nil {
			log.WithError(err).Warn("Schedule watcher stopped")
		}
	}()

	if err := w.Run(ctx); err != nil {
		return err
	}
	log.Info("Shut down")
	return nil
}

func newPublisher(cfg *config.AppConfig) (worker.Publisher, error) {
	switch cfg.Platform {
	case config.PlatformTelegram:
		return telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.APIURL, cfg.Telegram.ChatID)
	case config.PlatformTwitter:
		creds, err := config.LoadCredentials(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return twitter.NewClient(cfg.Twitter.APIURL, creds), nil
	default:
		return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
}
