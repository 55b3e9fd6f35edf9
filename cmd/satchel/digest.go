package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/satchel/internal/config"
	"github.com/zulandar/satchel/internal/digest"
	"github.com/zulandar/satchel/internal/digest/discord"
	"github.com/zulandar/satchel/internal/digest/slack"
)

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Due-date reminder digest commands",
	}

	cmd.AddCommand(newDigestSendCmd())
	return cmd
}

func newDigestSendCmd() *cobra.Command {
	var (
		configPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Build and send the reminder digest now",
		Long:  "Collects overdue assignments and those due within digest.horizon_days and posts them to the configured Slack or Discord channel. --dry-run prints the message instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigestSend(cmd, configPath, dryRun)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the digest instead of sending it")
	return cmd
}

func runDigestSend(cmd *cobra.Command, configPath string, dryRun bool) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if dryRun {
		report, err := digest.Build(a.assignments, time.Now(), a.cfg.Digest.Horizon())
		if err != nil {
			return err
		}
		if report == nil {
			fmt.Fprintln(out, "Nothing due; no digest would be sent.")
			return nil
		}
		msg := digest.Format(report)
		fmt.Fprintf(out, "%s\n\n%s\n", msg.Title, msg.Body)
		return nil
	}

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}
	report, err := sched.SendOnce(cmd.Context())
	if err != nil {
		return err
	}
	if report == nil {
		fmt.Fprintln(out, "Nothing due; no digest sent.")
		return nil
	}
	fmt.Fprintf(out, "Digest sent to %s: %d overdue, %d upcoming\n",
		a.cfg.Digest.Platform, len(report.Overdue), len(report.Upcoming))
	return nil
}

// newScheduler wires the configured chat platform into a digest scheduler.
func newScheduler(a *app) (*digest.Scheduler, error) {
	d := a.cfg.Digest
	if d.ChannelID == "" {
		return nil, fmt.Errorf("digest.channel_id is required")
	}
	notifier, err := newNotifier(d)
	if err != nil {
		return nil, err
	}
	return digest.NewScheduler(digest.SchedulerOpts{
		Source:    a.assignments,
		Notifier:  notifier,
		Cron:      d.Cron,
		Horizon:   d.Horizon(),
		ChannelID: d.ChannelID,
	})
}

func newNotifier(d config.DigestConfig) (digest.Notifier, error) {
	switch d.Platform {
	case config.PlatformSlack:
		return slack.New(slack.NotifierOpts{BotToken: d.SlackBotToken, ChannelID: d.ChannelID})
	case config.PlatformDiscord:
		return discord.New(discord.NotifierOpts{BotToken: d.DiscordBotToken, ChannelID: d.ChannelID})
	default:
		return nil, fmt.Errorf("unknown digest platform %q", d.Platform)
	}
}
