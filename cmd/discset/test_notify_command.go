package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"discset/internal/notify"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the configured ntfy topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Notify.NtfyTopic == "" {
				fmt.Fprintln(out, "Notifications are disabled (set [notify] ntfy_topic)")
				return nil
			}
			if err := notify.NewService(cfg).Test(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Test notification sent")
			return nil
		},
	}
}
