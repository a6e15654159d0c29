package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pixelfeed/internal/core/styles"
	"github.com/colonyops/pixelfeed/internal/pixelfeed"
	"github.com/colonyops/pixelfeed/pkg/iojson"
)

type NotificationsCmd struct {
	flags *Flags
	app   *pixelfeed.App

	// flags
	jsonOutput bool
}

// NewNotificationsCmd creates a new notifications command
func NewNotificationsCmd(flags *Flags, app *pixelfeed.App) *NotificationsCmd {
	return &NotificationsCmd{flags: flags, app: app}
}

// Register adds the notifications command to the application
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "notifications",
		Aliases: []string{"notif"},
		Usage:   "Notification history commands",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List past notifications, newest first",
				UsageText: "pixelfeed notifications ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "clear",
				Usage:     "Delete the notification history",
				UsageText: "pixelfeed notifications clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *NotificationsCmd) runList(ctx context.Context, c *cli.Command) error {
	history, err := cmd.app.Bus.History(ctx)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	out := outWriter(c)

	if cmd.jsonOutput {
		for _, n := range history {
			if err := iojson.WriteLine(out, n); err != nil {
				return fmt.Errorf("encode notification: %w", err)
			}
		}
		return nil
	}

	if len(history) == 0 {
		_, _ = fmt.Fprintln(errWriter(c), "No notifications")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tVARIANT\tTITLE\tDESCRIPTION")
	for _, n := range history {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.CreatedAt.Local().Format(time.DateTime), n.Variant, n.Title, n.Description)
	}
	return w.Flush()
}

func (cmd *NotificationsCmd) runClear(ctx context.Context, c *cli.Command) error {
	history, err := cmd.app.Bus.History(ctx)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	if err := cmd.app.Bus.Clear(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}

	_, _ = fmt.Fprintln(errWriter(c), styles.TextSuccessStyle.Render(fmt.Sprintf("Cleared %d notification(s)", len(history))))
	return nil
}
