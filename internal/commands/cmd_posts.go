package commands

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pixelfeed/internal/pixelfeed"
	"github.com/colonyops/pixelfeed/pkg/iojson"
)

const promptColumnWidth = 40

type PostsCmd struct {
	flags *Flags
	app   *pixelfeed.App

	// flags
	user       string
	jsonOutput bool
}

// NewPostsCmd creates a new posts command
func NewPostsCmd(flags *Flags, app *pixelfeed.App) *PostsCmd {
	return &PostsCmd{flags: flags, app: app}
}

// Register adds the posts command to the application
func (cmd *PostsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "posts",
		Usage: "Gallery post commands",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List posts, newest first",
				UsageText: "pixelfeed posts ls [--user <id>] [--json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "user",
						Aliases:     []string{"u"},
						Usage:       "only list posts by this user",
						Destination: &cmd.user,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:          "rm",
				Usage:         "Delete a post and its image",
				UsageText:     "pixelfeed posts rm <id>",
				ShellComplete: PostIDCompleter(cmd.app),
				Action:        cmd.runRemove,
			},
		},
	})

	return app
}

func (cmd *PostsCmd) runList(ctx context.Context, c *cli.Command) error {
	posts, err := cmd.app.Posts.List(ctx, cmd.user)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}

	out := outWriter(c)

	if cmd.jsonOutput {
		for _, p := range posts {
			if err := iojson.WriteLine(out, p); err != nil {
				return fmt.Errorf("encode post: %w", err)
			}
		}
		return nil
	}

	if len(posts) == 0 {
		_, _ = fmt.Fprintln(errWriter(c), "No posts found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSER\tCREATED\tPROMPT\tURL")
	for _, p := range posts {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			p.ID, p.UserID, p.CreatedAt.Local().Format(time.DateTime), truncate(p.Prompt, promptColumnWidth), p.ImageURL)
	}
	return w.Flush()
}

func (cmd *PostsCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one post id")
	}

	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid post id %q", c.Args().First())
	}

	detach := pixelfeed.AttachConsole(cmd.app.Toasts, errWriter(c))
	defer detach()

	if _, err := cmd.app.Gallery.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
