package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pixelfeed/internal/pixelfeed"
)

// PostIDCompleter returns a ShellCompleteFunc that suggests post IDs as
// positional completions, with the prompt as the description.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func PostIDCompleter(app *pixelfeed.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		posts, err := app.Posts.List(ctx, "")
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, p := range posts {
			_, _ = fmt.Fprintf(w, "%d:%s\n", p.ID, truncate(p.Prompt, promptColumnWidth))
		}
	}
}
