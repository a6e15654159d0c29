package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/pixelfeed/internal/core/gallery"
	"github.com/colonyops/pixelfeed/internal/core/validate"
	"github.com/colonyops/pixelfeed/internal/pixelfeed"
	"github.com/colonyops/pixelfeed/pkg/iojson"
)

type PublishCmd struct {
	flags *Flags
	app   *pixelfeed.App
	stdin io.Reader

	// flags
	user       string
	prompt     string
	jsonOutput bool
}

// NewPublishCmd creates a new publish command
func NewPublishCmd(flags *Flags, app *pixelfeed.App) *PublishCmd {
	return &PublishCmd{flags: flags, app: app, stdin: os.Stdin}
}

// Register adds the publish command to the application
func (cmd *PublishCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "publish",
		Usage:     "Publish a generated image to the gallery",
		UsageText: "pixelfeed publish --prompt <text> [--user <id>] <image-file|->",
		Description: `Uploads the image and records a post with its prompt.

Pass "-" to read the image from stdin. The user defaults to the "user"
config value. The outcome is shown as a notification and kept in history.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "user that owns the post (defaults to config user)",
				Destination: &cmd.user,
			},
			&cli.StringFlag{
				Name:        "prompt",
				Aliases:     []string{"p"},
				Usage:       "prompt the image was generated from",
				Required:    true,
				Destination: &cmd.prompt,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the created post as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PublishCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one image path (or - for stdin)")
	}

	user := cmd.user
	if user == "" {
		user = cmd.app.Config.User
	}
	if err := validate.UserID(user); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	if err := validate.Prompt(cmd.prompt); err != nil {
		return err
	}

	image, closeImage, err := cmd.openImage(c.Args().First())
	if err != nil {
		return err
	}
	defer closeImage()

	detach := pixelfeed.AttachConsole(cmd.app.Toasts, errWriter(c))
	defer detach()

	post, err := cmd.app.Gallery.Publish(ctx, gallery.PublishInput{
		UserID: user,
		Prompt: cmd.prompt,
		Image:  image,
	})
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(outWriter(c), errWriter(c), post)
	}

	_, _ = fmt.Fprintf(outWriter(c), "#%d %s\n", post.ID, post.ImageURL)
	return nil
}

func (cmd *PublishCmd) openImage(arg string) (io.Reader, func(), error) {
	if arg == "-" {
		if f, ok := cmd.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, nil, fmt.Errorf("no image provided (stdin is a terminal); pass a file or pipe image data")
		}
		return cmd.stdin, func() {}, nil
	}

	f, err := os.Open(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
