package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/pixelfeed/internal/core/gallery"
	"github.com/colonyops/pixelfeed/internal/core/logging"
	"github.com/colonyops/pixelfeed/internal/core/validate"
	"github.com/colonyops/pixelfeed/internal/pixelfeed"
	"github.com/colonyops/pixelfeed/pkg/iojson"
)

type BatchCmd struct {
	flags *Flags
	app   *pixelfeed.App
	fr    *iojson.FileReader[BatchInput]
	user  string
}

func NewBatchCmd(flags *Flags, app *pixelfeed.App) *BatchCmd {
	return &BatchCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[BatchInput]{},
	}
}

func (cmd *BatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "batch",
		Usage: "Publish multiple images from JSON input",
		UsageText: `pixelfeed batch [options]

Read from stdin:
  echo '{"posts":[{"prompt":"a red fox","image":"fox.png"}]}' | pixelfeed batch

Read from file:
  pixelfeed batch -f posts.json`,
		Description: `Publishes multiple images from a JSON input file.

Each post in the input array is published sequentially. Every outcome is
recorded in the notification history.

Processing stops after 3 failures. Posts not attempted are marked as skipped.

Input JSON schema:
  {
    "posts": [
      {
        "user": "optional-user",
        "prompt": "prompt text",
        "image": "path/to/image.png"
      }
    ]
  }

Fields:
  user   - Optional. Owner of the post (defaults to --user, then the config user).
  prompt - Required. Prompt the image was generated from.
  image  - Required. Path to the image file.

Output is JSON with a batch ID and results for each post.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "default user for all posts",
				Destination: &cmd.user,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BatchCmd) run(ctx context.Context, c *cli.Command) error {
	batchID := uuid.NewString()[:8]
	logger := logging.Component("batch").With().Str("batch_id", batchID).Logger()

	logger.Info().Msg("starting batch processing")

	input, err := cmd.fr.Read()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return iojson.WriteError(fmt.Sprintf("read input: %s", err), nil)
	}

	input = input.WithDefaultUser(cmd.defaultUser())

	if err := input.Validate(); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		return iojson.WriteError(fmt.Sprintf("invalid input: %s", err), nil)
	}

	output := BatchOutput{
		BatchID: batchID,
		Results: make([]BatchResult, 0, len(input.Posts)),
	}

	failures := 0
	for i, p := range input.Posts {
		if failures >= maxFailures {
			logger.Warn().Str("image", p.Image).Msg("skipping post due to failure threshold")
			for j := i; j < len(input.Posts); j++ {
				output.Results = append(output.Results, BatchResult{
					Image:  input.Posts[j].Image,
					Status: StatusSkipped,
				})
			}
			break
		}

		logger.Info().Str("image", p.Image).Int("index", i).Msg("publishing post")

		result := cmd.publish(ctx, p)
		output.Results = append(output.Results, result)

		if result.Status == StatusFailed {
			failures++
			logger.Error().Str("image", p.Image).Str("error", result.Error).Msg("post publish failed")
		} else {
			logger.Info().Str("image", p.Image).Int64("post_id", result.PostID).Msg("post published")
		}
	}

	logger.Info().
		Int("total", len(input.Posts)).
		Int("created", countByStatus(output.Results, StatusCreated)).
		Int("failed", countByStatus(output.Results, StatusFailed)).
		Int("skipped", countByStatus(output.Results, StatusSkipped)).
		Msg("batch processing complete")

	return iojson.WriteWith(outWriter(c), errWriter(c), output)
}

func (cmd *BatchCmd) defaultUser() string {
	if cmd.user != "" {
		return cmd.user
	}
	return cmd.app.Config.User
}

func (cmd *BatchCmd) publish(ctx context.Context, p BatchPost) BatchResult {
	f, err := os.Open(p.Image)
	if err != nil {
		return BatchResult{
			Image:  p.Image,
			Status: StatusFailed,
			Error:  fmt.Errorf("open image: %w", err).Error(),
		}
	}
	defer func() { _ = f.Close() }()

	post, err := cmd.app.Gallery.Publish(ctx, gallery.PublishInput{
		UserID: p.User,
		Prompt: p.Prompt,
		Image:  f,
	})
	if err != nil {
		return BatchResult{
			Image:  p.Image,
			Status: StatusFailed,
			Error:  err.Error(),
		}
	}

	return BatchResult{
		Image:  p.Image,
		PostID: post.ID,
		URL:    post.ImageURL,
		Status: StatusCreated,
	}
}

const (
	StatusCreated = "created" // StatusCreated indicates the post was published successfully.
	StatusFailed  = "failed"  // StatusFailed indicates the publish failed.
	StatusSkipped = "skipped" // StatusSkipped indicates the post was not attempted due to failure threshold.
	maxFailures   = 3         // maxFailures is the number of failures before stopping batch processing.
)

// BatchInput is the JSON input schema for batch publishing.
type BatchInput struct {
	Posts []BatchPost `json:"posts"`
}

// WithDefaultUser returns a copy of the input with user filled in on posts
// that do not name one.
func (b BatchInput) WithDefaultUser(user string) BatchInput {
	posts := make([]BatchPost, len(b.Posts))
	for i, p := range b.Posts {
		if p.User == "" {
			p.User = user
		}
		posts[i] = p
	}
	return BatchInput{Posts: posts}
}

// Validate checks the batch input for errors using criterio.
func (b BatchInput) Validate() error {
	if len(b.Posts) == 0 {
		return criterio.NewFieldErrors("posts", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	seenImages := make(map[string]bool)

	for i, p := range b.Posts {
		field := fmt.Sprintf("posts[%d]", i)

		if err := validate.UserID(p.User); err != nil {
			errs = errs.Append(field+".user", err)
		}

		if err := validate.Prompt(p.Prompt); err != nil {
			errs = errs.Append(field+".prompt", err)
		}

		if strings.TrimSpace(p.Image) == "" {
			errs = errs.Append(field+".image", fmt.Errorf("image is required"))
			continue
		}

		if seenImages[p.Image] {
			errs = errs.Append(field+".image", fmt.Errorf("duplicate image %q", p.Image))
			continue
		}
		seenImages[p.Image] = true
	}

	return errs.ToError()
}

// BatchPost defines a single post to publish.
type BatchPost struct {
	User   string `json:"user,omitempty"`
	Prompt string `json:"prompt"`
	Image  string `json:"image"`
}

// BatchResult is the output for a single publish attempt.
type BatchResult struct {
	Image  string `json:"image"`
	PostID int64  `json:"post_id,omitempty"`
	URL    string `json:"url,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchOutput is the JSON output schema.
type BatchOutput struct {
	BatchID string        `json:"batch_id"`
	Results []BatchResult `json:"results"`
}

func countByStatus(results []BatchResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}
