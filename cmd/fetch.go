package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
	"github.com/lehigh-university-libraries/catgallery/internal/config"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var caption string
	var tag string
	var output string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one random cat",
		Long: `Fetch one random cat from the Cat API, optionally with a caption drawn on it.

The image is written to --output when given; otherwise only its details are
printed. Failed attempts are retried with the same spacing the server uses.`,
		Example: `  # Fetch a cat and save it
  catgallery fetch --output cat.jpg

  # Fetch a cute cat saying hello
  catgallery fetch --tag cute --caption "hello" --output hello.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var opts []catapi.FetchOption
			if cmd.Flags().Changed("caption") {
				opts = append(opts, catapi.WithCaption(caption))
			}
			if cmd.Flags().Changed("tag") {
				opts = append(opts, catapi.WithTag(tag))
			}

			client := catapi.NewClient(cfg.ClientOptions()...)
			res := client.Fetch(cmd.Context(), opts...)
			if !res.OK() {
				return fmt.Errorf("could not fetch a cat after %d attempt(s): %w", res.Attempts, res.Err)
			}

			if output != "" {
				if err := os.WriteFile(output, res.Image.Bytes, 0644); err != nil {
					return fmt.Errorf("failed to write image file: %w", err)
				}
				slog.Info("Cat saved", "path", output)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source:   %s\n", res.Image.SourceURL)
			fmt.Fprintf(out, "Type:     %s (%dx%d, %d bytes)\n", res.Image.ContentType, res.Image.Width, res.Image.Height, len(res.Image.Bytes))
			if res.Caption != "" {
				fmt.Fprintf(out, "Caption:  %s\n", res.Caption)
			}
			if res.Tag != "" {
				fmt.Fprintf(out, "Tag:      %s\n", res.Tag)
			}
			fmt.Fprintf(out, "Attempts: %d\n", res.Attempts)
			return nil
		},
	}

	cmd.Flags().StringVar(&caption, "caption", "", "Text to draw on the cat")
	cmd.Flags().StringVar(&tag, "tag", "", "Only pick cats with this tag")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the image to this file")

	return cmd
}
