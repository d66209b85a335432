package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/campusdesk/campusdesk/shared/markup"
)

// NewRenderCommand previews how a post body will be rendered.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render markdown from stdin to sanitized HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), markup.New().Render(string(src)))
			return nil
		},
	}
}
