package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/neuroglow/neuroglow/view"
)

func viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Run the animation in a desktop window",
		Long:  "Opens a window driven by ebiten.\nControls: T toggles theme, H toggles visibility, Q or Esc quits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, overrides, err := setup()
			if err != nil {
				return fail(err)
			}
			log := buildLogger(os.Stderr)
			if err := view.Run(theme, widthFlag, heightFlag, overrides, log); err != nil {
				return fail(err)
			}
			return nil
		},
	}
	return cmd
}
