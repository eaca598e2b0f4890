package main

import (
	"github.com/spf13/cobra"

	"github.com/pydist/pydist/pkg/build"
	"github.com/pydist/pydist/pkg/cliutil"
)

func init() {
	var flags struct {
		DistDir string
		Sdist   bool
		Wheel   bool
		Python  string
	}
	cmd := &cobra.Command{
		Use:   "build [flags] [PROJECT_DIR]",
		Short: "Build distribution files for a project",
		Long: "Run the PEP 517 build frontend (`python -m build`) against a project " +
			"source tree, leaving the built sdist and wheel files in the dist " +
			"directory.  The project's own configuration (pyproject.toml) decides " +
			"what actually gets built and how; pydist only invokes the frontend and " +
			"reports how it exited." +
			"\n\n" +
			"With no PROJECT_DIR, the current directory is built.",
		Args: cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := build.Options{
				DistDir:   flags.DistDir,
				SdistOnly: flags.Sdist,
				WheelOnly: flags.Wheel,
				Python:    flags.Python,
			}
			if len(args) == 1 {
				opts.ProjectDir = args[0]
			}
			return build.Run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&flags.DistDir, "dist-dir", "dist",
		"Write built distributions to `DIR`")
	cmd.Flags().BoolVar(&flags.Sdist, "sdist", false,
		"Build only the source distribution")
	cmd.Flags().BoolVar(&flags.Wheel, "wheel", false,
		"Build only the wheel")
	cmd.Flags().StringVar(&flags.Python, "python", "",
		"Run the build frontend with `INTERPRETER` (default \"python3\")")

	argparser.AddCommand(cmd)
}
