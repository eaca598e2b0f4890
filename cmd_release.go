package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/pydist/pydist/pkg/build"
	"github.com/pydist/pydist/pkg/cliutil"
	"github.com/pydist/pydist/pkg/release"
	"github.com/pydist/pydist/pkg/upload"
)

// releaseConfig is the optional per-project `.pydist.yml`; flags win over
// file values.
type releaseConfig struct {
	DistDir    string `json:"dist-dir"`
	Repository string `json:"repository"`
	Sdist      bool   `json:"sdist"`
	Wheel      bool   `json:"wheel"`
	Python     string `json:"python"`
}

const releaseConfigFile = ".pydist.yml"

func init() {
	var flags struct {
		repositoryFlags
		ConfigFile string
		DistDir    string
		Sdist      bool
		Wheel      bool
		Python     string
	}
	cmd := &cobra.Command{
		Use:   "release [flags] [PROJECT_DIR]",
		Short: "Build a project and upload the result in one run",
		Long: "Build the project's distribution files, then upload them: `pydist " +
			"build` followed by `pydist upload` as a single sequential pipeline.  " +
			"A build failure stops the run before anything is uploaded; an upload " +
			"failure stops the run at the file that failed.  Nothing is retried " +
			"and the dist directory is left as-is either way." +
			"\n\n" +
			"A `.pydist.yml` file in the project directory can carry per-project " +
			"defaults for the flags below:" +
			"\n\n" +
			"    dist-dir: dist\n" +
			"    repository: testpypi\n" +
			"    wheel: true\n" +
			"    python: python3.11\n",
		Args: cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliutil.FlagErrorFunc(cmd, flags.validate(cmd)); err != nil {
				return err
			}
			projectDir := "."
			if len(args) == 1 {
				projectDir = args[0]
			}

			cfg, err := loadReleaseConfig(projectDir, flags.ConfigFile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dist-dir") && cfg.DistDir != "" {
				flags.DistDir = cfg.DistDir
			}
			if !cmd.Flags().Changed("repository") && cfg.Repository != "" {
				flags.Repository = cfg.Repository
			}
			if !cmd.Flags().Changed("sdist") {
				flags.Sdist = flags.Sdist || cfg.Sdist
			}
			if !cmd.Flags().Changed("wheel") {
				flags.Wheel = flags.Wheel || cfg.Wheel
			}
			if !cmd.Flags().Changed("python") && cfg.Python != "" {
				flags.Python = cfg.Python
			}

			repo, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			return release.Run(cmd.Context(), release.Options{
				Build: build.Options{
					ProjectDir: projectDir,
					SdistOnly:  flags.Sdist,
					WheelOnly:  flags.Wheel,
					Python:     flags.Python,
				},
				DistDir:  flags.DistDir,
				Uploader: &upload.Client{Repository: repo},
			})
		},
	}
	flags.repositoryFlags.register(cmd.Flags())
	cmd.Flags().StringVar(&flags.ConfigFile, "config", "",
		"Read per-project defaults from `FILE` (default PROJECT_DIR/.pydist.yml)")
	cmd.Flags().StringVar(&flags.DistDir, "dist-dir", "dist",
		"Build into and upload from `DIR`")
	cmd.Flags().BoolVar(&flags.Sdist, "sdist", false,
		"Build only the source distribution")
	cmd.Flags().BoolVar(&flags.Wheel, "wheel", false,
		"Build only the wheel")
	cmd.Flags().StringVar(&flags.Python, "python", "",
		"Run the build frontend with `INTERPRETER` (default \"python3\")")

	argparser.AddCommand(cmd)
}

func loadReleaseConfig(projectDir, configFile string) (*releaseConfig, error) {
	path := configFile
	if path == "" {
		path = filepath.Join(projectDir, releaseConfigFile)
	}
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && configFile == "" {
			// the config file is optional unless asked for by name
			return &releaseConfig{}, nil
		}
		return nil, err
	}
	var cfg releaseConfig
	if err := yaml.Unmarshal(yamlBytes, &cfg, yaml.DisallowUnknownFields); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}
