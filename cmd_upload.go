package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pydist/pydist/pkg/cliutil"
	"github.com/pydist/pydist/pkg/pypirc"
	"github.com/pydist/pydist/pkg/python/dist"
	"github.com/pydist/pydist/pkg/upload"
)

// repositoryFlags is the destination-selection flag set shared by `upload`
// and `release`.  Exactly one destination per run: a .pypirc alias XOR a bare
// URL.
type repositoryFlags struct {
	Repository    string
	RepositoryURL string
	Pypirc        string
}

func (flags *repositoryFlags) register(flagset *pflag.FlagSet) {
	flagset.StringVarP(&flags.Repository, "repository", "r", pypirc.DefaultRepository,
		"Upload to the `ALIAS` repository from the .pypirc file")
	flagset.StringVar(&flags.RepositoryURL, "repository-url", "",
		"Upload to `URL`, bypassing the .pypirc file entirely")
	flagset.StringVar(&flags.Pypirc, "pypirc", "",
		"Read repository aliases from `FILE` (default \"~/.pypirc\")")
}

// validate reports flag combinations that don't select exactly one
// destination.  The error is a usage error; commands route it through
// cliutil.FlagErrorFunc.
func (flags *repositoryFlags) validate(cmd *cobra.Command) error {
	if flags.RepositoryURL != "" && cmd.Flags().Changed("repository") {
		return fmt.Errorf("--repository and --repository-url are mutually exclusive")
	}
	return nil
}

func (flags *repositoryFlags) resolve(cmd *cobra.Command) (*pypirc.Repository, error) {
	if err := flags.validate(cmd); err != nil {
		return nil, err
	}
	if flags.RepositoryURL != "" {
		return pypirc.RepositoryFromURL(flags.RepositoryURL), nil
	}
	path := flags.Pypirc
	if path == "" {
		var err error
		path, err = pypirc.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := pypirc.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Repository(flags.Repository)
}

func init() {
	var flags repositoryFlags
	cmd := &cobra.Command{
		Use:   "upload [flags] [DIST_DIR]",
		Short: "Upload built distribution files to a package index",
		Long: "Upload every distribution file in the dist directory (default " +
			"\"dist\") to a package index, one file at a time, stopping at the " +
			"first failure." +
			"\n\n" +
			"The destination is the \"pypi\" alias unless --repository or " +
			"--repository-url says otherwise; aliases come from ~/.pypirc, with " +
			"\"pypi\" and \"testpypi\" built in.  Credentials come from the alias's " +
			".pypirc entry, overridable with $PYDIST_USERNAME and $PYDIST_PASSWORD." +
			"\n\n" +
			"Uploading the same version twice is rejected by the index, not by " +
			"pydist; re-running an upload that already succeeded fails with " +
			"whatever the index answers.",
		Args: cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliutil.FlagErrorFunc(cmd, flags.validate(cmd)); err != nil {
				return err
			}
			distDir := "dist"
			if len(args) == 1 {
				distDir = args[0]
			}

			repo, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			artifacts, err := dist.Scan(distDir)
			if err != nil {
				return err
			}
			if _, err := dist.SetVersion(artifacts); err != nil {
				return err
			}

			client := &upload.Client{Repository: repo}
			return client.Upload(cmd.Context(), artifacts)
		},
	}
	flags.register(cmd.Flags())

	argparser.AddCommand(cmd)
}
