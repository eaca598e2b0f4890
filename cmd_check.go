package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/pydist/pydist/pkg/cliutil"
	"github.com/pydist/pydist/pkg/python/dist"
	"github.com/pydist/pydist/pkg/python/pep440"
	"github.com/pydist/pydist/pkg/python/pep503"
)

func init() {
	var flags struct {
		Index string
	}
	cmd := &cobra.Command{
		Use:   "check [flags] [DIST_DIR]",
		Short: "Validate a dist directory without uploading it",
		Long: "Inspect the distribution files in the dist directory (default " +
			"\"dist\") the way an upload would: every filename must parse, the set " +
			"must be a single version of a single distribution, and the metadata " +
			"inside each archive must agree with its filename.  A YAML listing of " +
			"the set is printed on success." +
			"\n\n" +
			"With --index, the index's simple repository API is also consulted, " +
			"and files the index already has are flagged; uploading those again " +
			"would be rejected as duplicates.",
		Args: cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			distDir := "dist"
			if len(args) == 1 {
				distDir = args[0]
			}

			artifacts, err := dist.Scan(distDir)
			if err != nil {
				return err
			}
			ver, err := dist.SetVersion(artifacts)
			if err != nil {
				return err
			}

			var onIndex map[string]bool
			if flags.Index != "" {
				client := pep503.Client{BaseURL: flags.Index}
				links, err := client.ListPackageFiles(ctx, artifacts[0].Distribution)
				if err != nil {
					return err
				}
				onIndex = make(map[string]bool, len(links))
				for _, link := range links {
					onIndex[link.Text] = true
				}
			}

			type checkedFile struct {
				File    string `yaml:"file"`
				Kind    string `yaml:"kind"`
				Summary string `yaml:"summary,omitempty"`
				OnIndex *bool  `yaml:"already-on-index,omitempty"`
			}
			report := struct {
				Distribution string        `yaml:"distribution"`
				Version      string        `yaml:"version"`
				Files        []checkedFile `yaml:"files"`
			}{
				Distribution: artifacts[0].Distribution,
				Version:      ver.String(),
			}

			for _, art := range artifacts {
				md, err := art.ReadMetadata()
				if err != nil {
					return err
				}
				if dist.NormalizeName(md.Name()) != dist.NormalizeName(art.Distribution) {
					return fmt.Errorf("%s: metadata Name %q does not match the filename",
						art.Name, md.Name())
				}
				mdVer, err := pep440.ParseVersion(md.Version())
				if err != nil {
					return fmt.Errorf("%s: %w", art.Name, err)
				}
				if !mdVer.Equal(art.Version) {
					return fmt.Errorf("%s: metadata Version %q does not match the filename",
						art.Name, md.Version())
				}

				file := checkedFile{
					File:    art.Name,
					Kind:    string(art.Kind),
					Summary: md.Get("Summary"),
				}
				if onIndex != nil {
					dup := onIndex[art.Name]
					file.OnIndex = &dup
				}
				report.Files = append(report.Files, file)
			}

			out, err := yaml.Marshal(report)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&flags.Index, "index", "",
		"Also ask the simple repository API at `URL` which files it already has")

	argparser.AddCommand(cmd)
}
