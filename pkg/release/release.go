// Package release is the build-then-upload pipeline: two steps, strictly in
// order, stopping at the first failure.
package release

import (
	"context"

	"github.com/datawire/dlib/dlog"

	"github.com/pydist/pydist/pkg/build"
	"github.com/pydist/pydist/pkg/python/dist"
)

// Uploader transmits a whole artifact set to one destination.
type Uploader interface {
	Upload(ctx context.Context, artifacts []dist.Artifact) error
}

type Options struct {
	Build build.Options

	// DistDir is the artifact directory shared by the two steps: the
	// build step writes it, then the upload step reads it.  ""
	// means "dist".
	DistDir string

	Uploader Uploader
}

// Run executes the pipeline.  When the build step fails, the upload step is
// not attempted; whatever the dist directory holds is left alone either way.
func Run(ctx context.Context, opts Options) error {
	distDir := opts.DistDir
	if distDir == "" {
		distDir = "dist"
	}
	opts.Build.DistDir = distDir

	dlog.Infof(ctx, "building distributions into %s", distDir)
	if err := build.Run(ctx, opts.Build); err != nil {
		return err
	}

	artifacts, err := dist.Scan(distDir)
	if err != nil {
		return err
	}
	ver, err := dist.SetVersion(artifacts)
	if err != nil {
		return err
	}
	dlog.Infof(ctx, "built %d file(s) for %s %s", len(artifacts), artifacts[0].Distribution, ver)

	return opts.Uploader.Upload(ctx, artifacts)
}
