package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chmocker/chmocker/internal/build"
	"github.com/chmocker/chmocker/internal/index"
	"github.com/chmocker/chmocker/internal/paths"
	"github.com/chmocker/chmocker/internal/recipe"
	"github.com/chmocker/chmocker/internal/stageplan"
	"github.com/chmocker/chmocker/internal/store"
)

const recipeFileName = "Dockerfile"

// Represents the 'chmocker build' command.
type BuildCmd struct {
	Tag      string `short:"t" required:"" help:"Result image tag."`
	Refresh  bool   `help:"Force refresh already unpacked stages."`
	NoTar    bool   `help:"Do not produce a tar archive for built stages."`
	NoRemove bool   `help:"Do not remove unpacked stage trees."`
}

// Executes the build command: reads ./Dockerfile, plans its stages, and
// drives the build against the default store.
func (c *BuildCmd) Run(ctx context.Context) error {
	f, err := os.Open(recipeFileName)
	if err != nil {
		return fmt.Errorf("opening %s: %w", recipeFileName, err)
	}
	defer f.Close()

	instructions, err := recipe.Parse(f)
	if err != nil {
		return err
	}

	stages, err := stageplan.Plan(instructions)
	if err != nil {
		return err
	}

	st, err := store.New(paths.DefaultRoot())
	if err != nil {
		return err
	}

	idx, err := index.Open(st.IndexPath())
	if err != nil {
		return err
	}
	defer idx.Close()

	result, err := build.Run(st, idx, stages, build.Options{
		Tag:      c.Tag,
		Refresh:  c.Refresh,
		NoTar:    c.NoTar,
		NoRemove: c.NoRemove,
	})
	if err != nil {
		return err
	}

	logrus.Infof("built %s: %d stage(s) built, %d reused from cache", result.Tag, result.StagesBuilt, result.StagesSkipped)
	return nil
}
