package cli

import (
	"context"
	"strings"

	"github.com/chmocker/chmocker/internal/paths"
	"github.com/chmocker/chmocker/internal/runimage"
	"github.com/chmocker/chmocker/internal/store"
)

// Represents the 'chmocker run' command.
type RunCmd struct {
	Tag     string   `arg:"" help:"Image tag to run."`
	Rm      bool     `name:"rm" help:"Remove the unpacked image after running."`
	It      bool     `name:"it" help:"Run the command interactively."`
	Refresh bool     `help:"Force refresh an already unpacked image."`
	Env     []string `short:"e" help:"Extra environment variable, KEY=VALUE." placeholder:"KEY=VALUE"`
	Command []string `arg:"" optional:"" help:"Command to execute inside the image."`
}

// Executes the run command.
func (c *RunCmd) Run(ctx context.Context) error {
	st, err := store.New(paths.DefaultRoot())
	if err != nil {
		return err
	}

	return runimage.Run(st, runimage.Options{
		Tag:         c.Tag,
		Command:     strings.Join(c.Command, " "),
		Remove:      c.Rm,
		Interactive: c.It,
		Refresh:     c.Refresh,
		ExtraEnv:    c.Env,
	})
}
