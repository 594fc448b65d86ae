package cli

import (
	"context"
	"fmt"

	"github.com/chmocker/chmocker/internal/baseimage"
	"github.com/chmocker/chmocker/internal/paths"
	"github.com/chmocker/chmocker/internal/store"
)

// Represents the 'chmocker image' command group.
type ImageCmd struct {
	Create ImageCreateCmd `cmd:"" help:"Synthesise a base image from the host filesystem."`
	Ls     ImageLsCmd     `cmd:"" help:"List images in the store."`
}

// Represents the 'chmocker image create' command.
type ImageCreateCmd struct {
	Tag      string `short:"t" required:"" help:"Image tag."`
	Recreate bool   `help:"Force recreate the image if it already exists."`
	NoTar    bool   `help:"Do not produce a tar archive and do not remove the unpacked tree."`
	NoRemove bool   `help:"Do not remove the unpacked image."`
	NoBrew   bool   `help:"Do not install Homebrew into the image."`
}

// Executes the image create command.
func (c *ImageCreateCmd) Run(ctx context.Context) error {
	st, err := store.New(paths.DefaultRoot())
	if err != nil {
		return err
	}

	return baseimage.Create(st, baseimage.Options{
		Tag:      c.Tag,
		Recreate: c.Recreate,
		NoTar:    c.NoTar,
		NoRemove: c.NoRemove,
		NoBrew:   c.NoBrew,
	})
}

// Represents the 'chmocker image ls' command.
type ImageLsCmd struct{}

// Executes the image ls command: lists tar artifacts and unpacked trees
// currently in the store.
func (c *ImageLsCmd) Run(ctx context.Context) error {
	st, err := store.New(paths.DefaultRoot())
	if err != nil {
		return err
	}

	tars, err := st.ListTars()
	if err != nil {
		return err
	}
	mounts, err := st.ListMounts()
	if err != nil {
		return err
	}

	fmt.Println("Images (as .tar):")
	for i, item := range tars {
		fmt.Printf("%d %s\n", i+1, item)
	}
	fmt.Println()
	fmt.Println("Images (mounted):")
	for i, item := range mounts {
		fmt.Printf("%d %s\n", i+1, item)
	}
	return nil
}
