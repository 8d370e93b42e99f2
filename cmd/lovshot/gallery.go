package main

import (
	"flag"
	"fmt"

	"github.com/itsharex/lovshot/internal/gallery"
)

// galleryCmd browses or lists the saved capture gallery.
type galleryCmd struct {
	action string
	*root
	fs *flag.FlagSet
}

func (g *galleryCmd) FlagSet() *flag.FlagSet {
	return g.fs
}

func parseGalleryCmd(args []string, r *root) (*galleryCmd, error) {
	g := &galleryCmd{root: r.subcommand("gallery")}
	fs := flag.NewFlagSet("gallery", flag.ExitOnError)
	g.fs = fs
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	g.action = "browse"
	if fs.NArg() > 0 {
		g.action = fs.Arg(0)
	}
	switch g.action {
	case "browse", "list":
	default:
		return nil, &UsageError{of: g}
	}
	return g, nil
}

func (g *galleryCmd) Run() error {
	store, err := gallery.Open(g.saveDir())
	if err != nil {
		return fmt.Errorf("open gallery: %w", err)
	}
	switch g.action {
	case "browse":
		return gallery.Run(store)
	case "list":
		items := store.Items()
		if len(items) == 0 {
			fmt.Println("gallery is empty")
			return nil
		}
		for _, a := range items {
			caption := a.Caption
			if caption == "" {
				caption = "-"
			}
			folder := a.Folder
			if folder == "" {
				folder = "-"
			}
			fmt.Printf("%s  %-10s  %-20s  %s  %s\n",
				a.CreatedAt.Format("2006-01-02 15:04"), a.Kind, folder, a.FileName, caption)
		}
	}
	return nil
}
