package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dkravets/mediakeeper/internal/client/media"
)

// Spaces lists the user's spaces with an index usable by the use command.
func (a *App) Spaces(ctx context.Context) error {
	spaces, err := a.api.ListSpaces(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(spaces) == 0 {
		fmt.Println("No spaces yet. Create one with 'newspace'.")
		return nil
	}
	for i, s := range spaces {
		marker := " "
		if a.space != nil && a.space.ID == s.ID {
			marker = "*"
		}
		fmt.Printf("%s %d. %s (%s)\n", marker, i+1, s.Name, s.ID)
	}
	return nil
}

// NewSpace prompts for a name and creates a space, selecting it as active.
func (a *App) NewSpace(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter space name", os.Stdout)
	if err != nil {
		return err
	}

	space, err := a.api.CreateSpace(ctx, name, "")
	if err != nil {
		log.Println(err.Error())
		return err
	}

	a.space = space
	fmt.Printf("Created and switched to space %q\n", space.Name)
	return nil
}

// Use selects the active space by its 1-based index from the spaces listing.
// Switching spaces discards the current media selection.
func (a *App) Use(ctx context.Context, index int) error {
	spaces, err := a.api.ListSpaces(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if index < 1 || index > len(spaces) {
		fmt.Printf("No space with number %d, run 'spaces' first\n", index)
		return nil
	}

	a.space = &spaces[index-1]
	a.store = media.NewStore(galleryLimit)
	fmt.Printf("Switched to space %q\n", a.space.Name)
	return nil
}
