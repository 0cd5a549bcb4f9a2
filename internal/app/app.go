// Package app drives the render and diff workflow: it resolves the two
// filesystem providers, finds modified rooms, renders both sides of each
// room, diffs them and writes the results as PNG files.
package app

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"slices"

	"github.com/gookit/color"
	"github.com/retroenv/retrogolib/log"

	"github.com/blkerby/smartdiff/internal/imgdiff"
	"github.com/blkerby/smartdiff/internal/options"
	"github.com/blkerby/smartdiff/internal/project"
	"github.com/blkerby/smartdiff/internal/room"
	"github.com/blkerby/smartdiff/internal/vfs"
)

var (
	styleUnchanged = color.Style{color.FgGreen}
	styleChanged   = color.Style{color.FgRed, color.OpBold}
)

// App holds the two read-only providers and the program options for one
// run. The core renderer is stateless; App only sequences it.
type App struct {
	logger  *log.Logger
	opts    options.Program
	working vfs.FileSystem
	history vfs.FileSystem
}

// New opens the git repository at the working directory and resolves the
// comparison reference to its snapshot tree.
func New(logger *log.Logger, opts options.Program) (*App, error) {
	repo, err := vfs.OpenRepository(".")
	if err != nil {
		return nil, err
	}
	tree, err := vfs.ResolveTree(repo, opts.Reference)
	if err != nil {
		return nil, err
	}
	return &App{
		logger:  logger,
		opts:    opts,
		working: vfs.Dir{},
		history: vfs.NewTreeFS(tree),
	}, nil
}

// Run processes every project found under the project root.
func (a *App) Run(ctx context.Context) error {
	projects, err := project.Find(a.opts.ProjectRoot)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return fmt.Errorf("no SMART projects found under %s", a.opts.ProjectRoot)
	}

	for _, proj := range projects {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.processProject(ctx, proj); err != nil {
			return fmt.Errorf("processing project %s: %w", proj, err)
		}
	}
	return nil
}

// processProject selects the rooms to handle in one project: the single
// requested room if one was given, all modified rooms otherwise. A failed
// room render is logged and does not stop the remaining rooms.
func (a *App) processProject(ctx context.Context, proj string) error {
	rooms, err := project.Rooms(proj)
	if err != nil {
		return err
	}

	var selected []string
	if a.opts.Room != "" {
		if !slices.Contains(rooms, a.opts.Room) {
			return nil
		}
		selected = []string{a.opts.Room}
	} else {
		selected, err = project.Modified(a.working, a.history, proj, rooms)
		if err != nil {
			return err
		}
	}

	for _, name := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.opts.ListOnly {
			fmt.Printf("%s/%s\n", proj, name)
			continue
		}
		if err := a.processRoom(proj, name); err != nil {
			a.logger.Error("Rendering failed",
				log.String("project", proj),
				log.String("room", name),
				log.Err(err),
			)
		}
	}
	return nil
}

// processRoom renders the working copy and the reference snapshot of one
// room, diffs them per state and layer, and exports all images.
func (a *App) processRoom(proj, name string) error {
	workingImages, err := room.RenderRoom(a.working, proj, name)
	if err != nil {
		return fmt.Errorf("rendering working copy: %w", err)
	}
	referenceImages, err := room.RenderRoom(a.history, proj, name)
	if err != nil {
		return fmt.Errorf("rendering reference %s: %w", a.opts.Reference, err)
	}

	diff1, err := imgdiff.DiffAll(workingImages.Layer1, referenceImages.Layer1, a.opts.Baseline)
	if err != nil {
		return fmt.Errorf("diffing layer 1: %w", err)
	}
	diff2, err := imgdiff.DiffAll(workingImages.Layer2, referenceImages.Layer2, a.opts.Baseline)
	if err != nil {
		return fmt.Errorf("diffing layer 2: %w", err)
	}

	outDir := filepath.Join(a.opts.Output, filepath.FromSlash(proj), name)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for i, stateName := range workingImages.StateNames {
		if err := a.exportState(outDir, i, workingImages, referenceImages, diff1, diff2); err != nil {
			return err
		}
		if i < len(referenceImages.StateNames) {
			changed1, err := imgdiff.Count(workingImages.Layer1[i], referenceImages.Layer1[i])
			if err != nil {
				return fmt.Errorf("comparing state %s: %w", stateName, err)
			}
			changed2, err := imgdiff.Count(workingImages.Layer2[i], referenceImages.Layer2[i])
			if err != nil {
				return fmt.Errorf("comparing state %s: %w", stateName, err)
			}
			a.printSummary(proj, name, stateName, changed1, changed2)
		}
	}
	return nil
}

type export struct {
	file string
	img  *room.Image
}

// exportState writes the PNG set of one room state: both layers for the
// working copy, and for the reference and diff where the reference has a
// matching state.
func (a *App) exportState(outDir string, i int, working, reference *room.RoomImages, diff1, diff2 []*room.Image) error {
	exports := []export{
		{fmt.Sprintf("%d-layer1-working.png", i), working.Layer1[i]},
		{fmt.Sprintf("%d-layer2-working.png", i), working.Layer2[i]},
	}
	if i < len(reference.StateNames) {
		exports = append(exports,
			export{fmt.Sprintf("%d-layer1-reference.png", i), reference.Layer1[i]},
			export{fmt.Sprintf("%d-layer2-reference.png", i), reference.Layer2[i]},
		)
	}
	if i < len(diff1) {
		exports = append(exports,
			export{fmt.Sprintf("%d-layer1-diff.png", i), diff1[i]},
			export{fmt.Sprintf("%d-layer2-diff.png", i), diff2[i]},
		)
	}

	for _, e := range exports {
		if err := writePNG(filepath.Join(outDir, e.file), e.img); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) printSummary(proj, name, state string, changed1, changed2 int) {
	if a.opts.Quiet {
		return
	}
	label := fmt.Sprintf("%s/%s [%s]", proj, name, state)
	if changed1 == 0 && changed2 == 0 {
		styleUnchanged.Printf("%s: unchanged\n", label)
		return
	}
	styleChanged.Printf("%s: %d pixels changed on layer 1, %d on layer 2\n",
		label, changed1, changed2)
}

func writePNG(path string, img *room.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(file, img.NRGBA()); err != nil {
		_ = file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
