// Package capture produces window thumbnails by shelling out to grim and
// ImageMagick. Everything here is best-effort: callers treat a failed
// capture as a missing thumbnail, never as a failed minimize.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ErrGrimNotAvailable is returned when grim is not installed.
var ErrGrimNotAvailable = errors.New("grim is not available in PATH")

// Options controls thumbnail geometry and quality.
type Options struct {
	Width    int
	Height   int
	IconSize int
	Quality  int
}

// Result holds the files produced for one window.
type Result struct {
	ThumbnailPath string // menu-sized thumbnail
	IconPath      string // small square icon for compact pickers
}

// Grabber captures a screen region and derives thumbnail files from it.
type Grabber struct {
	dir  string // output directory
	opts Options

	// binaries, overridable for tests
	grim    string
	magick  string
	haveImg bool
}

// NewGrabber returns a grabber writing into dir. ImageMagick is resolved at
// construction: `magick` first (IM7), `convert` as the legacy fallback.
func NewGrabber(dir string, opts Options) *Grabber {
	g := &Grabber{dir: dir, opts: opts, grim: "grim"}
	for _, name := range []string{"magick", "convert"} {
		if _, err := exec.LookPath(name); err == nil {
			g.magick = name
			g.haveImg = true
			break
		}
	}
	return g
}

// Available reports whether a capture can be attempted at all.
func (g *Grabber) Available() bool {
	_, err := exec.LookPath(g.grim)
	return err == nil
}

// Capture screenshots the given region and writes a thumbnail and an icon
// for the window. The full-size capture is removed afterwards to save
// space. The address is used only to derive stable file names.
func (g *Grabber) Capture(address, geometry string) (Result, error) {
	if !g.Available() {
		return Result{}, ErrGrimNotAvailable
	}

	fullPath := filepath.Join(g.dir, address+".png")
	thumbPath := filepath.Join(g.dir, address+".thumb.png")
	iconPath := filepath.Join(g.dir, address+".icon.png")

	if err := g.runTool(g.grim, "-g", geometry, fullPath); err != nil {
		return Result{}, fmt.Errorf("grim capture failed: %w", err)
	}
	defer os.Remove(fullPath)

	if !g.haveImg {
		// No ImageMagick: keep the raw capture as the thumbnail rather
		// than producing nothing.
		if err := os.Rename(fullPath, thumbPath); err != nil {
			return Result{}, fmt.Errorf("failed to keep raw capture: %w", err)
		}
		return Result{ThumbnailPath: thumbPath}, nil
	}

	thumbGeom := fmt.Sprintf("%dx%d", g.opts.Width, g.opts.Height)
	if err := g.runTool(g.magick, fullPath,
		"-resize", thumbGeom+"^",
		"-gravity", "center",
		"-extent", thumbGeom,
		"-quality", strconv.Itoa(g.opts.Quality),
		thumbPath); err != nil {
		return Result{}, fmt.Errorf("thumbnail conversion failed: %w", err)
	}

	iconGeom := fmt.Sprintf("%dx%d", g.opts.IconSize, g.opts.IconSize)
	if err := g.runTool(g.magick, fullPath,
		"-resize", iconGeom+"^",
		"-gravity", "center",
		"-extent", iconGeom,
		"-quality", strconv.Itoa(g.opts.Quality),
		iconPath); err != nil {
		// Thumbnail succeeded; a missing icon only degrades compact pickers.
		return Result{ThumbnailPath: thumbPath}, nil
	}

	return Result{ThumbnailPath: thumbPath, IconPath: iconPath}, nil
}

// Remove deletes the files of a previous capture. Missing files are fine.
func Remove(res Result) {
	for _, path := range []string{res.ThumbnailPath, res.IconPath} {
		if path != "" {
			os.Remove(path)
		}
	}
}

func (g *Grabber) runTool(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%s: %s", name, msg)
		}
		return err
	}
	return nil
}
