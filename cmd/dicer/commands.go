package main

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"diced-portraits/internal/batch"
	"diced-portraits/internal/bundle"
	"diced-portraits/internal/catalog"
	"diced-portraits/internal/config"
	"diced-portraits/internal/postprocess"
	"diced-portraits/internal/progress"
	"diced-portraits/internal/termview"
	"diced-portraits/internal/texture"
	"diced-portraits/internal/variant"
)

func reconstructCommand() *cli.Command {
	return &cli.Command{
		Name:      "reconstruct",
		Usage:     "Rebuild standalone sprite images from diced atlases",
		ArgsUsage: "[CHAR|BUNDLE]",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c, toSprites)
			if err != nil {
				return err
			}
			task := batch.Reconstruct(batch.ReconstructOptions{
				OutDir: cfg.SpritesDir,
				Format: cfg.Format,
			})
			return runBatch(c, cfg, "reconstruct", cfg.SpritesDir, batch.Config{}, task)
		},
	}
}

func compositeCommand() *cli.Command {
	return &cli.Command{
		Name:      "composite",
		Usage:     "Composite character portraits from reconstructed sprites",
		ArgsUsage: "[CHAR|BUNDLE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rev", Usage: "also write mirrored-accessory variants"},
			&cli.BoolFlag{Name: "extra", Usage: "also write variants with numbered extras"},
			&cli.BoolFlag{Name: "blush", Usage: "also write variants with the cheek overlay"},
			&cli.BoolFlag{Name: "all", Usage: "enable --rev, --extra and --blush"},
			&cli.BoolFlag{Name: "from-bundle", Usage: "rebuild sprites from the bundle instead of reading them from disk"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c, toPortraits)
			if err != nil {
				return err
			}

			opts := variantOptions(c.Bool("rev"), c.Bool("extra"), c.Bool("blush"), c.Bool("all"))

			cat, err := catalog.Open(cfg.CatalogDB)
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer cat.Close()

			bc := batch.Config{}
			if !c.Bool("from-bundle") {
				ext := postprocess.Ext(cfg.Format)
				bc.Images = func(b *bundle.Bundle, dir string) texture.Loader {
					idx := texture.BuildIndex(filepath.Join(cfg.SpritesDir, filepath.FromSlash(dir)), ext)
					glog.V(2).Infof("%s: %d sprite file(s) in %s", b.Name, idx.Len(), dir)
					return idx
				}
			}

			task := batch.Composite(batch.CompositeOptions{
				OutDir:          cfg.PortraitsDir,
				Format:          cfg.Format,
				Variants:        opts,
				PlaceholderBody: cfg.PlaceholderBody,
				Catalog:         cat,
			})
			return runBatch(c, cfg, "composite", cfg.PortraitsDir, bc, task)
		},
	}
}

// variantOptions maps the composite flags to the variant axes; all turns
// every axis on.
func variantOptions(rev, extra, blush, all bool) variant.Options {
	if all {
		return variant.All()
	}
	return variant.Options{Rev: rev, Extra: extra, Blush: blush}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Dump a JSON summary of each bundle",
		ArgsUsage: "[CHAR|BUNDLE]",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c, nil)
			if err != nil {
				return err
			}
			if o := c.String("output"); o != "" {
				cfg.InspectionDir = o
			}
			return runBatch(c, cfg, "inspect", cfg.InspectionDir, batch.Config{}, batch.Inspect(cfg.InspectionDir))
		},
	}
}

// runBatch selects bundles, runs task over them and writes the progress log
// and manifest into outDir.
func runBatch(c *cli.Context, cfg config.Config, name, outDir string, bc batch.Config, task batch.Task) error {
	all, err := bundle.List(cfg.BundlesDir)
	if err != nil {
		return cli.Exit(err, 1)
	}
	loader := bundle.JSONLoader{}
	paths := bundle.Select(all, c.Args().First(), loader)
	if len(paths) == 0 {
		fmt.Println("No bundles to process.")
		return nil
	}

	logPath := filepath.Join(outDir, "progress.log")
	sink, err := progress.NewFileSink(logPath, os.Stdout)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer sink.Close()

	sink.Logf("%s: %d bundle(s) -> %s", name, len(paths), outDir)
	sink.Logf("Progress log: %s", logPath)
	glog.V(2).Infof("workers=%d format=%s", cfg.Workers, cfg.Format)

	bc.Workers = cfg.Workers
	bc.Loader = loader
	bc.Log = sink
	// Assigned over every bundle so each command agrees on the layout.
	bc.Dirs = batch.OutputDirs(loader, all)

	start := time.Now()
	results := batch.Run(bc, paths, task)

	ok, skipped, failed, saved := batch.Summary(results)
	sink.Logf("%d ok, %d skipped, %d failed, %d file(s) written in %.1fs",
		ok, skipped, failed, saved, time.Since(start).Seconds())

	err = batch.WriteManifest(filepath.Join(outDir, "manifest.json"), batch.Manifest{
		Command:   name,
		Generated: time.Now().UTC(),
		Format:    cfg.Format,
		Bundles:   results,
	})
	if err != nil {
		glog.Errorf("writing manifest: %v", err)
	}

	sink.Logf("Done.")
	return nil
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Assemble the portraits of one body into an animated GIF",
		ArgsUsage: "[CHAR] [BODY]",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "fps", Usage: "frames per second (default: gif_fps)"},
			&cli.StringFlag{Name: "bg", Usage: "background colour as hex RGB (default: gif_background)"},
			&cli.StringFlag{Name: "out", Usage: "output GIF path (default: CHAR_BODY_preview.gif)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c, toPortraits)
			if err != nil {
				return err
			}

			char, body := "avi", "b1"
			if c.NArg() > 0 {
				char = c.Args().Get(0)
			}
			if c.NArg() > 1 {
				body = c.Args().Get(1)
			}

			fps := cfg.GIFFPS
			if c.IsSet("fps") {
				fps = c.Float64("fps")
			}
			if fps <= 0 {
				return cli.Exit("fps must be positive", 1)
			}
			bgHex := cfg.GIFBackground
			if c.IsSet("bg") {
				bgHex = c.String("bg")
			}
			if !strings.HasPrefix(bgHex, "#") {
				bgHex = "#" + bgHex
			}
			bg, err := colorful.Hex(bgHex)
			if err != nil {
				return cli.Exit(errors.Wrapf(err, "bad background %q", bgHex), 1)
			}

			files, err := previewFrames(cfg, char, body)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if len(files) == 0 {
				return cli.Exit(fmt.Sprintf("no portraits matching %s_* for %s", body, char), 1)
			}
			fmt.Printf("Found %d frames for '%s/%s'\n", len(files), char, body)

			var frames []image.Image
			for _, f := range files {
				img, err := texture.Load(f)
				if err != nil {
					return cli.Exit(err, 1)
				}
				frames = append(frames, img)
			}

			opts := postprocess.PreviewOptions{FPS: fps, Background: bg}
			anim, err := postprocess.PreviewGIF(frames, opts)
			if err != nil {
				return cli.Exit(err, 1)
			}

			out := c.String("out")
			if out == "" {
				out = fmt.Sprintf("%s_%s_preview.gif", char, body)
			}
			var buf bytes.Buffer
			if err := postprocess.WriteGIF(&buf, anim); err != nil {
				return cli.Exit(err, 1)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return cli.Exit(err, 1)
			}

			fmt.Printf("Saved %s  (%d frames, %dms/frame, %d KB)\n",
				out, len(frames), opts.Delay()*10, buf.Len()/1024)
			return nil
		},
	}
}

// previewFrames lists the standard-variant portraits of body, from the
// catalog when it knows any, else from the character directory.
func previewFrames(cfg config.Config, char, body string) ([]string, error) {
	dir := filepath.Join(cfg.PortraitsDir, char)

	if _, err := os.Stat(cfg.CatalogDB); err == nil {
		cat, err := catalog.Open(cfg.CatalogDB)
		if err == nil {
			entries, err := cat.Frames(char, body)
			cat.Close()
			if err != nil {
				return nil, err
			}
			var files []string
			for _, e := range entries {
				if p := filepath.Join(dir, filepath.FromSlash(e.Path)); fileExists(p) {
					files = append(files, p)
				}
			}
			if len(files) > 0 {
				sort.Strings(files)
				return files, nil
			}
		} else {
			glog.Warningf("catalog unavailable, listing %s: %v", dir, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	ext := postprocess.Ext(cfg.Format)
	var files []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, body+"_") || !strings.EqualFold(filepath.Ext(n), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, n))
	}
	sort.Strings(files)
	return files, nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func trimCommand() *cli.Command {
	return &cli.Command{
		Name:      "trim",
		Usage:     "Strip everything before a signature marker from each file",
		ArgsUsage: "INPUT-DIR [OUTPUT-DIR]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "marker", Value: bundle.DefaultMarker, Usage: "signature to trim to, e.g. UnityFS or HCA"},
			&cli.StringFlag{Name: "ext", Usage: "replace the extension of written files"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
			}
			in := c.Args().Get(0)
			out := c.Args().Get(1)
			if out == "" {
				out = in + "_trimmed"
			}
			marker := []byte(c.String("marker"))
			if len(marker) == 0 {
				return cli.Exit("empty marker", 1)
			}

			entries, err := os.ReadDir(in)
			if err != nil {
				return cli.Exit(err, 1)
			}

			trimmed, skipped := 0, 0
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				src := filepath.Join(in, e.Name())
				dst := bundle.TrimTarget(src, out, c.String("ext"))
				n, err := bundle.Trim(src, dst, marker)
				switch {
				case errors.Is(err, bundle.ErrMarkerNotFound), errors.Is(err, bundle.ErrAlreadyTrimmed):
					fmt.Printf("  SKIP %s: %v\n", e.Name(), err)
					skipped++
				case err != nil:
					return cli.Exit(err, 1)
				default:
					fmt.Printf("  %s: dropped %d bytes -> %s\n", e.Name(), n, dst)
					trimmed++
				}
			}
			fmt.Printf("Done: %d trimmed, %d skipped\n", trimmed, skipped)
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print an image on the terminal",
		ArgsUsage: "IMAGE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "blocks", Usage: "always use coloured blocks"},
			&cli.BoolFlag{Name: "256", Usage: "use 256-colour blocks"},
			&cli.UintFlag{Name: "cols", Value: 160, Usage: "maximum width in terminal columns"},
			&cli.UintFlag{Name: "rows", Value: 80, Usage: "maximum height in terminal rows"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
			}
			img, err := texture.Load(c.Args().First())
			if err != nil {
				return cli.Exit(err, 1)
			}

			opts := termview.Options{MaxCols: c.Uint("cols"), MaxRows: c.Uint("rows")}
			switch {
			case c.Bool("256"):
				opts.Mode = termview.Color256
			case c.Bool("blocks"):
				opts.Mode = termview.TrueColor
			}
			return termview.Print(os.Stdout, img, opts)
		},
	}
}
