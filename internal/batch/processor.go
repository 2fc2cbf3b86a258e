package batch

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"diced-portraits/internal/bundle"
	"diced-portraits/internal/dice"
	"diced-portraits/internal/progress"
	"diced-portraits/internal/texture"
)

// ErrSkipBundle marks a bundle the task chose not to process. It is logged
// but does not count as a failure.
var ErrSkipBundle = errors.New("skipping")

// Config holds all shared resources for a batch run.
type Config struct {
	Workers int
	Loader  bundle.Loader
	Log     progress.Sink
	// Dirs maps bundle names to output directories, see OutputDirs. Bundles
	// not in it write to their character code.
	Dirs map[string]string
	// Images returns the sprite image loader of one bundle given its output
	// directory. When nil, sprites are reconstructed from the bundle on demand.
	Images func(b *bundle.Bundle, dir string) texture.Loader
}

// BundleContext is the per-bundle state handed to a task. Nothing in it is
// shared with other bundles.
type BundleContext struct {
	Bundle *bundle.Bundle
	Char   string
	Dir    string // slash-separated output directory: "<char>" or "<char>/<bundle>"
	Log    progress.Sink
	Images *texture.Cache
}

// Stats counts the outputs of one bundle.
type Stats struct {
	Saved   int
	Skipped int
}

// Task processes one bundle.
type Task func(ctx *BundleContext) (Stats, error)

// Result holds the outcome of processing one bundle.
type Result struct {
	Bundle  string `json:"bundle"`
	Char    string `json:"char,omitempty"`
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Saved   int    `json:"saved"`
	Omitted int    `json:"omitted"`
	Error   string `json:"error,omitempty"`
}

// Run processes every bundle with a bounded pool of workers. A failure or
// panic in one bundle is recorded in its Result and never stops the others.
func Run(cfg Config, paths []string, task Task) []Result {
	if cfg.Log == nil {
		cfg.Log = progress.Discard
	}
	if cfg.Loader == nil {
		cfg.Loader = bundle.JSONLoader{}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					glog.Infof("[%d/%d] %.2f bundles/sec", p, total, rate)
				}
			}
		}
	}()

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = processBundle(cfg, path, task)
			processed.Add(1)
			return nil
		})
	}
	g.Wait()
	close(done)

	return results
}

func processBundle(cfg Config, path string, task Task) (res Result) {
	res.Bundle = bundle.Name(path)
	cfg.Log.Logf("  %s ...", res.Bundle)

	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic: %v", r)
			glog.Errorf("%s: %+v", res.Bundle, err)
			cfg.Log.Logf("  ERROR in %s: %v", res.Bundle, err)
			res.Success = false
			res.Error = err.Error()
		}
	}()

	b, err := cfg.Loader.Load(path)
	if err != nil {
		return fail(cfg, res, err)
	}
	res.Char = b.CharCode()
	dir, ok := cfg.Dirs[res.Bundle]
	if !ok {
		dir = res.Char
	}

	var loader texture.Loader
	if cfg.Images != nil {
		loader = cfg.Images(b, dir)
	} else {
		loader = FromBundle(b)
	}

	ctx := &BundleContext{
		Bundle: b,
		Char:   res.Char,
		Dir:    dir,
		Log:    progress.Prefixed(cfg.Log, "  ["+res.Char+"] "),
		Images: texture.NewCache(loader),
	}

	stats, err := task(ctx)
	res.Saved, res.Omitted = stats.Saved, stats.Skipped
	if errors.Is(err, ErrSkipBundle) {
		ctx.Log.Logf("%v", err)
		res.Skipped = true
		res.Success = true
		return res
	}
	if err != nil {
		return fail(cfg, res, err)
	}

	res.Success = true
	return res
}

func fail(cfg Config, res Result, err error) Result {
	glog.Errorf("%s: %+v", res.Bundle, err)
	cfg.Log.Logf("  ERROR in %s: %v", res.Bundle, err)
	res.Error = err.Error()
	return res
}

// FromBundle returns a loader that reconstructs sprites from b on demand.
func FromBundle(b *bundle.Bundle) texture.Loader {
	rebuild := dice.Loader(b)
	return texture.LoaderFunc(func(name string) (*image.NRGBA, error) {
		if s, ok := b.Sprite(name); !ok || s.IsAtlasPreview() {
			return nil, texture.ErrNotFound
		}
		return rebuild(name)
	})
}

// Summary totals a run.
func Summary(results []Result) (ok, skipped, failed, saved int) {
	for _, r := range results {
		switch {
		case !r.Success:
			failed++
		case r.Skipped:
			skipped++
		default:
			ok++
		}
		saved += r.Saved
	}
	return
}
