package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/urfave/cli/v2"

	"diced-portraits/internal/config"
)

func main() {
	// glog registers on the standard flag set; urfave/cli parses its own.
	flag.CommandLine.Parse([]string{})
	flag.Set("logtostderr", "true")
	defer glog.Flush()

	app := cli.NewApp()

	app.Name = "dicer"
	app.Usage = "Rebuild diced sprites and composite character portraits"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to config.json file",
		},
		&cli.StringFlag{
			Name:  "data",
			Usage: "base directory holding bundles/ (default: auto-detect)",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "output directory of the running command",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "bundles processed in parallel (default: NumCPU)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "output image format: png or webp",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Before = func(c *cli.Context) error {
		if c.Bool("verbose") {
			flag.Set("v", "2")
		}
		return nil
	}

	app.Commands = []*cli.Command{
		reconstructCommand(),
		compositeCommand(),
		previewCommand(),
		inspectCommand(),
		trimCommand(),
		showCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the optional config file and applies global flags.
// output is routed to the directory the command writes to.
func loadConfig(c *cli.Context, out func(*config.Flags, string)) (config.Config, error) {
	var cfg config.Config
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, cli.Exit(err, 1)
		}
	}

	flags := config.Flags{
		DataDir: c.String("data"),
		Format:  c.String("format"),
		Workers: c.Int("workers"),
	}
	if o := c.String("output"); o != "" && out != nil {
		out(&flags, o)
	}
	cfg.Resolve(flags)

	if err := cfg.Validate(); err != nil {
		return cfg, cli.Exit(err, 1)
	}
	return cfg, nil
}

func toSprites(f *config.Flags, dir string)   { f.SpritesDir = dir }
func toPortraits(f *config.Flags, dir string) { f.PortraitsDir = dir }
