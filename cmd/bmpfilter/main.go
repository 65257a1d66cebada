package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	bmpfilter "github.com/rprtr258/bmpfilter/pkg"
)

func fileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "source image, bitmap or anything convertible to it, optionally .zst compressed",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "result file, defaults to <input>_<filter>.bmp (.txt for ascii) next to input",
		},
	}
}

func strengthFlag(usage string, value int) *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "strength",
		Aliases: []string{"s"},
		Usage:   usage,
		Value:   value,
	}
}

type filterCommand struct {
	name  string
	usage string
	param *cli.IntFlag
	build func(param int) bmpfilter.Filter
}

var _filterCommands = []filterCommand{
	{"grayscale", "average channels into gray", nil,
		func(int) bmpfilter.Filter { return bmpfilter.Grayscale{} }},
	{"sepia", "sepia tone", strengthFlag("strength 1-100, accepted for compatibility", 50),
		func(s int) bmpfilter.Filter { return bmpfilter.Sepia{Strength: s} }},
	{"flip", "mirror horizontally", nil,
		func(int) bmpfilter.Filter { return bmpfilter.Flip{} }},
	{"blur", "gaussian blur", strengthFlag("number of blur passes, 1-100", 1),
		func(s int) bmpfilter.Filter { return bmpfilter.GaussianBlur{Passes: s} }},
	{"sharpen", "unsharp masking", strengthFlag("sharpening strength 1-100", 1),
		func(s int) bmpfilter.Filter { return bmpfilter.Sharpen{Strength: s} }},
	{"edgedetect", "sobel edge detection", nil,
		func(int) bmpfilter.Filter { return bmpfilter.EdgeDetection{} }},
	{"denoise", "median noise reduction", strengthFlag("window strength 1-100", 1),
		func(s int) bmpfilter.Filter { return bmpfilter.NoiseReduction{Strength: s} }},
	{"ascii", "render ascii art text", &cli.IntFlag{
		Name:     "width",
		Aliases:  []string{"w"},
		Usage:    "text width in glyphs, at most image width and height",
		Required: true,
	}, func(w int) bmpfilter.Filter { return bmpfilter.ASCII{Width: w} }},
}

func converter(ctx *cli.Context) bmpfilter.Converter {
	if ctx.Bool("no-convert") {
		return nil
	}
	return bmpfilter.ImageConverter{}
}

func apply(ctx *cli.Context, f bmpfilter.Filter) error {
	resultFilename, err := bmpfilter.ApplyFilterFile(ctx.String("input"), ctx.String("output"), f, converter(ctx))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %q", err), 1)
	}
	fmt.Fprintln(ctx.App.Writer, resultFilename)
	return nil
}

func (fc filterCommand) command() *cli.Command {
	flags := fileFlags()
	if fc.param != nil {
		param := *fc.param
		flags = append(flags, &param)
	}
	return &cli.Command{
		Name:  fc.name,
		Usage: fc.usage,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			param := 0
			if fc.param != nil {
				param = ctx.Int(fc.param.Name)
			}
			f := fc.build(param)
			if err := f.Validate(nil); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %q", err), 1)
			}
			return apply(ctx, f)
		},
	}
}

// selectCommand picks the filter by its menu number, 1 to 8.
func selectCommand() *cli.Command {
	return &cli.Command{
		Name:  "select",
		Usage: "apply filter by number: 1 grayscale, 2 sepia, 3 flip, 4 blur, 5 sharpen, 6 edge detection, 7 noise reduction, 8 ascii",
		Flags: append(fileFlags(),
			&cli.IntFlag{
				Name:     "filter",
				Aliases:  []string{"f"},
				Usage:    "filter number 1-8",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "param",
				Aliases: []string{"p"},
				Usage:   "strength 1-100, or text width for ascii",
			},
		),
		Action: func(ctx *cli.Context) error {
			f, err := bmpfilter.FilterBySelector(ctx.Int("filter"), ctx.Int("param"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %q", err), 1)
			}
			return apply(ctx, f)
		},
	}
}

func setup(ctx *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(ctx.String("log-level"))); err != nil {
		return cli.Exit(fmt.Sprintf("Error: invalid log level %q", ctx.String("log-level")), 1)
	}
	bmpfilter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	bmpfilter.SetMaxWorkers(ctx.Int("workers"))
	return nil
}

func newApp() *cli.App {
	commands := make([]*cli.Command, 0, len(_filterCommands)+1)
	for _, fc := range _filterCommands {
		commands = append(commands, fc.command())
	}
	commands = append(commands, selectCommand())

	return &cli.App{
		Name:  "bmpfilter",
		Usage: "24-bit bitmap filters",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "warn",
				EnvVars: []string{"BMPFILTER_LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "goroutines for neighbourhood filters, 0 means GOMAXPROCS",
				EnvVars: []string{"BMPFILTER_WORKERS"},
			},
			&cli.BoolFlag{
				Name:    "no-convert",
				Usage:   "fail on non-bitmap input instead of converting it",
				EnvVars: []string{"BMPFILTER_NO_CONVERT"},
			},
		},
		Before:   setup,
		Commands: commands,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
