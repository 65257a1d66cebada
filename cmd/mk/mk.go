package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rprtr258/mk"
	md "github.com/rprtr258/mk/contrib/markdown"
	"github.com/urfave/cli/v2"

	bmpfilter "github.com/rprtr258/bmpfilter/pkg"
)

const imgsDir = "img/static"

// ensureOrig converts orig.png into the bitmap every sample is made from.
func ensureOrig() (string, error) {
	origFilename := filepath.Join(imgsDir, "orig.bmp")
	if _, err := os.Stat(origFilename); err == nil {
		return origFilename, nil
	}
	png, err := os.ReadFile(filepath.Join(imgsDir, "orig.png"))
	if err != nil {
		return "", err
	}
	bmp, err := bmpfilter.ImageConverter{}.Convert(png, ".png")
	if err != nil {
		return "", err
	}
	return origFilename, os.WriteFile(origFilename, bmp, 0o644)
}

func main() {
	if err := (&cli.App{
		Name:  "mk",
		Usage: "commands runner",
		Commands: []*cli.Command{
			{
				Name:  "imgs",
				Usage: "update example imgs from orig.png",
				Action: func(*cli.Context) error {
					bmpfilterCmd := mk.ShellAlias("go", "run", "./cmd/bmpfilter")
					origFilename, err := ensureOrig()
					if err != nil {
						return err
					}

					for destination, args := range map[string][]string{
						"grayscale":  {"grayscale"},
						"sepia":      {"sepia", "-s", "50"},
						"flip":       {"flip"},
						"blur":       {"blur", "-s", "5"},
						"sharpen":    {"sharpen", "-s", "2"},
						"edgedetect": {"edgedetect"},
						"denoise":    {"denoise", "-s", "3"},
						"ascii":      {"ascii", "-w", "80"},
					} {
						args = append(args, "-i", origFilename)
						resultFilename, _ := mk.Must2(bmpfilterCmd(args...))
						resultFilename = strings.TrimSpace(resultFilename)
						mk.Must0(os.Rename(resultFilename, filepath.Join(imgsDir, destination+filepath.Ext(resultFilename))))
					}

					return nil
				},
			},
			{
				Name:  "readme",
				Usage: "compile readme file",
				Action: func(*cli.Context) error {
					b := &bytes.Buffer{}
					md.H1(b, "bmpfilter - 24-bit bitmap filters")

					md.H2(b, "Install")
					md.Code(b, "bash", "go install github.com/rprtr258/bmpfilter/cmd/bmpfilter@latest")

					md.H2(b, "Usage")
					usage, _ := mk.Must2(mk.ShellCmd("go", "run", "./cmd/bmpfilter", "--help"))
					md.Code(b, "php", usage)

					rows := make([][]string, 0, len(bmpfilter.Filters))
					for i, f := range bmpfilter.Filters {
						param := "-"
						if bmpfilter.Parametrized(f) {
							param = "strength 1-100"
						}
						if _, ok := f.(bmpfilter.ASCII); ok {
							param = "width in glyphs"
						}
						rows = append(rows, []string{fmt.Sprint(i + 1), f.Name(), param})
					}
					md.H2(b, "Filters")
					md.Table(b, []string{"select", "filter", "parameter"}, rows)

					examples, err := fs.Glob(os.DirFS(imgsDir), "*.bmp")
					if err != nil {
						return err
					}
					if len(examples) > 0 {
						md.H2(b, "Examples")
						for _, example := range examples {
							fmt.Fprintf(b, "- [%s](./%s/%s)\n", strings.TrimSuffix(example, ".bmp"), imgsDir, example)
						}
						b.WriteString("\n")
					}

					if ascii, err := os.ReadFile(filepath.Join(imgsDir, "ascii.txt")); err == nil {
						md.H2(b, "ASCII")
						md.Code(b, "", string(ascii))
					}

					mk.Must0(os.WriteFile("README.md", b.Bytes(), 0o644))

					return nil
				},
			},
		},
	}).Run(os.Args); err != nil {
		log.Fatal(err.Error())
	}
}
