package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset"
	"github.com/osuushi/meshinset/advanced"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

// Insets the contours of a mesh read as YAML, and writes the result as YAML.
//
//	verts: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0]]
//	faces: [[0, 1, 2, 3]]
//	contours: [[0, 1, 2, 3]]
//
// Faces and contours must wind counterclockwise. None of the other
// requirements on the mesh are checked before the sweep starts.
func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "meshinset: %v\n", err)
		os.Exit(1)
	}
}

type meshDoc struct {
	Verts    [][]float64 `yaml:"verts"`
	Faces    [][]int     `yaml:"faces"`
	Contours [][]int     `yaml:"contours"`
}

type resultDoc struct {
	meshDoc     `yaml:",inline"`
	ContourOrig []int          `yaml:"contour_orig,omitempty"`
	OrigVert    []int          `yaml:"orig_vert,omitempty"`
	OrigFace    []int          `yaml:"orig_face,omitempty"`
	Stats       advanced.Stats `yaml:"stats"`
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	app := kingpin.New("meshinset", "Inset the contours of a polygon mesh.")
	app.Writer(stderr)
	app.Terminate(nil)
	amount := app.Flag("amount", "Distance to move the contours.").Short('a').Required().Float64()
	slope := app.Flag("slope", "Raise the inset by this much per unit of distance.").Short('s').Default("0").Float64()
	ids := app.Flag("ids", "Include the input vertex and face of every output element.").Bool()
	workers := app.Flag("workers", "Goroutines to triangulate faces on. Defaults to one per CPU.").Int()
	drawDir := app.Flag("draw", "Write snapshots of the triangle mesh to this directory.").ExistingDir()
	svgOut := app.Flag("svg", "Write the snapshots as SVG instead of PNG.").Bool()
	inline := app.Flag("imgcat", "Also show the snapshots on stderr as inline images (iTerm only).").Bool()
	validate := app.Flag("validate", "Check the mesh after every event. Slow.").Bool()
	verbose := app.Flag("verbose", "Log every event.").Short('v').Bool()
	inputPath := app.Arg("input", "YAML mesh to read. Defaults to stdin.").String()

	if _, err := app.Parse(args); err != nil {
		return err
	}

	logConfig := zap.NewDevelopmentConfig()
	if !*verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	defer logger.Sync()

	in := stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			return errors.Wrap(err, "opening input")
		}
		defer f.Close()
		in = f
	}
	var doc meshDoc
	if err := yaml.NewDecoder(in).Decode(&doc); err != nil {
		return errors.Wrap(err, "reading input")
	}
	input, err := doc.toInput()
	if err != nil {
		return err
	}
	input.InsetAmount = *amount
	input.Slope = *slope
	input.NeedIDs = *ids

	options := &meshinset.Options{Workers: *workers, Logger: logger}
	if *drawDir != "" || *validate {
		options.Debug = &advanced.DebugOptions{DrawDir: *drawDir, SVG: *svgOut, Validate: *validate}
		if *inline {
			options.Debug.Inline = stderr
		}
	}

	result, err := meshinset.Inset(input, options)
	if err != nil {
		return errors.Wrap(err, "inset failed")
	}
	logger.Info("inset done", zap.Int("verts", len(result.Verts)), zap.Int("faces", len(result.Faces)))

	encoder := yaml.NewEncoder(stdout)
	defer encoder.Close()
	return encoder.Encode(fromResult(result))
}

func (doc *meshDoc) toInput() (*meshinset.Input, error) {
	input := &meshinset.Input{Faces: doc.Faces, Contours: doc.Contours}
	for i, co := range doc.Verts {
		if len(co) != 3 {
			return nil, errors.Wrapf(meshinset.ErrInvalidInput, "vertex %d has %d coordinates", i, len(co))
		}
		input.Verts = append(input.Verts, mgl64.Vec3{co[0], co[1], co[2]})
	}
	return input, nil
}

func fromResult(result *meshinset.Result) *resultDoc {
	doc := &resultDoc{
		meshDoc: meshDoc{
			Faces:    result.Faces,
			Contours: result.Contours,
		},
		ContourOrig: result.ContourOrig,
		OrigVert:    result.OrigVert,
		OrigFace:    result.OrigFace,
		Stats:       result.Stats,
	}
	for _, co := range result.Verts {
		doc.Verts = append(doc.Verts, []float64{co[0], co[1], co[2]})
	}
	return doc
}
