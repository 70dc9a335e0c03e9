package advanced

import (
	"github.com/osuushi/meshinset/internal/skeleton"
	"github.com/osuushi/meshinset/internal/trimesh"
	"go.uber.org/zap"
)

// Calc insets the contours of input. Failures panic with a throw.InsetError;
// use meshinset.Inset to get them as errors.
func Calc(input *Input, options *Options) *Result {
	opts := options.withDefaults()
	logger := opts.Logger
	validateInput(input)

	mesh := buildMesh(input, opts.Workers)
	logger.Debug("built triangle mesh",
		zap.Int("verts", len(mesh.Verts())),
		zap.Int("triangles", len(mesh.Triangles())),
		zap.Int("workers", opts.Workers))

	cfg := skeleton.Config{Logger: logger}
	if opts.Debug != nil {
		cfg.Validate = opts.Debug.Validate
		cfg.OnEvent = opts.Debug.OnEvent
		if opts.Debug.DrawDir != "" {
			cfg.Drawer = &trimesh.Drawer{Dir: opts.Debug.DrawDir, Inline: opts.Debug.Inline, SVG: opts.Debug.SVG}
		}
	}
	ss := skeleton.New(mesh, input.Contours, input.InsetAmount, cfg)
	ss.Compute()

	if input.Slope != 0 {
		applySlope(mesh, ss.Heights(), input.Slope)
	}

	result := extract(mesh, input, logger)
	result.Stats = ss.Stats()
	return result
}
