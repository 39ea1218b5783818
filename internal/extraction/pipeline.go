// Package extraction turns a photograph of a paper receipt into structured
// JSON by prompting a hosted vision model and tolerantly parsing its reply.
package extraction

import (
	"context"
	"image"
	"log/slog"

	"github.com/ppongpeauk/tabbit/internal/preprocess"
)

// Options configures a single extraction run. Model, credentials, and
// endpoint are constructor-time configuration of the Extractor, not per-run
// options.
type Options struct {
	// Schema overrides the default output schema rendered into the prompt
	Schema Schema
	// SavePreprocessedPath persists the normalized image for inspection
	SavePreprocessedPath string
	// SkipNormalization decodes the raw file directly, bypassing the
	// width cap; the encoder's own dimension cap still applies
	SkipNormalization bool
}

// Pipeline sequences the extraction stages: normalize, encode, build
// instructions, call the model, parse the reply. Each run owns its own image
// buffer and request; concurrent runs are safe.
type Pipeline struct {
	extractor    Extractor
	maxWidth     int
	maxDimension int
}

// NewPipeline creates a Pipeline with the default resize caps.
func NewPipeline(extractor Extractor) *Pipeline {
	return NewPipelineWithLimits(extractor, preprocess.DefaultMaxWidth, DefaultMaxDimension)
}

// NewPipelineWithLimits creates a Pipeline with explicit caps. The
// normalizer's width cap and the encoder's dimension cap are deliberately
// independent values; collapsing them changes observable output sizes.
func NewPipelineWithLimits(extractor Extractor, maxWidth, maxDimension int) *Pipeline {
	return &Pipeline{
		extractor:    extractor,
		maxWidth:     maxWidth,
		maxDimension: maxDimension,
	}
}

// Run processes one receipt image and returns the extraction result. Decode,
// auth, and transport failures propagate unmodified from the stage that
// detected them; only a malformed model reply is converted into a data value,
// via Parse.
func (p *Pipeline) Run(ctx context.Context, sourcePath string, opts Options) (Result, error) {
	var img image.Image
	var err error

	if opts.SkipNormalization {
		slog.Info("Skipping preprocessing", "path", sourcePath)
		img, err = preprocess.Load(sourcePath)
	} else {
		slog.Info("Preprocessing receipt image", "path", sourcePath, "max_width", p.maxWidth)
		img, err = preprocess.Normalize(sourcePath, p.maxWidth)
	}
	if err != nil {
		return nil, err
	}

	if opts.SavePreprocessedPath != "" && !opts.SkipNormalization {
		if err := preprocess.Save(img, opts.SavePreprocessedPath); err != nil {
			// Convenience write only; the run continues without it
			slog.Warn("Failed to save preprocessed image", "path", opts.SavePreprocessedPath, "error", err)
		}
	}

	slog.Info("Encoding image")
	imageBase64, err := Encode(img, p.maxDimension)
	if err != nil {
		return nil, err
	}

	instructions, err := BuildInstructions(opts.Schema)
	if err != nil {
		return nil, err
	}

	slog.Info("Sending to model for parsing")
	reply, completionTokens, err := p.extractor.Extract(ctx, instructions, imageBase64)
	if err != nil {
		return nil, err
	}
	slog.Info("Model reply received", "completion_tokens", completionTokens)

	return Parse(reply), nil
}
