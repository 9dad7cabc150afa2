package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"sandfall/internal/sand"
	"sandfall/internal/scene"
)

// runHeadless simulates to the end and prints a one-line summary to out.
func runHeadless(sc *scene.Scene, config *Config, opts *options, logger *slog.Logger, out io.Writer) error {
	world, err := sand.NewWorld(sc, config.SimMode())
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := world.Run(opts.maxSteps)
	logger.Info("run finished",
		"mode", world.Mode().String(),
		"outcome", result.Outcome.String(),
		"settled", world.Settled(),
		"steps", world.Steps(),
		"elapsed", time.Since(start))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, describeEnd(result, world.Settled()))

	if opts.pngPath != "" {
		if err := plainCanvas.ExportToPNG(world, opts.pngPath, caption(world)); err != nil {
			return fmt.Errorf("export png: %w", err)
		}
		logger.Info("exported frame", "format", "png", "path", opts.pngPath)
	}
	if opts.txtPath != "" {
		if err := writeFrameTXT(plainCanvas, world, opts.txtPath); err != nil {
			return fmt.Errorf("export txt: %w", err)
		}
		logger.Info("exported frame", "format", "txt", "path", opts.txtPath)
	}
	return nil
}
