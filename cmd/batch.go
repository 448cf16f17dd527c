package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/boothworks/voterscan/internal/extract"
	"github.com/boothworks/voterscan/internal/ingest"
	anthropicpkg "github.com/boothworks/voterscan/pkg/anthropic"
)

// batchExtensions are the document types picked up from a batch
// directory. Everything else is skipped silently.
var batchExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".pdf":  true,
}

var batchContinueOnError bool

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every scanned page in a directory",
	Long:  "Runs extraction over all supported documents in a directory, writing one <file>.json per page. Batch runs do not touch the interactive session.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir := args[0]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return eris.Wrap(err, "read batch directory")
		}

		var paths []string
		for _, e := range entries {
			if e.IsDir() || !batchExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
		if len(paths) == 0 {
			return eris.Errorf("no supported documents in %s", dir)
		}

		batchID := uuid.NewString()
		zap.L().Info("batch started",
			zap.String("batch_id", batchID),
			zap.Int("documents", len(paths)),
			zap.Int("concurrency", cfg.Batch.Concurrency),
		)

		pipeline := extract.New(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.Batch.RatePerMin)), 1)

		var done, failed atomic.Int64
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.Concurrency)
		for _, path := range paths {
			path := path
			g.Go(func() error {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				if err := batchOne(ctx, pipeline, path); err != nil {
					failed.Add(1)
					zap.L().Error("batch document failed",
						zap.String("batch_id", batchID),
						zap.String("path", path),
						zap.Error(err),
					)
					if batchContinueOnError {
						return nil
					}
					return err
				}
				done.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("Batch %s: %d extracted, %d failed\n", batchID, done.Load(), failed.Load())
		return nil
	},
}

func batchOne(ctx context.Context, pipeline *extract.Pipeline, path string) error {
	doc, err := ingest.Ingest(path)
	if err != nil {
		return err
	}
	rs, err := pipeline.Run(ctx, doc)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal records")
	}
	target := path + ".json"
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return eris.Wrap(err, "write records")
	}
	zap.L().Info("document extracted to file",
		zap.String("path", target),
		zap.Int("voters", len(rs.Voters)),
	)
	return nil
}

func init() {
	batchCmd.Flags().BoolVar(&batchContinueOnError, "continue-on-error", false, "keep going when a document fails")
	rootCmd.AddCommand(batchCmd)
}
