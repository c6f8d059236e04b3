package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"interview-ingest-go/internal/chunker"
	"interview-ingest-go/internal/downloader"
	"interview-ingest-go/internal/embedder"
	"interview-ingest-go/internal/labeler"
	"interview-ingest-go/internal/metadata"
	"interview-ingest-go/internal/pipeline"
	"interview-ingest-go/internal/sentence"
	"interview-ingest-go/internal/tokenizer"
	"interview-ingest-go/internal/transcriber"
	"interview-ingest-go/internal/vectorstore"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var noSkip bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download audio, then transcribe and diarize it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(ctx, !noSkip)
		},
	}
	cmd.Flags().BoolVar(&noSkip, "no-skip-existing", false, "Re-process rows whose raw transcript already exists")
	return cmd
}

func runFetch(ctx *commandContext, skipExisting bool) error {
	cfg := ctx.cfg
	rows, err := metadata.LoadSources(cfg.Paths.SourcesFile)
	if err != nil {
		return err
	}
	ctx.log.WithStage("fetch").WithField("rows", len(rows)).Info("loaded interview sources")

	dl := downloader.NewYtDlp(cfg.Services.YtDlpPath, cfg.Paths.AudioDir, ctx.log)
	tr := transcriber.NewClient(cfg.Services.TranscribeURL, cfg.Chunking.Language, ctx.log)
	orch := pipeline.New(dl, tr, cfg.Paths.RawOutputDir, skipExisting, ctx.log)

	results, err := orch.Run(cmdContext(), rows)
	if err != nil {
		return err
	}
	pipeline.RenderSummary(os.Stdout, results)
	if failed := pipeline.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d rows failed", failed, len(results))
	}
	return nil
}

func newLabelCommand(ctx *commandContext) *cobra.Command {
	var rawDir, csvFile, cleanDir string

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Re-assign speakers to roles using the metadata table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rawDir == "" {
				rawDir = ctx.cfg.Paths.RawOutputDir
			}
			if csvFile == "" {
				csvFile = ctx.cfg.Paths.DiarizeFile
			}
			if cleanDir == "" {
				cleanDir = ctx.cfg.Paths.CleanDir
			}
			return runLabel(ctx, rawDir, csvFile, cleanDir)
		},
	}
	cmd.Flags().StringVar(&rawDir, "raw-dir", "", "Folder containing raw transcript JSON files")
	cmd.Flags().StringVar(&csvFile, "csv", "", "Table with candidate / interviewer speaker IDs")
	cmd.Flags().StringVar(&cleanDir, "clean-dir", "", "Destination for *_cleaned.json")
	return cmd
}

func runLabel(ctx *commandContext, rawDir, csvFile, cleanDir string) error {
	rows, rowErrs, err := metadata.LoadAssignments(csvFile)
	if err != nil {
		return err
	}
	for _, e := range rowErrs {
		ctx.log.WithStage("label").WithField("error", e.Error()).Warn("skipping invalid metadata row")
	}

	written, err := labeler.NewCleaner(rawDir, cleanDir, ctx.log).Run(rows)
	if err != nil {
		return err
	}
	ctx.log.WithStage("label").WithField("written", written).Info("labeling finished")
	return nil
}

func newChunkCommand(ctx *commandContext) *cobra.Command {
	var cleanDir, output string

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Split labeled transcripts into token-bounded overlapping chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cleanDir == "" {
				cleanDir = ctx.cfg.Paths.CleanDir
			}
			if output == "" {
				output = filepath.Join(ctx.cfg.Paths.ProcessedDir, "chunks.parquet")
			}
			return runChunk(ctx, cleanDir, output)
		},
	}
	cmd.Flags().StringVar(&cleanDir, "clean-dir", "", "Folder containing *_cleaned.json files")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output parquet path")
	return cmd
}

func runChunk(ctx *commandContext, cleanDir, output string) error {
	cfg := ctx.cfg

	// tokenizer and segmenter construction is shared setup: a failure here
	// aborts the run, no document could be chunked correctly without them
	enc, err := tokenizer.New(cfg.Tokenizer)
	if err != nil {
		return err
	}
	seg, err := sentence.NewSegmenter(cfg.Chunking.Language, cfg.Chunking.SentenceModelFile)
	if err != nil {
		return err
	}

	b := chunker.New(enc, seg, cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	n, err := b.Run(ctx.log, cleanDir, output)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d chunks -> %s\n", n, output)
	return nil
}

func newPrepCommand(ctx *commandContext) *cobra.Command {
	var noSkip bool

	cmd := &cobra.Command{
		Use:   "prep",
		Short: "Convenience wrapper: fetch, then label",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.log.Info("STEP 1/2 - fetch")
			if err := runFetch(ctx, !noSkip); err != nil {
				return err
			}
			ctx.log.Info("STEP 2/2 - label")
			return runLabel(ctx,
				ctx.cfg.Paths.RawOutputDir, ctx.cfg.Paths.DiarizeFile, ctx.cfg.Paths.CleanDir)
		},
	}
	cmd.Flags().BoolVar(&noSkip, "no-skip-existing", false, "Forwarded to fetch")
	return cmd
}

func newEmbedCommand(ctx *commandContext) *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Attach embedding vectors to a chunk table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = filepath.Join(ctx.cfg.Paths.ProcessedDir, "chunks.parquet")
			}
			if output == "" {
				output = filepath.Join(ctx.cfg.Paths.ProcessedDir, "embeddings.parquet")
			}
			client := embedder.NewClient(ctx.cfg.Services.EmbedURL, ctx.cfg.Services.EmbedBatchSize, ctx.log)
			n, err := client.Run(cmdContext(), input, output)
			if err != nil {
				return err
			}
			fmt.Printf("Embedded %d chunks -> %s\n", n, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input chunks parquet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output parquet with embedding column")
	return cmd
}

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load an embedded chunk table into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = filepath.Join(ctx.cfg.Paths.ProcessedDir, "embeddings.parquet")
			}
			n, err := vectorstore.NewLoader(ctx.cfg.Database.DSN, ctx.log).Run(cmdContext(), input)
			if err != nil {
				return err
			}
			fmt.Printf("Inserted %d rows\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input embeddings parquet")
	return cmd
}
