package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/obrusnev/docqa-assistant/internal/bootstrap"
	"github.com/obrusnev/docqa-assistant/internal/config"
	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

func main() {
	uploadPath := flag.String("upload", "", "path of a document to ingest and process")
	query := flag.String("query", "", "question to retrieve context for")
	docID := flag.String("doc", "", "document id to query")
	budget := flag.Int("budget", 0, "token budget override for the assembled context")
	flag.Parse()

	if *uploadPath == "" && *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{ServiceName: "docqa-search"})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if *uploadPath != "" {
		if err := runUpload(ctx, app, *uploadPath); err != nil {
			log.Fatalf("upload error: %v", err)
		}
	}

	if *query != "" {
		if *docID == "" {
			log.Fatalf("-query requires -doc")
		}
		if err := runQuery(ctx, app, *docID, *query, *budget); err != nil {
			log.Fatalf("query error: %v", err)
		}
	}
}

// runUpload ingests the file and processes it synchronously, bypassing the
// queue so the document is queryable as soon as the command returns.
func runUpload(ctx context.Context, app *bootstrap.App, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc, err := app.IngestUC.Upload(ctx, filepath.Base(path), mimeType, f)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded document %s\n", doc.ID)

	if err := app.ProcessUC.ProcessByID(ctx, doc.ID); err != nil {
		return fmt.Errorf("process document: %w", err)
	}

	processed, err := app.Repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	fmt.Printf("processed: %d pages, %d chunks, %d groups\n",
		processed.PageCount, processed.ChunkCount, processed.GroupCount)
	return nil
}

func runQuery(ctx context.Context, app *bootstrap.App, docID, query string, budget int) error {
	result, err := app.RetrieveUC.Retrieve(ctx, domain.RetrieveRequest{
		DocumentID:  docID,
		Query:       query,
		TokenBudget: budget,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.Context)
	fmt.Println()
	fmt.Printf("query type: %s, tokens used: %d\n", result.Meta.QueryType, result.Meta.TokensUsed)
	if result.Meta.Fallback != nil {
		fmt.Printf("fallback: %s (%s)\n", result.Meta.Fallback.Type, result.Meta.Fallback.Detail)
	}
	for _, c := range result.Meta.Citations {
		fmt.Printf("[%d] group %s, pages %s\n", c.Ref, c.GroupID, c.PageRange.String())
		if c.Highlight != "" {
			fmt.Printf("    %s\n", c.Highlight)
		}
	}
	for _, timing := range result.Meta.Timings {
		fmt.Printf("%s: %s\n", timing.Phase, timing.Duration)
	}
	return nil
}
