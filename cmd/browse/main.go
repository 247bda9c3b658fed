// Command browse is a terminal catalog browser. It reads search text and
// filter commands from stdin and prints the listing as it settles.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/example/almajid/internal/catalog"
	"github.com/example/almajid/internal/config"
	"github.com/example/almajid/internal/database"
	"github.com/example/almajid/internal/logger"
	"github.com/example/almajid/internal/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	repos := postgres.NewRepositories(db, log)

	pipeline := catalog.NewPipeline(catalog.NewQueryBuilder(repos.Category, repos.Product, log))
	view := catalog.NewView(pipeline.Fetcher(catalog.Page{}), catalog.NewCriteria(),
		catalog.WithDebounce(cfg.SearchDebounce),
		catalog.WithOnChange(func(s catalog.Snapshot) { render(os.Stdout, s) }),
		catalog.WithOnStale(func(seq uint64) { log.Debug("stale listing dropped", zap.Uint64("seq", seq)) }),
	)
	defer view.Close()

	ctx := context.Background()
	view.Refresh(ctx)

	run(ctx, os.Stdin, os.Stderr, view)
}

// run feeds input lines to view until quit or end of input. A search still
// inside its quiet period is fetched before returning.
func run(ctx context.Context, in io.Reader, errOut io.Writer, view *catalog.View) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		if cmd.quit {
			break
		}
		if cmd.search != nil {
			view.Search(ctx, *cmd.search)
			continue
		}
		view.Update(ctx, cmd.mutate)
	}
	view.Flush()
	view.Wait()
}

func render(w io.Writer, s catalog.Snapshot) {
	if s.Result.Err != nil {
		fmt.Fprintf(w, "[%d] error: %v\n", s.Seq, s.Result.Err)
		return
	}
	fmt.Fprintf(w, "[%d] %d products, %d filters\n", s.Seq, len(s.Result.Products), s.Criteria.ActiveFilterCount())
	for _, v := range catalog.PresentAll(s.Result.Products) {
		fmt.Fprintf(w, "  %-40s %14s  %s★ (%d)\n", v.Name, v.PriceLabel, v.RatingLabel, v.ReviewCount)
	}
}
