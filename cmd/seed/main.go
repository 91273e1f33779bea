// Command seed loads the meal tree, the knowledge base quizzes and demo
// accounts into the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/config"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/seed"
)

func main() {
	var opts seed.Options
	flag.BoolVar(&opts.Reset, "reset", false, "drop and recreate all tables before seeding")
	flag.BoolVar(&opts.SkipUsers, "skip-users", false, "do not create demo accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDB(cfg.Database, log)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}

	res, err := seed.Run(ctx, db, log, opts)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	fmt.Printf("seeded %d meals, %d quizzes (%d questions), %d new users\n",
		res.Meals, res.Quizzes, res.Questions, res.Users)
}
