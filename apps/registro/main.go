package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
	"github.com/trezcool/registro/storage"
	"github.com/trezcool/registro/storage/snapshot"
	feedbacksvc "github.com/trezcool/registro/services/feedback"
	logsvc "github.com/trezcool/registro/services/logger"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stderr, "REGISTRO : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// set up storage
	kvStore, err := storage.Open(ctx, conf)
	if err != nil {
		logger.Fatal("opening storage", err, map[string]interface{}{"engine": conf.Storage.Engine})
	}
	defer func() { _ = kvStore.Close() }()

	repo, err := snapshot.NewRepository(kvStore, conf.Storage.Key, logger)
	if err != nil {
		logger.Fatal("creating snapshot repository", err)
	}

	// set up validators
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	gradebook.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		store:      gradebook.NewStore(ctx, repo, logger),
		repo:       repo,
		validate:   validate,
		translator: translator,
		feedback:   feedbacksvc.NewGeminiGenerator(conf.Feedback, logger),
		out:        os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		stop()
		_ = kvStore.Close()
		os.Exit(1)
	}
}
