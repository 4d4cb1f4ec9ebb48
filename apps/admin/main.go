package main

import (
	"context"
	"log"
	"os"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core"
	logsvc "github.com/darasahq/darasa-web/services/logger"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	client, err := backend.NewClient(&backend.Options{
		BaseURL: core.Conf.GetString("backendBaseURL"),
		Timeout: core.Conf.GetDuration("backendTimeout"),
		Logger:  logsvc.NewConsoleLogger(logger),
	})
	errAndDie(err)

	// start CLI
	cli := commandLine{client: client}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func ctxBg() context.Context { return context.Background() }

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
