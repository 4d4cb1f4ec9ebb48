package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/darasahq/darasa-web/backend"
	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/core/session"
	logsvc "github.com/darasahq/darasa-web/services/logger"
	echoweb "github.com/darasahq/darasa-web/web/echo"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	debug := core.Conf.GetBool("debug")

	std := log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}
	logger.Enable(true)

	client, err := backend.NewClient(&backend.Options{
		BaseURL: core.Conf.GetString("backendBaseURL"),
		Timeout: core.Conf.GetDuration("backendTimeout"),
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up backend client: %v", err), err)
	}

	store := session.NewCookieStore(
		core.Conf.GetString("sessionCookie"),
		[]byte(core.Conf.GetString("secretKey")),
		core.Conf.GetDuration("sessionMaxAge"),
	)

	// =========================================================================
	// Start Web Service

	logger.Info(fmt.Sprintf("%s initializing on %s", core.Conf.GetString("appName"), core.Conf.GetString("serverAddr")))
	defer logger.Info("Application stopped")

	server := echoweb.NewServer(&echoweb.Options{
		Addr:   core.Conf.GetString("serverAddr"),
		Client: client,
		Store:  store,
		Logger: logger,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
