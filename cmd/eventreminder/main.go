package main

import (
	"context"
	"errors"
	"eventreminder/internal/app"
	"eventreminder/internal/app/deps"
	"eventreminder/internal/app/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dl "eventreminder/internal/core/domain/logging"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	services := services.InitServices(deps)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	schedulerDone := make(chan struct{})
	go func() {
		services.Scheduler.Run(schedulerCtx)
		close(schedulerDone)
	}()

	httpServer, waitReplies := app.InitHttpServer(deps, services)
	go start(httpServer, deps)

	stopCh, closeCh := createChannel()
	defer closeCh()

	<-stopCh
	stopScheduler()
	<-schedulerDone
	shutdown(context.Background(), httpServer, waitReplies, deps, shutdownDeps)
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

func start(server *http.Server, deps *deps.Deps) {
	deps.Logger.Info(
		context.Background(),
		"HTTP server has started.",
		dl.Entry("address", server.Addr),
		dl.Entry("isTestMode", deps.Config.IsTestMode),
		dl.Entry("storage", deps.Config.StorageBackend),
		dl.Entry("channel", deps.Config.SlackChannelID),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	} else {
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	}
}

func shutdown(
	ctx context.Context,
	server *http.Server,
	waitReplies func(),
	deps *deps.Deps,
	shutDownDeps func(),
) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		panic(err)
	}

	replied := make(chan struct{})
	go func() {
		waitReplies()
		close(replied)
	}()
	select {
	case <-replied:
	case <-ctx.Done():
		deps.Logger.Warning(ctx, "Some slash command replies were not delivered before shutdown.")
	}

	deps.Logger.Info(ctx, "HTTP server has shutdowned.")
	shutDownDeps()
}
