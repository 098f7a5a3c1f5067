package main

import (
	"bufio"
	"context"
	"eventreminder/internal/app/deps"
	"eventreminder/internal/app/services"
	"eventreminder/internal/core/domain/logging"
	processcommand "eventreminder/internal/core/services/process_command"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Reads one command per line from stdin and prints the replies. The
// reminder scheduler runs alongside so due events are still delivered.
func main() {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()
	services := services.InitServices(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedulerDone := make(chan struct{})
	go func() {
		services.Scheduler.Run(ctx)
		close(schedulerDone)
	}()

	user := deps.Config.ConsoleUserID
	lines := readLines(ctx)
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			result, err := services.ProcessCommand.Run(ctx, processcommand.Input{Text: line, UserID: user})
			if err != nil {
				deps.Logger.Error(ctx, "Command failed.", logging.Entry("err", err))
			}
			fmt.Println(result.Reply)
		}
	}

	stop()
	<-schedulerDone
}

func readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
