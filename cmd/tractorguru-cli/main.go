package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/use-agent/tractorguru/cmd/tractorguru-cli/commands"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	commands.ExecuteContext(context.Background())
}
