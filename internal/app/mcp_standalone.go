package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"portbridge/internal/config"
	"portbridge/internal/domain"
	mcpserver "portbridge/internal/mcp"
	"portbridge/internal/service"
	"portbridge/internal/storage"
)

// ServeMCP runs a standalone MCP server on stdin/stdout with no GUI.
// stdout belongs to the protocol, so log must write elsewhere.
func ServeMCP(cfg config.Config, log logger.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := storage.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	srv := mcpserver.New(mcpserver.Deps{
		Items:  storage.NewItemStore(db),
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("[MCP] interrupted, shutting down")
		return nil
	}
}

// DumpFlags writes the flags the next launch would hydrate as indented JSON.
func DumpFlags(cfg config.Config, log logger.Logger, w io.Writer) error {
	db, err := storage.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	snap := service.NewFlagHydrator(storage.NewItemStore(db), log).Hydrate(domain.StoreKeys())

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(snap)
}
