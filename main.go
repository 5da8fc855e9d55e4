package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	portApp "portbridge/internal/app"
	"portbridge/internal/config"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "portbridge",
		Short:         "Desktop host for the record-management UI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runWindow(cfg)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/portbridge/config.yaml)")

	root.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Serve the stored items over MCP on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return portApp.ServeMCP(cfg, cfg.NewLogger())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "flags",
		Short: "Print the flags the next launch would start the UI with",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return portApp.DumpFlags(cfg, cfg.NewLogger(), cmd.OutOrStdout())
		},
	})

	return root
}

func runWindow(cfg config.Config) error {
	page, err := assets.ReadFile("frontend/dist/index.html")
	if err != nil {
		return fmt.Errorf("read index.html: %w", err)
	}

	log := cfg.NewLogger()
	app := portApp.New(cfg, log, page)
	if err := app.Open(); err != nil {
		return err
	}
	size := app.WindowSize()

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	return wails.Run(&options.App{
		Title:     cfg.Window.Title,
		Width:     size.Width,
		Height:    size.Height,
		MinWidth:  480,
		MinHeight: 360,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		Menu:             appMenu,
		Logger:           log,
		LogLevel:         cfg.LogLevel(),
		OnStartup:        app.Startup,
		OnDomReady:       app.DomReady,
		OnBeforeClose:    app.BeforeClose,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			TitleBar:             mac.TitleBarDefault(),
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			About: &mac.AboutInfo{
				Title:   cfg.Window.Title,
				Message: "Record management",
			},
		},
	})
}
