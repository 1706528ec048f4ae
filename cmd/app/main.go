package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	cblog "github.com/charmbracelet/log"

	"github.com/hallgrim/parapet/pkg/api"
	"github.com/hallgrim/parapet/pkg/auth"
	"github.com/hallgrim/parapet/pkg/config"
	"github.com/hallgrim/parapet/pkg/model"
)

// appVersion is the parapet version shown by --version.
// Override at build time: go build -ldflags "-X main.appVersion=1.2.0"
var appVersion = "dev"

func main() {
	setupLogging()

	var (
		serverCfgFlag string
		appCfgFlag    string
		showVersion   bool
		showHelp      bool
	)
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&showVersion, "version", false, "Show version information and exit")
	fs.BoolVar(&showHelp, "help", false, "Show help information and exit")
	fs.StringVar(&serverCfgFlag, "server-config", "", "Path to the server-context config file")
	fs.StringVar(&appCfgFlag, "config", "", "Path to the parapet config file")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			showHelp = true
		} else {
			fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
			os.Exit(1)
		}
	}

	if showVersion {
		fmt.Println(appVersion)
		return
	}
	if showHelp {
		fmt.Print(renderHelp(fs))
		return
	}

	appConfig, err := loadAppConfig(appCfgFlag)
	if err != nil {
		cblog.With("component", "app").Warn("Could not load config, using defaults", "err", err)
		appConfig = config.GetDefaultAppConfig()
	}

	server, err := loadServerConfig(serverCfgFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Configure a server context in %s or set PARAPET_SERVER_CONFIG.\n", config.GetCLIConfigPath())
		os.Exit(1)
	}

	token, err := auth.ResolveToken(server.BaseURL, server.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Set PARAPET_TOKEN or store a token in the system keychain.\n")
		os.Exit(1)
	}
	server.Token = token

	cblog.With("component", "app").Info("Loaded server config", "server", server.BaseURL)

	m := NewModel(appConfig, api.NewClient(server))
	m.state.Server = server

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	// Let queued column-preference writes finish before exit
	m.Shutdown()
}

func loadAppConfig(overridePath string) (*config.AppConfig, error) {
	if overridePath != "" {
		return config.LoadAppConfigFromPath(overridePath)
	}
	return config.LoadAppConfig()
}

func loadServerConfig(overridePath string) (*model.Server, error) {
	var (
		cfg *config.CLIConfig
		err error
	)
	if overridePath != "" {
		cfg, err = config.ReadCLIConfigFromPath(overridePath)
	} else {
		cfg, err = config.ReadCLIConfig()
	}
	if err != nil {
		return nil, err
	}
	return cfg.ResolveServer()
}

// setupLogging configures logging to write to a file instead of stdout
func setupLogging() {
	// Create temp log file and expose path via env for debugging
	f, err := os.CreateTemp("", "parapet-*.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create temp log file: %v\n", err)
		return
	}
	_ = os.Setenv("PARAPET_LOG_FILE", f.Name())

	// Standard library log to same file (for any remaining log.Printf)
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Charmbracelet/log to same file
	logger := cblog.NewWithOptions(f, cblog.Options{ReportTimestamp: true})
	switch strings.ToUpper(os.Getenv("PARAPET_LOG_LEVEL")) {
	case "DEBUG":
		logger.SetLevel(cblog.DebugLevel)
	case "WARN":
		logger.SetLevel(cblog.WarnLevel)
	case "ERROR":
		logger.SetLevel(cblog.ErrorLevel)
	case "FATAL":
		logger.SetLevel(cblog.FatalLevel)
	default:
		logger.SetLevel(cblog.InfoLevel)
	}
	cblog.SetDefault(logger)

	cblog.With("component", "app").Info("parapet started", "logFile", f.Name())
}

func renderHelp(fs *flag.FlagSet) string {
	var help strings.Builder

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	help.WriteString(titleStyle.Render("parapet"))
	help.WriteString(" - Terminal console for the infrastructure management server\n\n")

	help.WriteString(sectionStyle.Render("USAGE"))
	help.WriteString("\n  parapet")
	help.WriteString(dim.Render(" [options]"))
	help.WriteString("\n\n")

	help.WriteString(sectionStyle.Render("OPTIONS"))
	help.WriteString("\n")

	var flagBuf strings.Builder
	fs.SetOutput(&flagBuf)
	fs.PrintDefaults()
	help.WriteString(flagBuf.String())

	help.WriteString("\n")
	help.WriteString(sectionStyle.Render("ENVIRONMENT"))
	help.WriteString("\n")
	help.WriteString("  PARAPET_TOKEN          API token (overrides config and keychain)\n")
	help.WriteString("  PARAPET_SERVER_CONFIG  Server-context config path\n")
	help.WriteString("  PARAPET_CONFIG         parapet config path\n")
	help.WriteString("  PARAPET_LOG_LEVEL      DEBUG, INFO, WARN, ERROR or FATAL\n")

	return help.String()
}
