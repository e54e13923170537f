package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gridsel/internal/config"
	"gridsel/internal/debug"
	"gridsel/internal/docker"
	"gridsel/internal/ui"
	"gridsel/internal/ui/common"
	"gridsel/internal/ui/logview"

	tea "github.com/charmbracelet/bubbletea"
)

// Version information set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const stdinSource = "stdin"

type options struct {
	debug       bool
	debugStderr bool
	stdin       bool
	names       []string
}

func parseArgs(args []string) (options, error) {
	var opts options
	for _, arg := range args {
		switch arg {
		case "--debug":
			opts.debug = true
		case "--debug-stderr":
			opts.debug = true
			opts.debugStderr = true
		case "-":
			opts.stdin = true
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag: %s", arg)
			}
			opts.names = append(opts.names, arg)
		}
	}
	return opts, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: gridsel [--debug|--debug-stderr] [-] [container ...]\n")
	fmt.Fprintf(os.Stderr, "  -              read log lines from stdin\n")
	fmt.Fprintf(os.Stderr, "  container ...  follow the logs of matching containers\n")
}

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("gridsel %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		os.Exit(0)
	}

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usage()
		os.Exit(2)
	}
	// Piped input without arguments means stdin
	if !opts.stdin && len(opts.names) == 0 && !stdinIsTerminal() {
		opts.stdin = true
	}
	if !opts.stdin && len(opts.names) == 0 {
		usage()
		os.Exit(2)
	}

	// Ensure config file exists with defaults
	_ = config.EnsureDefaults()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		def := config.DefaultConfig()
		cfg = &def
	}

	if opts.debugStderr {
		debug.SetOutput(os.Stderr)
	}
	debug.Init(opts.debug || cfg.Debug)
	defer debug.Close()

	var sources []logview.Source
	if opts.stdin {
		sources = append(sources, readerSource(os.Stdin))
	}

	if len(opts.names) > 0 {
		dockerClient, err := docker.NewClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Make sure Docker is running and accessible.\n")
			os.Exit(1)
		}
		defer func() { _ = dockerClient.Close() }()

		containers, err := dockerClient.FindContainers(context.Background(), opts.names)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(containers) == 0 {
			fmt.Fprintf(os.Stderr, "No matching containers found for: %s\n", strings.Join(opts.names, ", "))
			os.Exit(1)
		}
		for _, c := range containers {
			sources = append(sources, containerSource(dockerClient, c))
		}
	}

	debug.Log("main: starting with %d sources", len(sources))

	// Create and run the application
	app := ui.NewApp(sources, *cfg, common.DefaultKeyMap())
	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
	if opts.stdin {
		// Keyboard input must come from the terminal, stdin carries the logs
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(app, progOpts...)

	final, err := p.Run()
	if a, ok := final.(ui.App); ok {
		a.Cleanup()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func readerSource(r io.Reader) logview.Source {
	return logview.Source{
		ID:   stdinSource,
		Name: stdinSource,
		Open: func(ctx context.Context) (<-chan docker.LogLine, <-chan error) {
			return docker.ReadLines(ctx, r, stdinSource)
		},
	}
}

func containerSource(client *docker.Client, c docker.Container) logview.Source {
	return logview.Source{
		ID:   c.ID,
		Name: c.DisplayName(),
		Open: func(ctx context.Context) (<-chan docker.LogLine, <-chan error) {
			return client.StreamLogs(ctx, c.ID)
		},
	}
}
