package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/arborview/internal/datasource"
	"github.com/vanderheijden86/arborview/pkg/config"
	"github.com/vanderheijden86/arborview/pkg/debug"
	"github.com/vanderheijden86/arborview/pkg/export"
	"github.com/vanderheijden86/arborview/pkg/layout"
	"github.com/vanderheijden86/arborview/pkg/model"
	"github.com/vanderheijden86/arborview/pkg/scene"
	"github.com/vanderheijden86/arborview/pkg/ui"
	"github.com/vanderheijden86/arborview/pkg/version"
	"github.com/vanderheijden86/arborview/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dataPath := flag.String("data", "", "Rows file (.jsonl, .db) or directory to scan")
	orientationFlag := flag.String("orientation", "", "Layout orientation: top-down or left-right")
	viewFlag := flag.String("view", "", "Initial view: diagram or table")
	snapshotPath := flag.String("snapshot", "", "Render a snapshot to this path and exit (svg/png by extension)")
	snapshotTitle := flag.String("title", "", "Title for snapshot export")
	noWatch := flag.Bool("no-watch", false, "Disable live reload on file change")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: av [options]")
		fmt.Println("\nAn interactive hierarchy viewer for the terminal.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("av %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	path := *dataPath
	if path == "" {
		path = cfg.DataPath
	}
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = cwd
		} else {
			fmt.Fprintf(os.Stderr, "No data path: pass --data or set data_path in config\n")
			os.Exit(1)
		}
	}

	orientation := cfg.Settings.Orientation
	if *orientationFlag != "" {
		orientation = *orientationFlag
	}

	opts := scene.Options{
		Footprint: layout.Footprint{
			CardWidth:  cfg.Settings.CardWidth,
			CardHeight: cfg.Settings.CardHeight,
			SiblingGap: cfg.Settings.SiblingGap,
			LevelGap:   cfg.Settings.LevelGap,
		},
		Orientation:     layout.ParseOrientation(orientation),
		DoubleClickZoom: cfg.Settings.DoubleClickZoom,
		ToggleSize:      14,
	}
	sc := scene.New(opts)

	// Headless snapshot export
	if *snapshotPath != "" {
		rows, err := datasource.LoadRows(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading rows: %v\n", err)
			os.Exit(1)
		}
		sc.SetRows(rows)
		if err := export.SaveSnapshot(export.SnapshotOptions{
			Path:      *snapshotPath,
			Title:     *snapshotTitle,
			Frame:     sc.Frame(),
			Footprint: opts.Footprint,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *snapshotPath)
		os.Exit(0)
	}

	var w *watcher.Watcher
	if !*noWatch {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			w, err = watcher.New(path, watcher.WithOnError(func(err error) {
				debug.Log("watcher: %v", err)
			}))
			if err == nil {
				if err := w.Start(); err != nil {
					w = nil
				}
			}
		}
	}
	if w != nil {
		defer w.Stop()
	}

	mode := ui.ViewDiagram
	view := cfg.Settings.DefaultView
	if *viewFlag != "" {
		view = *viewFlag
	}
	if view == "table" {
		mode = ui.ViewTable
	}

	m := ui.NewModel(ui.ModelOptions{
		Scene:   sc,
		Theme:   ui.DefaultTheme(lipgloss.NewRenderer(os.Stdout)),
		Mode:    mode,
		Load:    func() ([]model.Row, error) { return datasource.LoadRows(path) },
		Watcher: w,
	})

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running av: %v\n", err)
		os.Exit(1)
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set AV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("AV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	return err
}
