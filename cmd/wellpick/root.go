package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/wellpick/pkg/config"
	"github.com/vanderheijden86/wellpick/pkg/debug"
	"github.com/vanderheijden86/wellpick/pkg/loader"
	"github.com/vanderheijden86/wellpick/pkg/tree"
	"github.com/vanderheijden86/wellpick/pkg/ui"
	"github.com/vanderheijden86/wellpick/pkg/watcher"
)

// options are the flags shared by every command.
type options struct {
	dataPath   string
	configPath string
	filter     string
	separator  string
	noWatch    bool
}

// session is a loaded dataset wired into a picker.
type session struct {
	cfg      config.Config
	dataPath string // Empty for the built-in dataset
	picker   *tree.Picker
}

func (o *options) load() (*session, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if o.separator != "" {
		cfg.Picker.Separator = o.separator
	}

	path := loader.ResolvePath(o.dataPath, cfg.Dataset)
	roots, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	p := tree.NewPicker(tree.NewStore(roots), tree.WithExpandOnFilter(cfg.ExpandOnFilter()))
	if o.filter != "" {
		p.SetFilterText(o.filter)
	}
	debug.Log("cmd: loaded %d nodes from %q, filter %q", tree.Count(roots), path, o.filter)
	return &session{cfg: cfg, dataPath: path, picker: p}, nil
}

// New builds the wellpick command tree.
func New() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "wellpick",
		Short: "Pick wells from an oilfield / block / well tree",
		Example: `
wellpick
wellpick --data wells.yaml --filter 大庆油田一区块
wellpick tree --filter 一井
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd.Context(), o, cmd.OutOrStdout())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.dataPath, "data", "", "dataset file (.yaml, .yml or .json); defaults to $"+loader.DataEnvVar+", then the config, then the built-in dataset")
	flags.StringVar(&o.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	flags.StringVar(&o.filter, "filter", "", "initial filter text (exact name, case-insensitive)")
	cmd.Flags().StringVar(&o.separator, "separator", "", "print the selection on one line joined by this separator")
	cmd.Flags().BoolVar(&o.noWatch, "no-watch", false, "do not reload the dataset when the file changes")

	addTree(cmd, o)
	addFlat(cmd, o)
	addVersion(cmd)
	return cmd
}

func runPicker(ctx context.Context, o *options, out io.Writer) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("the picker needs a terminal; use `wellpick tree` or `wellpick flat` for plain output")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if debug.Enabled() {
		logPath := filepath.Join(os.TempDir(), "wellpick-debug.log")
		f, err := tea.LogToFile(logPath, "wellpick")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		debug.SetOutput(f)
	}

	s, err := o.load()
	if err != nil {
		return err
	}
	defer s.picker.Close()

	// The UI draws on stderr so stdout carries only the result.
	theme := ui.DefaultTheme(lipgloss.NewRenderer(os.Stderr))
	m := ui.NewPickerModel(s.picker, s.cfg, theme)

	if s.dataPath != "" && s.cfg.WatchEnabled() && !o.noWatch {
		w, err := watcher.New(s.dataPath, watcher.WithDebounce(s.cfg.DebounceDuration()))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			debug.Log("cmd: watch disabled: %v", err)
		} else {
			defer w.Stop()
			m.SetWatcher(w)
		}
	}

	final, err := runTUIProgram(m)
	if err != nil {
		return err
	}
	if final.Result() != ui.Confirmed {
		return nil
	}
	return printSelection(out, final.SelectedNames(), o.separator)
}

// printSelection writes one name per line, or a single joined line when a
// separator was given.
func printSelection(w io.Writer, names []string, sep string) error {
	if len(names) == 0 {
		return nil
	}
	if sep != "" {
		_, err := fmt.Fprintln(w, strings.Join(names, sep))
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

func runTUIProgram(m ui.PickerModel) (ui.PickerModel, error) {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
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

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return m, nil
		}
		return m, fmt.Errorf("running picker: %w", err)
	}
	fm, ok := final.(ui.PickerModel)
	if !ok {
		return m, fmt.Errorf("unexpected model type %T", final)
	}
	return fm, nil
}
