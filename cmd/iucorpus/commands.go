package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/morphindex/internal/cli"
	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/bastiangx/morphindex/pkg/config"
	"github.com/bastiangx/morphindex/pkg/corpus"
	"github.com/bastiangx/morphindex/pkg/registry"
	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/bastiangx/morphindex/pkg/server"
	"github.com/bastiangx/morphindex/pkg/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type appFlags struct {
	configPath string
	dataDir    string
	catalog    string
	segmenter  string
	lexicon    string
	debug      bool
}

// app carries what every command needs once config is loaded.
type app struct {
	flags     appFlags
	cfg       *config.Config
	dataDir   string
	segmenter segment.Segmenter
	catalog   *registry.Catalog
	registry  *registry.Registry
	service   *server.Service
}

func (a *app) setup() error {
	if a.flags.debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, cfgPath, err := config.LoadConfigWithPriority(a.flags.configPath)
	if err != nil {
		return err
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(cfgPath))
	if a.flags.segmenter != "" {
		cfg.Corpus.Segmenter = a.flags.segmenter
	}
	if a.flags.lexicon != "" {
		cfg.Corpus.LexiconFile = a.flags.lexicon
	}
	a.cfg = cfg

	if a.segmenter, err = newSegmenter(cfg.Corpus); err != nil {
		return err
	}

	a.dataDir = a.flags.dataDir
	if a.dataDir == "" {
		configDir, _ := config.GetConfigDir()
		a.dataDir = utils.NewPathResolver(configDir, ".msgpack", ".mpk", ".json").DataDir(cfg.Registry.DataDir)
	}
	if err := utils.EnsureDir(a.dataDir); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", a.dataDir, err)
	}
	log.Debugf("Using data dir at: %s", a.dataDir)

	catalogPath := a.flags.catalog
	if catalogPath == "" {
		catalogPath = cfg.Registry.CatalogPath
	}
	if catalogPath == "" {
		catalogPath = filepath.Join(a.dataDir, "catalog.db")
	}
	if a.catalog, err = registry.OpenCatalog(catalogPath); err != nil {
		log.Warnf("Running without a catalog: %v", err)
		a.catalog = nil
	}

	a.registry = registry.New(registry.StoreLoader(a.segmenter), a.catalog)
	if err := a.registry.LoadCatalog(); err != nil {
		log.Warnf("Failed to read catalog: %v", err)
	}
	if n, err := a.registry.Discover(a.dataDir); err != nil {
		log.Warnf("Failed to scan %s: %v", a.dataDir, err)
	} else {
		log.Debugf("Discovered %d corpus files", n)
	}

	a.service = server.NewService(a.registry, server.Limits{
		MaxResults:    cfg.Server.MaxResults,
		MaxPatternLen: cfg.Server.MaxPatternLen,
		CacheSize:     cfg.Server.CacheSize,
	})
	return nil
}

func (a *app) close() {
	if a.catalog != nil {
		if err := a.catalog.Close(); err != nil {
			log.Warnf("Closing catalog: %v", err)
		}
	}
}

// corpusArg resolves an optional corpus name argument to the configured
// default.
func (a *app) corpusArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if a.cfg.Registry.DefaultCorpus != "" {
		return a.cfg.Registry.DefaultCorpus
	}
	return registry.DefaultName
}

func newSegmenter(c config.CorpusConfig) (segment.Segmenter, error) {
	switch strings.ToLower(c.Segmenter) {
	case "", "char":
		return segment.Char{}, nil
	case "lexicon":
		if c.LexiconFile == "" {
			return nil, fmt.Errorf("the lexicon segmenter needs lexicon_file or --lexicon")
		}
		return segment.LoadLexicon(c.LexiconFile)
	default:
		return nil, fmt.Errorf("unknown segmenter %q", c.Segmenter)
	}
}

func createCompileCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "compile [name] [path...]",
		Short: "Compile text files or directories into a named corpus",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, paths := args[0], args[1:]
			if format == "" {
				format = a.cfg.Registry.Format
			}
			ff, err := store.ParseFormat(format)
			if err != nil {
				return err
			}

			c, err := corpus.New(a.segmenter, a.cfg.CorpusOptions())
			if err != nil {
				return err
			}
			start := time.Now()
			var total corpus.DocumentStats
			for _, path := range paths {
				var stats corpus.DocumentStats
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					stats, err = c.CompileDir(path)
				} else {
					stats, err = c.AddFile(path)
				}
				if err != nil {
					return err
				}
				total.Documents += stats.Documents
				total.Tokens += stats.Tokens
				total.Skipped += stats.Skipped
			}

			file := registry.FileFor(a.dataDir, name, ff)
			if info, ok := store.GetFormatInfo(ff); ok {
				log.Debugf("Writing %s to %s", strings.ToLower(info.Description), file)
			}
			if err := store.Save(file, c); err != nil {
				return err
			}
			if err := a.registry.Register(name, file); err != nil {
				return err
			}
			if a.catalog != nil {
				if err := a.catalog.RecordStats(name, c.Describe(), false); err != nil {
					log.Warnf("Failed to record stats for %s: %v", name, err)
				}
			}

			log.Infof("Compiled %s from %d documents in %v", name, total.Documents, time.Since(start).Round(time.Millisecond))
			printReport(name, file, c.Describe())
			if total.Skipped > 0 {
				fmt.Printf("%s tokens skipped\n", utils.FormatWithCommas(total.Skipped))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: msgpack or json")
	return cmd
}

func createDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [name]",
		Short: "Show the aggregate counts of a corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.corpusArg(args)
			report, err := a.service.Stats(name)
			if err != nil {
				return err
			}
			printReport(name, a.registry.File(name), report)
			return nil
		},
	}
}

func createListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the known corpora",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.registry.Names() {
				file := a.registry.File(name)
				if file == "" {
					file = "(in memory)"
				}
				fmt.Printf("%-24s %s\n", name, file)
			}
			return nil
		},
	}
}

func createSearchCmd(a *app) *cobra.Command {
	var (
		morph bool
		limit int
	)
	cmd := &cobra.Command{
		Use:   "search [name] [ngram | segment...]",
		Short: "Find words containing a character ngram or a segment sequence",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if limit == 0 {
				limit = a.cfg.CLI.DefaultLimit
			}
			var (
				words []string
				total int
				err   error
			)
			if morph {
				words, total, err = a.service.MorphNgram(name, utils.SplitList(strings.Join(args[1:], " ")), limit)
			} else {
				words, total, err = a.service.Ngram(name, strings.Join(args[1:], ""), limit)
			}
			if err != nil {
				return err
			}
			for _, w := range words {
				fmt.Println(w)
			}
			if total > len(words) {
				fmt.Printf("... %d of %d shown\n", len(words), total)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&morph, "morph", "m", false, "Treat the arguments as a segment sequence")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of words to print")
	return cmd
}

func createTopCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top [name] [prefix]",
		Short: "Rank the words starting with prefix by frequency",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 2 {
				prefix = args[1]
			}
			if limit == 0 {
				limit = a.cfg.CLI.DefaultLimit
			}
			ranked, err := a.service.Top(args[0], prefix, limit)
			if err != nil {
				return err
			}
			for i, wf := range ranked {
				fmt.Printf("%2d. %-32s %12s\n", i+1, wf.Word, utils.FormatWithCommas(wf.Frequency))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of words to print")
	return cmd
}

func createWordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "word [name] [word]",
		Short: "Show the frequency and segmentation of a word",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.service.Word(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s\tfreq %s\n", info.Word, utils.FormatWithCommas(info.Frequency))
			if info.Failed {
				fmt.Println("segmentation failed")
				return nil
			}
			fmt.Printf("segments\t%s\n", info.Segmentation())
			if info.TotalDecompositions != nil {
				fmt.Printf("decompositions\t%d\n", *info.TotalDecompositions)
				for _, d := range info.TopDecompositions {
					fmt.Printf("\t%s\n", strings.Join(d, " "))
				}
			}
			return nil
		},
	}
}

func createServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve corpus queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			showStartupInfo("http "+addr, a.dataDir)
			return server.NewHTTPHandler(a.service).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address")
	return cmd
}

func createIPCCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ipc",
		Short: "Serve msgpack queries on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug("spawning IPC")
			return server.NewIPCServer(a.service, os.Stdin, os.Stdout).Start(cmd.Context())
		},
	}
}

func createReplCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "repl [name]",
		Short: "Query a corpus interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sigHandler()
			log.SetReportTimestamp(false)
			if limit == 0 {
				limit = a.cfg.CLI.DefaultLimit
			}
			return cli.NewInputHandler(a.service, a.corpusArg(args), limit).Start()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of results per query")
	return cmd
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(30).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	valueStyle = lipgloss.NewStyle().Width(14).Align(lipgloss.Right)
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
)

func printReport(name, file string, r corpus.Report) {
	fmt.Println(titleStyle.Render(name))
	row := func(label, value string) {
		fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value)))
	}
	if file != "" {
		fmt.Println(labelStyle.Render("file") + file)
	}
	row("segmenter", r.Segmenter)
	row("words", utils.FormatWithCommas(r.TotalWords))
	row("  with decompositions", utils.FormatWithCommas(r.TotalWordsWithDecomps))
	row("  without decompositions", utils.FormatWithCommas(r.TotalWordsWithNoDecomp))
	row("occurrences", utils.FormatWithCommas(r.TotalOccurrences))
	row("  with decompositions", utils.FormatWithCommas(r.TotalOccurrencesWithDecomp))
	row("  without decompositions", utils.FormatWithCommas(r.TotalOccurrencesNoDecomp))
	row("distinct segmentations", utils.FormatWithCommas(r.DistinctSegmentations))
	row("character terminals", utils.FormatWithCommas(r.CharTerminals))
}

// showStartupInfo displays some basic info about the server.
func showStartupInfo(listen, dataDir string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("listening: ( %s )", listen)
	log.Infof("data dir: ( %s )", dataDir)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
