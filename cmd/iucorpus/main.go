// Copyright 2025 The morphindex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements iucorpus, the compiler and query front end for
morphologically indexed word corpora.

A corpus is compiled from plain text: every word is counted, split into
characters and into morphemes, and both splits are stored in frequency
counting tries. Compiled corpora are saved as msgpack (or JSON) files in the
data directory and catalogued in a small sqlite database so that every
command and server sees the same set of names.

# Usage

Compile a directory of text files with the morpheme lexicon:

	iucorpus compile hansard ./texts --segmenter lexicon --lexicon morphemes.txt

Look at what was compiled:

	iucorpus describe hansard
	iucorpus word hansard takujuq

Search by character ngram (^ and $ anchor the ngram) or by morpheme sequence:

	iucorpus search hansard ^nuna
	iucorpus search hansard --morph "{taku/1v}" "{juq/1vn}"
	iucorpus top hansard taku -n 5

Serve queries over HTTP, over msgpack on stdin/stdout, or interactively:

	iucorpus serve --addr :8087
	iucorpus ipc
	iucorpus repl hansard

# Configuration

Settings are read from a TOML file, created with defaults on first run:

	[corpus]
	segmenter = "char"
	lexicon_file = ""
	decomps_sample_size = 10
	normalize = true
	min_word_length = 1

	[registry]
	data_dir = "data"
	catalog_path = ""
	default_corpus = "empty"
	format = "msgpack"

	[server]
	addr = "127.0.0.1:8087"
	max_results = 100
	max_pattern_len = 64
	cache_size = 256

	[cli]
	default_limit = 10

Flags given on the command line win over the file.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
	AppName = "iucorpus"
	gh      = "https://github.com/bastiangx/morphindex"
)

// sigHandler is a simple handler for OS signals to exit normally. Commands
// that block on stdin use it; the servers shut down through the context.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	rootCmd := &cobra.Command{
		Use:           AppName,
		Short:         "Compile and query morphologically indexed word corpora",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.flags.configPath, "config", "", "Path to config.toml")
	rootCmd.PersistentFlags().BoolVarP(&a.flags.debug, "debug", "d", false, "Toggle debug mode")
	rootCmd.PersistentFlags().StringVar(&a.flags.dataDir, "data", "", "Directory holding compiled corpora")
	rootCmd.PersistentFlags().StringVar(&a.flags.catalog, "catalog", "", "Path to the sqlite corpus catalog")
	rootCmd.PersistentFlags().StringVar(&a.flags.segmenter, "segmenter", "", "Segmenter: char or lexicon")
	rootCmd.PersistentFlags().StringVar(&a.flags.lexicon, "lexicon", "", "Morpheme lexicon file for the lexicon segmenter")

	rootCmd.AddCommand(
		createCompileCmd(a),
		createDescribeCmd(a),
		createSearchCmd(a),
		createTopCmd(a),
		createWordCmd(a),
		createListCmd(a),
		createServeCmd(a),
		createIPCCmd(a),
		createReplCmd(a),
		createVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func createVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current version",
		// skip config and registry setup
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			showVersion()
		},
	}
}

func showVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ iucorpus ] morpheme and character ngram search over word corpora")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available commands")
	logger.Print("Github Repo", "gh", gh)
}
