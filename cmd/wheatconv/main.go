// Converts the wheat head counting dataset between its raw competition
// layout, the canonical category layout, COCO JSON and TFRecord formats.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agrovision/wheatconv"
	"github.com/agrovision/wheatconv/logger"
)

var (
	command    string // The subcommand to run.
	configPath string // An optional YAML config file.

	rootDir  string // The dataset root directory.
	outPath  string // The command-specific output file or directory.
	category string // The category directory name under the root.

	splitName  string   // A single split name for export and render.
	splitList  []string // The split names for coco.
	percentArg string   // The resplit percentages.
	cumulative []int    // Parsed cumulative resplit percentages.

	recordPath   string // The TFRecord output path.
	labelMapPath string // The TFRecord label map output path.
	numShards    int    // The number of TFRecord shard files.

	maxSide int // The maximum longer-side length for rendered previews.
	limit   int // The maximum number of previews to render.

	fetchURL       string // The archive URL; empty uses the configured dataset URL.
	extractArchive bool   // Extract the fetched archive into the root.

	listenAddr string // The serve listen address.

	seed    int64 // The random seed; 0 seeds from the current time.
	verbose bool  // Enable debug logging.
	logJSON bool  // Log as JSON instead of console output.
)

// The known subcommands.
var commands = []string{
	"reorganize", "coco", "annotate", "export", "resplit", "render", "fetch", "serve",
}

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  reorganize options:\t-root [-category]")
		_, _ = fmt.Fprintln(os.Stderr, "  coco options:\t\t-root [-out <dir>] [-category] [-splits]")
		_, _ = fmt.Fprintln(os.Stderr, "  annotate options:\t-root [-seed]")
		_, _ = fmt.Fprintln(os.Stderr, "  export options:\t-root -record <file> -label-map <file>"+
			" [-split] [-num-shards]")
		_, _ = fmt.Fprintln(os.Stderr, "  resplit options:\t-root [-percentages] [-seed]")
		_, _ = fmt.Fprintln(os.Stderr, "  render options:\t-root [-out <dir>] [-split] [-maxside] [-limit]")
		_, _ = fmt.Fprintln(os.Stderr, "  fetch options:\t[-out <file>] [-url] [-extract]")
		_, _ = fmt.Fprintln(os.Stderr, "  serve options:\t-root [-addr]")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	flag.StringVar(&command, "cmd", "", "The `command` to run "+
		"{reorganize, coco, annotate, export, resplit, render, fetch, serve}")
	flag.StringVar(&configPath, "config", "", "The `path` to an optional YAML config file")

	flag.StringVar(&rootDir, "root", ".", "The `path` to the dataset root directory")
	flag.StringVar(&outPath, "out", "", "The `path` to the command output file or directory")
	flag.StringVar(&category, "category", "",
		"The category directory `name` under the root (default: from config)")

	flag.StringVar(&splitName, "split", "train",
		"The dataset split `name` for export and render {train, val, test}")
	splits := flag.String("splits", "train,val,test",
		"The comma-separated split names (`name[,...]`) for coco")
	flag.StringVar(&percentArg, "percentages", "80,10,10",
		"The comma-separated resplit percentages (`percent[,...]`) for train, val and test;"+
			" must add up to 100%")

	flag.StringVar(&recordPath, "record", "", "The TFRecord output file `path`")
	flag.StringVar(&labelMapPath, "label-map", "", "The TFRecord label map file `path`")
	flag.IntVar(&numShards, "num-shards", 1,
		"The number of shard files to create (export only)")

	flag.IntVar(&maxSide, "maxside", 0,
		"The maximum `length` of the longer preview side (zero keeps the source size)")
	flag.IntVar(&limit, "limit", 0,
		"The maximum `number` of previews to render (zero renders all)")

	flag.StringVar(&fetchURL, "url", "",
		"The archive `url` to fetch (default: the configured dataset URL)")
	flag.BoolVar(&extractArchive, "extract", false,
		"Extract the fetched archive into the dataset root")

	flag.StringVar(&listenAddr, "addr", ":8080", "The listen `address` for serve")

	flag.Int64Var(&seed, "seed", 0, "The random seed; 0 seeds from the current time")
	flag.BoolVar(&verbose, "v", false, "Enable debug logging")
	flag.BoolVar(&logJSON, "log-json", false, "Log as JSON instead of console output")

	// Parse and validate flags.
	flag.Parse()

	validCommand := false
	for _, c := range commands {
		if c == command {
			validCommand = true
			break
		}
	}
	if !validCommand {
		printUsageAndExit("Unsupported command: ", command)
	}

	splitList = strings.Split(*splits, ",")
	for _, s := range append([]string{splitName}, splitList...) {
		if s != "train" && s != "val" && s != "test" {
			printUsageAndExit("Invalid split name: ", s)
		}
	}

	// Parse the resplit percentages as cumulative values.
	if command == "resplit" {
		var sum int
		for _, v := range strings.Split(percentArg, ",") {
			if i, err := strconv.Atoi(v); err != nil || i < 0 || i > 100 {
				printUsageAndExit("Invalid value in -percentages: ", v)
			} else {
				sum += i
				cumulative = append(cumulative, sum)
			}
		}
		if len(cumulative) != 3 {
			printUsageAndExit("-percentages must hold exactly three values")
		}
		if sum != 100 {
			printUsageAndExit("The values in -percentages must add up to 100%")
		}
	}

	if command == "export" && (recordPath == "" || labelMapPath == "") {
		printUsageAndExit("Missing -record or -label-map output path argument")
	}

	rootDir = filepath.Clean(rootDir)
}

func main() {
	if err := logger.Init(verbose, logJSON); err != nil {
		log.Fatal("Failed to initialize logging: ", err)
	}
	defer logger.Sync()

	cfg := wheatconv.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = wheatconv.LoadConfig(configPath); err != nil {
			log.Fatal("Failed to load the config: ", err)
		}
	}
	if category == "" {
		category = cfg.Category
	}
	categoryRoot := filepath.Join(rootDir, category)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var err error
	switch command {
	case "reorganize":
		err = wheatconv.Reorganize(rootDir, categoryRoot, cfg)
	case "coco":
		out := outPath
		if out == "" {
			out = filepath.Join(rootDir, "annotations")
		}
		err = wheatconv.ConvertSplits(rootDir, out, category, splitList, cfg)
	case "annotate":
		err = wheatconv.Annotate(rootDir, rng, cfg)
	case "export":
		err = wheatconv.ExportTFRecord(categoryRoot, splitName, recordPath, labelMapPath, numShards, cfg)
	case "resplit":
		err = wheatconv.Resplit(categoryRoot, cumulative, rng)
	case "render":
		out := outPath
		if out == "" {
			out = filepath.Join(rootDir, "previews")
		}
		err = wheatconv.RenderPreviews(categoryRoot, splitName, out, maxSide, limit, cfg)
	case "fetch":
		url := fetchURL
		if url == "" {
			url = cfg.DatasetURL
		}
		dest := outPath
		if dest == "" {
			dest = filepath.Join(rootDir, "dataset.zip")
		}
		if err = wheatconv.FetchArchive(context.Background(), url, dest); err == nil && extractArchive {
			err = wheatconv.ExtractArchive(dest, rootDir)
		}
	case "serve":
		err = wheatconv.Serve(listenAddr, categoryRoot, cfg)
	}
	if err != nil {
		log.Fatal("Command failed: ", err)
	}
}
