// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"

	"exalt/internal/diag"
	"exalt/internal/exir"
	"exalt/internal/passes"
)

var log = commonlog.GetLogger("exalt")

func main() {
	outPath := flag.String("o", "", "write the normalized tree to this file instead of stdout")
	watch := flag.Bool("watch", false, "re-run normalization whenever the input file changes")
	verbosity := flag.Int("v", 0, "log verbosity (0 = quiet)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: exalt [-o out.ex] [-watch] <file.exir>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	commonlog.Configure(*verbosity, nil)

	if *watch {
		watchLoop(path, *outPath)
		return
	}
	if !normalize(path, *outPath) {
		os.Exit(1)
	}
}

// normalize runs one read-parse-rewrite-print cycle. It reports success so
// the one-shot mode can pick an exit code without the watch loop dying on
// the first bad save.
func normalize(path, outPath string) bool {
	startTime := time.Now()

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		return false
	}

	tree, err := exir.Parse(path, string(source))
	if err != nil {
		exir.ReportParseError(string(source), err)
		color.Red("Normalization failed after %s", formatDuration(time.Since(startTime)))
		return false
	}

	reporter := diag.NewReporter()
	pipeline := passes.NewPipeline(reporter)
	normalized := pipeline.Run(tree)

	for _, d := range reporter.Diagnostics() {
		fmt.Fprint(os.Stderr, diag.Format(d))
	}
	if reporter.HasErrors() {
		color.Red("Normalization failed after %s", formatDuration(time.Since(startTime)))
		return false
	}

	rendered := normalized.String() + "\n"
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write output: %v\n", err)
			return false
		}
	} else {
		fmt.Print(rendered)
	}

	color.Green("Normalized %s in %s", path, formatDuration(time.Since(startTime)))
	return true
}

// watchLoop re-runs normalization whenever the input is written. The watch
// is on the parent directory because most editors replace the file instead
// of writing it in place.
func watchLoop(path, outPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start watcher: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to watch %s: %v\n", dir, err)
		os.Exit(1)
	}

	normalize(path, outPath)
	log.Infof("watching %s", path)

	target, _ := filepath.Abs(path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			changed, _ := filepath.Abs(event.Name)
			if changed != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debugf("change event: %s", event)
			normalize(path, outPath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch error: %s", err)
		}
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
