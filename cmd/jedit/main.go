// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jedit applies surgical edits to JSON text.
//
// Usage:
//
//	jedit [options] -path SELECTOR (-set TEXT | -remove) [FILE]
//	jedit [options] -script EDITS.yaml [FILE]
//
// Run "jedit -help" for a description of the options.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/creachadair/jedit/edit"
	"github.com/creachadair/jedit/internal/script"
)

// Exit codes.
const (
	exitOK    = 0
	exitEdit  = 1 // an edit could not be applied
	exitUsage = 2 // invalid command line
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(stdout, usageText)
		return exitOK
	} else if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, usageText)
		return exitUsage
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := runEdits(cfg, log, stdin, stdout); err != nil {
		log.Error("edit failed", "input", inputName(cfg), "error", err)
		return exitEdit
	}
	return exitOK
}

func runEdits(cfg *config, log *slog.Logger, stdin io.Reader, stdout io.Writer) error {
	ops, err := loadOps(cfg, stdin)
	if err != nil {
		return err
	}

	var data []byte
	if cfg.Input == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(cfg.Input)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.Debug("read input", "input", inputName(cfg), "bytes", len(data), "edits", len(ops))

	opts := cfg.options()
	opts.Applied = func(i int, op edit.Op, before, after string) {
		log.Debug("applied edit", "index", i+1, "path", op.Selector, "action", op.Action,
			"delta", len(after)-len(before))
	}
	out, err := edit.ApplyAll(string(data), ops, opts)
	if err != nil {
		return err
	}

	if cfg.InPlace {
		if err := writeFileAtomic(cfg.Input, []byte(out)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Debug("wrote output", "file", cfg.Input, "bytes", len(out))
		return nil
	}
	_, err = io.WriteString(stdout, out)
	return err
}

// loadOps returns the edits selected by cfg.
func loadOps(cfg *config, stdin io.Reader) ([]edit.Op, error) {
	switch {
	case cfg.Script == "-":
		return script.Load(stdin)
	case cfg.Script != "":
		f, err := os.Open(cfg.Script)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return script.Load(f)
	case cfg.Remove:
		return []edit.Op{{Selector: cfg.Path, Request: edit.Request{Action: edit.ActionRemove}}}, nil
	default:
		return []edit.Op{{Selector: cfg.Path, Request: edit.Request{Value: edit.Literal(cfg.Set)}}}, nil
	}
}

// writeFileAtomic replaces the contents of path with data, by writing a
// temporary file in the same directory and renaming it over the original.
// The permissions of the original file are preserved.
func writeFileAtomic(path string, data []byte) (err error) {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func inputName(cfg *config) string {
	if cfg.Input == "" {
		return "<stdin>"
	}
	return cfg.Input
}
