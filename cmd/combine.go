package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sensor-combine/controller"
	"sensor-combine/models"
	"sensor-combine/utils"
	"sensor-combine/views"
)

type combineFlags struct {
	sourceRoot      string
	extractedSubdir string
	activity        string
	out             string
	name            string
	addSession      bool
	overwrite       bool
	recursive       bool
	format          string
	workers         int
}

func (a *app) combineCmd() *cobra.Command {
	var f combineFlags
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Merge each session's accelerometer and gyroscope tables into one file per activity",
		Long: `Walks <source-root>/<activity>/<extracted-subdir>/<session>/, joins each
session's accelerometer and gyroscope tables on timestamp, and writes
<out>/[<name>_]<activity>_combined.csv (or .xlsx).

Values left off the command line are prompted for when stdin is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCombine(cmd, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.sourceRoot, "source-root", "s", "", "folder that contains activity subfolders (default data)")
	fl.StringVarP(&f.extractedSubdir, "extracted-subdir", "e", "", "name of the extracted subfolder under each activity (default extracted)")
	fl.StringVarP(&f.activity, "activity", "a", "", "process only this activity")
	fl.StringVarP(&f.out, "out", "o", "", "output folder for combined files (default data/combined)")
	fl.StringVarP(&f.name, "name", "n", "", "optional name to prepend to output filenames")
	fl.BoolVar(&f.addSession, "add-session", false, "add a leading session column")
	fl.BoolVar(&f.overwrite, "overwrite", false, "overwrite existing output files")
	fl.BoolVarP(&f.recursive, "recursive", "r", false, "treat any folder holding sensor tables as a session")
	fl.StringVar(&f.format, "format", "", "output format: csv or xlsx (default csv)")
	fl.IntVar(&f.workers, "workers", 0, "activities processed concurrently (default 1)")
	return cmd
}

func (a *app) runCombine(cmd *cobra.Command, f *combineFlags) error {
	cfg := a.cfg
	p := a.prompt

	opts := controller.CombineOptions{
		SourceRoot: p.ask(f.sourceRoot,
			fmt.Sprintf("Source root (folder that contains activity subfolders) [default: %s]: ", cfg.Combine.SourceRoot),
			cfg.Combine.SourceRoot),
		ExtractedSubdir: p.ask(f.extractedSubdir,
			fmt.Sprintf("Name of extracted subfolder under each activity [default: %s]: ", cfg.Combine.ExtractedSubdir),
			cfg.Combine.ExtractedSubdir),
		OutDir: p.ask(f.out,
			fmt.Sprintf("Output base folder for combined files [default: %s]: ", cfg.Combine.OutDir),
			cfg.Combine.OutDir),
		Prefix:     utils.SanitizeName(p.ask(f.name, "Optional name to prepend to filenames (press Enter to skip): ", "")),
		Activity:   f.activity,
		AddSession: f.addSession,
		Overwrite:  f.overwrite,
		Recursive:  f.recursive,
		Workers:    cfg.Combine.Workers,
	}
	if f.workers != 0 {
		if f.workers < 0 {
			return &models.UsageError{Msg: fmt.Sprintf("--workers must be positive, got %d", f.workers)}
		}
		opts.Workers = f.workers
	}

	format := cfg.Output.Format
	if f.format != "" {
		format = f.format
	}
	var err error
	if opts.Format, err = views.ParseFormat(format); err != nil {
		return &models.UsageError{Msg: err.Error()}
	}

	report, err := controller.NewCombineController(cfg, opts).Run(cmd.Context())
	switch {
	case errors.Is(err, controller.ErrNoActivities):
		return &exitError{code: exitNoInput, err: err}
	case errors.Is(err, controller.ErrNothingWritten):
		return &exitError{code: exitFailed, err: err}
	case err != nil:
		return err
	}

	for _, r := range report.Activities {
		if !r.Written {
			utils.L().Warn("Activity '%s' skipped: %s", r.Name, skipReason(r))
		}
	}
	utils.L().Info("Done. Combined files are under: %s", opts.OutDir)
	return nil
}

func skipReason(r controller.ActivityResult) string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Reason
}
