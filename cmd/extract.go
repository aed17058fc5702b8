package main

import (
	"errors"

	"github.com/spf13/cobra"

	"sensor-combine/controller"
	"sensor-combine/models"
)

type extractFlags struct {
	source    string
	dest      string
	recursive bool
	list      bool
	overwrite bool
}

func (a *app) extractCmd() *cobra.Command {
	var f extractFlags
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract accelerometer.csv and gyroscope.csv from every .zip in a folder",
		Long: `Copies the sensor tables of each <source>/<name>.zip into <dest>/<name>/.
Entries are matched by base name regardless of their folder inside the
archive, and are always written under their base name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runExtract(cmd, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.source, "source", "s", "", "folder containing .zip files")
	fl.StringVarP(&f.dest, "dest", "d", "", "base folder where each archive's tables are extracted")
	fl.BoolVarP(&f.recursive, "recursive", "r", false, "find archives recursively under source")
	fl.BoolVar(&f.list, "list", false, "only list matching entries, extract nothing")
	fl.BoolVar(&f.overwrite, "overwrite", false, "overwrite existing files in the destination")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, f *extractFlags) error {
	opts := controller.ExtractOptions{
		Source:    a.prompt.ask(f.source, "Source folder containing .zip files (e.g. data/walking): ", ""),
		Dest:      a.prompt.ask(f.dest, "Destination base folder where extracted folders will be created (e.g. data/extracted): ", ""),
		Recursive: f.recursive,
		ListOnly:  f.list,
		Overwrite: f.overwrite,
	}
	if opts.Source == "" {
		return &models.UsageError{Msg: "source folder is required"}
	}
	if opts.Dest == "" {
		return &models.UsageError{Msg: "destination base folder is required"}
	}

	_, err := controller.NewExtractController(a.cfg, opts, cmd.OutOrStdout()).Run(cmd.Context())
	var ioErr *models.IOError
	switch {
	case errors.Is(err, controller.ErrNoArchives):
		if opts.ListOnly {
			return nil
		}
		return &exitError{code: exitFailed, err: err}
	case errors.As(err, &ioErr) && ioErr.Path == opts.Source:
		return &exitError{code: exitNoInput, err: err}
	case errors.As(err, &ioErr):
		return &exitError{code: exitFailed, err: err}
	case err != nil:
		return err
	}
	return nil
}
