package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"sensor-combine/models"
	"sensor-combine/services/archive"
	"sensor-combine/utils"
)

// ErrNoArchives means no archive was processed.
var ErrNoArchives = errors.New("no zip files processed")

// ExtractOptions are the per-run settings of the extract command.
type ExtractOptions struct {
	Source    string
	Dest      string
	Recursive bool
	ListOnly  bool
	Overwrite bool
}

// ArchiveResult is the outcome of one archive.
type ArchiveResult struct {
	Path      string
	DestDir   string
	Entries   []string // matching entries inside the archive
	Extracted []string // written files
	Err       error
}

// ExtractReport lists archive results in path order. Processed counts
// every archive attempted, including unreadable ones.
type ExtractReport struct {
	Archives  []ArchiveResult
	Processed int
	Extracted int
}

// ExtractController copies the sensor tables out of every archive in a
// folder, one archive at a time.
type ExtractController struct {
	cfg  *utils.Config
	opts ExtractOptions
	out  io.Writer // list-mode listing
}

// NewExtractController builds a controller printing listings to out.
func NewExtractController(cfg *utils.Config, opts ExtractOptions, out io.Writer) *ExtractController {
	if out == nil {
		out = os.Stdout
	}
	return &ExtractController{cfg: cfg, opts: opts, out: out}
}

// Run processes every archive. A missing source folder is an *models.IOError;
// ErrNoArchives is returned with the report when nothing was processed.
func (ec *ExtractController) Run(ctx context.Context) (*ExtractReport, error) {
	if fi, err := os.Stat(ec.opts.Source); err != nil || !fi.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return nil, &models.IOError{Op: "open source", Path: ec.opts.Source, Err: err}
	}
	if !ec.opts.ListOnly {
		if err := os.MkdirAll(ec.opts.Dest, 0755); err != nil {
			return nil, &models.IOError{Op: "mkdir", Path: ec.opts.Dest, Err: err}
		}
	}

	zips, err := archive.ListArchives(ec.opts.Source, ec.cfg.Extract.ArchiveExt, ec.opts.Recursive)
	if err != nil {
		return nil, err
	}

	report := &ExtractReport{}
	if len(zips) == 0 {
		utils.L().Debug("No zip files found in '%s'.", ec.opts.Source)
		return report, ErrNoArchives
	}

	for _, zf := range zips {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Processed++
		res := ec.processArchive(zf)
		report.Extracted += len(res.Extracted)
		report.Archives = append(report.Archives, res)
	}

	if !ec.opts.ListOnly {
		utils.L().Info("Processed %d zip file(s). Extracted %d sensor file(s).", report.Processed, report.Extracted)
	}
	return report, nil
}

func (ec *ExtractController) processArchive(zf string) ArchiveResult {
	res := ArchiveResult{Path: zf, DestDir: archive.DestDir(ec.opts.Dest, zf)}

	matches, err := archive.FindSensorEntries(zf, ec.cfg.Extract.Targets)
	if err != nil {
		res.Err = err
		utils.L().Error("Skipping '%s': %v", zf, err)
		return res
	}
	res.Entries = matches
	if len(matches) == 0 {
		utils.L().Debug("No sensor CSVs in '%s'.", zf)
		return res
	}

	if ec.opts.ListOnly {
		fmt.Fprintf(ec.out, "Zip: %s\n", zf)
		for _, m := range matches {
			fmt.Fprintf(ec.out, "  %s\n", m)
		}
		return res
	}

	utils.L().Debug("Extracting from '%s' -> '%s' ...", zf, res.DestDir)
	written, err := archive.ExtractEntries(zf, matches, res.DestDir, ec.opts.Overwrite)
	res.Extracted = written
	if err != nil {
		res.Err = err
		utils.L().Error("Error extracting from '%s': %v", zf, err)
		return res
	}
	for _, p := range written {
		utils.L().Debug("   - %s", p)
	}
	return res
}
