package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"sensor-combine/models"
	"sensor-combine/services/aggregate"
	"sensor-combine/services/detect"
	"sensor-combine/services/ingest"
	"sensor-combine/services/merge"
	"sensor-combine/utils"
	"sensor-combine/views"
)

var (
	// ErrNoActivities means the source root held no activity folders.
	ErrNoActivities = errors.New("no activity folders found")
	// ErrNothingWritten means every activity was skipped or failed.
	ErrNothingWritten = errors.New("no activities were processed successfully")
)

// CombineOptions are the per-run settings of the combine command.
type CombineOptions struct {
	SourceRoot      string
	ExtractedSubdir string
	Activity        string // only this activity when set
	OutDir          string
	Prefix          string // sanitized name prepended to output files
	AddSession      bool
	Overwrite       bool
	Recursive       bool
	Format          views.Format
	Workers         int
}

// SessionSkip records a session that contributed no rows.
type SessionSkip struct {
	Session string
	Path    string
	Reason  string
	Err     error
}

// ActivityResult is the outcome of one activity.
type ActivityResult struct {
	Name       string
	Dir        string
	OutputPath string
	Written    bool
	Rows       int
	Sessions   int
	Skipped    []SessionSkip
	Summary    aggregate.Summary
	Reason     string // why nothing was written
	Err        error
}

// CombineReport lists activity results in discovery order.
type CombineReport struct {
	Activities []ActivityResult
	Written    int
}

// CombineController walks an activity tree, merges every session and
// writes one combined file per activity.
type CombineController struct {
	cfg    *utils.Config
	opts   CombineOptions
	kw     ingest.Keywords
	merger *merge.Merger
}

// NewCombineController wires the detector and merger from cfg.
func NewCombineController(cfg *utils.Config, opts CombineOptions) *CombineController {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	det := detect.NewFromConfig(cfg.Detect)
	return &CombineController{
		cfg:    cfg,
		opts:   opts,
		kw:     ingest.KeywordsFromConfig(cfg.Discover),
		merger: merge.New(det, merge.Options{KeepTextTimestamps: cfg.Merge.KeepTextTimestamps}),
	}
}

// Run processes every activity, up to opts.Workers at a time. It returns
// ErrNoActivities or ErrNothingWritten (with the partial report) when the
// run as a whole produced nothing, and ctx's error when cancelled.
func (cc *CombineController) Run(ctx context.Context) (*CombineReport, error) {
	activities, err := cc.activities()
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoActivities, cc.opts.SourceRoot)
	}

	if err := os.MkdirAll(cc.opts.OutDir, 0755); err != nil {
		return nil, &models.IOError{Op: "mkdir", Path: cc.opts.OutDir, Err: err}
	}

	results := make([]ActivityResult, len(activities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cc.opts.Workers)
	for i, dir := range activities {
		i, dir := i, dir
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = cc.processActivity(gctx, dir)
			return nil
		})
	}
	waitErr := g.Wait()

	report := &CombineReport{Activities: results}
	for _, r := range results {
		if r.Written {
			report.Written++
		}
	}
	if waitErr != nil {
		return report, waitErr
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	if report.Written == 0 {
		return report, ErrNothingWritten
	}
	return report, nil
}

func (cc *CombineController) activities() ([]string, error) {
	if cc.opts.Activity != "" {
		return []string{filepath.Join(cc.opts.SourceRoot, cc.opts.Activity)}, nil
	}
	dirs, err := ingest.FindActivities(cc.opts.SourceRoot)
	var ioErr *models.IOError
	if errors.As(err, &ioErr) && errors.Is(ioErr.Err, os.ErrNotExist) {
		return nil, nil
	}
	return dirs, err
}

func (cc *CombineController) processActivity(ctx context.Context, dir string) ActivityResult {
	name := utils.BaseName(dir)
	res := ActivityResult{Name: name, Dir: dir}

	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		res.Reason = "not a directory"
		utils.L().Warn("Skipping (not dir): %s", dir)
		return res
	}

	sessions, err := ingest.FindSessions(dir, cc.opts.ExtractedSubdir, cc.opts.Recursive, cc.kw)
	if err != nil {
		res.Err = err
		utils.L().Error("Failed to list sessions of activity '%s': %v", name, err)
		return res
	}
	if len(sessions) == 0 {
		res.Reason = "no sessions found"
		utils.L().Warn("No sessions found for activity '%s' under %s", name, filepath.Join(dir, cc.opts.ExtractedSubdir))
		return res
	}
	utils.L().Debug("Processing activity '%s' with %d session(s)...", name, len(sessions))

	var merged []*models.MergedSession
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		m, skip := cc.processSession(sess)
		if skip != nil {
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		merged = append(merged, m)
	}
	if len(merged) == 0 {
		res.Reason = "no merged data produced"
		utils.L().Warn("No merged data produced for activity '%s'", name)
		return res
	}

	table := aggregate.Concat(name, merged, cc.opts.AddSession)
	if !table.Sorted {
		utils.L().Warn("Timestamps of activity '%s' are not mutually comparable; keeping session order", name)
	}
	res.Summary = aggregate.Summarize(merged)

	out := aggregate.OutputPath(cc.opts.OutDir, cc.opts.Prefix, name, cc.cfg.Output.Suffix, cc.opts.Format.Ext(), cc.opts.Overwrite)
	n, err := views.WriteActivity(out, cc.opts.Format, table, cc.cfg.Output.Columns)
	if err != nil {
		res.Err = err
		utils.L().Error("Failed to write activity '%s': %v", name, err)
		return res
	}

	res.Written = true
	res.OutputPath = out
	res.Rows = n
	res.Sessions = len(table.Sessions)
	utils.L().Info("Wrote activity combined file: %s (%d rows across %d session(s))", out, n, res.Sessions)
	if s := res.Summary; s.Numeric {
		utils.L().Debug("  timestamps %g .. %g, interval mean=%g std=%g", s.First, s.Last, s.MeanInterval, s.StdInterval)
	}
	return res
}

// processSession merges one session; a non-nil skip explains why it
// contributed nothing.
func (cc *CombineController) processSession(dir string) (*models.MergedSession, *SessionSkip) {
	name := utils.BaseName(dir)
	skip := func(reason string, err error) *SessionSkip {
		return &SessionSkip{Session: name, Path: dir, Reason: reason, Err: err}
	}

	files, err := ingest.FindSensorFiles(dir, cc.kw)
	if err != nil {
		utils.L().Error(" Failed to list session '%s': %v", dir, err)
		return nil, skip("unreadable session folder", err)
	}
	if len(files.AccelMatches) > 1 {
		utils.L().Debug(" Session '%s': %d accelerometer candidates, using %s", name, len(files.AccelMatches), files.Accel)
	}
	if len(files.GyroMatches) > 1 {
		utils.L().Debug(" Session '%s': %d gyroscope candidates, using %s", name, len(files.GyroMatches), files.Gyro)
	}
	if !files.Complete() {
		utils.L().Warn(" Skipping session '%s' (missing accel or gyro)", name)
		return nil, skip("missing accel or gyro", nil)
	}

	accel, err := ingest.ReadTable(files.Accel)
	if err != nil {
		utils.L().Error(" Failed to merge session '%s': %v", dir, err)
		return nil, skip("unreadable accelerometer table", err)
	}
	gyro, err := ingest.ReadTable(files.Gyro)
	if err != nil {
		utils.L().Error(" Failed to merge session '%s': %v", dir, err)
		return nil, skip("unreadable gyroscope table", err)
	}

	m, err := cc.merger.Merge(accel, gyro)
	if err != nil {
		utils.L().Error(" Failed to merge session '%s': %v", dir, err)
		return nil, skip("column detection failed", err)
	}
	m.Name = name
	utils.L().Debug(" Session '%s': accel_ts='%s', gyro_ts='%s'", name, m.AccelTimestamp, m.GyroTimestamp)
	utils.L().Debug("  accel axes %s, gyro axes %s", m.AccelAxes, m.GyroAxes)

	if m.Empty() {
		utils.L().Warn("  Session '%s' produced no merged rows (no matching timestamps)", name)
		return nil, skip("no matching timestamps", nil)
	}
	utils.L().Debug("  Merged session '%s' -> %d rows", name, len(m.Rows))
	return m, nil
}
