package controller

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"sensor-combine/models"
	"sensor-combine/utils"
	"sensor-combine/views"
)

func TestMain(m *testing.M) {
	utils.SetLogger(utils.NopLogger())
	goleak.VerifyTestMain(m)
}

const (
	accelS1 = "time,x,y,z\n1,0.1,0.2,9.8\n2,0.2,0.3,9.7\n3,0.3,0.4,9.6\n"
	gyroS1  = "seconds_elapsed,x,y,z\n3,0.04,0.05,0.06\n2,0.01,0.02,0.03\n4,0.07,0.08,0.09\n"
	accelS2 = "time,x,y,z\n2,1.1,1.2,1.3\n"
	gyroS2  = "time,x,y,z\n2,2.1,2.2,2.3\n"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func combineOpts(root string) CombineOptions {
	return CombineOptions{
		SourceRoot:      root,
		ExtractedSubdir: "extracted",
		OutDir:          filepath.Join(root, "combined"),
		Format:          views.FormatCSV,
		Workers:         1,
	}
}

func TestCombineSkipsIncompleteSession(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "jumping", "extracted", "s1", "Accelerometer.csv"), accelS1)
	writeFile(t, filepath.Join(root, "jumping", "extracted", "s1", "Gyroscope.csv"), gyroS1)
	writeFile(t, filepath.Join(root, "jumping", "extracted", "s2", "Accelerometer.csv"), accelS2)

	opts := combineOpts(root)
	opts.OutDir = filepath.Join(t.TempDir(), "combined")
	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Activities, 1)
	assert.Equal(t, 1, report.Written)

	res := report.Activities[0]
	assert.Equal(t, "jumping", res.Name)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 1, res.Sessions)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "s2", res.Skipped[0].Session)
	assert.Equal(t, "missing accel or gyro", res.Skipped[0].Reason)

	assert.Equal(t, filepath.Join(opts.OutDir, "jumping_combined.csv"), res.OutputPath)
	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t,
		"timestamp,accel_x,accel_y,accel_z,gyro_x,gyro_y,gyro_z\n"+
			"2,0.2,0.3,9.7,0.01,0.02,0.03\n"+
			"3,0.3,0.4,9.6,0.04,0.05,0.06\n",
		string(data))
	assert.True(t, res.Summary.Numeric)
	assert.Equal(t, 1.0, res.Summary.MeanInterval)
}

func TestCombineSessionColumnAndPrefix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "walking", "extracted", "s1", "accelerometer.csv"), accelS1)
	writeFile(t, filepath.Join(root, "walking", "extracted", "s1", "gyroscope.csv"), gyroS1)
	writeFile(t, filepath.Join(root, "walking", "extracted", "s2", "accelerometer.csv"), accelS2)
	writeFile(t, filepath.Join(root, "walking", "extracted", "s2", "gyroscope.csv"), gyroS2)

	opts := combineOpts(root)
	opts.OutDir = filepath.Join(t.TempDir(), "out")
	opts.AddSession = true
	opts.Prefix = utils.SanitizeName("Trial A")
	require.NoError(t, os.MkdirAll(opts.OutDir, 0755))
	writeFile(t, filepath.Join(opts.OutDir, "trial_a_walking_combined.csv"), "old")

	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	res := report.Activities[0]
	assert.Equal(t, filepath.Join(opts.OutDir, "trial_a_walking_combined_1.csv"), res.OutputPath)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t,
		"session,timestamp,accel_x,accel_y,accel_z,gyro_x,gyro_y,gyro_z\n"+
			"s1,2,0.2,0.3,9.7,0.01,0.02,0.03\n"+
			"s2,2,1.1,1.2,1.3,2.1,2.2,2.3\n"+
			"s1,3,0.3,0.4,9.6,0.04,0.05,0.06\n",
		string(data))
}

func TestCombineSkipsDisjointSession(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "walking", "extracted", "s1", "accelerometer.csv"), accelS2)
	writeFile(t, filepath.Join(root, "walking", "extracted", "s1", "gyroscope.csv"), gyroS2)
	writeFile(t, filepath.Join(root, "walking", "extracted", "s2", "accelerometer.csv"), accelS2)
	writeFile(t, filepath.Join(root, "walking", "extracted", "s2", "gyroscope.csv"), "time,x,y,z\n9,0.1,0.1,0.1\n")

	opts := combineOpts(root)
	opts.OutDir = filepath.Join(t.TempDir(), "out")
	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.NoError(t, err)

	res := report.Activities[0]
	assert.True(t, res.Written)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, 1, res.Sessions)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "s2", res.Skipped[0].Session)
	assert.Equal(t, "no matching timestamps", res.Skipped[0].Reason)
	assert.NoError(t, res.Skipped[0].Err)
}

func TestCombineSchemaFailureIsReported(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sitting", "extracted", "s1", "accelerometer.csv"), "time,a,b\n1,2,3\n")
	writeFile(t, filepath.Join(root, "sitting", "extracted", "s1", "gyroscope.csv"), gyroS1)

	opts := combineOpts(root)
	opts.OutDir = filepath.Join(t.TempDir(), "out")
	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.ErrorIs(t, err, ErrNothingWritten)
	res := report.Activities[0]
	assert.False(t, res.Written)
	require.Len(t, res.Skipped, 1)
	var schemaErr *models.SchemaError
	assert.ErrorAs(t, res.Skipped[0].Err, &schemaErr)
	assert.NoFileExists(t, filepath.Join(opts.OutDir, "sitting_combined.csv"))
}

func TestCombineNoActivities(t *testing.T) {
	_, err := NewCombineController(utils.DefaultConfig(), combineOpts(filepath.Join(t.TempDir(), "missing"))).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoActivities)

	_, err = NewCombineController(utils.DefaultConfig(), combineOpts(t.TempDir())).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoActivities)
}

func TestCombineActivityFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "running", "extracted", "s1", "accelerometer.csv"), accelS2)
	writeFile(t, filepath.Join(root, "running", "extracted", "s1", "gyroscope.csv"), gyroS2)
	writeFile(t, filepath.Join(root, "other", "extracted", "s1", "accelerometer.csv"), accelS2)
	writeFile(t, filepath.Join(root, "other", "extracted", "s1", "gyroscope.csv"), gyroS2)

	opts := combineOpts(root)
	opts.OutDir = filepath.Join(t.TempDir(), "out")
	opts.Activity = "running"
	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Activities, 1)
	assert.Equal(t, "running", report.Activities[0].Name)

	opts.Activity = "nope"
	report, err = NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.ErrorIs(t, err, ErrNothingWritten)
	assert.Equal(t, "not a directory", report.Activities[0].Reason)
}

func TestCombineRecursiveAndXLSX(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cycling", "day1", "run", "accel_data.csv"), accelS2)
	writeFile(t, filepath.Join(root, "cycling", "day1", "run", "gyro_data.csv"), gyroS2)

	opts := combineOpts(root)
	opts.OutDir = filepath.Join(t.TempDir(), "out")
	opts.Recursive = true
	opts.Format = views.FormatXLSX
	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.OutDir, "cycling_combined.xlsx"), report.Activities[0].OutputPath)
	assert.FileExists(t, report.Activities[0].OutputPath)
}

func TestCombineParallelKeepsOrder(t *testing.T) {
	root := t.TempDir()
	names := []string{"a", "b", "c", "d", "e"}
	for _, n := range names {
		writeFile(t, filepath.Join(root, n, "extracted", "s", "accelerometer.csv"), accelS2)
		writeFile(t, filepath.Join(root, n, "extracted", "s", "gyroscope.csv"), gyroS2)
	}

	opts := combineOpts(root)
	opts.OutDir = filepath.Join(t.TempDir(), "out")
	opts.Workers = 3
	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(names), report.Written)
	for i, n := range names {
		assert.Equal(t, n, report.Activities[i].Name)
	}
}

func TestCombineCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "extracted", "s", "accelerometer.csv"), accelS2)
	writeFile(t, filepath.Join(root, "a", "extracted", "s", "gyroscope.csv"), gyroS2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := combineOpts(root)
	opts.OutDir = filepath.Join(t.TempDir(), "out")
	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Written)
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestExtract(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "extracted")
	writeZip(t, filepath.Join(src, "s1.zip"), map[string]string{
		"Walk/Accelerometer.csv": accelS1,
		"Walk/Gyroscope.csv":     gyroS1,
		"Walk/Location.csv":      "time,lat\n",
	})
	writeZip(t, filepath.Join(src, "s2.zip"), map[string]string{"readme.txt": "hi"})
	writeFile(t, filepath.Join(src, "s3.zip"), "corrupt")

	report, err := NewExtractController(utils.DefaultConfig(), ExtractOptions{Source: src, Dest: dest}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 2, report.Extracted)

	assert.FileExists(t, filepath.Join(dest, "s1", "Accelerometer.csv"))
	assert.FileExists(t, filepath.Join(dest, "s1", "Gyroscope.csv"))
	assert.NoFileExists(t, filepath.Join(dest, "s1", "Location.csv"))
	assert.NoDirExists(t, filepath.Join(dest, "s2"))

	var bad *models.BadArchiveError
	assert.ErrorAs(t, report.Archives[2].Err, &bad)
}

func TestExtractListOnly(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "extracted")
	zipPath := filepath.Join(src, "s1.zip")
	writeZip(t, zipPath, map[string]string{"Walk/gyroscope.csv": gyroS1})

	var out bytes.Buffer
	report, err := NewExtractController(utils.DefaultConfig(), ExtractOptions{Source: src, Dest: dest, ListOnly: true}, &out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Zero(t, report.Extracted)
	assert.Equal(t, "Zip: "+zipPath+"\n  Walk/gyroscope.csv\n", out.String())
	assert.NoDirExists(t, dest)
}

func TestExtractErrors(t *testing.T) {
	_, err := NewExtractController(utils.DefaultConfig(), ExtractOptions{Source: filepath.Join(t.TempDir(), "missing"), Dest: t.TempDir()}, nil).Run(context.Background())
	var ioErr *models.IOError
	assert.ErrorAs(t, err, &ioErr)

	report, err := NewExtractController(utils.DefaultConfig(), ExtractOptions{Source: t.TempDir(), Dest: t.TempDir()}, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoArchives)
	assert.Zero(t, report.Processed)
}

func TestExtractThenCombine(t *testing.T) {
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "zips", "morning.zip"), map[string]string{
		"x/accelerometer.csv": accelS1,
		"x/gyroscope.csv":     gyroS1,
	})
	dest := filepath.Join(root, "data", "jumping", "extracted")
	_, err := NewExtractController(utils.DefaultConfig(), ExtractOptions{Source: filepath.Join(root, "zips"), Dest: dest}, nil).Run(context.Background())
	require.NoError(t, err)

	opts := combineOpts(filepath.Join(root, "data"))
	opts.OutDir = filepath.Join(root, "combined")
	report, err := NewCombineController(utils.DefaultConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	data, err := os.ReadFile(report.Activities[0].OutputPath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}
