package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/molecule/config"
	"github.com/pthm-cable/molecule/game"
)

func execute(t *testing.T, runWindow WindowRunner, args ...string) (string, error) {
	t.Helper()
	if runWindow == nil {
		runWindow = func(*config.Config, game.Options) error {
			t.Fatal("window runner should not be called")
			return nil
		}
	}
	root := NewRootCommand(runWindow)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigCommand_PrintsEffectiveConfig(t *testing.T) {
	out, err := execute(t, nil, "config", "--count", "7", "--influence-radius", "42")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 7, cfg.Particles.Count)
	assert.Equal(t, 42.0, cfg.Particles.InfluenceRadius)
	assert.Equal(t, 150.0, cfg.Particles.ConnectionDistance)
}

func TestRootCommand_PassesOptionsToWindow(t *testing.T) {
	var got game.Options
	var gotCfg *config.Config
	runner := func(cfg *config.Config, opts game.Options) error {
		gotCfg = cfg
		got = opts
		return nil
	}

	_, err := execute(t, runner, "--seed", "5", "--connection-distance", "80", "--count", "12")
	require.NoError(t, err)
	require.NotNil(t, gotCfg)

	assert.Equal(t, int64(5), got.Seed)
	assert.Equal(t, 12, got.Count)
	assert.Equal(t, 80.0, got.Style.ConnectionDistance)
	assert.Equal(t, 100.0, got.Physics.InfluenceRadius)
	assert.NotNil(t, got.Logger)
}

func TestRootCommand_RejectsInvalidOverride(t *testing.T) {
	_, err := execute(t, nil, "config", "--count", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, err := execute(t, nil, "config", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		wantErr bool
	}{
		{"json info", "json", "info", false},
		{"text debug", "text", "debug", false},
		{"upper case format", "JSON", "warn", false},
		{"bad format", "xml", "info", true},
		{"bad level", "json", "loud", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := newLogger(io.Discard, tt.format, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestHeadless_WritesSnapshotAndPerf(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("telemetry:\n  perf_window: 10\n"), 0644))

	outDir := filepath.Join(dir, "run")
	snap := filepath.Join(dir, "last.png")

	_, err := execute(t, nil,
		"headless",
		"--config", cfgPath,
		"--log-format", "text",
		"--seed", "3",
		"--frames", "20",
		"--fps", "0",
		"--width", "200",
		"--height", "120",
		"--pointer-orbit",
		"--snapshot", snap,
		"--output-dir", outDir,
	)
	require.NoError(t, err)

	f, err := os.Open(snap)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())

	pf, err := os.Open(filepath.Join(outDir, "perf.csv"))
	require.NoError(t, err)
	defer pf.Close()
	rows, err := csv.NewReader(pf).ReadAll()
	require.NoError(t, err)
	// header plus one row per completed window
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "window_end", rows[0][0])
	assert.Equal(t, "10", rows[1][0])
	assert.Equal(t, "20", rows[2][0])

	_, err = os.Stat(filepath.Join(outDir, "config.yaml"))
	assert.NoError(t, err)
}

func TestHeadless_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := NewRootCommand(nil)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"headless", "--frames", "0", "--fps", "30", "--width", "64", "--height", "64"})
	require.NoError(t, root.ExecuteContext(ctx))
}
