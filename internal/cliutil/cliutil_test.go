package cliutil_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wandb/leetchart/internal/chart"
	"github.com/wandb/leetchart/internal/cliutil"
)

func TestParseWindow(t *testing.T) {
	t.Parallel()

	w, err := cliutil.ParseWindow("5:12.5")
	require.NoError(t, err)
	assert.Equal(t, chart.Window{Start: 5, End: 12.5}, w)

	for _, bad := range []string{"", "5", "a:3", "3:b"} {
		_, err := cliutil.ParseWindow(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseIndices(t *testing.T) {
	t.Parallel()

	got, err := cliutil.ParseIndices("0, 2,5")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 5}, got)

	got, err = cliutil.ParseIndices("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = cliutil.ParseIndices("1,x")
	assert.Error(t, err)
	_, err = cliutil.ParseIndices("-1")
	assert.Error(t, err)
}

func TestGetString_FallsBackToEnv(t *testing.T) {
	t.Setenv("LEETCHART_TEST_VALUE", "from-env")
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String("value", "", "")

	assert.Equal(t, "from-env", cliutil.GetString(cmd, "value", "LEETCHART_TEST_VALUE"))

	require.NoError(t, cmd.Flags().Set("value", "from-flag"))
	assert.Equal(t, "from-flag", cliutil.GetString(cmd, "value", "LEETCHART_TEST_VALUE"))
}

func TestGetBool_FlagWinsOverEnv(t *testing.T) {
	t.Setenv("LEETCHART_TEST_DEBUG", "true")
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Bool("debug", false, "")

	assert.True(t, cliutil.GetBool(cmd, "debug", "LEETCHART_TEST_DEBUG"))

	require.NoError(t, cmd.Flags().Set("debug", "false"))
	assert.False(t, cliutil.GetBool(cmd, "debug", "LEETCHART_TEST_DEBUG"))
}

func outputCmd(args ...string) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{Use: "x"}
	cliutil.AddOutputFlags(cmd, "json")
	cmd.SetOut(&out)
	_ = cmd.Flags().Parse(args)
	return cmd, &out
}

func TestHandleOutput(t *testing.T) {
	t.Parallel()
	v := map[string]any{"version": "1.2.3"}

	cmd, out := outputCmd()
	require.NoError(t, cliutil.HandleOutput(cmd, v))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "1.2.3", decoded["version"])

	cmd, out = outputCmd("--format", "yaml")
	require.NoError(t, cliutil.HandleOutput(cmd, v))
	decoded = nil
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "1.2.3", decoded["version"])

	cmd, out = outputCmd("--template", "v{{.version}}")
	require.NoError(t, cliutil.HandleOutput(cmd, v))
	assert.Equal(t, "v1.2.3\n", out.String())

	cmd, _ = outputCmd("--format", "toml")
	assert.Error(t, cliutil.HandleOutput(cmd, v))
}

func TestApp_InitWritesDebugLog(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	var stderr bytes.Buffer
	app := cliutil.NewApp(fs, &stderr)

	require.NoError(t, app.Init(cliutil.AppParams{
		ConfigPath: "/home/me/.leetchart.yaml",
		Debug:      true,
		NoSentry:   true,
		Version:    "dev",
	}))
	frames := prometheus.NewCounter(prometheus.CounterOpts{Name: "leetchart_test_total"})
	app.Registry.MustRegister(frames)
	frames.Add(3)
	app.Close()

	assert.Equal(t, "/home/me/.leetchart.yaml", app.Config.Path())
	data, err := afero.ReadFile(fs, cliutil.DebugLogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"cliutil: initialized"`)
	assert.Contains(t, string(data), `"metric":"leetchart_test_total"`)
	assert.Empty(t, stderr.String())
}

func TestApp_WarningsGoToStderr(t *testing.T) {
	t.Parallel()
	var stderr bytes.Buffer
	app := cliutil.NewApp(afero.NewMemMapFs(), &stderr)
	require.NoError(t, app.Init(cliutil.AppParams{ConfigPath: "/c.yaml", NoSentry: true}))

	app.Logger.Debug("hidden")
	app.Logger.Warn("dataset has gaps", "chart", "joined")
	app.Close()

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "dataset has gaps")
	assert.Contains(t, stderr.String(), "chart=joined")
}

func TestApp_CloseWithoutInit(t *testing.T) {
	t.Parallel()
	app := cliutil.NewApp(afero.NewMemMapFs(), &bytes.Buffer{})

	assert.NotPanics(t, app.Close)
}
