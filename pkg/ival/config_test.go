package ival

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
strict = true
create_scope = "outermost"
arg_scope = "caller"
max_call_depth = 64
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, Options{
		Strict:       true,
		Create:       CreateOutermost,
		ArgScope:     ArgsInCaller,
		MaxCallDepth: 64,
	}, config.Options())
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "strikt = true\n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "unknown keys: strikt")
	})

	t.Run("bad policy", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `arg_scope = "nowhere"`+"\n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, `unknown argument scope "nowhere"`)
	})

	t.Run("bad toml", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "strict = \n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "parsing "+path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFileName))
		assert.Error(t, err)
	})
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	t.Run("not found", func(t *testing.T) {
		path, config, err := FindConfig(nested)
		require.NoError(t, err)
		// a config further up the real filesystem would be picked up here;
		// only assert when nothing was found outside the temp dir
		if path != "" {
			assert.NotContains(t, path, root)
			return
		}
		assert.Nil(t, config)
	})

	t.Run("walks up", func(t *testing.T) {
		want := writeConfig(t, root, "max_call_depth = 5\n")

		path, config, err := FindConfig(nested)
		require.NoError(t, err)
		assert.Equal(t, want, path)
		require.NotNil(t, config)
		assert.Equal(t, 5, config.MaxCallDepth)
	})
}

func TestConfigApplyEnv(t *testing.T) {
	t.Setenv("IVAL_STRICT", "true")
	t.Setenv("IVAL_CREATE_SCOPE", "outermost")
	t.Setenv("IVAL_ARG_SCOPE", "caller")
	t.Setenv("IVAL_MAX_CALL_DEPTH", "12")

	config := &Config{ArgScope: "callee", MaxCallDepth: 3}
	require.NoError(t, config.ApplyEnv())

	assert.True(t, config.Strict)
	assert.Equal(t, "outermost", config.CreateScope)
	assert.Equal(t, "caller", config.ArgScope)
	assert.Equal(t, 12, config.MaxCallDepth)
}

func TestConfigApplyEnvErrors(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		t.Setenv("IVAL_STRICT", "very")
		assert.ErrorContains(t, (&Config{}).ApplyEnv(), "IVAL_STRICT")
	})

	t.Run("depth", func(t *testing.T) {
		t.Setenv("IVAL_MAX_CALL_DEPTH", "deep")
		assert.ErrorContains(t, (&Config{}).ApplyEnv(), "IVAL_MAX_CALL_DEPTH")
	})

	t.Run("depth too large", func(t *testing.T) {
		t.Setenv("IVAL_MAX_CALL_DEPTH", "50000000")
		assert.ErrorContains(t, (&Config{}).ApplyEnv(), "exceeds the limit")
	})

	t.Run("policy", func(t *testing.T) {
		t.Setenv("IVAL_CREATE_SCOPE", "middle")
		assert.ErrorContains(t, (&Config{}).ApplyEnv(), `unknown create scope policy "middle"`)
	})
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, Options{}.Validate())
	assert.NoError(t, Options{Create: CreateOutermost, ArgScope: ArgsInCaller, MaxCallDepth: 1}.Validate())
	assert.Error(t, Options{MaxCallDepth: -1}.Validate())
	assert.NoError(t, Options{MaxCallDepth: MaxAllowedCallDepth}.Validate())
	assert.EqualError(t, Options{MaxCallDepth: MaxAllowedCallDepth + 1}.Validate(),
		"max call depth 100001 exceeds the limit of 100000")
}
