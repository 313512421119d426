package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Config
		wantErr bool
	}{
		{
			name:  "empty",
			input: "",
			want:  Config{BuildDir: "build", DefaultTool: "cmake"},
		},
		{
			name:  "build dir",
			input: `build_dir = "out"`,
			want:  Config{BuildDir: "out", DefaultTool: "cmake"},
		},
		{
			name: "both",
			input: `build_dir = "out/debug"
default_tool = "/opt/cmake/bin/cmake"`,
			want: Config{BuildDir: "out/debug", DefaultTool: "/opt/cmake/bin/cmake"},
		},
		{
			name:  "blank values",
			input: `build_dir = ""`,
			want:  Config{BuildDir: "build", DefaultTool: "cmake"},
		},
		{
			name:    "unknown key",
			input:   `generator = "Ninja"`,
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   `build_dir = `,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
	t.Run("reads cmk.toml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`build_dir = "out"`), 0644))
		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "out", cfg.BuildDir)
	})
	t.Run("error names the file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`build_dir = [`), 0644))
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), FileName)
	})
}
