package values

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeValuesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve(t *testing.T) {
	path := writeValuesFile(t, "APP_NAME=hello\nNAMESPACE=demo\n\n# a comment\nREPLICAS=2\n")

	vals, err := Resolve(path)
	require.NoError(t, err)

	assert.Equal(t, "hello", vals["APP_NAME"])
	assert.Equal(t, "demo", vals["NAMESPACE"])
	assert.Equal(t, "2", vals["REPLICAS"])
	assert.Len(t, vals, 3)
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestResolveMalformedSource(t *testing.T) {
	path := writeValuesFile(t, "APP_NAME=hello\nthis line has no separator\n")

	_, err := Resolve(path)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestRequire(t *testing.T) {
	vals := Set{"APP_NAME": "hello", "NAMESPACE": "demo"}

	assert.NoError(t, vals.Require("APP_NAME", "NAMESPACE"))

	err := vals.Require("APP_NAME", "REPLICAS", "IMAGE")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	// All missing keys are reported at once, in sorted order.
	assert.EqualError(t, err, "missing required values: IMAGE, REPLICAS")
}

func TestMerge(t *testing.T) {
	merged := Merge(
		Set{"A": "1", "B": "2"},
		Set{"B": "override", "C": "3"},
	)

	assert.Equal(t, Set{"A": "1", "B": "override", "C": "3"}, merged)
}

func TestCloneIsIndependent(t *testing.T) {
	original := Set{"A": "1"}
	clone := original.Clone()
	clone["A"] = "changed"
	clone["B"] = "new"

	assert.Equal(t, "1", original["A"])
	assert.NotContains(t, original, "B")
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Set
		wantErr bool
	}{
		{
			name:  "empty input",
			input: "",
			want:  Set{},
		},
		{
			name:  "single pair",
			input: "A=1",
			want:  Set{"A": "1"},
		},
		{
			name:  "multiple pairs with spaces",
			input: "A=1, B=2",
			want:  Set{"A": "1", "B": "2"},
		},
		{
			name:  "value containing equals",
			input: "IMAGE=registry.example.com/app:v1=tag",
			want:  Set{"IMAGE": "registry.example.com/app:v1=tag"},
		},
		{
			name:    "missing separator",
			input:   "A",
			wantErr: true,
		},
		{
			name:    "empty key",
			input:   "=1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInline(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
