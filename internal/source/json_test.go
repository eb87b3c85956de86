package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/config"
)

func TestJSONFileLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admissions.json")
	require.NoError(t, admission.SaveTable(path, fakeTable()))

	src := NewJSONFile(path)
	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	fp, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Contains(t, fp, "admissions.json@")
}

func TestJSONFileRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admissions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"records":[{"name":"Ghost"}]}`), 0o644))

	_, err := NewJSONFile(path).Load(context.Background())
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	src, closeFn, err := Open(ctx, config.SourceConfig{Driver: config.DriverSQLite, Path: "x.db", Table: "t"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "sqlite:x.db", src.Name())
	assert.NoError(t, closeFn())

	src, _, err = Open(ctx, config.SourceConfig{Driver: config.DriverJSON, Path: "x.json"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "json:x.json", src.Name())

	_, closeFn, err = Open(ctx, config.SourceConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
