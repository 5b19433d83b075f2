package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/elasticlf4/InputParameters"
)

func TestRun1D(t *testing.T) {
	ip, err := InputParameters.Defaults("eigenmode")
	require.NoError(t, err)
	fileInput := []byte(`
Title: Test Case
Elements: 4
PolynomialOrder: 2
FinalTime: 0.5
OutputInterval: 10
OutputPrefix: standing
`)
	require.NoError(t, ip.Parse(fileInput))
	require.NoError(t, ip.Validate())
	var (
		out bytes.Buffer
		dir = t.TempDir()
	)
	m1d := &Model1D{Input: ip, OutputDir: dir, ASCII: true, Out: &out}
	require.NoError(t, Run1D(context.Background(), m1d))
	assert.Contains(t, out.String(), "velocity (blue), stress (red)")

	f, err := os.Open(filepath.Join(dir, "standing.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"step", "time", "x", "u", "s"}, rows[0])
	assert.Equal(t, 0, (len(rows)-1)%(3*4))
}

func TestRunStudy(t *testing.T) {
	ip, err := InputParameters.Defaults("eigenmode")
	require.NoError(t, err)
	ip.Elements = 4
	var out bytes.Buffer
	require.NoError(t, Run1D(context.Background(), &Model1D{Input: ip, Study: true, Out: &out}))
	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"title", "order", "K", "errU", "errS"}, rows[0])
	assert.Equal(t, []string{"eigenmode-consistent", "1", "32"}, rows[4][:3])
}

func TestStartProfile(t *testing.T) {
	p, err := startProfile("")
	require.NoError(t, err)
	assert.Nil(t, p)
	_, err = startProfile("gpu")
	assert.Error(t, err)
}
