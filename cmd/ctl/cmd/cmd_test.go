package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpfielding/brachy.go/pkg/dose"
	"github.com/jpfielding/brachy.go/pkg/dvh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(context.Background(), "abc123")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const grid3DDose = `2 2 1
0 1 2
0 1 2
0 2
1 2 3 4
0.1 0.1 0.1 0.1
`

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)
}

func TestDoseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.3ddose")
	dcm := filepath.Join(dir, "out.dcm")
	back := filepath.Join(dir, "back.3ddose")
	require.NoError(t, os.WriteFile(in, []byte(grid3DDose), 0o644))

	_, err := run(t, "todicom", in, dcm, "--patient-id", "P1")
	require.NoError(t, err)

	out, err := run(t, "dump", dcm)
	require.NoError(t, err)
	assert.Contains(t, out, "RTDOSE")
	assert.Contains(t, out, "P1")

	out, err = run(t, "dump", "-f", "json", dcm)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	_, err = run(t, "to3ddose", dcm, back)
	require.NoError(t, err)
	f, err := os.Open(back)
	require.NoError(t, err)
	defer f.Close()
	g, err := dose.Read3DDose(f)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4}, g.Values, 1e-6)
	assert.InDeltaSlice(t, []float64{0, 2}, g.Z, 1e-9)
}

func TestRecode(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.3ddose")
	dcm := filepath.Join(dir, "dose.dcm")
	compressed := filepath.Join(dir, "rle.dcm")
	plain := filepath.Join(dir, "plain.dcm")
	back := filepath.Join(dir, "back.3ddose")
	require.NoError(t, os.WriteFile(in, []byte(grid3DDose), 0o644))

	_, err := run(t, "todicom", in, dcm)
	require.NoError(t, err)
	_, err = run(t, "recode", dcm, compressed, "--rle")
	require.NoError(t, err)
	out, err := run(t, "dump", compressed)
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.840.10008.1.2.5")

	_, err = run(t, "recode", compressed, plain)
	require.NoError(t, err)
	_, err = run(t, "to3ddose", plain, back)
	require.NoError(t, err)
	f, err := os.Open(back)
	require.NoError(t, err)
	defer f.Close()
	g, err := dose.Read3DDose(f)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4}, g.Values, 1e-6)
}

func TestToDICOM_BadInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.3ddose")
	out := filepath.Join(dir, "out.dcm")
	for _, content := range []string{"2 2 1\n0 1 2\n", "3000000 3000000 3000000\n0 1\n"} {
		require.NoError(t, os.WriteFile(in, []byte(content), 0o644))

		_, err := run(t, "todicom", in, out)
		var ce *dose.ConversionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "read 3ddose", ce.Stage)
		assert.NoFileExists(t, out)
	}
}

func TestDVH(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.3ddose")
	labels := filepath.Join(dir, "labels.txt")
	require.NoError(t, os.WriteFile(in, []byte(grid3DDose), 0o644))
	require.NoError(t, os.WriteFile(labels, []byte("1 0\n1 1\n"), 0o644))

	out, err := run(t, "dvh", in, "--labels", labels, "--label", "1", "--name", "PTV",
		"--prescription", "2", "--dx", "50", "--vx", "100")
	require.NoError(t, err)
	var s dvh.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "PTV", s.Name)
	assert.Equal(t, 3, s.Voxels)
	assert.Equal(t, 6.0, s.Volume)
	assert.Equal(t, []dvh.Metric{{Name: "D50", Value: 3}}, s.D)
	assert.Equal(t, []dvh.Metric{{Name: "V100", Value: 100.0 * 2 / 3}}, s.V)

	_, err = run(t, "dvh", in, "--labels", labels, "--label", "9")
	assert.ErrorIs(t, err, dvh.ErrNoVoxels)
}

func TestReadLabels(t *testing.T) {
	l, err := readLabels(strings.NewReader(" 1 2\n\t3 "))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, l)
	_, err = readLabels(strings.NewReader("1 x"))
	assert.Error(t, err)
}
