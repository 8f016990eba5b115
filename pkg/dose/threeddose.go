package dose

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

// MaxVoxels bounds the grids Read3DDose accepts
const MaxVoxels = 1 << 28

// Read3DDose parses the whitespace delimited .3ddose format:
// nx ny nz, the x, y and z boundaries, the dose block and an optional error block.
func Read3DDose(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	count := 0
	next := func() (float64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		count++
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return 0, fmt.Errorf("token %d: %w", count, err)
		}
		return v, nil
	}
	block := func(name string, n int) ([]float64, error) {
		out := make([]float64, n)
		for i := range out {
			v, err := next()
			if err != nil {
				return nil, fmt.Errorf("%s %d of %d: %w", name, i+1, n, err)
			}
			out[i] = v
		}
		return out, nil
	}

	dims, err := block("dimension", 3)
	if err != nil {
		return nil, err
	}
	voxels := 1.0
	for _, d := range dims {
		if d < 1 || d > MaxVoxels || d != math.Trunc(d) {
			return nil, fmt.Errorf("%w: dimensions %v", ErrInvalidGrid, dims)
		}
		voxels *= d
	}
	if voxels > MaxVoxels {
		return nil, fmt.Errorf("%w: %v voxels exceed %d", ErrInvalidGrid, voxels, MaxVoxels)
	}
	g := &Grid{Nx: int(dims[0]), Ny: int(dims[1]), Nz: int(dims[2])}
	if g.X, err = block("x boundary", g.Nx+1); err != nil {
		return nil, err
	}
	if g.Y, err = block("y boundary", g.Ny+1); err != nil {
		return nil, err
	}
	if g.Z, err = block("z boundary", g.Nz+1); err != nil {
		return nil, err
	}
	if g.Values, err = block("dose", g.Len()); err != nil {
		return nil, err
	}

	// the error block is optional but all or nothing
	if sc.Scan() {
		first, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("error 1: %w", err)
		}
		rest, err := block("error", g.Len()-1)
		if err != nil {
			return nil, err
		}
		g.Errors = append([]float64{first}, rest...)
	} else if err := sc.Err(); err != nil {
		return nil, err
	}

	for a, b := range [][]float64{g.X, g.Y, g.Z} {
		g.Flip[a] = len(b) > 1 && b[1] < b[0]
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Write3DDose writes g one block per line with shortest round-trip formatting
func Write3DDose(w io.Writer, g *Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", g.Nx, g.Ny, g.Nz)
	blocks := [][]float64{g.X, g.Y, g.Z, g.Values}
	if g.Errors != nil {
		blocks = append(blocks, g.Errors)
	}
	var buf []byte
	for _, b := range blocks {
		for i, v := range b {
			if i > 0 {
				bw.WriteByte(' ')
			}
			buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
