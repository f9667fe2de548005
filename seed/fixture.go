package seed

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/phil-mansfield/table"

	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/vmath"
)

// Supported fixture layouts, whitespace separated, '#' comments
//
//	6:  x y z r g b              (at rest)
//	9:  x y z vx vy vz r g b
//	10: x y z vx vy vz r g b m
const (
	layoutAtRest   = 6
	layoutVelocity = 9
	layoutMass     = 10
)

var ErrFixtureLayout = errors.New("fixture must have 6, 9 or 10 columns")

// LoadTable reads seed records from a text table, one particle per row
// The column count of the first data row selects the layout
func LoadTable(fname string) ([]particle.Seed, error) {
	n, err := columnCount(fname)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", fname, err)
	}
	switch n {
	case 0:
		return []particle.Seed{}, nil
	case layoutAtRest, layoutVelocity, layoutMass:
	default:
		return nil, fmt.Errorf("fixture %s: %w, got %d", fname, ErrFixtureLayout, n)
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	cols, err := table.ReadTable(fname, idx, nil)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", fname, err)
	}
	if len(cols) != n {
		return nil, fmt.Errorf("fixture %s: want %d columns, got %d", fname, n, len(cols))
	}
	return fromColumns(cols), nil
}

// columnCount returns the field count of the first non-comment row, 0 for an empty table
func columnCount(fname string) (int, error) {
	f, err := os.Open(fname)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return len(strings.Fields(line)), nil
	}
	return 0, sc.Err()
}

// fromColumns transposes column-major table data into seeds, layout chosen by len(cols)
func fromColumns(cols [][]float64) []particle.Seed {
	seeds := make([]particle.Seed, len(cols[0]))
	color := 3
	if len(cols) >= layoutVelocity {
		color = 6
	}

	for i := range seeds {
		s := particle.Seed{
			Position: vmath.Vec3F{X: cols[0][i], Y: cols[1][i], Z: cols[2][i]},
			Color:    [3]float32{float32(cols[color][i]), float32(cols[color+1][i]), float32(cols[color+2][i])},
		}
		if len(cols) >= layoutVelocity {
			s.Velocity = vmath.Vec3F{X: cols[3][i], Y: cols[4][i], Z: cols[5][i]}
		}
		if len(cols) == layoutMass {
			s.Mass = cols[9][i]
		}
		seeds[i] = s
	}
	return seeds
}
