package services

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

// Below this many points the goroutine overhead outweighs the work.
const parallelMatrixThreshold = 64

// buildDistanceMatrix computes the full symmetric matrix with a zero diagonal.
//
// Row i owns the cells (i, j) and (j, i) for j > i, so every cell is written
// exactly once and the result does not depend on scheduling.
func buildDistanceMatrix(
	ctx context.Context,
	points []domain.Coordinates,
	provider ports.DistanceProvider,
) ([][]float64, error) {
	n := len(points)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	fillRow := func(i int) {
		for j := i + 1; j < n; j++ {
			d := provider.DistanceKm(points[i], points[j])
			matrix[i][j] = d
			matrix[j][i] = d
		}
	}

	if n < parallelMatrixThreshold {
		for i := 0; i < n; i++ {
			fillRow(i)
		}
		return matrix, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fillRow(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build distance matrix: %w", err)
	}

	return matrix, nil
}
