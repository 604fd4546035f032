package services

import "route-optimizer-service/internal/domain"

// SolveNearestNeighbor orders locations with a greedy nearest-neighbor walk
// starting at index 0.
//
// At each step the closest unvisited index (by m[last][j]) is appended.
// Ties go to the lowest index because the scan is ascending and uses a strict
// comparison. The result is deterministic but carries no optimality guarantee.
//
// The caller must pass a square matrix with non-negative entries; see
// domain.Matrix.Validate. An empty matrix yields an empty route.
func SolveNearestNeighbor(m domain.Matrix) domain.Route {
	n := len(m)
	if n == 0 {
		return domain.Route{}
	}

	visited := make([]bool, n)
	visited[0] = true
	path := make(domain.Route, 1, n)

	for step := 1; step < n; step++ {
		last := path[len(path)-1]
		nearest := -1
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if nearest == -1 || m[last][j] < m[last][nearest] {
				nearest = j
			}
		}

		visited[nearest] = true
		path = append(path, nearest)
	}

	return path
}
