package match

// LeastPopulatedTeam returns the team with the fewest current members,
// breaking ties towards the smallest team id. It is evaluated fresh at each
// assignment moment, never as an upfront plan, so skewed starting
// distributions drain towards balance one join at a time.
func LeastPopulatedTeam(counts []int) int {
	best := 0

	for team, n := range counts {
		if n < counts[best] {
			best = team
		}
	}

	return best
}
