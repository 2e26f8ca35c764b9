package domain

import "math/big"

// Average is the mean completion percentage of the group. An empty group
// averages 0.
func (g *TaskGroup) Average() float64 {
	if len(g.Tasks) == 0 {
		return 0
	}

	total := 0.0
	for _, t := range g.Tasks {
		total += t.Progress.Percentage()
	}
	return total / float64(len(g.Tasks))
}

// completion is numerator/denominator clamped to [0, 1], the exact value
// behind Percentage.
func completion(numerator, denominator int) *big.Rat {
	if denominator <= 0 || numerator <= 0 {
		return new(big.Rat)
	}
	if numerator >= denominator {
		return big.NewRat(1, 1)
	}
	return big.NewRat(int64(numerator), int64(denominator))
}

// meetsAverage reports whether task, counted at numerator units, stands at or
// above the group mean with the same substitution applied inside the group.
// Compares n*own against the sum so no division or rounding is involved.
func (g *TaskGroup) meetsAverage(task *Task, numerator int) bool {
	own := completion(numerator, task.Progress.Denominator)

	sum := new(big.Rat)
	for _, t := range g.Tasks {
		if t.ID == task.ID {
			sum.Add(sum, own)
			continue
		}
		sum.Add(sum, completion(t.Progress.Numerator, t.Progress.Denominator))
	}

	scaled := new(big.Rat).Mul(own, new(big.Rat).SetInt64(int64(len(g.Tasks))))
	return scaled.Cmp(sum) >= 0
}

// UnitsNeeded is how many more units the task must complete to stand at or
// above the group average. Every extra unit also lifts the average, so each
// candidate is checked against the average recomputed with it. The answer
// never exceeds the denominator.
func (g *TaskGroup) UnitsNeeded(task *Task) int {
	den := task.Progress.Denominator
	k := 0
	for k < den {
		if g.meetsAverage(task, task.Progress.Numerator+k) {
			break
		}
		k++
	}
	return k
}
