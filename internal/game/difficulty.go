package game

import "time"

// TimePerRound returns the reaction window for the given round.
// It shrinks by TimeStep per round and never drops below MinTime.
func TimePerRound(round int) time.Duration {
	if round < 1 {
		round = 1
	}
	return max(MinTime, BaseTime-time.Duration(round-1)*TimeStep)
}

// TargetSize returns the edge length of the target for the given round.
func TargetSize(round int) float64 {
	if round < 1 {
		round = 1
	}
	return max(MinSize, BaseSize-float64(round-1)*SizeStep)
}
