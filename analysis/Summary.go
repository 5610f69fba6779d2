package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/foraging/experiment/tracker"
)

// Summary summarizes an agent's behaviour over a single session
type Summary struct {
	Trials  int
	Rewards int

	// RewardRate is the fraction of trials that were rewarded
	RewardRate float64

	// ChoiceFractions holds the fraction of trials each arm was chosen
	ChoiceFractions []float64

	// IgnoreRate is the fraction of trials that were ignored
	IgnoreRate float64

	// BestArmRate is the fraction of trials on which an arm with the
	// highest reward probability was chosen
	BestArmRate float64

	// Switches counts the number of times that the chosen arm differed
	// from the previously chosen arm. Ignored trials are skipped.
	Switches int
}

// Summarize returns the Summary of a session record. Any action equal
// to the number of arms is treated as ignoring the trial.
func Summarize(r tracker.Record) (Summary, error) {
	if err := r.Validate(); err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	n := len(r.Choices)
	if n == 0 {
		return Summary{}, fmt.Errorf("summarize: no trials")
	}

	s := Summary{
		Trials:          n,
		Rewards:         r.TotalReward(),
		ChoiceFractions: make([]float64, r.NumArms),
	}

	best := 0
	last := -1
	for trial, choice := range r.Choices {
		if choice < 0 || choice > r.NumArms {
			return Summary{}, fmt.Errorf("summarize: illegal choice %v on "+
				"trial %v", choice, trial)
		}
		if choice == r.NumArms {
			continue
		}
		s.ChoiceFractions[choice]++

		if isBest(r.PReward, trial, choice) {
			best++
		}
		if last >= 0 && choice != last {
			s.Switches++
		}
		last = choice
	}

	total := float64(n)
	chosen := floats.Sum(s.ChoiceFractions)
	floats.Scale(1/total, s.ChoiceFractions)
	s.RewardRate = float64(s.Rewards) / total
	s.IgnoreRate = (total - chosen) / total
	s.BestArmRate = float64(best) / total

	return s, nil
}

// isBest returns whether arm has the highest reward probability on
// trial
func isBest(pReward [][]float64, trial, arm int) bool {
	p := pReward[arm][trial]
	for other := range pReward {
		if pReward[other][trial] > p {
			return false
		}
	}
	return true
}
