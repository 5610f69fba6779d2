// Package plot renders foraging sessions as PNG images
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/samuelfneumann/foraging/analysis"
	"github.com/samuelfneumann/foraging/experiment/tracker"
)

// Options configures the rendering of a reward schedule
type Options struct {
	Width  int
	Height int

	// MaxLag is the largest lag drawn in the autocorrelation panel and
	// must be positive
	MaxLag int
}

// DefaultOptions returns the default rendering options
func DefaultOptions() Options {
	return Options{Width: 1500, Height: 700, MaxLag: 100}
}

// armColours are cycled through to colour each arm
var armColours = []color.RGBA{
	{R: 214, G: 39, B: 40, A: 255},
	{R: 31, G: 119, B: 180, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

// RewardSchedule renders the reward schedule of a session. The top
// left panel draws the reward probability of each arm on each trial,
// with a tick for each choice that is long if the choice was rewarded.
// The top right panel draws the autocorrelation of each arm's reward
// probabilities. The bottom panel draws the total reward probability
// of all arms and the relative reward probability of the last arm.
func RewardSchedule(r tracker.Record, opts Options) (image.Image, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rewardSchedule: %w", err)
	}
	if r.NumTrials == 0 {
		return nil, fmt.Errorf("rewardSchedule: no trials to plot")
	}
	if opts.Width < 100 || opts.Height < 100 {
		return nil, fmt.Errorf("rewardSchedule: image of %vx%v is too small",
			opts.Width, opts.Height)
	}
	if opts.MaxLag < 1 {
		return nil, fmt.Errorf("rewardSchedule: max lag %v < 1", opts.MaxLag)
	}

	w, h := float64(opts.Width), float64(opts.Height)
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	trials := float64(r.NumTrials - 1)
	schedule := newPanel(0.05*w, 0.05*h, 0.7*w, 0.5*h, 0, trials, -0.1, 1.1)
	corr := newPanel(0.8*w, 0.05*h, 0.17*w, 0.5*h, 0, float64(opts.MaxLag),
		-1, 1)
	total := newPanel(0.05*w, 0.65*h, 0.7*w, 0.3*h, 0, trials, 0,
		float64(r.NumArms))
	for _, p := range []panel{schedule, corr, total} {
		p.frame(dc)
	}

	schedule.label(dc, "reward probability")
	corr.label(dc, "auto correlation")
	total.label(dc, "sum and last/sum")
	corr.hline(dc, 0)

	for arm, pReward := range r.PReward {
		c := armColours[arm%len(armColours)]
		dc.SetColor(c)
		schedule.line(dc, pReward)

		acorr, err := analysis.AutoCorr(pReward)
		if err != nil && !errors.Is(err, analysis.ErrConstant) {
			return nil, fmt.Errorf("rewardSchedule: %w", err)
		}
		if err == nil {
			if len(acorr) > opts.MaxLag+1 {
				acorr = acorr[:opts.MaxLag+1]
			}
			dc.SetColor(c)
			corr.line(dc, acorr)
		}
	}

	drawChoices(dc, schedule, r)

	sum := make([]float64, r.NumTrials)
	frac := make([]float64, r.NumTrials)
	last := r.PReward[len(r.PReward)-1]
	for trial := range sum {
		for _, pReward := range r.PReward {
			sum[trial] += pReward[trial]
		}
		if sum[trial] > 0 {
			frac[trial] = last[trial] / sum[trial]
		}
	}
	dc.SetRGB(0.2, 0.2, 0.2)
	total.line(dc, sum)
	dc.SetColor(armColours[(len(r.PReward)-1)%len(armColours)])
	total.line(dc, frac)

	return dc.Image(), nil
}

// drawChoices draws a tick above the reward probabilities for each
// chosen arm and below them for each ignored trial
func drawChoices(dc *gg.Context, p panel, r tracker.Record) {
	dc.SetLineWidth(1)
	for trial, choice := range r.Choices {
		length := 0.03
		if r.Rewards[trial] == 1 {
			length = 0.08
		}

		if choice == r.NumArms {
			dc.SetRGB(0, 0, 0)
			p.tick(dc, float64(trial), -0.1, -0.1+length)
			continue
		}

		dc.SetColor(armColours[choice%len(armColours)])
		p.tick(dc, float64(trial), 1.1-length, 1.1)
	}
}

// Save renders the reward schedule of a session and saves it as a PNG
// at path
func Save(path string, r tracker.Record, opts Options) error {
	img, err := RewardSchedule(r, opts)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Write renders the reward schedule of a session and PNG encodes it
// to w
func Write(w io.Writer, r tracker.Record, opts Options) error {
	img, err := RewardSchedule(r, opts)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := gg.NewContextForImage(img).EncodePNG(w); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
