package cli

import (
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type sweepProgress struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newSweepProgress(name string) *sweepProgress {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(os.Stderr),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	bar := p.New(0,
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d books", decor.WCSyncWidth),
		),
	)
	return &sweepProgress{p: p, bar: bar}
}

// Update matches sweep.Options.Progress.
func (s *sweepProgress) Update(done, total int) {
	s.bar.SetTotal(int64(total), false)
	s.bar.SetCurrent(int64(done))
}

// Finish completes the bar even when the sweep stopped early.
func (s *sweepProgress) Finish() {
	s.bar.SetTotal(-1, true)
	s.p.Wait()
}
