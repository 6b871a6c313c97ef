package uci

import (
	"fmt"
	"io"
	"time"

	"github.com/corella-engine/corella/engine"
	"github.com/corella-engine/corella/internal/applog"
)

// infoLogger renders search progress as UCI "info" lines. Every
// number in these lines is written as a plain, comma-free integer:
// GUIs parse them, so the locale-aware formatting applog provides for
// human-facing logs has no place here.
type infoLogger struct {
	out   io.Writer
	start time.Time
}

func newInfoLogger(out io.Writer) *infoLogger {
	return &infoLogger{out: out}
}

func (l *infoLogger) BeginSearch() { l.start = time.Now() }

func (l *infoLogger) EndSearch() {}

func (l *infoLogger) PrintPV(stats engine.Stats, score int32, pv []engine.Move) {
	elapsed := time.Since(l.start)
	millis := uint64(elapsed / time.Millisecond)
	if millis == 0 {
		millis = 1
	}
	nps := stats.Nodes * 1000 / millis

	scoreStr := fmt.Sprintf("cp %d", score)
	if score > engine.KnownWinScore {
		scoreStr = fmt.Sprintf("mate %d", (engine.MateScore-score+1)/2)
	} else if score < engine.KnownLossScore {
		scoreStr = fmt.Sprintf("mate %d", (engine.MatedScore-score)/2)
	}

	fmt.Fprintf(l.out, "info depth %d seldepth %d score %s nodes %d nps %d time %d pv",
		stats.Depth, stats.SelDepth, scoreStr, stats.Nodes, nps, millis)
	for _, m := range pv {
		fmt.Fprintf(l.out, " %s", m.UCI())
	}
	fmt.Fprintln(l.out)

	applog.Log.Debugf("depth %d finished: %s nodes, %s nps", stats.Depth,
		applog.FormatCount(stats.Nodes), applog.FormatNPS(stats.Nodes, int64(elapsed)))
}
