package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sprout/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstGermination BookmarkType = "first_germination"
	BookmarkFirstFlowering   BookmarkType = "first_flowering"
	BookmarkDieOff           BookmarkType = "die_off"
	BookmarkDrought          BookmarkType = "drought"
	BookmarkStableCanopy     BookmarkType = "stable_canopy"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the garden.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	germinated         bool
	flowered           bool
	inDrought          bool
	stableWindowsCount int // consecutive windows with a steady canopy
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable canopy detection
	}
	if cfg.StableWindows < 1 {
		cfg.StableWindows = 5
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstGermination(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFirstFlowering(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDrought(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Die-off: a large share of the plants alive last window died
		if b := bd.checkDieOff(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable canopy: mean height steady over several windows
		if b := bd.checkStableCanopy(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkFirstGermination(stats WindowStats) *Bookmark {
	if bd.germinated || stats.Germinations == 0 {
		return nil
	}
	bd.germinated = true
	return &Bookmark{
		Type:        BookmarkFirstGermination,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d seeds germinated on day %d", stats.Germinations, stats.Day),
	}
}

func (bd *BookmarkDetector) checkFirstFlowering(stats WindowStats) *Bookmark {
	if bd.flowered || stats.Flowering == 0 {
		return nil
	}
	bd.flowered = true
	return &Bookmark{
		Type:        BookmarkFirstFlowering,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d plants flowering on day %d", stats.Flowering, stats.Day),
	}
}

// checkDrought triggers when mean soil moisture falls below the threshold.
// It re-arms once moisture recovers.
func (bd *BookmarkDetector) checkDrought(stats WindowStats) *Bookmark {
	dry := stats.SoilMoisture < bd.cfg.DroughtMoisture
	if !dry {
		bd.inDrought = false
		return nil
	}
	if bd.inDrought {
		return nil
	}
	bd.inDrought = true
	return &Bookmark{
		Type:        BookmarkDrought,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean soil moisture %.3f below %.3f", stats.SoilMoisture, bd.cfg.DroughtMoisture),
	}
}

func (bd *BookmarkDetector) checkDieOff(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	prev := history[len(history)-1]

	atRisk := prev.Growing + stats.Germinations
	deaths := stats.Deaths()
	if atRisk == 0 || deaths < 2 {
		return nil
	}

	frac := float64(deaths) / float64(atRisk)
	if frac > bd.cfg.DieOffFraction {
		return &Bookmark{
			Type:        BookmarkDieOff,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d of %d plants died (%.0f%%)", deaths, atRisk, frac*100),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableCanopy(stats WindowStats) *Bookmark {
	// Need a canopy to speak of
	if stats.Growing < 3 || stats.HeightMean <= 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	heights := []float64{stats.HeightMean}
	for _, h := range history[len(history)-4:] {
		heights = append(heights, h.HeightMean)
	}

	if Summarize(heights).CV() < bd.cfg.StableHeightCV {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == bd.cfg.StableWindows { // trigger exactly once
		return &Bookmark{
			Type:        BookmarkStableCanopy,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Canopy of %d plants steady at %.1f over %d windows", stats.Growing, stats.HeightMean, bd.cfg.StableWindows),
		}
	}
	return nil
}
