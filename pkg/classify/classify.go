// Package classify turns the transfer tool's merged output stream into
// progress and log events, one line at a time. The stream is lazy, finite
// and non-restartable; classification never looks ahead.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/walteh/syncrc/pkg/tool"
)

// 🏷️ Kind says what a classified line is.
type Kind int

const (
	// KindDrop lines are consumed silently: blanks, banners, and
	// progress-looking lines that failed to parse.
	KindDrop Kind = iota
	// KindProgress lines carry an overall completion percentage and are
	// never surfaced as log lines.
	KindProgress
	// KindLog lines are surfaced verbatim, trailing whitespace trimmed.
	KindLog
)

// 📦 Line is one classified line of tool output.
type Line struct {
	Kind    Kind
	Percent int    // set when Kind == KindProgress
	Text    string // set when Kind == KindLog
}

// 🔌 Classifier classifies one raw output line per call.
type Classifier interface {
	Classify(raw string) Line
}

// 🏭 New returns the classifier for the given tool profile.
func New(k tool.Kind) Classifier {
	if k == tool.KindWindowsCopy {
		return &windowsClassifier{}
	}
	return &posixClassifier{}
}

var (
	// A progress line must simultaneously carry a transfer rate, a
	// percentage, and a colon-delimited elapsed duration, e.g.
	//   "1,000,000 2,000,000 10.00MB/s  42%  0:00:05"
	rateMarker     = regexp.MustCompile(`[\d.,]+[kKMGT]?B/s`)
	percentMarker  = regexp.MustCompile(`(\d+)%`)
	durationMarker = regexp.MustCompile(`\d+:\d{2}`)
)

// 🐧 posixClassifier parses rsync --info=progress2 output.
type posixClassifier struct{}

func (c *posixClassifier) Classify(raw string) Line {
	trimmed := strings.TrimRight(raw, " \t\r\n")
	if strings.TrimSpace(trimmed) == "" {
		return Line{Kind: KindDrop}
	}

	if rateMarker.MatchString(trimmed) &&
		percentMarker.MatchString(trimmed) &&
		durationMarker.MatchString(trimmed) {
		// The integer immediately preceding the percent sign is the
		// overall completion. Anything unparseable is dropped, never
		// logged; the stream continues.
		match := percentMarker.FindStringSubmatch(trimmed)
		percent, err := strconv.Atoi(match[1])
		if err != nil || percent < 0 || percent > 100 {
			return Line{Kind: KindDrop}
		}
		return Line{Kind: KindProgress, Percent: percent}
	}

	return Line{Kind: KindLog, Text: trimmed}
}

// 🪟 windowsClassifier filters robocopy output. Robocopy has no reliable
// overall percentage, so this branch emits no progress events; every
// non-blank line except the banner and total-separator lines is surfaced
// verbatim.
type windowsClassifier struct{}

func (c *windowsClassifier) Classify(raw string) Line {
	trimmed := strings.TrimRight(raw, " \t\r\n")
	inner := strings.TrimSpace(trimmed)
	if inner == "" {
		return Line{Kind: KindDrop}
	}

	if isSeparator(inner) || strings.Contains(inner, "ROBOCOPY") ||
		strings.Contains(inner, "Robust File Copy") {
		return Line{Kind: KindDrop}
	}

	return Line{Kind: KindLog, Text: trimmed}
}

// isSeparator matches the dashed rules robocopy prints around its banner
// and totals.
func isSeparator(s string) bool {
	if len(s) < 3 {
		return false
	}
	for _, r := range s {
		if r != '-' {
			return false
		}
	}
	return true
}
