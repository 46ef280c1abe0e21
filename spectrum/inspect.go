package spectrum

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Freshness classifies a data file's modification time against the start of
// the solver run that was supposed to write it.
type Freshness int

const (
	// Unknown means no start time was given or the file could not be stat'd.
	Unknown Freshness = iota
	// Fresh files were written after the run started.
	Fresh
	// Old files were written after the run started but long ago.
	Old
	// Stale files predate the run; the plot will not show this calculation.
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Old:
		return "old"
	case Stale:
		return "stale"
	}
	return "unknown"
}

const (
	// StartSlack allows for filesystem timestamp granularity and clock skew.
	StartSlack = 10 * time.Second
	// MaxAge is the age past which a file is reported as Old.
	MaxAge = 120 * time.Second

	firstLineLen = 80
)

// Classify compares a modification time with the run start and the current
// time. A zero started gives Unknown.
func Classify(modified, started, now time.Time) Freshness {
	switch {
	case started.IsZero():
		return Unknown
	case modified.Before(started.Add(-StartSlack)):
		return Stale
	case now.Sub(modified) > MaxAge:
		return Old
	}
	return Fresh
}

// Inspection is what Inspect learned about a data file.
type Inspection struct {
	Size      int64
	Modified  time.Time
	Freshness Freshness
	FirstLine string
}

// Inspect stats path and reads its first line. It does not parse the table.
func Inspect(path string, started, now time.Time) (Inspection, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Inspection{}, err
	}
	in := Inspection{
		Size:      fi.Size(),
		Modified:  fi.ModTime(),
		Freshness: Classify(fi.ModTime(), started, now),
	}

	f, err := os.Open(path)
	if err != nil {
		return in, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		line := sc.Text()
		if len(line) > firstLineLen {
			line = line[:firstLineLen]
		}
		in.FirstLine = line
	}
	return in, nil
}

// ParseStart accepts an RFC 3339 timestamp or Unix milliseconds.
func ParseStart(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("start time %q is neither RFC 3339 nor Unix milliseconds", s)
	}
	return t, nil
}
