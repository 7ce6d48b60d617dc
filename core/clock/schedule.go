package clock

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/logistics-sim/fleetsim/core/logger"
	"github.com/logistics-sim/fleetsim/core/model"
)

// TimeMode selects how the time column of a schedule is interpreted.
type TimeMode string

const (
	// ModeElapsed reads MM:SS offsets from sequence start.
	ModeElapsed TimeMode = "elapsed"
	// ModeTimeOfDay reads HH:MM or HH:MM:SS wall times with midnight rollover.
	ModeTimeOfDay TimeMode = "timeofday"
)

const daySeconds = 24 * 60 * 60

// ErrNoEvents is returned when a schedule source yields zero valid rows.
var ErrNoEvents = errors.New("clock: schedule contains no valid events")

// LoadSchedule reads and parses a schedule file in the given mode.
func LoadSchedule(path string, mode TimeMode, log logger.Logger) ([]model.ScheduledEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("clock: open schedule: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseSchedule(f, mode, log)
}

type scheduleRow struct {
	resolved float64
	origin   string
	dest     string
	tag      string
}

// ParseSchedule reads rows of "time,originCode,destinationCode,priorityTag".
// Blank lines, comment lines and rows with fewer than four fields are skipped.
// Malformed time strings are skipped with a warning. Valid rows are sorted
// ascending by resolved time and assigned dense zero-padded ids in that order.
func ParseSchedule(r io.Reader, mode TimeMode, log logger.Logger) ([]model.ScheduledEvent, error) {
	var rows []scheduleRow
	var prevAbs, dayOffset float64
	anchor := -1.0
	first := true

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			continue
		}
		timeText := strings.TrimSpace(fields[0])
		secs, err := parseTimeText(timeText, mode)
		if err != nil {
			log.Warnf("schedule line %d: skipping malformed time %q: %v", lineNo, timeText, err)
			continue
		}
		resolved := secs
		if mode == ModeTimeOfDay {
			if !first && secs < prevAbs {
				dayOffset += daySeconds
			}
			prevAbs = secs
			first = false
			resolved = secs + dayOffset
			if anchor < 0 || secs < anchor {
				anchor = secs
			}
		}
		rows = append(rows, scheduleRow{
			resolved: resolved,
			origin:   strings.TrimSpace(fields[1]),
			dest:     strings.TrimSpace(fields[2]),
			tag:      strings.TrimSpace(fields[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("clock: read schedule: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoEvents
	}
	if mode == ModeTimeOfDay {
		for i := range rows {
			rows[i].resolved -= anchor
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].resolved < rows[j].resolved })

	events := make([]model.ScheduledEvent, len(rows))
	for i, row := range rows {
		events[i] = model.ScheduledEvent{
			ID:              fmt.Sprintf("id_%03d", i),
			FiringTime:      row.resolved,
			OriginCode:      row.origin,
			DestinationCode: row.dest,
			PriorityTag:     row.tag,
		}
	}
	return events, nil
}

func parseTimeText(s string, mode TimeMode) (float64, error) {
	parts := strings.Split(s, ":")
	switch mode {
	case ModeElapsed:
		if len(parts) != 2 {
			return 0, fmt.Errorf("want MM:SS, got %d fields", len(parts))
		}
		mins, err := parseTimeField(parts[0])
		if err != nil {
			return 0, err
		}
		secs, err := parseTimeField(parts[1])
		if err != nil {
			return 0, err
		}
		return float64(mins*60 + secs), nil
	case ModeTimeOfDay:
		if len(parts) != 2 && len(parts) != 3 {
			return 0, fmt.Errorf("want HH:MM or HH:MM:SS, got %d fields", len(parts))
		}
		hours, err := parseTimeField(parts[0])
		if err != nil {
			return 0, err
		}
		mins, err := parseTimeField(parts[1])
		if err != nil {
			return 0, err
		}
		secs := 0
		if len(parts) == 3 {
			if secs, err = parseTimeField(parts[2]); err != nil {
				return 0, err
			}
		}
		if hours >= 24 || mins >= 60 || secs >= 60 {
			return 0, fmt.Errorf("field out of range in %q", s)
		}
		return float64(hours*3600 + mins*60 + secs), nil
	default:
		return 0, fmt.Errorf("unknown time mode %q", mode)
	}
}

func parseTimeField(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative time field %d", v)
	}
	return v, nil
}
