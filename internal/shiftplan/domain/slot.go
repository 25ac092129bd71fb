// Package domain holds the shift-planning core: the time model, entities,
// and the decision-model types the application layer builds and solves.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NumSlots is the size of the slot index space for one operating day:
// 25 contiguous 30-minute slots starting at 17:00 and ending at 29:30.
const NumSlots = 25

// ErrBadTimeLabel is returned when a slot label does not have the form
// HH:MM with HH in 17..29 and MM in {00, 30}.
var ErrBadTimeLabel = errors.New("bad time label")

// LabelToSlot converts a wall-clock label ("17:00".."29:00") to its slot
// index in 0..24. Hours 24..29 denote the post-midnight continuation of
// the same operating day.
func LabelToSlot(label string) (int, error) {
	h, m, err := parseLabel(label)
	if err != nil {
		return 0, err
	}
	switch {
	case h >= 17 && h <= 23:
		return (h-17)*2 + half(m), nil
	case h >= 24 && h <= 29:
		return 14 + (h-24)*2 + half(m), nil
	default:
		return 0, fmt.Errorf("%w: %q: hour out of range 17..29", ErrBadTimeLabel, label)
	}
}

// SlotToLabel is the inverse of LabelToSlot for slot indices 0..24.
func SlotToLabel(slot int) (string, error) {
	if slot < 0 || slot >= NumSlots {
		return "", fmt.Errorf("%w: slot %d out of range 0..%d", ErrBadTimeLabel, slot, NumSlots-1)
	}
	h := 17 + slot/2
	m := 0
	if slot%2 == 1 {
		m = 30
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// LabelToWallclock resolves a label to the calendar date and HH:MM it falls
// on for ISO emission. Labels with HH >= 24 roll over to the next calendar
// date and the hour is reduced by 24.
func LabelToWallclock(date time.Time, label string) (time.Time, string, error) {
	h, m, err := parseLabel(label)
	if err != nil {
		return time.Time{}, "", err
	}
	if h < 17 || h > 29 {
		return time.Time{}, "", fmt.Errorf("%w: %q: hour out of range 17..29", ErrBadTimeLabel, label)
	}
	wallDate := date
	wallHour := h
	if h >= 24 {
		wallHour = h - 24
		wallDate = date.AddDate(0, 0, 1)
	}
	return wallDate, fmt.Sprintf("%02d:%02d", wallHour, m), nil
}

func parseLabel(label string) (hour, minute int, err error) {
	parts := strings.SplitN(label, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q: expected HH:MM", ErrBadTimeLabel, label)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q: bad hour", ErrBadTimeLabel, label)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || (m != 0 && m != 30) || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q: minute must be 00 or 30", ErrBadTimeLabel, label)
	}
	return h, m, nil
}

func half(minute int) int {
	if minute >= 30 {
		return 1
	}
	return 0
}
