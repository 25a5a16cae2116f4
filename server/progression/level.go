// Package progression maps accumulated experience points to levels, titles
// and display strings. Every function here is pure and safe for concurrent use.
package progression

import (
	"errors"
	"math"
)

const (
	MinLevel = 1
	MaxLevel = 100
)

// ErrInvalidArgument is returned for XP values that cannot be mapped, such as
// NaN or infinities.
var ErrInvalidArgument = errors.New("invalid argument")

// band is a contiguous XP interval [lo, hi) where each level costs the same
// number of points. hi == 0 marks the open-ended last band.
type band struct {
	lo   int
	hi   int
	cost int
	base int
}

// The constants are kept literally; they do not follow from one rule.
var bands = []band{
	{lo: 0, hi: 1000, cost: 100, base: 1},
	{lo: 1000, hi: 5000, cost: 500, base: 10},
	{lo: 5000, hi: 25000, cost: 2000, base: 18},
	{lo: 25000, hi: 75000, cost: 5000, base: 28},
	{lo: 75000, hi: 360000, cost: 15000, base: 38},
	{lo: 360000, cost: 100000, base: 58},
}

// LevelForXP returns the level reached with xp points, always in
// [MinLevel, MaxLevel]. Negative xp counts as zero.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	for _, b := range bands {
		if b.hi != 0 && xp >= b.hi {
			continue
		}
		level := (xp-b.lo)/b.cost + b.base
		if level > MaxLevel {
			return MaxLevel
		}
		return level
	}
	return MaxLevel
}

// LevelForXPFloat is LevelForXP for fractional input. Fractions never move a
// level boundary, so the value is floored first.
func LevelForXPFloat(xp float64) (int, error) {
	if math.IsNaN(xp) || math.IsInf(xp, 0) {
		return 0, ErrInvalidArgument
	}
	if xp < 0 {
		return LevelForXP(0), nil
	}
	if xp >= float64(maxBandTop()) {
		return MaxLevel, nil
	}
	return LevelForXP(int(math.Floor(xp))), nil
}

// XPForLevel returns the smallest XP total at which LevelForXP reaches at
// least level. Some levels are skipped by the band table (57 is never
// reported); for those the start of the next reachable level is returned.
// ok is false for levels above MaxLevel.
func XPForLevel(level int) (xp int, ok bool) {
	if level > MaxLevel {
		return 0, false
	}
	if level <= MinLevel {
		return 0, true
	}
	for _, b := range bands {
		if level > bandTopLevel(b) {
			continue
		}
		if level <= b.base {
			return b.lo, true
		}
		return b.lo + (level-b.base)*b.cost, true
	}
	return 0, false
}

func bandTopLevel(b band) int {
	if b.hi == 0 {
		return MaxLevel
	}
	return (b.hi-1-b.lo)/b.cost + b.base
}

// maxBandTop is the XP total at which the last band reaches MaxLevel.
func maxBandTop() int {
	last := bands[len(bands)-1]
	return last.lo + (MaxLevel-last.base)*last.cost
}
