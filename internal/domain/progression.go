package domain

import "sort"

// MaxLevel is the level cap.
const MaxLevel = 100

// cumulativeXP[i] is the total XP needed to reach level i+1.
var cumulativeXP = [MaxLevel]int64{
	0, 300, 621, 964, 1331, 1724, 2145, 2595, 3077, 3593,
	4145, 4736, 5368, 6044, 6767, 7541, 8369, 9255, 10203, 11217,
	12302, 13463, 14705, 16034, 17456, 18978, 20607, 22350, 24215, 26211,
	28347, 30633, 33079, 35696, 38496, 41492, 44698, 48128, 51798, 55725,
	59927, 64423, 69234, 74382, 79890, 85784, 92091, 98839, 106059, 113784,
	122050, 130895, 140359, 150485, 161320, 172913, 185318, 198591, 212793, 227989,
	244249, 261647, 280263, 300182, 321495, 344300, 368701, 394810, 422747, 452640,
	484626, 518851, 555472, 594656, 636583, 681445, 729447, 780809, 835766, 894570,
	957490, 1024814, 1096851, 1173931, 1256407, 1344656, 1439082, 1540118, 1648227, 1763904,
	1887678, 2020116, 2161825, 2313454, 2475697, 2649297, 2835049, 3033804, 3246472, 3474027,
}

// LevelForXP returns the level reached with totalXP, between 1 and MaxLevel.
func LevelForXP(totalXP int64) int {
	if totalXP < 0 {
		return 1
	}

	// First level whose threshold exceeds totalXP, which is the current level
	// counted from 1.
	return sort.Search(MaxLevel, func(i int) bool { return cumulativeXP[i] > totalXP })
}

// XPForLevel returns the cumulative XP needed to reach level.
func XPForLevel(level int) int64 {
	if level < 1 {
		return 0
	}

	return cumulativeXP[min(level, MaxLevel)-1]
}

// XPToNextLevel returns how much XP is missing for the next level, 0 at the cap.
func XPToNextLevel(totalXP int64) int64 {
	level := LevelForXP(totalXP)
	if level >= MaxLevel {
		return 0
	}

	return cumulativeXP[level] - max(totalXP, 0)
}

// CurrentLevelXP returns the XP earned since reaching the current level.
func CurrentLevelXP(totalXP int64) int64 {
	return max(totalXP, 0) - XPForLevel(LevelForXP(totalXP))
}

// LevelProgress returns the progress through the current level in percent.
func LevelProgress(totalXP int64) float64 {
	level := LevelForXP(totalXP)
	if level >= MaxLevel {
		return 100
	}

	span := cumulativeXP[level] - cumulativeXP[level-1]

	return float64(CurrentLevelXP(totalXP)) / float64(span) * 100
}

// Progress bundles the level figures shown on a profile.
type Progress struct {
	Level          int
	CurrentLevelXP int64
	XPToNext       int64
	Percent        float64
	Color          string
}

// ProgressFor computes the level figures for totalXP.
func ProgressFor(totalXP int64) Progress {
	level := LevelForXP(totalXP)

	return Progress{
		Level:          level,
		CurrentLevelXP: CurrentLevelXP(totalXP),
		XPToNext:       XPToNextLevel(totalXP),
		Percent:        LevelProgress(totalXP),
		Color:          LevelColor(level),
	}
}

// LevelColor names the badge colour for a level.
func LevelColor(level int) string {
	switch {
	case level >= 50:
		return "crimson"
	case level >= 40:
		return "orange"
	case level >= 30:
		return "purple"
	case level >= 20:
		return "blue"
	case level >= 10:
		return "green"
	default:
		return "gray"
	}
}
