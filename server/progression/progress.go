package progression

// Progress is everything a profile needs to draw the level bar.
type Progress struct {
	XP           int
	Level        int
	Title        string
	Formatted    string
	LevelStartXP int
	// NextLevelXP is 0 once MaxLevel is reached.
	NextLevelXP int
	XPToNext    int
	Percent     int
}

// ProgressForXP computes the level, title and position inside the current
// level for xp. Negative xp counts as zero.
func ProgressForXP(xp int) Progress {
	if xp < 0 {
		xp = 0
	}
	level := LevelForXP(xp)
	start, _ := XPForLevel(level)

	p := Progress{
		XP:           xp,
		Level:        level,
		Title:        TitleForLevel(level),
		Formatted:    FormatXP(xp),
		LevelStartXP: start,
	}
	if level >= MaxLevel {
		p.Percent = 100
		return p
	}

	next, _ := XPForLevel(level + 1)
	p.NextLevelXP = next
	p.XPToNext = next - xp
	p.Percent = (xp - start) * 100 / (next - start)
	return p
}
