package progression

type titleRange struct {
	maxLevel int
	title    string
}

var titles = []titleRange{
	{maxLevel: 5, title: "Legal Intern"},
	{maxLevel: 10, title: "Associate"},
	{maxLevel: 15, title: "Senior Associate"},
	{maxLevel: 20, title: "Counsel"},
	{maxLevel: 30, title: "Partner"},
	{maxLevel: 50, title: "Legal Authority"},
	{maxLevel: 100, title: "VERDICT Immortal"},
}

// UnknownTitle is returned for levels outside [MinLevel, MaxLevel].
const UnknownTitle = "Unknown"

// TitleForLevel returns the display title for level.
func TitleForLevel(level int) string {
	if level < MinLevel {
		return UnknownTitle
	}
	for _, t := range titles {
		if level <= t.maxLevel {
			return t.title
		}
	}
	return UnknownTitle
}
