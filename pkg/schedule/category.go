package schedule

// Category classifies an event for display. The zero-ish default for unknown
// or missing source data is CategoryStandard.
type Category string

const (
	CategoryUrgent   Category = "urgent"
	CategoryHigh     Category = "high"
	CategoryMeeting  Category = "meeting"
	CategoryDeadline Category = "deadline"
	CategoryReminder Category = "reminder"
	CategoryStandard Category = "standard"
	CategoryLow      Category = "low"
	CategoryHoliday  Category = "holiday"
)

// categoryPrecedence is the display precedence used by the mini-calendar
// summary and as the sort tiebreak, highest first.
var categoryPrecedence = []Category{
	CategoryUrgent,
	CategoryHigh,
	CategoryMeeting,
	CategoryDeadline,
	CategoryReminder,
	CategoryStandard,
	CategoryLow,
	CategoryHoliday,
}

var precedenceRank = func() map[Category]int {
	ranks := make(map[Category]int, len(categoryPrecedence))
	for i, c := range categoryPrecedence {
		ranks[c] = i
	}
	return ranks
}()

// ParseCategory maps raw source data to a known category. Anything outside the
// enumeration becomes CategoryStandard so that unknown strings cannot leak
// into the merged result.
func ParseCategory(raw string) Category {
	c := Category(raw)
	if _, ok := precedenceRank[c]; !ok {
		return CategoryStandard
	}
	return c
}

// Rank returns the category's position in the precedence order. Unknown
// categories rank below everything listed.
func (c Category) Rank() int {
	rank, ok := precedenceRank[c]
	if !ok {
		return len(categoryPrecedence)
	}
	return rank
}

// ResolveDayCategory picks the single representative category for a day's
// events, used for the mini-calendar dot. It returns the highest-precedence
// category present, or CategoryStandard when nothing matches.
func ResolveDayCategory(events []CalendarEvent) Category {
	present := make(map[Category]bool, len(events))
	for _, e := range events {
		present[e.Category] = true
	}
	for _, c := range categoryPrecedence {
		if present[c] {
			return c
		}
	}
	return CategoryStandard
}
