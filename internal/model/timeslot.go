package model

// SlotGrid is the clinic-defined daily set of bookable slot tokens. Tokens
// are opaque comparable strings; they are never parsed into durations.
type SlotGrid []string

func (g SlotGrid) Contains(slot string) bool {
	for _, s := range g {
		if s == slot {
			return true
		}
	}
	return false
}

// DefaultSlotGrid returns the clinic's standard half-hour grid with a
// midday break.
func DefaultSlotGrid() SlotGrid {
	return SlotGrid{
		"08:00-08:30", "08:30-09:00", "09:00-09:30", "09:30-10:00",
		"10:00-10:30", "10:30-11:00", "11:00-11:30", "11:30-12:00",
		"13:30-14:00", "14:00-14:30", "14:30-15:00", "15:00-15:30",
		"15:30-16:00", "16:00-16:30", "16:30-17:00", "17:00-17:30",
	}
}
