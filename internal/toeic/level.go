package toeic

// Level is a target TOEIC score band. The raw value doubles as the
// user-facing label.
type Level string

const (
	Level200 Level = "~200"
	Level400 Level = "201-400"
	Level600 Level = "401-600"
	Level800 Level = "601-800"
	Level990 Level = "801-990"
)

// AllLevels lists the bands in ascending difficulty order.
var AllLevels = []Level{Level200, Level400, Level600, Level800, Level990}

// Valid reports whether l is one of the five known bands.
func (l Level) Valid() bool {
	switch l {
	case Level200, Level400, Level600, Level800, Level990:
		return true
	}
	return false
}

// Score returns the approximate numeric score for the band, used to pick
// target vocabulary from the banded word list.
func (l Level) Score() int {
	switch l {
	case Level200:
		return 200
	case Level400:
		return 400
	case Level600:
		return 600
	case Level800:
		return 800
	case Level990:
		return 990
	}
	return 600
}

// CEFRBands maps the band to the CEFR levels its grammar topics are drawn
// from. Closed table; an empty topic pool at these levels falls back to an
// unfiltered grammar subcategory.
func (l Level) CEFRBands() []string {
	switch l {
	case Level200:
		return []string{"A1", "A2"}
	case Level400:
		return []string{"A2", "B1"}
	case Level600:
		return []string{"B1"}
	case Level800:
		return []string{"B2"}
	case Level990:
		return []string{"C1"}
	}
	return nil
}

// Hint returns the English difficulty label used in prompts and menus.
func (l Level) Hint() string {
	switch l {
	case Level200:
		return "Beginner (~200)"
	case Level400:
		return "Basic (201-400)"
	case Level600:
		return "Intermediate (401-600)"
	case Level800:
		return "Upper-Intermediate (601-800)"
	case Level990:
		return "Advanced (801-990)"
	}
	return string(l)
}
