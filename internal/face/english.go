package face

var englishLetters = []string{
	"ITLISASAMPM",
	"ACQUARTERDC",
	"TWENTYFIVEX",
	"HALFSTENJTO",
	"PASTEBUNINE",
	"ONESIXTHREE",
	"FOURFIVETWO",
	"EIGHTELEVEN",
	"SEVENTWELVE",
	"TENSZOCLOCK",
}

func span(name string, row, col, n int) word {
	return word{name: name, seg: Span{Row: row, Col: col, Len: n}}
}

func english() *layout {
	var (
		it   = span("IT", 0, 0, 2)
		is   = span("IS", 0, 3, 2)
		am   = span("AM", 0, 7, 2)
		pm   = span("PM", 0, 9, 2)
		a    = span("A", 1, 0, 1)
		past = span("PAST", 4, 0, 4)
		to   = span("TO", 3, 9, 2)

		five       = span("FIVE", 2, 6, 4)
		ten        = span("TEN", 3, 5, 3)
		quarter    = span("QUARTER", 1, 2, 7)
		twenty     = span("TWENTY", 2, 0, 6)
		twentyFive = span("TWENTYFIVE", 2, 0, 10)
		half       = span("HALF", 3, 0, 4)
		oclock     = span("OCLOCK", 9, 5, 6)
	)

	// Indexed by hour % 12.
	hours := []word{
		span("TWELVE", 8, 5, 6),
		span("ONE", 5, 0, 3),
		span("TWO", 6, 8, 3),
		span("THREE", 5, 6, 5),
		span("FOUR", 6, 0, 4),
		span("FIVE", 6, 4, 4),
		span("SIX", 5, 3, 3),
		span("SEVEN", 8, 0, 5),
		span("EIGHT", 7, 0, 5),
		span("NINE", 4, 7, 4),
		span("TEN", 9, 0, 3),
		span("ELEVEN", 7, 5, 6),
	}

	// Indexed by bucket / 5.
	minutes := [][]word{
		{oclock},
		{five, past},
		{ten, past},
		{a, quarter, past},
		{twenty, past},
		{twentyFive, past},
		{half, past},
		{twentyFive, to},
		{twenty, to},
		{a, quarter, to},
		{ten, to},
		{five, to},
	}

	return &layout{
		name:      "english",
		aliases:   []string{"en"},
		letters:   englishLetters,
		carryFrom: 35,
		frame:     []word{it, is},
		am:        &am,
		pm:        &pm,
		hours: func(hour, _ int) []word {
			return hours[hour%12 : hour%12+1]
		},
		minutes: func(bucket int) []word {
			return minutes[bucket/5]
		},
		words: collect([]word{it, is, am, pm, a, past, to, five, ten, quarter, twenty, twentyFive, half, oclock}, hours),
	}
}
