package face

var frenchLetters = []string{
	"ILbESTjDEUX",
	"QUATRETROIS",
	"NEUFUNESEPT",
	"HUITSIXCINQ",
	"MIDIXMINUIT",
	"ONZEwHEURES",
	"MOINSyLEDIX",
	"ETTROISDEMI",
	"VINGT-CINQk",
	"QUARTSPILE!",
}

func french() *layout {
	var (
		il     = span("IL", 0, 0, 2)
		est    = span("EST", 0, 3, 3)
		heure  = span("HEURE", 5, 5, 5)
		heures = span("HEURES", 5, 5, 6)
		midi   = span("MIDI", 4, 0, 4)
		minuit = span("MINUIT", 4, 5, 6)

		moins     = span("MOINS", 6, 0, 5)
		le        = span("LE", 6, 6, 2)
		et        = span("ET", 7, 0, 2)
		cinq      = span("CINQ", 8, 6, 4)
		dix       = span("DIX", 6, 8, 3)
		vingt     = span("VINGT", 8, 0, 5)
		vingtCinq = span("VINGT-CINQ", 8, 0, 10)
		demi      = span("DEMI", 7, 7, 4)
		quart     = span("QUART", 9, 0, 5)
	)

	// Indexed by hour % 12; zero is never looked up.
	numbers := []word{
		{},
		span("UNE", 2, 4, 3),
		span("DEUX", 0, 7, 4),
		span("TROIS", 1, 6, 5),
		span("QUATRE", 1, 0, 6),
		span("CINQ", 3, 7, 4),
		span("SIX", 3, 4, 3),
		span("SEPT", 2, 7, 4),
		span("HUIT", 3, 0, 4),
		span("NEUF", 2, 0, 4),
		span("DIX", 4, 2, 3),
		span("ONZE", 5, 0, 4),
	}

	minutes := [][]word{
		nil,
		{cinq},
		{dix},
		{et, quart},
		{vingt},
		{vingtCinq},
		{et, demi},
		{moins, vingtCinq},
		{moins, vingt},
		{moins, le, quart},
		{moins, dix},
		{moins, cinq},
	}

	return &layout{
		name:      "french",
		aliases:   []string{"fr"},
		letters:   frenchLetters,
		carryFrom: 35,
		frame:     []word{il, est},
		hours: func(hour, _ int) []word {
			switch hour {
			case 0:
				return []word{minuit}
			case 12:
				return []word{midi}
			case 1, 13:
				return []word{numbers[1], heure}
			}
			return []word{numbers[hour%12], heures}
		},
		minutes: func(bucket int) []word {
			return minutes[bucket/5]
		},
		words: collect([]word{il, est, heure, heures, midi, minuit, moins, le, et, cinq, dix, vingt, vingtCinq, demi, quart}, numbers[1:]),
	}
}
