// Package trailer provides a title-keyed trailer lookup used to backfill
// catalog entries that arrive without a trailer reference.
package trailer

// Table maps exact movie titles to trailer references. The empty-string key,
// when present, is the fallback reference for unknown titles.
type Table map[string]string

// Fallback is the table key holding the reference returned when neither the
// title nor the original title matches.
const Fallback = ""

// Lookup resolves a trailer reference by exact title, then by original
// title, then by the fallback entry. Implements domain.TrailerLookup.
func (t Table) Lookup(title, originalTitle string) (string, bool) {
	if title != "" {
		if ref, ok := t[title]; ok {
			return ref, true
		}
	}
	if originalTitle != "" {
		if ref, ok := t[originalTitle]; ok {
			return ref, true
		}
	}
	ref, ok := t[Fallback]
	return ref, ok
}

// DefaultTable returns the built-in demo table. The catalog machine takes the
// lookup as an injected capability, so deployments can swap this out for a
// real metadata source.
func DefaultTable() Table {
	return Table{
		"The Godfather":            "https://www.youtube.com/watch?v=sY1S34973zA",
		"Pulp Fiction":             "https://www.youtube.com/watch?v=s7EdQ4FqbhY",
		"The Dark Knight":          "https://www.youtube.com/watch?v=EXeTwQWrcwY",
		"Schindler's List":         "https://www.youtube.com/watch?v=gG22XNhtnoY",
		"Forrest Gump":             "https://www.youtube.com/watch?v=bLvqoHBptjg",
		"Fight Club":               "https://www.youtube.com/watch?v=qtRKdVHc-cE",
		"Inception":                "https://www.youtube.com/watch?v=YoHD9XEInc0",
		"The Matrix":               "https://www.youtube.com/watch?v=vKQi3bIA1HI",
		"Goodfellas":               "https://www.youtube.com/watch?v=qo5jJpHtI1Y",
		"The Shawshank Redemption": "https://www.youtube.com/watch?v=6hB3S9bIaco",
		"O Brother, Where Art Thou?": "https://www.youtube.com/watch?v=YZdD0OxSvvo",
		"Interstellar":             "https://www.youtube.com/watch?v=zSWdZVtXT7E",
		"Avengers: Endgame":        "https://www.youtube.com/watch?v=TcMBFSGVi1c",
		"Joker":                    "https://www.youtube.com/watch?v=zAGVQLHvwOY",
		"Parasite":                 "https://www.youtube.com/watch?v=5xH0HfJHsaY",
		"Once Upon a Time in Hollywood": "https://www.youtube.com/watch?v=ELeMaP8EPAA",
		"Dune":                     "https://www.youtube.com/watch?v=n9xhJrPXop4",
		"Spider-Man: No Way Home":  "https://www.youtube.com/watch?v=JfVOs4VSpmA",
		"Top Gun: Maverick":        "https://www.youtube.com/watch?v=qSqVVswa420",
		Fallback:                   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}
}
