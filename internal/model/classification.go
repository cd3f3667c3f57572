package model

import "fmt"

// Classification is the per-unique-word verdict against the dictionary
type Classification uint8

const (
	Undecided Classification = iota // Not yet resolved by the classifier
	Known                           // Present as an original dictionary entry
	Maybe                           // Expanded entry, or a known prefix over a dictionary stem
	Unknown                         // Neither of the above
)

// String returns the lowercase name, also used as the CSS class in rendered pages
func (c Classification) String() string {
	switch c {
	case Undecided:
		return "undecided"
	case Known:
		return "known"
	case Maybe:
		return "maybe"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("classification(%d)", uint8(c))
	}
}

// MarshalText encodes the classification by name
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a classification name
func (c *Classification) UnmarshalText(text []byte) error {
	switch string(text) {
	case "undecided":
		*c = Undecided
	case "known":
		*c = Known
	case "maybe":
		*c = Maybe
	case "unknown":
		*c = Unknown
	default:
		return fmt.Errorf("unknown classification %q", string(text))
	}
	return nil
}

// TokenStats is the shared record for every occurrence of one lowercase word
// within a single analyzed document. Classification is written once, while Undecided.
type TokenStats struct {
	Word           string         `json:"word"`
	Count          int            `json:"count"`
	Classification Classification `json:"classification"`
}
