package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var roomRe = regexp.MustCompile(`^(?:([A-Za-z]+)[-\s])?(\d{3,4})$`)

// ParsedRoom holds the structured data parsed from a raw room number string.
type ParsedRoom struct {
	Number string
	Wing   string
	Floor  int
	Seq    int
}

// ParseRoomNumber extracts wing, floor, and sequence from a raw room number
// as the facilities system reports it, e.g. "301", "A-301", "B 1204". The
// last two digits are the room's sequence on its floor; everything before is
// the floor. floorCode, when present, overrides the derived floor.
func ParseRoomNumber(raw string, floorCode string) (ParsedRoom, error) {
	s := strings.TrimSpace(raw)

	m := roomRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedRoom{}, fmt.Errorf("unable to parse room number: %q", raw)
	}

	wing := strings.ToUpper(m[1])
	digits := m[2]

	floor, err := strconv.Atoi(digits[:len(digits)-2])
	if err != nil {
		return ParsedRoom{}, fmt.Errorf("unable to parse floor from %q: %w", raw, err)
	}
	seq, err := strconv.Atoi(digits[len(digits)-2:])
	if err != nil {
		return ParsedRoom{}, fmt.Errorf("unable to parse sequence from %q: %w", raw, err)
	}

	if floorCode != "" {
		if f, err := strconv.Atoi(floorCode); err == nil {
			floor = f
		}
	}

	number := digits
	if wing != "" {
		number = wing + "-" + digits
	}

	return ParsedRoom{Number: number, Wing: wing, Floor: floor, Seq: seq}, nil
}
