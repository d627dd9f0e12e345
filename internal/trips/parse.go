package trips

import "strings"

const (
	minFields   = 6
	zoneField   = 1
	pickupField = 3

	// Byte offsets of the two hour digits in "YYYY-MM-DD HH:MM:SS".
	hourTens = 11
	hourOnes = 12
)

// skipReason tells why a data line was not counted.
type skipReason int

const (
	accepted skipReason = iota
	skipEmpty
	skipShort
	skipMissing
	skipHour
)

const whitespace = " \t\r\n"

func trim(s string) string {
	return strings.Trim(s, whitespace)
}

// parseRecord extracts the zone and pickup hour from one data line.
// Fields are split on every comma; quoted commas are not special.
func parseRecord(line string) (zone string, hour int, reason skipReason) {
	if line == "" {
		return "", 0, skipEmpty
	}

	fields := strings.Split(line, ",")
	if len(fields) < minFields {
		return "", 0, skipShort
	}

	zone = trim(fields[zoneField])
	pickup := trim(fields[pickupField])
	if zone == "" || pickup == "" {
		return "", 0, skipMissing
	}

	hour, ok := parseHour(pickup)
	if !ok {
		return "", 0, skipHour
	}
	return zone, hour, accepted
}

// parseHour reads the hour from fixed positions 11-12 of a datetime string.
func parseHour(raw string) (int, bool) {
	t := trim(raw)
	if len(t) <= hourOnes {
		return 0, false
	}

	d1, d2 := t[hourTens], t[hourOnes]
	if !isDigit(d1) || !isDigit(d2) {
		return 0, false
	}

	h := int(d1-'0')*10 + int(d2-'0')
	if h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
