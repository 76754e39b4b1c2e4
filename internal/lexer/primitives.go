package lexer

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// StringLiteral scans a '...' OData string literal, where '' is an escaped
// embedded quote. Returns the unescaped value, the raw source text, and the
// next index.
func StringLiteral(s *Source, i int) (value, raw string, next int, ok bool) {
	if s.At(i) != '\'' {
		return "", "", i, false
	}
	start := i
	i++
	var b strings.Builder
	for {
		if s.EOF(i) {
			return "", "", i, false
		}
		if s.At(i) == '\'' {
			if s.At(i+1) == '\'' {
				b.WriteRune('\'')
				i += 2
				continue
			}
			i++
			break
		}
		b.WriteRune(s.At(i))
		i++
	}
	return b.String(), s.Slice(start, i), i, true
}

// Guid scans an 8-4-4-4-12 hex GUID (case-insensitive) at i.
func Guid(s *Source, i int) (raw string, next int, ok bool) {
	groups := []int{8, 4, 4, 4, 12}
	start := i
	j := i
	for gi, n := range groups {
		for k := 0; k < n; k++ {
			if s.EOF(j) || !isHex(s.At(j)) {
				return "", i, false
			}
			j++
		}
		if gi < len(groups)-1 {
			if s.At(j) != '-' {
				return "", i, false
			}
			j++
		}
	}
	return s.Slice(start, j), j, true
}

// ParseGuid validates and canonicalizes a GUID literal's raw text.
func ParseGuid(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, oerr.Newf(oerr.KindInvalidGuid, "invalid GUID literal %q", raw)
	}
	return id, nil
}

// Date scans YYYY-MM-DD at i.
func Date(s *Source, i int) (raw string, next int, ok bool) {
	j := i
	if !scanDigits(s, &j, 4) {
		return "", i, false
	}
	if s.At(j) != '-' {
		return "", i, false
	}
	j++
	if !scanDigits(s, &j, 2) {
		return "", i, false
	}
	if s.At(j) != '-' {
		return "", i, false
	}
	j++
	if !scanDigits(s, &j, 2) {
		return "", i, false
	}
	return s.Slice(i, j), j, true
}

// ParseDate validates a Date literal's raw text and returns it as time.Time (UTC midnight).
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, oerr.Newf(oerr.KindInvalidDate, "invalid Date literal %q", raw)
	}
	return t, nil
}

// DateTimeOffset scans an ISO-8601 date-time-with-offset at i:
// YYYY-MM-DDTHH:MM:SS(.fff)?(Z|+HH:MM|-HH:MM)
func DateTimeOffset(s *Source, i int) (raw string, next int, ok bool) {
	j := i
	if !scanDigits(s, &j, 4) {
		return "", i, false
	}
	if s.At(j) != '-' {
		return "", i, false
	}
	j++
	if !scanDigits(s, &j, 2) {
		return "", i, false
	}
	if s.At(j) != '-' {
		return "", i, false
	}
	j++
	if !scanDigits(s, &j, 2) {
		return "", i, false
	}
	if s.At(j) != 'T' && s.At(j) != 't' {
		return "", i, false
	}
	j++
	if _, next2, tok := TimeOfDay(s, j); tok {
		j = next2
	} else {
		return "", i, false
	}
	if s.At(j) == 'Z' || s.At(j) == 'z' {
		j++
		return s.Slice(i, j), j, true
	}
	if s.At(j) == '+' || s.At(j) == '-' {
		j++
		if !scanDigits(s, &j, 2) {
			return "", i, false
		}
		if s.At(j) != ':' {
			return "", i, false
		}
		j++
		if !scanDigits(s, &j, 2) {
			return "", i, false
		}
		return s.Slice(i, j), j, true
	}
	return "", i, false
}

// ParseDateTimeOffset validates an ISO-8601 date-time literal.
func ParseDateTimeOffset(raw string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z0700"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, oerr.Newf(oerr.KindInvalidDate, "invalid DateTimeOffset literal %q", raw)
}

// TimeOfDay scans HH:MM:SS(.fff)? at i.
func TimeOfDay(s *Source, i int) (raw string, next int, ok bool) {
	j := i
	if !scanDigits(s, &j, 2) {
		return "", i, false
	}
	if s.At(j) != ':' {
		return "", i, false
	}
	j++
	if !scanDigits(s, &j, 2) {
		return "", i, false
	}
	if s.At(j) != ':' {
		return "", i, false
	}
	j++
	if !scanDigits(s, &j, 2) {
		return "", i, false
	}
	if s.At(j) == '.' {
		k := j + 1
		start := k
		for !s.EOF(k) && isDigit(s.At(k)) {
			k++
		}
		if k > start {
			j = k
		}
	}
	return s.Slice(i, j), j, true
}

// ParseTimeOfDay validates a TimeOfDay literal's raw text.
func ParseTimeOfDay(raw string) (time.Duration, error) {
	layouts := []string{"15:04:05.999999999", "15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Sub(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)), nil
		}
	}
	return 0, oerr.Newf(oerr.KindInvalidTimeOfDay, "invalid TimeOfDay literal %q", raw)
}

// Duration scans an ISO-8601 duration P[nD]T[nH][nM][nS] at i.
func Duration(s *Source, i int) (raw string, next int, ok bool) {
	j := i
	if s.At(j) != 'P' && s.At(j) != 'p' {
		return "", i, false
	}
	j++
	consumed := false
	if digitsThen(s, &j, 'D') || digitsThen(s, &j, 'd') {
		consumed = true
	}
	if s.At(j) == 'T' || s.At(j) == 't' {
		j++
		if digitsThen(s, &j, 'H') || digitsThen(s, &j, 'h') {
			consumed = true
		}
		if digitsThen(s, &j, 'M') || digitsThen(s, &j, 'm') {
			consumed = true
		}
		if digitsDecimalThen(s, &j, 'S') || digitsDecimalThen(s, &j, 's') {
			consumed = true
		}
	}
	if !consumed {
		return "", i, false
	}
	return s.Slice(i, j), j, true
}

// ParseDuration validates a Duration literal's raw text.
func ParseDuration(raw string) (time.Duration, error) {
	body := raw
	if len(body) == 0 || (body[0] != 'P' && body[0] != 'p') {
		return 0, oerr.Newf(oerr.KindInvalidDuration, "invalid Duration literal %q", raw)
	}
	body = body[1:]
	var datePart, timePart string
	if idx := strings.IndexAny(body, "Tt"); idx >= 0 {
		datePart, timePart = body[:idx], body[idx+1:]
	} else {
		datePart = body
	}
	var total time.Duration
	if datePart != "" {
		days, err := parseDurationComponent(datePart, "Dd")
		if err != nil {
			return 0, oerr.Newf(oerr.KindInvalidDuration, "invalid Duration literal %q", raw)
		}
		total += time.Duration(days * float64(24*time.Hour))
	}
	if timePart != "" {
		hours, rest, err := parseDurationPrefix(timePart, "Hh")
		if err != nil {
			return 0, oerr.Newf(oerr.KindInvalidDuration, "invalid Duration literal %q", raw)
		}
		total += time.Duration(hours * float64(time.Hour))
		minutes, rest2, err := parseDurationPrefix(rest, "Mm")
		if err != nil {
			return 0, oerr.Newf(oerr.KindInvalidDuration, "invalid Duration literal %q", raw)
		}
		total += time.Duration(minutes * float64(time.Minute))
		seconds, _, err := parseDurationPrefix(rest2, "Ss")
		if err != nil {
			return 0, oerr.Newf(oerr.KindInvalidDuration, "invalid Duration literal %q", raw)
		}
		total += time.Duration(seconds * float64(time.Second))
	}
	return total, nil
}

func parseDurationComponent(s, suffixSet string) (float64, error) {
	idx := strings.IndexAny(s, suffixSet)
	if idx < 0 {
		return 0, oerr.New(oerr.KindInvalidDuration, "missing duration component suffix")
	}
	return strconv.ParseFloat(s[:idx], 64)
}

func parseDurationPrefix(s, suffixSet string) (float64, string, error) {
	if s == "" {
		return 0, "", nil
	}
	idx := strings.IndexAny(s, suffixSet)
	if idx < 0 {
		return 0, s, nil
	}
	v, err := strconv.ParseFloat(s[:idx], 64)
	if err != nil {
		return 0, "", err
	}
	return v, s[idx+1:], nil
}

func digitsThen(s *Source, i *int, suffix rune) bool {
	j := *i
	start := j
	for !s.EOF(j) && (isDigit(s.At(j)) || s.At(j) == '.') {
		j++
	}
	if j == start || s.At(j) != suffix {
		return false
	}
	*i = j + 1
	return true
}

func digitsDecimalThen(s *Source, i *int, suffix rune) bool {
	return digitsThen(s, i, suffix)
}

func scanDigits(s *Source, i *int, n int) bool {
	j := *i
	for k := 0; k < n; k++ {
		if s.EOF(j) || !isDigit(s.At(j)) {
			return false
		}
		j++
	}
	*i = j
	return true
}

// NumberLiteral scans an integer or decimal literal (optional leading '-',
// optional fractional part, optional exponent) at i.
func NumberLiteral(s *Source, i int) (raw string, isFloat bool, next int, ok bool) {
	j := i
	if s.At(j) == '-' {
		j++
	}
	start := j
	for !s.EOF(j) && isDigit(s.At(j)) {
		j++
	}
	if j == start {
		return "", false, i, false
	}
	if s.At(j) == '.' && isDigit(s.At(j+1)) {
		isFloat = true
		j++
		for !s.EOF(j) && isDigit(s.At(j)) {
			j++
		}
	}
	if s.At(j) == 'e' || s.At(j) == 'E' {
		k := j + 1
		if s.At(k) == '+' || s.At(k) == '-' {
			k++
		}
		if isDigit(s.At(k)) {
			isFloat = true
			j = k
			for !s.EOF(j) && isDigit(s.At(j)) {
				j++
			}
		}
	}
	return s.Slice(i, j), isFloat, j, true
}

// GeographyLiteral scans geography'<Shape>(...)' at i and returns the EDM
// type tag for the shape plus the decomposed coordinate value.
func GeographyLiteral(s *Source, i int) (lit *token.Literal, raw string, next int, err error) {
	start := i
	if nxt, ok := Keyword(s, i, "geography"); ok {
		i = nxt
	} else {
		return nil, "", i, nil
	}
	if s.At(i) != '\'' {
		return nil, "", start, oerr.At(oerr.KindInvalidGeo, i, "expected ' after geography")
	}
	i++
	bodyStart := i
	for !s.EOF(i) && s.At(i) != '\'' {
		i++
	}
	if s.EOF(i) {
		return nil, "", start, oerr.At(oerr.KindInvalidGeo, i, "unterminated geography literal")
	}
	body := s.Slice(bodyStart, i)
	i++
	value, edmType, perr := parseGeographyBody(body)
	if perr != nil {
		return nil, "", start, perr
	}
	return &token.Literal{EdmType: edmType, Value: value}, s.Slice(start, i), i, nil
}

func parseGeographyBody(body string) (any, token.EdmType, error) {
	open := strings.IndexByte(body, '(')
	if open < 0 || !strings.HasSuffix(body, ")") {
		return nil, "", oerr.Newf(oerr.KindInvalidGeo, "invalid geography shape %q", body)
	}
	shape := strings.TrimSpace(body[:open])
	inner := body[open+1 : len(body)-1]

	switch shape {
	case "Point":
		pt, err := parseCoordinate(inner)
		if err != nil {
			return nil, "", err
		}
		return pt, token.EdmGeographyPoint, nil
	case "LineString":
		pts, err := parseCoordinateList(inner)
		if err != nil {
			return nil, "", err
		}
		return pts, token.EdmGeographyLineString, nil
	case "Polygon":
		rings, err := parsePolygonRings(inner)
		if err != nil {
			return nil, "", err
		}
		return map[string]any{"type": "Polygon", "coordinates": rings}, token.EdmGeographyPolygon, nil
	default:
		return nil, "", oerr.Newf(oerr.KindInvalidGeo, "unsupported geography shape %q", shape)
	}
}

func parseCoordinate(s string) ([2]float64, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return [2]float64{}, oerr.Newf(oerr.KindInvalidGeo, "invalid point coordinates %q", s)
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return [2]float64{}, oerr.Newf(oerr.KindInvalidGeo, "invalid point coordinates %q", s)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return [2]float64{}, oerr.Newf(oerr.KindInvalidGeo, "invalid point coordinates %q", s)
	}
	return [2]float64{x, y}, nil
}

func parseCoordinateList(s string) ([][2]float64, error) {
	parts := strings.Split(s, ",")
	out := make([][2]float64, 0, len(parts))
	for _, p := range parts {
		pt, err := parseCoordinate(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

func parsePolygonRings(s string) ([][][2]float64, error) {
	s = strings.TrimSpace(s)
	var rings [][][2]float64
	depth := 0
	start := -1
	for i, r := range s {
		switch r {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			depth--
			if depth == 0 && start >= 0 {
				ring, err := parseCoordinateList(s[start:i])
				if err != nil {
					return nil, err
				}
				rings = append(rings, ring)
				start = -1
			}
		}
	}
	if len(rings) == 0 {
		return nil, oerr.Newf(oerr.KindInvalidGeo, "invalid polygon rings %q", s)
	}
	return rings, nil
}
