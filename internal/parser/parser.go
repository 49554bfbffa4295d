package parser

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pable/pvzh-stats/internal/hero"
	"github.com/pable/pvzh-stats/internal/model"
)

// Delimiter separates the fields of one record line.
const Delimiter = "|"

// ErrMalformedRecord is returned for lines that do not carry the five
// required fields or whose timestamp cannot be read.
var ErrMalformedRecord = errors.New("malformed record")

// Field order of a record line.
const (
	fieldTime = iota
	fieldWinner
	fieldLoser
	fieldWinningHero
	fieldLosingHero
	fieldWinningDeck
	fieldLosingDeck
	requiredFields = fieldLosingHero + 1
)

var requiredNames = [requiredFields]string{"timestamp", "winner", "loser", "winning hero", "losing hero"}

// timeLayouts are tried in order when reading the timestamp field.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// LineError describes why a single line was skipped.
type LineError struct {
	Line   int    // 1-based line number within the parsed text, 0 when unknown
	Text   string // the raw line
	Reason string
}

func (e *LineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformedRecord, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Reason)
}

func (e *LineError) Unwrap() error { return ErrMalformedRecord }

// Result is the outcome of parsing one source text.
type Result struct {
	Records []model.MatchRecord
	// Skipped counts non-blank lines that failed to parse.
	Skipped int
	Errors  []*LineError
	// UnknownHeroes counts accepted records that name a hero code outside
	// the reference table.
	UnknownHeroes int
}

// ParseTime reads a record timestamp. Values without a zone are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// ParseLine parses one record line. The two deck fields are optional and
// default to model.UnknownDeck.
func ParseLine(line, patch, tournament string) (model.MatchRecord, error) {
	fields := strings.Split(strings.TrimRight(line, "\r"), Delimiter)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	for i := 0; i < requiredFields; i++ {
		if i >= len(fields) || fields[i] == "" {
			return model.MatchRecord{}, &LineError{Text: line, Reason: "missing " + requiredNames[i]}
		}
	}

	ts, err := ParseTime(fields[fieldTime])
	if err != nil {
		return model.MatchRecord{}, &LineError{Text: line, Reason: err.Error()}
	}

	return model.MatchRecord{
		Time:        ts,
		RawTime:     fields[fieldTime],
		Winner:      fields[fieldWinner],
		Loser:       fields[fieldLoser],
		WinningHero: strings.ToLower(fields[fieldWinningHero]),
		LosingHero:  strings.ToLower(fields[fieldLosingHero]),
		WinningDeck: optional(fields, fieldWinningDeck),
		LosingDeck:  optional(fields, fieldLosingDeck),
		Patch:       patch,
		Tournament:  tournament,
	}, nil
}

func optional(fields []string, i int) string {
	if i < len(fields) && fields[i] != "" {
		return fields[i]
	}
	return model.UnknownDeck
}

// Parse parses every line of text. Blank lines are ignored; malformed lines
// are skipped and reported in the result, never returned as an error.
func Parse(text, patch, tournament string) Result {
	var res Result
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseLine(line, patch, tournament)
		if err != nil {
			var le *LineError
			if errors.As(err, &le) {
				le.Line = lineNo
				res.Errors = append(res.Errors, le)
			}
			res.Skipped++
			continue
		}
		if !hero.Known(rec.WinningHero) || !hero.Known(rec.LosingHero) {
			res.UnknownHeroes++
		}
		res.Records = append(res.Records, rec)
	}
	if err := sc.Err(); err != nil {
		res.Skipped++
		res.Errors = append(res.Errors, &LineError{Line: lineNo + 1, Reason: err.Error()})
	}
	return res
}
