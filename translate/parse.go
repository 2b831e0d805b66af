package translate

import (
	"regexp"
	"strconv"
	"strings"
)

// Strategy turns the non-empty lines of an oracle response into a Result
// for batch. An empty Result means the strategy did not apply.
type Strategy func(lines []string, batch Batch) Result

var (
	indexedLine = regexp.MustCompile(`^\[(\d+)\]\s*(.*)$`)
	strayIndex  = regexp.MustCompile(`^\[\d+\]\s*`)
)

// DefaultStrategies returns the indexed parse followed by the positional
// fallback.
func DefaultStrategies() []Strategy {
	return []Strategy{IndexedStrategy, PositionalStrategy}
}

// IndexedStrategy maps every "[i] text" line whose index belongs to the
// batch. Order and completeness are not required; a repeated index keeps
// the last text.
func IndexedStrategy(lines []string, batch Batch) Result {
	want := batch.indexSet()
	r := make(Result)
	for _, ln := range lines {
		m := indexedLine.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || !want[idx] {
			continue
		}
		if text := strings.TrimSpace(m[2]); text != "" {
			r[idx] = text
		}
	}
	return r
}

// PositionalStrategy zips response lines with the batch in order. It only
// applies when the line count equals the batch size.
func PositionalStrategy(lines []string, batch Batch) Result {
	if len(lines) == 0 || len(lines) != len(batch) {
		return nil
	}
	r := make(Result, len(lines))
	for i, ln := range lines {
		if text := strings.TrimSpace(strayIndex.ReplaceAllString(ln, "")); text != "" {
			r[batch[i].Index] = text
		}
	}
	return r
}

// ParseResponse runs strategies in order and returns the first non-empty
// result. With no strategies it uses DefaultStrategies.
func ParseResponse(response string, batch Batch, strategies ...Strategy) Result {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	lines := responseLines(response)
	for _, s := range strategies {
		if r := s(lines, batch); len(r) > 0 {
			return r
		}
	}
	return Result{}
}

// responseLines returns the trimmed non-empty lines of a response, without
// markdown code fences.
func responseLines(response string) []string {
	var lines []string
	for _, ln := range strings.Split(strings.ReplaceAll(response, "\r\n", "\n"), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "```") {
			continue
		}
		lines = append(lines, ln)
	}
	return lines
}
