package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"hermannm.dev/wrap"
)

// ReadFile reads a previously written result file back into a Table, deducing the field
// delimiter from the file's content. Extracted files may use any of the supported output
// formats, so the delimiter cannot be assumed.
func ReadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, wrap.Errorf(err, "failed to open result file '%s'", path)
	}
	defer file.Close()

	table, err := Read(file)
	if err != nil {
		return nil, wrap.Errorf(err, "failed to read result file '%s'", path)
	}
	return table, nil
}

// Read reads delimited text with a header row into a Table, deducing the field
// delimiter from the first rows of content.
func Read(file io.ReadSeeker) (*Table, error) {
	delimiter, err := deduceFieldDelimiter(file, 20)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(file)
	reader.Comma = delimiter

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("file ended before header row")
		}
		return nil, wrap.Error(err, "failed to read header row")
	}

	table := &Table{Columns: header}
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return table, nil
			}
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
}

var delimitersToCheck = []rune{',', ';', '\t', '|'}

// deduceFieldDelimiter checks which candidate delimiter occurs a consistent, nonzero
// number of times per line over the first rows of the file. Consistency wins over raw
// count: the delimiter actually in use appears the same number of times on every row,
// while characters inside fields do not.
func deduceFieldDelimiter(file io.ReadSeeker, maxRowsToCheck int) (delimiter rune, err error) {
	// Resets reader position in file before returning, so its data can be read subsequently
	defer func() {
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			err = wrap.Error(seekErr, "failed to reset file reader after deducing delimiter")
		}
	}()

	candidates := make([]delimiterCandidate, 0, len(delimitersToCheck))
	for _, delimiter := range delimitersToCheck {
		candidates = append(
			candidates, delimiterCandidate{delimiter: delimiter, highestCount: -1, lowestCount: -1},
		)
	}

	scanner := bufio.NewScanner(file)
	for i := 0; scanner.Scan() && i < maxRowsToCheck; i++ {
		line := scanner.Text()
		for j := range candidates {
			candidates[j].updateCounts(line)
		}
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.betterThan(best) {
			best = candidate
		}
	}
	return best.delimiter, nil
}

type delimiterCandidate struct {
	delimiter    rune
	highestCount int
	lowestCount  int
}

func (candidate *delimiterCandidate) updateCounts(line string) {
	count := 0
	for _, char := range line {
		if char == candidate.delimiter {
			count++
		}
	}

	if candidate.highestCount == -1 || count > candidate.highestCount {
		candidate.highestCount = count
	}
	if candidate.lowestCount == -1 || count < candidate.lowestCount {
		candidate.lowestCount = count
	}
}

func (candidate delimiterCandidate) betterThan(other delimiterCandidate) bool {
	consistent := candidate.highestCount == candidate.lowestCount
	otherConsistent := other.highestCount == other.lowestCount

	switch {
	case consistent && otherConsistent:
		return candidate.highestCount > other.highestCount
	case consistent:
		return candidate.highestCount > 0
	case otherConsistent:
		return false
	default:
		return candidate.highestCount > other.highestCount &&
			(candidate.lowestCount != 0 || other.lowestCount == 0)
	}
}
