package formularyparser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giygas/posologie-api/formularyparser/entities"
	"github.com/giygas/posologie-api/logging"
)

// parseFormularyFile reads a formulary TSV. Columns:
//
//	name \t strengths (comma separated mg) \t halvable (0/1) \t notes
//
// Lines starting with # and empty lines are skipped. Files may be UTF-8 or
// Latin-1; decoding happens transparently.
func parseFormularyFile(path string) ([]entities.Medication, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(decodeReader(raw))
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	var medications []entities.Medication
	lineCount := 0
	skippedLines := 0

	for scanner.Scan() {
		lineCount++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		med, ok := parseLine(line)
		if !ok {
			skippedLines++
			continue
		}
		medications = append(medications, med)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error in %s: %w", path, err)
	}

	if skippedLines > 0 {
		logging.Warn("Skipped malformed formulary lines",
			"file", path,
			"skipped", skippedLines,
			"total", lineCount)
	}

	return medications, nil
}

// parseLine converts one TSV line into a medication entry.
func parseLine(line string) (entities.Medication, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return entities.Medication{}, false
	}

	name := strings.TrimSpace(fields[0])
	if name == "" {
		return entities.Medication{}, false
	}

	var strengths []int
	for _, part := range strings.Split(fields[1], ",") {
		mg, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || mg <= 0 {
			return entities.Medication{}, false
		}
		strengths = append(strengths, mg)
	}
	if len(strengths) == 0 {
		return entities.Medication{}, false
	}
	sort.Ints(strengths)

	med := entities.Medication{Name: name, Strengths: strengths}
	if len(fields) > 2 {
		med.Halvable = strings.TrimSpace(fields[2]) == "1"
	}
	if len(fields) > 3 {
		med.Notes = strings.TrimSpace(fields[3])
	}
	return med, true
}

// decodeReader returns a UTF-8 reader over raw bytes, decoding from
// ISO-8859-1 when the content is not already valid UTF-8.
func decodeReader(raw []byte) io.Reader {
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return latin1Reader(raw)
}
