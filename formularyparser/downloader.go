package formularyparser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/giygas/posologie-api/logging"
)

// latin1Reader decodes ISO-8859-1 bytes into UTF-8.
func latin1Reader(raw []byte) io.Reader {
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw))
}

// downloadFormulary fetches the formulary TSV from url and writes it to
// path as UTF-8, normalizing line endings. Some institutional sources serve
// ISO-8859-1, so content is sniffed and decoded before writing.
func downloadFormulary(path, url string) error {
	cleanPath := filepath.Clean(path)

	client := &http.Client{
		Timeout: 2 * time.Minute,
	}
	response, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err = response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d downloading %s", response.StatusCode, url)
	}

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create formulary directory: %w", err)
		}
	}

	outFile, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", cleanPath, err)
	}
	defer func() {
		if err = outFile.Close(); err != nil {
			logging.Warn("Failed to close formulary file", "error", err)
		}
	}()

	scanner := bufio.NewScanner(decodeReader(bodyBytes))
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	for scanner.Scan() {
		if _, err = io.WriteString(outFile, scanner.Text()+"\n"); err != nil {
			return fmt.Errorf("failed to write to file %s: %w", cleanPath, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error in %s: %w", cleanPath, err)
	}

	logging.Debug(fmt.Sprintf("%s downloaded without errors", cleanPath))
	return nil
}
