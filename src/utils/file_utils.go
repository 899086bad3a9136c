package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/username/salesfolio/src/logger"
)

// ReadTextLines reads an entire text stream and splits it into lines.
// Legacy exports are not always UTF-8: when the bytes fail UTF-8 validation
// the content is decoded as windows-1252 (which covers latin-1 for the
// printable range).
func ReadTextLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	text := string(data)
	if !utf8.Valid(data) {
		decoded, decErr := charmap.Windows1252.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode input as windows-1252: %w", decErr)
		}
		logger.L.Debug("Input was not valid UTF-8, decoded as windows-1252", "bytes", len(data))
		text = string(decoded)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n"), nil
}

// ReadTextFileLines opens a file and reads it through ReadTextLines.
func ReadTextFileLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file '%s': %w", path, err)
	}
	defer file.Close()
	return ReadTextLines(file)
}
