package scraper

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptText is shown before reading a URL interactively
const PromptText = "Enter the URL to scrape: "

// PromptURL writes the prompt to w and reads one line from r. The returned
// URL is trimmed and may be empty.
func PromptURL(r io.Reader, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, PromptText); err != nil {
		return "", err
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read URL: %w", err)
	}
	return strings.TrimSpace(line), nil
}
