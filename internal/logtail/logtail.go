package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineBytes = 1024 * 1024

// Read returns at most maxLines from the end of the file at path.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := newScanner(file)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = clean(scanner.Text())
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Head returns at most maxLines from the start of the file at path along
// with the file's total line count. A non-positive maxLines counts lines
// without returning any.
func Head(path string, maxLines int) ([]string, int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return head(file, maxLines)
}

func head(r io.Reader, maxLines int) ([]string, int, error) {
	var lines []string
	total := 0
	scanner := newScanner(r)
	for scanner.Scan() {
		if total < maxLines {
			lines = append(lines, clean(scanner.Text()))
		}
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log: %w", err)
	}
	return lines, total, nil
}

// Split breaks content into lines. Invalid UTF-8 is dropped and a trailing
// terminator does not produce an empty final line.
func Split(content []byte) []string {
	text := string(bytes.ToValidUTF8(content, nil))
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Join reverses Split, terminating every line with \n.
func Join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

func clean(line string) string {
	return strings.ToValidUTF8(line, "")
}
