// Package logtail reads log lines from files and uploads.
//
// # Overview
//
// The analyzer only ever looks at a bounded window of a log: the first N
// lines for analysis and preview, or the last N lines when following a file.
// This package provides both without loading more than the window into
// memory, plus the splitter used for uploaded content.
//
// # Reading
//
//   - Read returns the last maxLines lines using a ring buffer
//   - Head returns the first maxLines lines and the total line count
//   - Split breaks uploaded bytes into lines
//
// Example usage:
//
//	lines, total, err := logtail.Head("/var/log/syslog", 1000)
//	if err != nil {
//		return fmt.Errorf("preview: %w", err)
//	}
//
// # Ring Buffer Algorithm
//
// Read keeps a circular buffer of size maxLines:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines seen
//	3. If total < maxLines:
//	   - Return first 'count' entries from buffer
//	4. If total >= maxLines:
//	   - Return buffer starting from current index (oldest line)
//
// # Encoding
//
// Invalid UTF-8 sequences are dropped rather than rejected, so a partly
// binary log still loads. Line terminators are stripped; files split on \n
// and \r\n, uploads additionally on a bare \r.
//
// # Error Handling
//
// Read and Head return nil, nil for files that do not exist. Other errors
// (permission denied, I/O errors) are returned wrapped. Lines longer than
// 1MB fail with bufio.ErrTooLong.
package logtail
