package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify reads a JSONL log and validates the hash chain. Returns
// Valid=true if the chain is intact, or details about the first broken
// link.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	var prevLine []byte

	for scanner.Scan() {
		lineNum++
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return VerifyResult{Error: fmt.Sprintf("parse error: %v", err), ErrorLine: lineNum}
		}

		want := GenesisHash
		if lineNum > 1 {
			want = HashLine(prevLine)
		}
		if entry.PrevHash != want {
			return VerifyResult{
				Error:     fmt.Sprintf("prev_hash mismatch: got %q", entry.PrevHash),
				ErrorLine: lineNum,
			}
		}
		prevLine = line
	}
	if err := scanner.Err(); err != nil {
		return VerifyResult{Error: fmt.Sprintf("scan: %v", err), Lines: lineNum}
	}

	return VerifyResult{Valid: true, Lines: lineNum}
}
