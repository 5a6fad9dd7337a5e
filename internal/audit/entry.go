package audit

// Entry is one translation request in the JSONL log. Text contents are
// never recorded, only sizes — the log is an operational trail, not a
// transcript.
type Entry struct {
	Timestamp  string `json:"ts"`
	PrevHash   string `json:"prev_hash"`
	Provider   string `json:"provider"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	CacheHit   bool   `json:"cache_hit"`
	CharsIn    int    `json:"chars_in"`
	CharsOut   int    `json:"chars_out"`
	Tokens     int    `json:"tokens"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}
