// Package stats tracks timing and volume metrics for a conversion run.
// Each run goes through three phases: scanning the source tree, preparing
// the output directories and converting documents.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Stats holds metrics for one conversion run.
type Stats struct {
	// Timing for each phase
	ScanStart    time.Time
	ScanEnd      time.Time
	PrepareStart time.Time
	PrepareEnd   time.Time
	ConvertStart time.Time
	ConvertEnd   time.Time

	// Counts
	DocumentsFound     int
	DocumentsConverted int
	Rewrites           int
	AssetsRelocated    int
	SkippedRemote      int
	BytesIn            int64
	BytesOut           int64

	// Memory stats (captured at end)
	HeapAlloc  uint64
	TotalAlloc uint64
	NumGC      uint32
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{}
}

// StartScan marks the beginning of the source scan.
func (s *Stats) StartScan() {
	s.ScanStart = time.Now()
}

// EndScan marks the end of the source scan.
func (s *Stats) EndScan(documentsFound int) {
	s.ScanEnd = time.Now()
	s.DocumentsFound = documentsFound
}

// StartPrepare marks the beginning of output directory creation.
func (s *Stats) StartPrepare() {
	s.PrepareStart = time.Now()
}

// EndPrepare marks the end of output directory creation.
func (s *Stats) EndPrepare() {
	s.PrepareEnd = time.Now()
}

// StartConvert marks the beginning of document conversion.
func (s *Stats) StartConvert() {
	s.ConvertStart = time.Now()
}

// AddDocument records one converted document.
func (s *Stats) AddDocument(rewrites, assets, skipped, bytesIn, bytesOut int) {
	s.DocumentsConverted++
	s.Rewrites += rewrites
	s.AssetsRelocated += assets
	s.SkippedRemote += skipped
	s.BytesIn += int64(bytesIn)
	s.BytesOut += int64(bytesOut)
}

// EndConvert marks the end of document conversion and captures memory stats.
func (s *Stats) EndConvert() {
	s.ConvertEnd = time.Now()
	s.captureMemoryStats()
}

// captureMemoryStats reads current memory statistics from runtime.
func (s *Stats) captureMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
}

func span(start, end time.Time) time.Duration {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	return end.Sub(start)
}

// ScanDuration returns the time spent walking the source tree.
func (s *Stats) ScanDuration() time.Duration {
	return span(s.ScanStart, s.ScanEnd)
}

// PrepareDuration returns the time spent creating output directories.
// Zero for dry runs.
func (s *Stats) PrepareDuration() time.Duration {
	return span(s.PrepareStart, s.PrepareEnd)
}

// ConvertDuration returns the time spent converting documents.
func (s *Stats) ConvertDuration() time.Duration {
	return span(s.ConvertStart, s.ConvertEnd)
}

// TotalDuration returns the time from scan start to convert end.
func (s *Stats) TotalDuration() time.Duration {
	return span(s.ScanStart, s.ConvertEnd)
}

// DocumentsPerSecond returns the conversion throughput.
func (s *Stats) DocumentsPerSecond() float64 {
	d := s.ConvertDuration()
	if d == 0 || s.DocumentsConverted == 0 {
		return 0
	}
	return float64(s.DocumentsConverted) / d.Seconds()
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// FormatBytes formats bytes for human-readable display.
func FormatBytes(bytes uint64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func (s *Stats) writePhase(b *strings.Builder, label string, d, total time.Duration) {
	b.WriteString(fmt.Sprintf("  %-14s %8s", label, FormatDuration(d)))
	if total > 0 {
		b.WriteString(fmt.Sprintf("  (%4.1f%%)", float64(d)/float64(total)*100))
	}
	b.WriteString("\n")
}

// String returns a formatted string representation of the stats.
func (s *Stats) String() string {
	var b strings.Builder

	total := s.TotalDuration()

	b.WriteString("\n=== Conversion Statistics ===\n\n")

	b.WriteString("Timing:\n")
	s.writePhase(&b, "Scan files:", s.ScanDuration(), total)
	s.writePhase(&b, "Prepare dirs:", s.PrepareDuration(), total)
	s.writePhase(&b, "Convert:", s.ConvertDuration(), total)
	b.WriteString("  ─────────────────────────\n")
	b.WriteString(fmt.Sprintf("  Total:         %8s\n", FormatDuration(total)))

	b.WriteString("\nDocuments:\n")
	b.WriteString(fmt.Sprintf("  Found:             %5d\n", s.DocumentsFound))
	b.WriteString(fmt.Sprintf("  Converted:         %5d\n", s.DocumentsConverted))
	b.WriteString(fmt.Sprintf("  Rewrites:          %5d\n", s.Rewrites))
	b.WriteString(fmt.Sprintf("  Assets copied:     %5d\n", s.AssetsRelocated))
	if s.SkippedRemote > 0 {
		b.WriteString(fmt.Sprintf("  Remote skipped:    %5d\n", s.SkippedRemote))
	}
	b.WriteString(fmt.Sprintf("  Docs/second:       %5.1f\n", s.DocumentsPerSecond()))
	b.WriteString(fmt.Sprintf("  Read:          %8s\n", FormatBytes(uint64(max(s.BytesIn, 0)))))
	b.WriteString(fmt.Sprintf("  Written:       %8s\n", FormatBytes(uint64(max(s.BytesOut, 0)))))

	b.WriteString("\nMemory:\n")
	b.WriteString(fmt.Sprintf("  Heap in use:   %8s\n", FormatBytes(s.HeapAlloc)))
	b.WriteString(fmt.Sprintf("  Total alloc:   %8s\n", FormatBytes(s.TotalAlloc)))
	b.WriteString(fmt.Sprintf("  GC cycles:     %8d\n", s.NumGC))

	return b.String()
}

// ToJSON returns a map suitable for JSON serialization.
func (s *Stats) ToJSON() map[string]any {
	return map[string]any{
		"timing": map[string]any{
			"scan_ms":    s.ScanDuration().Milliseconds(),
			"prepare_ms": s.PrepareDuration().Milliseconds(),
			"convert_ms": s.ConvertDuration().Milliseconds(),
			"total_ms":   s.TotalDuration().Milliseconds(),
		},
		"documents": map[string]any{
			"found":          s.DocumentsFound,
			"converted":      s.DocumentsConverted,
			"rewrites":       s.Rewrites,
			"assets":         s.AssetsRelocated,
			"skipped_remote": s.SkippedRemote,
			"bytes_in":       s.BytesIn,
			"bytes_out":      s.BytesOut,
			"per_second":     s.DocumentsPerSecond(),
		},
		"memory": map[string]any{
			"heap_bytes":  s.HeapAlloc,
			"total_bytes": s.TotalAlloc,
			"gc_cycles":   s.NumGC,
		},
	}
}
