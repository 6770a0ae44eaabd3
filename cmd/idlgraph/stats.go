package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/process"
)

// printStats reports resident memory, thread count and CPU time of the
// current process.
func printStats(w io.Writer) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return fmt.Errorf("stats: memory: %w", err)
	}
	times, err := p.Times()
	if err != nil {
		return fmt.Errorf("stats: cpu: %w", err)
	}
	threads, err := p.NumThreads()
	if err != nil {
		return fmt.Errorf("stats: threads: %w", err)
	}
	fmt.Fprintf(w, "%s rss=%s threads=%d cpu user=%.2fs system=%.2fs\n",
		colorTheme.dim.Render("stats:"), humanize.IBytes(mem.RSS), threads, times.User, times.System)
	return nil
}
