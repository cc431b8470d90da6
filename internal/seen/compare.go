package seen

import (
	"strings"

	"github.com/medmaha/dokoola-scraper/internal/models"
)

// DiffStats captures stats for A-B unseen filtering.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

// InvalidSkipped returns the total invalid records skipped during comparison.
func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

// MergeStats captures stats for seen history updates.
type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidSeen  int
	InvalidInput int
	Added        int
	TotalOut     int
}

// InvalidSkipped returns the total invalid records skipped during merge.
func (s MergeStats) InvalidSkipped() int {
	return s.InvalidSeen + s.InvalidInput
}

// Key returns the upsert identity of a job: its external URL. Records
// without one cannot be deduplicated against the store and are invalid.
func Key(job models.ScrapedJob) (string, bool) {
	url := strings.TrimSpace(job.URL)
	if url == "" {
		return "", false
	}
	return strings.ToLower(url), true
}

// Diff returns jobs from newJobs whose URL is absent from seenJobs. This is
// the scraper's half of the ingestion contract: anything already in the
// store is excluded from the insert batch before handoff.
func Diff(newJobs []models.ScrapedJob, seenJobs []models.ScrapedJob) ([]models.ScrapedJob, DiffStats) {
	stats := DiffStats{
		TotalNew:  len(newJobs),
		TotalSeen: len(seenJobs),
	}

	seenKeys := make(map[string]struct{}, len(seenJobs))
	for _, job := range seenJobs {
		key, ok := Key(job)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		seenKeys[key] = struct{}{}
	}

	newKeys := make(map[string]struct{}, len(newJobs))
	unseen := make([]models.ScrapedJob, 0, len(newJobs))
	for _, job := range newJobs {
		key, ok := Key(job)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, exists := newKeys[key]; exists {
			continue
		}
		newKeys[key] = struct{}{}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		unseen = append(unseen, job)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge appends unique new jobs into the seen history.
// Existing seen entries win collisions.
func Merge(existingSeen []models.ScrapedJob, inputJobs []models.ScrapedJob) ([]models.ScrapedJob, MergeStats) {
	stats := MergeStats{
		TotalSeen:  len(existingSeen),
		TotalInput: len(inputJobs),
	}

	keys := make(map[string]struct{}, len(existingSeen)+len(inputJobs))
	out := make([]models.ScrapedJob, 0, len(existingSeen)+len(inputJobs))

	for _, job := range existingSeen {
		key, ok := Key(job)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, job)
	}

	for _, job := range inputJobs {
		key, ok := Key(job)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, job)
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
