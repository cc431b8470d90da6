package seen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/medmaha/dokoola-scraper/internal/models"
)

// ReadJobs reads a JSON array of jobs from path.
func ReadJobs(path string) ([]models.ScrapedJob, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.ScrapedJob{}, nil
	}

	var jobs []models.ScrapedJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		return []models.ScrapedJob{}, nil
	}
	return jobs, nil
}

// ReadJobsAllowMissing reads jobs and treats missing files as empty history.
func ReadJobsAllowMissing(path string) ([]models.ScrapedJob, error) {
	jobs, err := ReadJobs(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.ScrapedJob{}, nil
		}
		return nil, err
	}
	return jobs, nil
}

// WriteJobs writes jobs as pretty JSON.
func WriteJobs(path string, jobs []models.ScrapedJob) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if jobs == nil {
		jobs = []models.ScrapedJob{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
