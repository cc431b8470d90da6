package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/muesli/termenv"

	"github.com/medmaha/dokoola-scraper/internal/models"
	"github.com/medmaha/dokoola-scraper/internal/ui"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// WriteJobs renders a scrape batch in the requested format. JSON output is
// the shape handed to the ingestion side.
func WriteJobs(w io.Writer, jobs []models.ScrapedJob, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatCSV:
		return writeCSV(w, jobs, ',')
	case FormatTSV:
		return writeCSV(w, jobs, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, jobs)
	default:
		return writeTable(w, jobs, opts)
	}
}

func writeJSON(w io.Writer, jobs []models.ScrapedJob) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}

func writeCSV(w io.Writer, jobs []models.ScrapedJob, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(header()); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := writer.Write(row(job)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []models.ScrapedJob, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header(), "\t"))
	output := termenv.NewOutput(w)
	for _, job := range jobs {
		link := job.URL
		if opts.LinkStyle == LinkStyleShort {
			link = shortLink(link)
		}
		link = ui.ColorizeLink(output, opts.ColorEnabled, link)
		fmt.Fprintln(tw, strings.Join([]string{
			job.Site(),
			job.Title,
			job.Company(),
			string(job.JobType),
			location(job),
			deadline(job),
			link,
		}, "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, jobs []models.ScrapedJob) error {
	cols := header()
	fmt.Fprintln(w, "| "+strings.Join(cols, " | ")+" |")
	fmt.Fprintln(w, "|"+strings.Repeat(" --- |", len(cols)))
	for _, job := range jobs {
		cells := row(job)
		for i, cell := range cells {
			cells[i] = strings.ReplaceAll(cell, "|", "\\|")
		}
		fmt.Fprintln(w, "| "+strings.Join(cells, " | ")+" |")
	}
	return nil
}

func header() []string {
	return []string{"SITE", "TITLE", "COMPANY", "TYPE", "LOCATION", "DEADLINE", "URL"}
}

func row(job models.ScrapedJob) []string {
	return []string{
		job.Site(),
		job.Title,
		job.Company(),
		jobType(job),
		location(job),
		deadline(job),
		job.URL,
	}
}

func jobType(job models.ScrapedJob) string {
	if job.JobType == models.JobTypeOther && job.JobTypeOther != "" {
		return job.JobTypeOther
	}
	return string(job.JobType)
}

func location(job models.ScrapedJob) string {
	switch {
	case job.Address != "" && job.Country != "":
		return job.Address + ", " + job.Country
	case job.Address != "":
		return job.Address
	default:
		return job.Country
	}
}

func deadline(job models.ScrapedJob) string {
	if job.Deadline == nil {
		return ""
	}
	return job.Deadline.Format(time.DateOnly)
}

func shortLink(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	return parsed.Host + parsed.Path
}
