package cmd

import (
	"github.com/alecthomas/kong"

	"github.com/medmaha/dokoola-scraper/internal/scraper"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version        VersionCmd `cmd:"" help:"Print version."`
	Config         ConfigCmd  `cmd:"" help:"Manage configuration."`
	Scrape         ScrapeCmd  `cmd:"" help:"Scrape job boards."`
	Jobberman      SiteCmd    `cmd:"" name:"jobberman" help:"Scrape Jobberman."`
	BrighterMonday SiteCmd    `cmd:"" name:"brightermonday" help:"Scrape BrighterMonday."`
	Careers24      SiteCmd    `cmd:"" name:"careers24" help:"Scrape Careers24."`
	Seen           SeenCmd    `cmd:"" help:"Seen jobs utilities."`
	Proxies        ProxiesCmd `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{
		Jobberman:      SiteCmd{Site: scraper.SiteJobberman},
		BrighterMonday: SiteCmd{Site: scraper.SiteBrighterMonday},
		Careers24:      SiteCmd{Site: scraper.SiteCareers24},
	}
}
