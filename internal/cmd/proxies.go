package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/medmaha/dokoola-scraper/internal/config"
	"github.com/medmaha/dokoola-scraper/internal/network"
	"github.com/medmaha/dokoola-scraper/internal/scraper"
)

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Validate proxies against a board listing page."`
}

type ProxyCheckCmd struct {
	Target      string `help:"Target URL. Defaults to the jobberman listing page."`
	Timeout     int    `help:"Per-proxy timeout in seconds." default:"15"`
	Concurrency int    `help:"Proxies checked in parallel." default:"5"`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	proxies, err := config.LoadProxies("")
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		return fmt.Errorf("no proxies configured")
	}

	target := p.Target
	if target == "" {
		site := scraper.Registry(0, 0)[scraper.SiteJobberman]
		target = site.BaseURL + site.ListingPath
	}

	concurrency := p.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]ProxyCheckResult, len(proxies))
	pool := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, proxy := range proxies {
		wg.Add(1)
		pool <- struct{}{}
		go func(i int, proxy string) {
			defer wg.Done()
			defer func() { <-pool }()
			results[i] = p.checkOne(proxy, target)
		}(i, proxy)
	}
	wg.Wait()

	return writeProxyResults(ctx, results)
}

func (p *ProxyCheckCmd) checkOne(proxy, target string) ProxyCheckResult {
	result := ProxyCheckResult{Proxy: proxy, Status: "error"}

	rotator, err := network.NewRotator([]string{proxy}, 5*time.Minute)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	client, err := network.NewClient(rotator)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	req, err := fhttp.NewRequest(fhttp.MethodGet, target, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	reqCtx, cancel := context.WithTimeout(req.Context(), time.Duration(p.Timeout)*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := client.Do(req.WithContext(reqCtx))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	_ = resp.Body.Close()

	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status = fmt.Sprintf("%d", resp.StatusCode)
	result.Error = ""
	return result
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
