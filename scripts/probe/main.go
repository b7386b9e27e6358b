// Command probe fetches the post page once and reports which extraction
// patterns match. Run it when /api/likes starts answering 502 with an
// htmlLength, to see whether the page markup drifted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/use-agent/threadlikes/config"
	"github.com/use-agent/threadlikes/extract"
	"github.com/use-agent/threadlikes/scraper"
)

// CLI flags
var (
	targetURL = flag.String("url", "", "Post URL to probe (default: THREADLIKES_TARGET_URL or the built-in post)")
	timeout   = flag.Duration("timeout", 0, "Fetch timeout (default: THREADLIKES_UPSTREAM_TIMEOUT)")
	dump      = flag.String("dump", "", "Write the fetched HTML to this file")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if *targetURL != "" {
		cfg.Upstream.TargetURL = *targetURL
	}
	if *timeout > 0 {
		cfg.Upstream.Timeout = *timeout
	}

	start := time.Now()
	page, err := scraper.NewHTTPFetcher(cfg.Upstream).Fetch(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	if *dump != "" && page.HTML != "" {
		if err := os.WriteFile(*dump, []byte(page.HTML), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "dump failed: %v\n", err)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "URL\t%s\n", page.FinalURL)
	fmt.Fprintf(w, "Status\t%d\n", page.StatusCode)
	fmt.Fprintf(w, "Elapsed\t%s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "HTML length\t%d\n", len(page.HTML))

	if !page.OK() {
		w.Flush()
		os.Exit(2)
	}

	res := extract.Extract(page.HTML)
	fmt.Fprintf(w, "Likes\t%s\t%s\n", formatInt(res.Likes), orNone(res.LikesPattern))
	fmt.Fprintf(w, "Post text\t%s\t%s\n", formatText(res.PostText), orNone(res.TextPattern))
	w.Flush()

	if res.Likes == nil {
		os.Exit(3)
	}
}

func formatInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func formatText(p *string) string {
	if p == nil {
		return "-"
	}
	s := strings.ReplaceAll(*p, "\n", " ")
	if r := []rune(s); len(r) > 60 {
		s = string(r[:60]) + "…"
	}
	return fmt.Sprintf("%q", s)
}

func orNone(pattern string) string {
	if pattern == "" {
		return "(no pattern matched)"
	}
	return "pattern=" + pattern
}
