package manager

import (
	"fmt"
	"io"
	"sort"

	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/services/sink"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderStats prints per-region and per-newspaper counts of a batch, followed
// by the sources that failed
func RenderStats(w io.Writer, result *Result) {
	fmt.Fprintf(w, "Run %s: %d articles, %d failed sources\n", result.RunID, len(result.Articles), len(result.Failures))

	regions := newTable(w)
	regions.AppendHeader(table.Row{"Region", "Articles"})
	for _, region := range crawler.Regions() {
		if n, ok := result.RegionCounts[region]; ok {
			regions.AppendRow(table.Row{string(region), n})
		}
	}
	regions.AppendFooter(table.Row{"Total", len(result.Articles)})
	regions.Render()

	sources := newTable(w)
	sources.AppendHeader(table.Row{"Newspaper", "Region", "Articles"})
	for _, name := range sortedByCount(result.SourceCounts) {
		sources.AppendRow(table.Row{name, string(result.SourceRegion(name)), result.SourceCounts[name]})
	}
	sources.Render()

	if len(result.Failures) == 0 {
		return
	}
	failures := newTable(w)
	failures.AppendHeader(table.Row{"Failed Newspaper", "Region", "Error"})
	for _, f := range result.Failures {
		failures.AppendRow(table.Row{f.Source, string(f.Region), f.Err.Error()})
	}
	failures.Render()
}

// RenderRegionStats prints the stored aggregate table
func RenderRegionStats(w io.Writer, total int, stats []sink.RegionStat) {
	fmt.Fprintf(w, "Stored articles: %d\n", total)

	t := newTable(w)
	t.AppendHeader(table.Row{"Region", "Newspaper", "Articles", "Last Crawled"})
	for _, st := range stats {
		t.AppendRow(table.Row{string(st.Region), st.Newspaper, st.ArticleCount, st.LastCrawled})
	}
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// sortedByCount orders names by count descending, then by name
func sortedByCount(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
