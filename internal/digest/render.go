// Package digest renders a report as the daily Markdown/HTML digest.
package digest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"horse.fit/trendscope/internal/reader"
	"horse.fit/trendscope/internal/report"
	"horse.fit/trendscope/internal/velocity"
)

const (
	DefaultSubject = "Daily Automotive Intelligence Digest"

	summaryChars = 280
)

type Meta struct {
	Subject string
	// Inserted is the number of new rows from the run that produced the report.
	Inserted int
}

type Digest struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	GeneratedAt time.Time `json:"generated_at"`
	Markdown    string    `json:"markdown"`
	HTML        string    `json:"html"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func Render(rep report.Report, meta Meta) (Digest, error) {
	subject := strings.TrimSpace(meta.Subject)
	if subject == "" {
		subject = DefaultSubject
	}

	source := renderMarkdown(rep, subject, meta.Inserted)

	var html bytes.Buffer
	if err := markdown.Convert([]byte(source), &html); err != nil {
		return Digest{}, fmt.Errorf("render digest html: %w", err)
	}

	return Digest{
		ID:          uuid.NewString(),
		Subject:     subject,
		GeneratedAt: rep.GeneratedAt,
		Markdown:    source,
		HTML:        html.String(),
	}, nil
}

func renderMarkdown(rep report.Report, subject string, inserted int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", subject)
	fmt.Fprintf(&b, "_%s · %d articles analyzed · %d new_\n\n", rep.GeneratedAt.UTC().Format(time.DateOnly), rep.RowCount, inserted)

	b.WriteString("## Hot stories\n\n")
	if len(rep.HotStories) == 0 {
		b.WriteString("No multi-source stories yet.\n\n")
	} else {
		b.WriteString("| Story | Category | Coverage | Sources |\n|---|---|---:|---|\n")
		for _, story := range rep.HotStories {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
				link(story.Title, story.URL),
				cell(story.Category),
				story.Coverage,
				cell(strings.Join(story.Sources, ", ")),
			)
		}
		b.WriteString("\n")
	}

	writeRecords(&b, "Category velocity (week over week)", rep.Velocity.CategoryVelocity)
	writeRecords(&b, "Rising terms", rep.Velocity.RisingTerms)
	writeRecords(&b, "Company velocity", rep.CompanyVelocity)

	b.WriteString("## Trending terms by category\n\n")
	if len(rep.Trends) == 0 {
		b.WriteString("No terms yet.\n\n")
	} else {
		categories := make([]string, 0, len(rep.Trends))
		for name := range rep.Trends {
			categories = append(categories, name)
		}
		sort.Strings(categories)
		for _, name := range categories {
			termsList := make([]string, 0, len(rep.Trends[name]))
			for _, tc := range rep.Trends[name] {
				termsList = append(termsList, fmt.Sprintf("%s (%d)", tc.Term, tc.Count))
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", escape(name), escape(strings.Join(termsList, ", ")))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Latest by category\n\n")
	for _, group := range rep.LatestByCategory {
		fmt.Fprintf(&b, "### %s\n\n", escape(group.Category))
		for _, row := range group.Articles {
			fmt.Fprintf(&b, "- %s", link(row.Title, row.URL))
			if source := strings.TrimSpace(row.Source); source != "" {
				fmt.Fprintf(&b, " (%s)", escape(source))
			}
			b.WriteString("\n")
			if summary, _ := reader.TruncateText(row.Summary, summaryChars); summary != "" {
				for _, line := range strings.Split(summary, "\n") {
					if line = strings.TrimSpace(line); line != "" {
						fmt.Fprintf(&b, "  %s\n", escape(line))
					}
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeRecords(b *strings.Builder, heading string, records []velocity.Record) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if len(records) == 0 {
		b.WriteString("No movement this week.\n\n")
		return
	}
	b.WriteString("| Subject | This week | Last week | Δ | % |\n|---|---:|---:|---:|---:|\n")
	for _, r := range records {
		fmt.Fprintf(b, "| %s | %d | %d | %+d | %d%% |\n", cell(r.Subject), r.ThisWeek, r.LastWeek, r.Delta, r.PctChange)
	}
	b.WriteString("\n")
}

func link(title, url string) string {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if url == "" {
		return cell(title)
	}
	return "[" + bracketEscaper.Replace(cell(title)) + "](" + strings.ReplaceAll(url, ")", "%29") + ")"
}

// cell escapes text for a GFM table cell.
func cell(text string) string {
	return strings.ReplaceAll(escape(text), "|", "\\|")
}

var bracketEscaper = strings.NewReplacer("[", "\\[", "]", "\\]")

var inlineEscaper = strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "<", "&lt;", ">", "&gt;", "\n", " ")

func escape(text string) string {
	return inlineEscaper.Replace(strings.TrimSpace(text))
}
