package app

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"horse.fit/trendscope/internal/cluster"
	"horse.fit/trendscope/internal/config"
	"horse.fit/trendscope/internal/report"
	"horse.fit/trendscope/internal/velocity"
)

const sectionAll = "all"

var reportSections = []string{"hot", "trends", "velocity", "rising", "companies", "top-companies", "daily", "categories", "latest"}

func reportOptionsFromConfig(cfg *config.Config) report.Options {
	return report.Options{
		Cluster: cluster.Options{
			SimilarityThreshold: cfg.ClusterSimilarityThreshold,
			MaxGroups:           cfg.ClusterMaxGroups,
		},
		TopN: cfg.TermsTopN,
		Velocity: velocity.Options{
			Window:      cfg.VelocityWindow,
			NoiseFloor:  cfg.VelocityNoiseFloor,
			EntityLimit: cfg.EntityVelocityLimit,
		},
	}
}

func parseSection(raw string) (string, error) {
	section := strings.ToLower(strings.TrimSpace(raw))
	if section == "" || section == sectionAll {
		return sectionAll, nil
	}
	if slices.Contains(reportSections, section) {
		return section, nil
	}
	return "", fmt.Errorf("--section must be %s or one of %s", sectionAll, strings.Join(reportSections, ", "))
}

func reportSectionValue(rep report.Report, section string) any {
	switch section {
	case "hot":
		return rep.HotStories
	case "trends":
		return rep.Trends
	case "velocity":
		return rep.Velocity.CategoryVelocity
	case "rising":
		return rep.Velocity.RisingTerms
	case "companies":
		return rep.CompanyVelocity
	case "top-companies":
		return rep.TopCompanies
	case "daily":
		return rep.DailyCounts
	case "categories":
		return rep.CategoryCounts
	case "latest":
		return rep.LatestByCategory
	default:
		return rep
	}
}

func printReport(rep report.Report, format, section string) error {
	if format == outputFormatJSON {
		return printJSON(reportSectionValue(rep, section))
	}

	sections := []string{section}
	if section == sectionAll {
		fmt.Printf("generated_at: %s\n", rep.GeneratedAt.UTC().Format(time.RFC3339))
		fmt.Printf("rows: %d\n", rep.RowCount)
		sections = reportSections
	}

	for _, name := range sections {
		fmt.Println()
		fmt.Println(name)
		if err := writeReportSection(rep, name); err != nil {
			return fmt.Errorf("render %s table: %w", name, err)
		}
	}
	return nil
}

func writeReportSection(rep report.Report, section string) error {
	switch section {
	case "hot":
		rows := make([][]string, 0, len(rep.HotStories))
		for _, story := range rep.HotStories {
			rows = append(rows, []string{
				strconv.Itoa(story.Coverage),
				story.Category,
				truncateForTable(story.Title, 70),
				truncateForTable(strings.Join(story.Sources, ", "), 40),
			})
		}
		return writeTable([]string{"COVERAGE", "CATEGORY", "TITLE", "SOURCES"}, rows)
	case "trends":
		categories := make([]string, 0, len(rep.Trends))
		for name := range rep.Trends {
			categories = append(categories, name)
		}
		slices.Sort(categories)
		rows := make([][]string, 0, len(categories))
		for _, name := range categories {
			parts := make([]string, 0, len(rep.Trends[name]))
			for _, tc := range rep.Trends[name] {
				parts = append(parts, tc.Term+"("+strconv.Itoa(tc.Count)+")")
			}
			rows = append(rows, []string{name, truncateForTable(strings.Join(parts, " "), 100)})
		}
		return writeTable([]string{"CATEGORY", "TERMS"}, rows)
	case "velocity":
		return writeRecordTable(rep.Velocity.CategoryVelocity)
	case "rising":
		return writeRecordTable(rep.Velocity.RisingTerms)
	case "companies":
		return writeRecordTable(rep.CompanyVelocity)
	case "top-companies":
		rows := make([][]string, 0, len(rep.TopCompanies))
		for _, ec := range rep.TopCompanies {
			rows = append(rows, []string{ec.Name, strconv.Itoa(ec.Count)})
		}
		return writeTable([]string{"COMPANY", "ARTICLES"}, rows)
	case "daily":
		rows := make([][]string, 0, len(rep.DailyCounts))
		for _, dc := range rep.DailyCounts {
			rows = append(rows, []string{dc.Day, strconv.Itoa(dc.Count)})
		}
		return writeTable([]string{"DAY", "ARTICLES"}, rows)
	case "categories":
		rows := make([][]string, 0, len(rep.CategoryCounts))
		for _, cc := range rep.CategoryCounts {
			rows = append(rows, []string{cc.Category, strconv.Itoa(cc.Count)})
		}
		return writeTable([]string{"CATEGORY", "ARTICLES"}, rows)
	case "latest":
		var rows [][]string
		for _, group := range rep.LatestByCategory {
			for _, row := range group.Articles {
				rows = append(rows, []string{group.Category, truncateForTable(row.Source, 20), truncateForTable(row.Title, 80)})
			}
		}
		return writeTable([]string{"CATEGORY", "SOURCE", "TITLE"}, rows)
	default:
		return fmt.Errorf("unknown section %q", section)
	}
}

func writeRecordTable(records []velocity.Record) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Subject,
			strconv.Itoa(r.ThisWeek),
			strconv.Itoa(r.LastWeek),
			fmt.Sprintf("%+d", r.Delta),
			strconv.Itoa(r.PctChange) + "%",
		})
	}
	return writeTable([]string{"SUBJECT", "THIS_WEEK", "LAST_WEEK", "DELTA", "PCT"}, rows)
}
