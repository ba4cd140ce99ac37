package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/analytics"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/quality"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/search"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func printEntities(items []domain.Entity) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			string(item.EntityType),
			item.Name,
			formatTime(item.UpdatedAt),
		})
	}
	printTable([]string{"ID", "TYPE", "NAME", "UPDATED_AT"}, rows)
}

func printEntity(item domain.Entity) {
	printKV([][2]string{
		{"id", item.ID},
		{"type", string(item.EntityType)},
		{"name", item.Name},
		{"description", item.Description},
		{"version", strconv.Itoa(item.Version)},
		{"created_at", formatTime(item.CreatedAt)},
		{"updated_at", formatTime(item.UpdatedAt)},
	})
}

func printStats(s engine.Stats) {
	printKV([][2]string{
		{"entities", strconv.Itoa(s.EntityCount)},
		{"relationships", strconv.Itoa(s.RelationshipCount)},
	})
	rows := make([][]string, 0, len(s.EntityCountByType))
	for kind, count := range s.EntityCountByType {
		rows = append(rows, []string{string(kind), strconv.Itoa(count)})
	}
	printTable([]string{"ENTITY_TYPE", "COUNT"}, rows)
	rows = make([][]string, 0, len(s.RelationshipCountByType))
	for kind, count := range s.RelationshipCountByType {
		rows = append(rows, []string{string(kind), strconv.Itoa(count)})
	}
	printTable([]string{"RELATIONSHIP_TYPE", "COUNT"}, rows)
}

func printScored(items []analytics.Scored) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.ID, item.Name, strconv.FormatFloat(item.Score, 'f', 4, 64)})
	}
	printTable([]string{"ID", "NAME", "SCORE"}, rows)
}

func printHits(items []search.Hit) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Entity.ID, string(item.Entity.EntityType), item.Entity.Name, strconv.Itoa(item.Score)})
	}
	printTable([]string{"ID", "TYPE", "NAME", "SCORE"}, rows)
}

func printQualityReport(r quality.Report) {
	printKV([][2]string{
		{"overall", strconv.FormatFloat(r.Overall, 'f', 4, 64)},
		{"risk_math", strconv.FormatFloat(r.RiskMath, 'f', 4, 64)},
		{"descriptions", strconv.FormatFloat(r.Descriptions, 'f', 4, 64)},
		{"tech_coherence", strconv.FormatFloat(r.TechCoherence, 'f', 4, 64)},
		{"field_correlation", strconv.FormatFloat(r.FieldCorrelation, 'f', 4, 64)},
		{"encryption", strconv.FormatFloat(r.Encryption, 'f', 4, 64)},
		{"acceptable", strconv.FormatBool(r.IsAcceptable())},
	})
	for _, w := range r.Warnings {
		fmt.Fprintln(os.Stderr, "quality warning:", w)
	}
}
