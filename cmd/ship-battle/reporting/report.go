package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/picogrid/ship-battle-sim/pkg/logger"
)

// ReportGenerator builds battle reports from a BattleLogger
type ReportGenerator struct {
	logger *BattleLogger
	config ReportConfig
}

// ReportConfig configures report generation
type ReportConfig struct {
	OutputDir string
	Format    string // "json", "markdown"
	FleetName string
	Seed      int64
	MaxRounds int
}

// BattleReport is the after-battle report
type BattleReport struct {
	Metadata ReportMetadata  `json:"metadata"`
	Outcome  Outcome         `json:"outcome"`
	Ships    []ShipStats     `json:"ships"`
	Stats    ReportStatistic `json:"statistics"`
	Timeline []TimelineEntry `json:"timeline"`
}

// ReportMetadata contains report metadata
type ReportMetadata struct {
	BattleID    string    `json:"battle_id"`
	GeneratedAt time.Time `json:"generated_at"`
	BattleStart time.Time `json:"battle_start"`
	Duration    string    `json:"duration"`
	FleetName   string    `json:"fleet_name,omitempty"`
	Seed        int64     `json:"seed"`
	MaxRounds   int       `json:"max_rounds"`
}

// ReportStatistic holds aggregate numbers for the battle
type ReportStatistic struct {
	Rounds        int     `json:"rounds"`
	TotalHits     int     `json:"total_hits"`
	TotalAvoided  int     `json:"total_avoided"`
	HitRate       float64 `json:"hit_rate"`
	ShipsLost     int     `json:"ships_lost"`
	ShipsSurvived int     `json:"ships_survived"`
}

// TimelineEntry is a significant event in the battle
type TimelineEntry struct {
	Round       int    `json:"round"`
	ElapsedTime string `json:"elapsed_time"`
	EventType   string `json:"event_type"`
	Description string `json:"description"`
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(bl *BattleLogger, config ReportConfig) *ReportGenerator {
	if config.Format == "" {
		config.Format = "markdown"
	}
	return &ReportGenerator{
		logger: bl,
		config: config,
	}
}

// GenerateReport builds the report from everything logged so far
func (g *ReportGenerator) GenerateReport() (*BattleReport, error) {
	if g.logger == nil {
		return nil, fmt.Errorf("no battle logger to report on")
	}

	summary := g.logger.GetSummary()
	events := g.logger.GetEvents()

	report := &BattleReport{
		Metadata: ReportMetadata{
			BattleID:    summary.BattleID,
			GeneratedAt: time.Now(),
			BattleStart: summary.StartTime,
			Duration:    formatDuration(summary.Duration),
			FleetName:   g.config.FleetName,
			Seed:        g.config.Seed,
			MaxRounds:   g.config.MaxRounds,
		},
		Outcome:  summary.Outcome,
		Ships:    summary.Ships,
		Stats:    g.generateStatistics(summary),
		Timeline: g.buildTimeline(events, summary.StartTime),
	}

	return report, nil
}

// SaveReport writes the report and returns the file path
func (g *ReportGenerator) SaveReport(report *BattleReport) (string, error) {
	if err := os.MkdirAll(g.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	base := fmt.Sprintf("battle_%s_%s", report.Metadata.BattleID[:8],
		report.Metadata.GeneratedAt.Format("20060102_150405"))

	var (
		filename string
		err      error
	)
	switch g.config.Format {
	case "json":
		filename = filepath.Join(g.config.OutputDir, base+".json")
		err = g.saveJSON(report, filename)
	case "markdown":
		filename = filepath.Join(g.config.OutputDir, base+".md")
		err = g.saveMarkdown(report, filename)
	default:
		return "", fmt.Errorf("unsupported report format: %s", g.config.Format)
	}
	if err != nil {
		return "", err
	}

	logger.Successf("Battle report saved to %s", filename)
	return filename, nil
}

func (g *ReportGenerator) saveJSON(report *BattleReport, filename string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (g *ReportGenerator) saveMarkdown(report *BattleReport, filename string) error {
	if err := os.WriteFile(filename, []byte(RenderMarkdown(report)), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// RenderMarkdown renders a report as a markdown document
func RenderMarkdown(report *BattleReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Battle Report %s\n\n", report.Metadata.BattleID)
	fmt.Fprintf(&b, "- Generated: %s\n", report.Metadata.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n", report.Metadata.Duration)
	if report.Metadata.FleetName != "" {
		fmt.Fprintf(&b, "- Fleet: %s\n", report.Metadata.FleetName)
	}
	fmt.Fprintf(&b, "- Seed: %d\n\n", report.Metadata.Seed)

	b.WriteString("## Outcome\n\n")
	b.WriteString(outcomeLabel(report.Outcome) + "\n\n")

	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(&b, "| Rounds | Hits | Avoided | Hit rate | Lost | Survived |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %.1f%% | %d | %d |\n\n",
		report.Stats.Rounds, report.Stats.TotalHits, report.Stats.TotalAvoided,
		report.Stats.HitRate*100, report.Stats.ShipsLost, report.Stats.ShipsSurvived)

	b.WriteString("## Ships\n\n")
	b.WriteString("| Ship | Health | Shield | Hits | Avoided | Status |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, ship := range report.Ships {
		status := "afloat"
		if ship.Eliminated {
			status = fmt.Sprintf("destroyed in round %d", ship.EliminatedRound)
		}
		fmt.Fprintf(&b, "| %s | %d/%d | %d | %d | %d | %s |\n",
			ship.Name, ship.Health, ship.StartHealth, ship.Shield, ship.HitsTaken, ship.HitsAvoided, status)
	}

	if len(report.Timeline) > 0 {
		b.WriteString("\n## Timeline\n\n")
		for _, entry := range report.Timeline {
			fmt.Fprintf(&b, "- Round %d (%s): %s\n", entry.Round, entry.ElapsedTime, entry.Description)
		}
	}

	return b.String()
}

func (g *ReportGenerator) generateStatistics(summary BattleSummary) ReportStatistic {
	stats := ReportStatistic{Rounds: summary.Rounds}
	for _, ship := range summary.Ships {
		stats.TotalHits += ship.HitsTaken
		stats.TotalAvoided += ship.HitsAvoided
		if ship.Eliminated {
			stats.ShipsLost++
		} else {
			stats.ShipsSurvived++
		}
	}
	if total := stats.TotalHits + stats.TotalAvoided; total > 0 {
		stats.HitRate = float64(stats.TotalHits) / float64(total)
	}
	return stats
}

// buildTimeline keeps eliminations and the outcome, the events worth reading
func (g *ReportGenerator) buildTimeline(events []BattleEvent, start time.Time) []TimelineEntry {
	var timeline []TimelineEntry
	for _, event := range events {
		if event.Type != EventTypeElimination && event.Type != EventTypeOutcome {
			continue
		}
		timeline = append(timeline, TimelineEntry{
			Round:       event.Round,
			ElapsedTime: formatDuration(event.Timestamp.Sub(start)),
			EventType:   event.Type,
			Description: event.Message,
		})
	}
	return timeline
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
