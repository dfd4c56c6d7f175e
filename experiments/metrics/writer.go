package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig is the search configuration one side plays with.
type AgentConfig struct {
	ID          int
	Duration    time.Duration
	Episodes    int
	Exploration float64
	Decay       float64
	BatchSize   int
}

type GameRecord struct {
	ID          int
	HumanAgent  int // AgentConfig.ID
	ZombieAgent int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> to hold the experiment's tables.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "duration", "episodes", "exploration", "decay", "batch_size"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.FormatFloat(config.Exploration, 'f', -1, 64),
			strconv.FormatFloat(config.Decay, 'f', -1, 64),
			strconv.Itoa(config.BatchSize),
		})
	}
	return w.write("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "human_agent", "zombie_agent", "winner", "turns", "humans", "zombies",
		"human_score", "zombie_score", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.HumanAgent),
			strconv.Itoa(record.ZombieAgent),
			record.Winner,
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.Humans),
			strconv.Itoa(record.Zombies),
			strconv.Itoa(record.HumanScore),
			strconv.Itoa(record.ZombieScore),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "turn", "faction", "duration", "episodes", "terminals", "tree_size", "max_depth", "exhausted"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Turn),
			record.Faction,
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Terminals),
			strconv.Itoa(record.TreeSize),
			strconv.Itoa(record.MaxDepth),
			strconv.FormatBool(record.Exhausted),
		})
	}
	return w.write("move_records.csv", "move records", header, rows)
}

func (w *Writer) write(file, what string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}
	err = writer.WriteAll(rows) // Flushes
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", what, err)
	}
	return nil
}
