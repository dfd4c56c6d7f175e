package metrics

import (
	"time"
)

// SearchMetric summarises one planning episode.
type SearchMetric struct {
	Duration  time.Duration
	Episodes  int
	Terminals int // Rounds that ended on a finished game
	TreeSize  int
	MaxDepth  int
	Exhausted bool // The tree ran out of work before the budget did
}

type MoveMetric struct {
	Turn    int
	Faction string
	SearchMetric
}

type GameMetric struct {
	Winner      string
	Turns       int
	Humans      int // Survivors at the end
	Zombies     int
	HumanScore  int
	ZombieScore int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

type Collector interface {
	Start()
	AddEpisode()
	AddTerminal()
	AddNode(depth int)
	SetExhausted(value bool)
	Complete() SearchMetric
}

// collector is owned by a single search and is not safe for concurrent use.
type collector struct {
	startTime time.Time
	episodes  int
	terminals int
	nodes     int
	maxDepth  int
	exhausted bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	*m = collector{startTime: time.Now()}
}

func (m *collector) AddEpisode() {
	m.episodes++
}

func (m *collector) AddTerminal() {
	m.terminals++
}

func (m *collector) AddNode(depth int) {
	m.nodes++
	m.maxDepth = max(m.maxDepth, depth)
}

func (m *collector) SetExhausted(value bool) {
	m.exhausted = value
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:  time.Since(m.startTime),
		Episodes:  m.episodes,
		Terminals: m.terminals,
		TreeSize:  m.nodes,
		MaxDepth:  m.maxDepth,
		Exhausted: m.exhausted,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                  {}
func (m *dummyCollector) AddEpisode()             {}
func (m *dummyCollector) AddTerminal()            {}
func (m *dummyCollector) AddNode(depth int)       {}
func (m *dummyCollector) SetExhausted(value bool) {}
func (m *dummyCollector) Complete() SearchMetric  { return SearchMetric{} }
