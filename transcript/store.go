package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wargame/game"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Game is a recorded game.
type Game struct {
	ID        string `gorm:"primaryKey;size:36"`
	Mode      string `gorm:"size:32"`
	Dim       int
	MaxTurns  int
	MaxDepth  int
	MaxTimeMs int64
	Heuristic int
	AlphaBeta bool
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   string `gorm:"size:32"`
	Turns     int
}

// Turn is one recorded turn of a Game.
type Turn struct {
	ID        uint   `gorm:"primaryKey"`
	GameID    string `gorm:"size:36;index:idx_turn_game"`
	Number    int
	Player    string `gorm:"size:16"`
	Action    string `gorm:"size:8"`
	Kind      string `gorm:"size:16"`
	Forfeit   bool
	Board     string         `gorm:"size:2000"`
	Units     datatypes.JSON // []game.Placement after the action
	Events    datatypes.JSON // []game.Event
	Score     *float64
	Depth     *int
	Evals     *int64
	ElapsedMs *int64
}

// Store persists games through gorm. One Store records one game at a time.
type Store struct {
	db     *gorm.DB
	gameID string
}

// OpenStore connects to driver ("sqlite" or "postgres") at dsn and migrates
// the schema. An empty sqlite dsn uses a private in-memory database.
func OpenStore(driver, dsn string) (*Store, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "file::memory:"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	default:
		return nil, fmt.Errorf("unknown transcript driver %q", driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s transcript store: %w", driver, err)
	}
	if driver == "sqlite" {
		// a single connection keeps an in-memory database alive and shared
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Game{}, &Turn{}); err != nil {
		return nil, fmt.Errorf("failed to migrate transcript schema: %w", err)
	}
	log.Debug().Str("driver", driver).Msg("transcript store ready")
	return &Store{db: db}, nil
}

// GameID is the identifier of the game being recorded.
func (s *Store) GameID() string {
	return s.gameID
}

func (s *Store) Start(info GameInfo) error {
	id := info.ID
	if id == "" {
		id = uuid.NewString()
	}
	g := Game{
		ID:        id,
		Mode:      info.Mode,
		Dim:       info.Dim,
		MaxTurns:  info.MaxTurns,
		MaxDepth:  info.MaxDepth,
		MaxTimeMs: info.MaxTime.Milliseconds(),
		Heuristic: info.Heuristic,
		AlphaBeta: info.AlphaBeta,
		StartedAt: info.StartedAt,
		Outcome:   game.InProgress.String(),
	}
	if err := s.db.Create(&g).Error; err != nil {
		return fmt.Errorf("failed to record game: %w", err)
	}
	s.gameID = id
	return nil
}

func (s *Store) Record(e Entry) error {
	if s.gameID == "" {
		return errors.New("transcript store: Record before Start")
	}
	t := Turn{
		GameID:  s.gameID,
		Number:  e.Turn,
		Player:  e.Player.String(),
		Forfeit: e.Forfeit,
	}
	if !e.Forfeit {
		t.Action = e.Action.String()
		t.Kind = e.Action.Type.String()
	}
	if e.Board != nil {
		t.Board = e.Board.String()
		units, err := json.Marshal(e.Board.Placements())
		if err != nil {
			return fmt.Errorf("failed to encode board: %w", err)
		}
		t.Units = datatypes.JSON(units)
	}
	events := e.Events
	if events == nil {
		events = []game.Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	t.Events = datatypes.JSON(data)
	if r := e.Search; r != nil {
		score, depth, evals, elapsed := r.Score, r.Depth, r.Metric.Evaluations, r.Elapsed.Milliseconds()
		t.Score, t.Depth, t.Evals, t.ElapsedMs = &score, &depth, &evals, &elapsed
	}
	if err := s.db.Create(&t).Error; err != nil {
		return fmt.Errorf("failed to record turn %d: %w", e.Turn, err)
	}
	return nil
}

func (s *Store) Finish(final *game.GameState) error {
	if s.gameID == "" {
		return errors.New("transcript store: Finish before Start")
	}
	now := time.Now()
	err := s.db.Model(&Game{}).Where("id = ?", s.gameID).Updates(map[string]any{
		"ended_at": &now,
		"outcome":  final.Outcome.String(),
		"turns":    final.TurnsPlayed,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to finish game: %w", err)
	}
	return nil
}

// LoadGame loads a recorded game.
func (s *Store) LoadGame(id string) (Game, error) {
	var g Game
	if err := s.db.First(&g, "id = ?", id).Error; err != nil {
		return Game{}, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	return g, nil
}

// Turns loads the turns of a recorded game in play order.
func (s *Store) Turns(gameID string) ([]Turn, error) {
	var turns []Turn
	if err := s.db.Where("game_id = ?", gameID).Order("number").Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("failed to load turns of %s: %w", gameID, err)
	}
	return turns, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
