// Package archive persists completed analyses to SQLite so routing
// decisions stay auditable after the fact. Every saved analysis gets a
// routing_log entry naming the threshold rule that fired.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/esperstack/esper-mail/internal/router"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	analysis_id   TEXT PRIMARY KEY,
	batch_id      TEXT,
	message_id    TEXT,
	sender        TEXT NOT NULL,
	subject       TEXT NOT NULL,
	folder        TEXT NOT NULL,
	priority      TEXT NOT NULL,
	color         TEXT NOT NULL,
	icon          TEXT NOT NULL,
	gloss         TEXT NOT NULL,
	urgency       REAL NOT NULL,
	importance    REAL NOT NULL,
	warmth        REAL NOT NULL,
	tension       REAL NOT NULL,
	analysis_json TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS routing_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	analysis_id   TEXT NOT NULL,
	rule          TEXT NOT NULL,
	detail        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (analysis_id) REFERENCES analyses(analysis_id)
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_routing_analysis ON routing_log(analysis_id);
`
// #endregion schema

// #region records
// Record is one archived analysis row. AnalysisJSON holds the full wire
// form; the scalar columns exist for querying without unmarshaling.
type Record struct {
	AnalysisID   string
	BatchID      string
	MessageID    string
	Sender       string
	Subject      string
	Folder       string
	Priority     string
	Color        string
	Icon         string
	Gloss        string
	Urgency      float64
	Importance   float64
	Warmth       float64
	Tension      float64
	AnalysisJSON string
	CreatedAt    time.Time
}

// RoutingEntry is one routing_log row.
type RoutingEntry struct {
	ID         int64
	AnalysisID string
	Rule       string
	Detail     string
	CreatedAt  time.Time
}

// #endregion records

// #region store-struct
// Store manages the analysis archive in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region save
// SaveAnalysis archives one analysis and its fired routing rule
// atomically. batchID groups the analyses of one run and may be empty.
func (s *Store) SaveAnalysis(batchID string, a router.Analysis) (Record, error) {
	raw, err := json.Marshal(router.ToWire(a))
	if err != nil {
		return Record{}, fmt.Errorf("marshal analysis: %w", err)
	}

	rec := Record{
		AnalysisID:   uuid.New().String(),
		BatchID:      batchID,
		MessageID:    a.Metadata.MessageID,
		Sender:       a.Metadata.Sender,
		Subject:      a.Metadata.Subject,
		Folder:       string(a.Folder),
		Priority:     string(a.Priority),
		Color:        a.Color,
		Icon:         a.Icon,
		Gloss:        a.Gloss,
		Urgency:      a.Urgency,
		Importance:   a.Importance,
		Warmth:       a.Warmth,
		Tension:      a.Tension,
		AnalysisJSON: string(raw),
		CreatedAt:    time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO analyses (analysis_id, batch_id, message_id, sender, subject, folder, priority, color, icon, gloss,
		                       urgency, importance, warmth, tension, analysis_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AnalysisID, nullIfEmpty(rec.BatchID), nullIfEmpty(rec.MessageID),
		rec.Sender, rec.Subject, rec.Folder, rec.Priority, rec.Color, rec.Icon, rec.Gloss,
		rec.Urgency, rec.Importance, rec.Warmth, rec.Tension,
		rec.AnalysisJSON, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert analysis: %w", err)
	}

	rule, detail := router.FiredRule(a)
	_, err = tx.Exec(
		`INSERT INTO routing_log (analysis_id, rule, detail, created_at)
		 VALUES (?, ?, ?, ?)`,
		rec.AnalysisID, rule, nullIfEmpty(detail), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert routing log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("commit: %w", err)
	}

	return rec, nil
}
// #endregion save

// #region get
// GetAnalysis retrieves one archived analysis by ID.
func (s *Store) GetAnalysis(id string) (Record, error) {
	row := s.db.QueryRow(
		`SELECT analysis_id, batch_id, message_id, sender, subject, folder, priority, color, icon, gloss,
		        urgency, importance, warmth, tension, analysis_json, created_at
		 FROM analyses WHERE analysis_id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("get analysis %s: %w", id, err)
	}
	return rec, nil
}
// #endregion get

// #region list
// ListRecent returns the most recently archived analyses.
func (s *Store) ListRecent(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT analysis_id, batch_id, message_id, sender, subject, folder, priority, color, icon, gloss,
		        urgency, importance, warmth, tension, analysis_json, created_at
		 FROM analyses ORDER BY created_at DESC, analysis_id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
// #endregion list

// #region routing-log
// RoutingEntries returns the routing_log rows for one analysis.
func (s *Store) RoutingEntries(analysisID string) ([]RoutingEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, analysis_id, rule, detail, created_at
		 FROM routing_log WHERE analysis_id = ? ORDER BY id`, analysisID,
	)
	if err != nil {
		return nil, fmt.Errorf("list routing log: %w", err)
	}
	defer rows.Close()

	var entries []RoutingEntry
	for rows.Next() {
		var e RoutingEntry
		var detail sql.NullString
		var createdStr string
		if err := rows.Scan(&e.ID, &e.AnalysisID, &e.Rule, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion routing-log

// #region helpers
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var batchID, messageID sql.NullString
	var createdStr string

	err := row.Scan(
		&rec.AnalysisID, &batchID, &messageID, &rec.Sender, &rec.Subject,
		&rec.Folder, &rec.Priority, &rec.Color, &rec.Icon, &rec.Gloss,
		&rec.Urgency, &rec.Importance, &rec.Warmth, &rec.Tension,
		&rec.AnalysisJSON, &createdStr,
	)
	if err != nil {
		return Record{}, err
	}
	if batchID.Valid {
		rec.BatchID = batchID.String
	}
	if messageID.Valid {
		rec.MessageID = messageID.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
