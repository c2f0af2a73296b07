package sqlstore

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/store"
)

var sessionTable = &table[domain.TrainingSession]{
	entity:   "training_session",
	name:     "training_sessions",
	columns:  []string{"id", "owner_id", "session_date", "session_type", "techniques", "notes", "effort", "created_at"},
	orderBy:  "session_date DESC, created_at DESC",
	notFound: store.ErrSessionNotFound,
	values: func(d Dialect, s *domain.TrainingSession) ([]any, error) {
		techniques, err := d.List(s.Techniques)
		if err != nil {
			return nil, err
		}
		return []any{s.ID, s.OwnerID, s.Date, string(s.Type), techniques, s.Notes, s.Effort, d.Timestamp(s.CreatedAt)}, nil
	},
	scan: func(d Dialect, row rowScanner) (*domain.TrainingSession, error) {
		var s domain.TrainingSession
		var sessionType string
		err := row.Scan(&s.ID, &s.OwnerID, &s.Date, &sessionType, d.ListScanner(&s.Techniques),
			&s.Notes, &s.Effort, scanTime(&s.CreatedAt))
		if err != nil {
			return nil, err
		}
		s.Type = domain.SessionType(sessionType)
		if s.Techniques == nil {
			s.Techniques = []string{}
		}
		return &s, nil
	},
	stamp: func(s *domain.TrainingSession, id uuid.UUID, createdAt time.Time) {
		s.ID, s.CreatedAt = id, createdAt
	},
	id:    func(s *domain.TrainingSession) uuid.UUID { return s.ID },
	owner: func(s *domain.TrainingSession) uuid.UUID { return s.OwnerID },
}

var techniqueTable = &table[domain.Technique]{
	entity:   "technique",
	name:     "techniques",
	columns:  []string{"id", "owner_id", "name", "category", "position", "notes", "status", "created_at"},
	orderBy:  "created_at DESC",
	notFound: store.ErrTechniqueNotFound,
	values: func(d Dialect, t *domain.Technique) ([]any, error) {
		return []any{t.ID, t.OwnerID, t.Name, string(t.Category), string(t.Position), t.Notes,
			string(t.Status), d.Timestamp(t.CreatedAt)}, nil
	},
	scan: func(d Dialect, row rowScanner) (*domain.Technique, error) {
		var t domain.Technique
		var category, position, status string
		err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &category, &position, &t.Notes, &status,
			scanTime(&t.CreatedAt))
		if err != nil {
			return nil, err
		}
		t.Category = domain.TechniqueCategory(category)
		t.Position = domain.Position(position)
		t.Status = domain.TechniqueStatus(status)
		return &t, nil
	},
	stamp: func(t *domain.Technique, id uuid.UUID, createdAt time.Time) {
		t.ID, t.CreatedAt = id, createdAt
	},
	id:    func(t *domain.Technique) uuid.UUID { return t.ID },
	owner: func(t *domain.Technique) uuid.UUID { return t.OwnerID },
}

var goalTable = &table[domain.Goal]{
	entity:   "goal",
	name:     "goals",
	columns:  []string{"id", "owner_id", "title", "description", "deadline", "status", "created_at"},
	orderBy:  "created_at DESC",
	notFound: store.ErrGoalNotFound,
	values: func(d Dialect, g *domain.Goal) ([]any, error) {
		return []any{g.ID, g.OwnerID, g.Title, g.Description, g.Deadline, string(g.Status),
			d.Timestamp(g.CreatedAt)}, nil
	},
	scan: func(d Dialect, row rowScanner) (*domain.Goal, error) {
		var g domain.Goal
		var status string
		err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &g.Description, &g.Deadline, &status,
			scanTime(&g.CreatedAt))
		if err != nil {
			return nil, err
		}
		g.Status = domain.GoalStatus(status)
		return &g, nil
	},
	stamp: func(g *domain.Goal, id uuid.UUID, createdAt time.Time) {
		g.ID, g.CreatedAt = id, createdAt
	},
	id:    func(g *domain.Goal) uuid.UUID { return g.ID },
	owner: func(g *domain.Goal) uuid.UUID { return g.OwnerID },
}

// SessionStore persists training sessions.
type SessionStore = RecordStore[domain.TrainingSession]

// TechniqueStore persists techniques.
type TechniqueStore = StatusRecordStore[domain.Technique, domain.TechniqueStatus]

// GoalStore persists goals.
type GoalStore = StatusRecordStore[domain.Goal, domain.GoalStatus]

var (
	_ store.SessionStore   = (*SessionStore)(nil)
	_ store.TechniqueStore = (*TechniqueStore)(nil)
	_ store.GoalStore      = (*GoalStore)(nil)
)

// NewSessionStore creates the training session store.
func NewSessionStore(db store.DBTX, d Dialect, logger *slog.Logger) *SessionStore {
	return newRecordStore(db, d, sessionTable, logger)
}

// NewTechniqueStore creates the technique store.
func NewTechniqueStore(db store.DBTX, d Dialect, logger *slog.Logger) *TechniqueStore {
	return newStatusRecordStore[domain.Technique, domain.TechniqueStatus](db, d, techniqueTable, logger)
}

// NewGoalStore creates the goal store.
func NewGoalStore(db store.DBTX, d Dialect, logger *slog.Logger) *GoalStore {
	return newStatusRecordStore[domain.Goal, domain.GoalStatus](db, d, goalTable, logger)
}
