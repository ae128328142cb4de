package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("not found")

// Submission is a stored contact-form message. Every field holds sanitized
// text; raw input never reaches the database.
type Submission struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Website   string
	Message   string
	Extra     map[string]string
	RemoteIP  string
	UserAgent string
	ReadAt    sql.NullTime
	CreatedAt time.Time
}

func (s Submission) IsRead() bool {
	return s.ReadAt.Valid
}

// Aliases accepted for each stored column, in priority order. They mirror
// the field names the sanitizer recognises.
var (
	phoneFields   = []string{"phone", "telephone", "mobile"}
	websiteFields = []string{"website", "url", "link"}
	messageFields = []string{"message", "description", "content"}
)

// SubmissionFromFields maps sanitized form fields onto a Submission. Fields
// without a dedicated column are kept in Extra.
func SubmissionFromFields(fields map[string]string) *Submission {
	s := &Submission{Extra: make(map[string]string)}
	used := map[string]bool{"name": true, "email": true}
	s.Name = fields["name"]
	s.Email = fields["email"]

	pick := func(names []string) string {
		for _, n := range names {
			used[n] = true
		}
		for _, n := range names {
			if v := fields[n]; v != "" {
				return v
			}
		}
		return ""
	}
	s.Phone = pick(phoneFields)
	s.Website = pick(websiteFields)
	s.Message = pick(messageFields)

	for k, v := range fields {
		if !used[k] && v != "" {
			s.Extra[k] = v
		}
	}
	return s
}

const submissionColumns = "id, name, email, phone, website, message, extra, remote_ip, user_agent, read_at, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*Submission, error) {
	s := &Submission{}
	var extra string
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Website, &s.Message,
		&extra, &s.RemoteIP, &s.UserAgent, &s.ReadAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Extra = make(map[string]string)
	if extra != "" {
		if err := json.Unmarshal([]byte(extra), &s.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode extra fields: %w", err)
		}
	}
	return s, nil
}

func CreateSubmission(db *sql.DB, s *Submission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Extra == nil {
		s.Extra = make(map[string]string)
	}
	extra, err := json.Marshal(s.Extra)
	if err != nil {
		return fmt.Errorf("failed to encode extra fields: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO submissions (id, name, email, phone, website, message, extra, remote_ip, user_agent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Email, s.Phone, s.Website, s.Message, string(extra), s.RemoteIP, s.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func GetSubmissionByID(db *sql.DB, id string) (*Submission, error) {
	s, err := scanSubmission(db.QueryRow("SELECT "+submissionColumns+" FROM submissions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	return s, nil
}

func ListSubmissions(db *sql.DB, limit, offset int) ([]Submission, error) {
	rows, err := db.Query(
		"SELECT "+submissionColumns+" FROM submissions ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// GetAllSubmissions returns every submission, newest first.
func GetAllSubmissions(db *sql.DB) ([]Submission, error) {
	return ListSubmissions(db, -1, 0)
}

func CountSubmissions(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM submissions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

func CountUnread(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM submissions WHERE read_at IS NULL").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread submissions: %w", err)
	}
	return count, nil
}

// MarkSubmissionRead sets read_at once; later calls keep the first timestamp.
func MarkSubmissionRead(db *sql.DB, id string) error {
	res, err := db.Exec("UPDATE submissions SET read_at = COALESCE(read_at, CURRENT_TIMESTAMP) WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark submission read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return nil
}

func DeleteSubmission(db *sql.DB, id string) error {
	res, err := db.Exec("DELETE FROM submissions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return nil
}
