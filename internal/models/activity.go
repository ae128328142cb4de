package models

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type Activity struct {
	ID         int
	EntityType string
	EntityID   string
	Action     string
	Details    string
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// LogActivity records an audit entry. Failures are logged, never returned:
// an audit write must not fail the request that triggered it.
func LogActivity(db *sql.DB, entityType, entityID, action, details, ip, userAgent string) {
	_, err := db.Exec(
		"INSERT INTO activity_log (entity_type, entity_id, action, details, ip_address, user_agent) VALUES (?, ?, ?, ?, ?, ?)",
		entityType, entityID, action, details, ip, userAgent,
	)
	if err != nil {
		slog.Warn("failed to record activity", "entity_type", entityType, "action", action, "error", err)
	}
}

// GetRecentActivities returns the newest entries, optionally restricted to
// one entity type.
func GetRecentActivities(db *sql.DB, limit int, entityType string) ([]Activity, error) {
	query := "SELECT id, entity_type, entity_id, action, details, ip_address, user_agent, created_at FROM activity_log"
	args := []any{}
	if entityType != "" {
		query += " WHERE entity_type = ?"
		args = append(args, entityType)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.Action, &a.Details, &a.IPAddress, &a.UserAgent, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
