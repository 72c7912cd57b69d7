package escalationRepository

import (
	"HealthTriageBot/internal/entity"
	contextPkg "HealthTriageBot/pkg/context"
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"time"
)

type EmergencyIncidentDB struct {
	ID          sql.NullString `db:"id"`
	UserID      sql.NullString `db:"user_id"`
	TurnID      sql.NullString `db:"turn_id"`
	Reason      sql.NullString `db:"reason"`
	Severity    sql.NullString `db:"severity"`
	TextExcerpt sql.NullString `db:"text_excerpt"`
	Status      sql.NullString `db:"status"`
	Attempts    sql.NullInt64  `db:"attempts"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func severityFromString(name string) entity.SeverityTier {
	switch name {
	case "critical":
		return entity.SeverityCritical
	case "high":
		return entity.SeverityHigh
	case "moderate":
		return entity.SeverityModerate
	default:
		return entity.SeverityLow
	}
}

func (row EmergencyIncidentDB) toEntity() entity.EmergencyIncident {
	return entity.EmergencyIncident{
		ID:          row.ID.String,
		UserID:      row.UserID.String,
		TurnID:      row.TurnID.String,
		Reason:      entity.EscalationReason(row.Reason.String),
		Severity:    severityFromString(row.Severity.String),
		TextExcerpt: row.TextExcerpt.String,
		Status:      entity.DispatchStatus(row.Status.String),
		Attempts:    int(row.Attempts.Int64),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *incidentRepository) CreateIncident(c context.Context, incident entity.EmergencyIncident) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":           incident.ID,
		"user_id":      incident.UserID,
		"turn_id":      incident.TurnID,
		"reason":       string(incident.Reason),
		"severity":     incident.Severity.String(),
		"text_excerpt": incident.TextExcerpt,
		"status":       string(incident.Status),
		"attempts":     incident.Attempts,
		"created_at":   incident.CreatedAt,
		"updated_at":   incident.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateIncident, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateIncident")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating incident")
		return err
	}

	return nil
}

func (r *incidentRepository) GetIncidentByID(c context.Context, id string) (entity.EmergencyIncident, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetIncidentByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetIncidentByID named query preparation err")
		return entity.EmergencyIncident{}, err
	}
	query = r.q.Rebind(query)

	var row EmergencyIncidentDB
	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if err == sql.ErrNoRows {
			return entity.EmergencyIncident{}, err
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when fetching incident")
		return entity.EmergencyIncident{}, err
	}

	return row.toEntity(), nil
}

func (r *incidentRepository) ListIncidents(c context.Context, status string, limit int) ([]entity.EmergencyIncident, error) {
	requestID := contextPkg.GetRequestID(c)

	queryTemplate := queryListIncidents
	argsKV := map[string]interface{}{"limit": limit}
	if status != "" {
		queryTemplate = queryListIncidentsByStatus
		argsKV["status"] = status
	}

	query, args, err := sqlx.Named(queryTemplate, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListIncidents named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []EmergencyIncidentDB
	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing incidents")
		return nil, err
	}

	incidents := make([]entity.EmergencyIncident, 0, len(rows))
	for _, row := range rows {
		incidents = append(incidents, row.toEntity())
	}

	return incidents, nil
}

func (r *incidentRepository) UpdateIncidentStatus(c context.Context, id string, status entity.DispatchStatus, attempts int) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         id,
		"status":     string(status),
		"attempts":   attempts,
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateIncidentStatus, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateIncidentStatus")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating incident status")
		return err
	}

	return nil
}
