package triageRepository

import (
	"HealthTriageBot/internal/entity"
	contextPkg "HealthTriageBot/pkg/context"
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"time"
)

type ConversationTurnDB struct {
	ID             sql.NullString  `db:"id"`
	UserID         sql.NullString  `db:"user_id"`
	RawText        sql.NullString  `db:"raw_text"`
	NormalizedText sql.NullString  `db:"normalized_text"`
	Intent         sql.NullString  `db:"intent"`
	Confidence     sql.NullFloat64 `db:"confidence"`
	Language       sql.NullString  `db:"language"`
	Stage          sql.NullString  `db:"stage"`
	ReplyText      sql.NullString  `db:"reply_text"`
	CreatedAt      time.Time       `db:"created_at"`
}

func (r *turnRepository) RecordTurn(c context.Context, userID string, turn entity.Turn, stage entity.Stage) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":              turn.ID,
		"user_id":         userID,
		"raw_text":        turn.RawText,
		"normalized_text": turn.NormalizedText,
		"intent":          turn.Intent.String(),
		"confidence":      turn.Confidence,
		"language":        turn.Language,
		"stage":           stage.String(),
		"reply_text":      turn.ReplyText,
		"created_at":      turn.Timestamp,
	}

	query, args, err := sqlx.Named(queryRecordTurn, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for RecordTurn")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when recording turn")
		return err
	}

	return nil
}

func (r *turnRepository) GetTurnsByUserID(c context.Context, userID string, limit int) ([]entity.Turn, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
	}

	query, args, err := sqlx.Named(queryGetTurnsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTurnsByUserID named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []ConversationTurnDB
	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when fetching turns")
		return nil, err
	}

	turns := make([]entity.Turn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, entity.Turn{
			ID:             row.ID.String,
			RawText:        row.RawText.String,
			NormalizedText: row.NormalizedText.String,
			Intent:         entity.ParseIntent(row.Intent.String),
			Confidence:     row.Confidence.Float64,
			Language:       row.Language.String,
			ReplyText:      row.ReplyText.String,
			Timestamp:      row.CreatedAt,
		})
	}

	return turns, nil
}
