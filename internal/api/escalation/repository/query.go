package escalationRepository

const (
	queryCreateIncident = `
		INSERT INTO emergency_incidents (
			id,
			user_id,
			turn_id,
			reason,
			severity,
			text_excerpt,
			status,
			attempts,
			created_at,
			updated_at
		) VALUES (
			:id,
			:user_id,
			:turn_id,
			:reason,
			:severity,
			:text_excerpt,
			:status,
			:attempts,
			:created_at,
			:updated_at
		)
	`

	queryGetIncidentByID = `
		SELECT
			id,
			user_id,
			turn_id,
			reason,
			severity,
			text_excerpt,
			status,
			attempts,
			created_at,
			updated_at
		FROM emergency_incidents
		WHERE id = :id
	`

	queryListIncidents = `
		SELECT
			id,
			user_id,
			turn_id,
			reason,
			severity,
			text_excerpt,
			status,
			attempts,
			created_at,
			updated_at
		FROM emergency_incidents
		ORDER BY created_at DESC
		LIMIT :limit
	`

	queryListIncidentsByStatus = `
		SELECT
			id,
			user_id,
			turn_id,
			reason,
			severity,
			text_excerpt,
			status,
			attempts,
			created_at,
			updated_at
		FROM emergency_incidents
		WHERE status = :status
		ORDER BY created_at DESC
		LIMIT :limit
	`

	queryUpdateIncidentStatus = `
		UPDATE emergency_incidents
		SET
			status = :status,
			attempts = :attempts,
			updated_at = :updated_at
		WHERE id = :id
	`
)
