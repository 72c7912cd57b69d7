package triageRepository

const (
	queryRecordTurn = `
		INSERT INTO conversation_turns (
			id,
			user_id,
			raw_text,
			normalized_text,
			intent,
			confidence,
			language,
			stage,
			reply_text,
			created_at
		) VALUES (
			:id,
			:user_id,
			:raw_text,
			:normalized_text,
			:intent,
			:confidence,
			:language,
			:stage,
			:reply_text,
			:created_at
		)
	`

	queryGetTurnsByUserID = `
		SELECT
			id,
			user_id,
			raw_text,
			normalized_text,
			intent,
			confidence,
			language,
			stage,
			reply_text,
			created_at
		FROM conversation_turns
		WHERE user_id = :user_id
		ORDER BY created_at DESC
		LIMIT :limit
	`
)
