package postgres

const (
	insertRecord = `INSERT INTO records (id, name, parent_id, created_at) VALUES ($1, $2, $3, $4)`

	selectRecordByID = `SELECT id, name, parent_id, created_at FROM records WHERE id = $1`

	selectRecords = `SELECT id, name, parent_id, created_at FROM records
ORDER BY created_at, id
LIMIT $1 OFFSET $2`

	countRecords = `SELECT count(*) FROM records`

	updateRecord = `UPDATE records SET name = $2 WHERE id = $1`

	deleteRecord = `DELETE FROM records WHERE id = $1`

	recordExists = `SELECT EXISTS (SELECT 1 FROM records WHERE id = $1)`
)
