// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	symbol TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	summary TEXT NOT NULL,
	request TEXT NOT NULL,
	result TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_kind ON assessments(kind);
`
