package admission

import (
	"gatekeeper/internal/database"
	"gatekeeper/internal/domain"
)

// DBLogStore appends to the request_logs table.
type DBLogStore struct{}

func (DBLogStore) Append(entry *domain.RequestLog) error {
	return database.InsertRequestLog(entry)
}
