package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionFilters narrows a transaction listing. Zero values mean
// "no filter"; Search matches description and recipient case-insensitively.
type TransactionFilters struct {
	UserID   uuid.UUID
	Type     string
	Category string
	From     *time.Time
	To       *time.Time
	Search   string
	Offset   int
	Limit    int
}
