package request

import (
	"net/http"
	"time"
)

// AuditQueryParams contains query parameters for audit log queries.
type AuditQueryParams struct {
	EntityType *string
	Action     *string
	ChangedBy  *string
	StartTime  *time.Time
	EndTime    *time.Time
}

// ParseAuditQuery extracts audit query parameters from the request.
func ParseAuditQuery(r *http.Request) AuditQueryParams {
	params := AuditQueryParams{}
	q := r.URL.Query()

	if entity := q.Get("entity"); entity != "" {
		params.EntityType = &entity
	}

	if action := q.Get("action"); action != "" {
		params.Action = &action
	}

	if actor := q.Get("actor"); actor != "" {
		params.ChangedBy = &actor
	}

	if startStr := q.Get("start"); startStr != "" {
		if t, err := time.Parse(time.RFC3339, startStr); err == nil {
			params.StartTime = &t
		}
	}

	if endStr := q.Get("end"); endStr != "" {
		if t, err := time.Parse(time.RFC3339, endStr); err == nil {
			params.EndTime = &t
		}
	}

	return params
}
