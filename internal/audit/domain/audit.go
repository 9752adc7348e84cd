package domain

import "time"

// EventKind classifies an audit event.
type EventKind string

const (
	EventUserLogin       EventKind = "USER_LOGIN"
	EventUserLogout      EventKind = "USER_LOGOUT"
	EventTokenRefresh    EventKind = "TOKEN_REFRESH"
	EventPasswordChanged EventKind = "PASSWORD_CHANGED"
	// EventSecurityAlert marks anomalies such as a token/registry subject
	// mismatch. Not a routine miss; dashboards should page on these.
	EventSecurityAlert EventKind = "SECURITY_ALERT"
	// EventRequest is an authenticated RPC recorded by the audit interceptor.
	EventRequest EventKind = "REQUEST"
)

// Event is one audit/history record. SubjectID may be 0 when the subject could
// not be established (e.g. a malformed token).
type Event struct {
	ID        string
	SubjectID int64
	Kind      EventKind
	SessionID string
	Metadata  string
	CreatedAt time.Time
}
