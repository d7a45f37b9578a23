package agenda

import "time"

// Status values are owned by the remote appointment API; the dashboard never
// invents a status, it only requests confirm/cancel transitions.
type Status string

const (
	StatusPending   Status = "pendente"
	StatusConfirmed Status = "confirmado"
	StatusCancelled Status = "cancelado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Appointment mirrors the remote API wire format: data is a calendar day
// (YYYY-MM-DD) and horario a time of day (HH:MM), kept as strings because the
// remote service owns the format and records with unparseable values must not
// break the projection.
type Appointment struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone"`
	Data     string `json:"data"`
	Horario  string `json:"horario"`
	Status   Status `json:"status"`
}

var startLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// StartTime composes data + horario into a single orderable instant in loc.
func (a Appointment) StartTime(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	raw := a.Data + " " + a.Horario
	for _, layout := range startLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
