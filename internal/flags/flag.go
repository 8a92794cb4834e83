package flags

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

type Status string

const (
	StatusQueued   Status = "queued"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Valores usados pela submissão manual.
const (
	ManualExploit = "manual"
	UnknownTarget = "unknown"
)

var ErrNoFlags = errors.New("no flags to enqueue")

type Flag struct {
	ID        string
	Value     string
	Exploit   string
	Player    string
	Tick      int
	Target    string
	Timestamp time.Time
	Status    Status
	Response  sql.NullString
}

// Submission is a batch of flag values captured by one player.
type Submission struct {
	Values  []string
	Exploit string
	Target  string
	Player  string
	Tick    int
}

type EnqueueResult struct {
	Enqueued  int
	Discarded int
	Values    []string // newly enqueued values
}

// Filter narrows a flag search. Zero fields are ignored; Tick is a pointer
// so tick 0 (before the game starts) can still be searched.
type Filter struct {
	Value   string    `validate:"omitempty,max=256"`
	Exploit string    `validate:"omitempty,max=128"`
	Target  string    `validate:"omitempty,max=128"`
	Player  string    `validate:"omitempty,max=128"`
	Status  Status    `validate:"omitempty,oneof=queued accepted rejected"`
	Tick    *int      `validate:"omitempty,min=0"`
	Sort    []SortKey `validate:"omitempty,max=7,dive"`
}

// SortKey orders search results by one column.
type SortKey struct {
	Column string `validate:"oneof=value exploit player tick target timestamp status"`
	Order  string `validate:"oneof=asc desc"`
}

// ParseSort reads keys written as "column [asc|desc]", separated by commas.
func ParseSort(items ...string) []SortKey {
	var keys []SortKey
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			fields := strings.Fields(strings.ToLower(part))
			if len(fields) == 0 {
				continue
			}
			k := SortKey{Column: fields[0], Order: "asc"}
			if len(fields) > 1 {
				k.Order = strings.Join(fields[1:], " ")
			}
			keys = append(keys, k)
		}
	}
	return keys
}

// SortString is the inverse of ParseSort.
func (f Filter) SortString() string {
	parts := make([]string, len(f.Sort))
	for i, k := range f.Sort {
		parts[i] = k.Column + " " + k.Order
	}
	return strings.Join(parts, ", ")
}

type DashboardStats struct {
	Accepted int
	Rejected int
	Queued   int
}

type DatabaseStats struct {
	CurrentTick int
	LastTick    int
	Manual      int
	Total       int
}

type TickStats struct {
	Tick     int
	Accepted int
}

// ExploitHistory is the accepted flag count of one exploit over the last ten
// ticks, oldest first.
type ExploitHistory struct {
	Exploit string
	History []TickStats
}
