package flags

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PauloHFS/avala/internal/db"
)

// Store persists flags in SQLite. Reads and writes may use different pools.
type Store struct {
	read  *sql.DB
	write *sql.DB
	now   func() time.Time
}

func NewStore(read, write *sql.DB) *Store {
	return &Store{read: read, write: write, now: time.Now}
}

// Enqueue stores the values not seen before as queued flags.
func (s *Store) Enqueue(ctx context.Context, sub Submission) (EnqueueResult, error) {
	unique := dedupe(sub.Values)
	if len(unique) == 0 {
		return EnqueueResult{}, ErrNoFlags
	}

	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return EnqueueResult{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := existingValues(ctx, tx, unique)
	if err != nil {
		return EnqueueResult{}, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flags (id, value, exploit, player, tick, target, timestamp, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return EnqueueResult{}, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := s.now().UTC()
	result := EnqueueResult{Discarded: len(sub.Values) - len(unique)}
	for _, value := range unique {
		if existing[value] {
			result.Discarded++
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), value, sub.Exploit, sub.Player, sub.Tick, sub.Target, now, StatusQueued,
		); err != nil {
			return EnqueueResult{}, fmt.Errorf("failed to insert flag: %w", err)
		}
		result.Values = append(result.Values, value)
	}
	result.Enqueued = len(result.Values)

	if err := tx.Commit(); err != nil {
		return EnqueueResult{}, fmt.Errorf("failed to commit flags: %w", err)
	}
	return result, nil
}

func existingValues(ctx context.Context, tx *sql.Tx, values []string) (map[string]bool, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}

	rows, err := tx.QueryContext(ctx, "SELECT value FROM flags WHERE value IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing flags: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		found[v] = true
	}
	return found, rows.Err()
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (f Filter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Value != "" {
		conds = append(conds, "value LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(f.Value)+"%")
	}
	if f.Exploit != "" {
		conds = append(conds, "exploit = ?")
		args = append(args, f.Exploit)
	}
	if f.Target != "" {
		conds = append(conds, "target = ?")
		args = append(args, f.Target)
	}
	if f.Player != "" {
		conds = append(conds, "player = ?")
		args = append(args, f.Player)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Tick != nil {
		conds = append(conds, "tick = ?")
		args = append(args, *f.Tick)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var sortColumns = map[string]bool{
	"value": true, "exploit": true, "player": true, "tick": true,
	"target": true, "timestamp": true, "status": true,
}

// orderBy builds the ORDER BY clause. Unknown columns are skipped; id keeps
// paging stable.
func (f Filter) orderBy() string {
	var terms []string
	for _, k := range f.Sort {
		if !sortColumns[k.Column] {
			continue
		}
		dir := "ASC"
		if k.Order == "desc" {
			dir = "DESC"
		}
		terms = append(terms, k.Column+" "+dir)
	}
	if len(terms) == 0 {
		terms = append(terms, "timestamp DESC")
	}
	return " ORDER BY " + strings.Join(append(terms, "id"), ", ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search returns one page of flags matching f, newest first unless f.Sort
// says otherwise.
func (s *Store) Search(ctx context.Context, f Filter, p db.PagingParams) (db.PagedResult[Flag], error) {
	where, args := f.where()

	result := db.PagedResult[Flag]{
		CurrentPage: max(p.Page, 1),
		PerPage:     p.Limit(),
	}

	if err := s.read.QueryRowContext(ctx, "SELECT COUNT(*) FROM flags"+where, args...).Scan(&result.TotalItems); err != nil {
		return result, fmt.Errorf("failed to count flags: %w", err)
	}

	query := `SELECT id, value, exploit, player, tick, target, timestamp, status, response
		FROM flags` + where + f.orderBy() + ` LIMIT ? OFFSET ?`
	rows, err := s.read.QueryContext(ctx, query, append(args, p.Limit(), p.Offset())...)
	if err != nil {
		return result, fmt.Errorf("failed to search flags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fl Flag
		if err := rows.Scan(&fl.ID, &fl.Value, &fl.Exploit, &fl.Player, &fl.Tick, &fl.Target, &fl.Timestamp, &fl.Status, &fl.Response); err != nil {
			return result, fmt.Errorf("failed to scan flag: %w", err)
		}
		result.Items = append(result.Items, fl)
	}
	return result, rows.Err()
}

// DashboardStats counts flags by status. Queued flags older than ttl are
// expired and left out.
func (s *Store) DashboardStats(ctx context.Context, ttl time.Duration) (DashboardStats, error) {
	var st DashboardStats
	cutoff := s.now().Add(-ttl).UTC()
	err := s.read.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'queued' AND timestamp >= ? THEN 1 ELSE 0 END), 0)
		FROM flags`, cutoff,
	).Scan(&st.Accepted, &st.Rejected, &st.Queued)
	if err != nil {
		return st, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return st, nil
}

func (s *Store) DatabaseStats(ctx context.Context, tick int) (DatabaseStats, error) {
	var st DatabaseStats
	err := s.read.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN tick = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN tick = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN exploit = ? AND target = ? THEN 1 ELSE 0 END), 0),
			COUNT(*)
		FROM flags`, tick, tick-1, ManualExploit, UnknownTarget,
	).Scan(&st.CurrentTick, &st.LastTick, &st.Manual, &st.Total)
	if err != nil {
		return st, fmt.Errorf("failed to load database stats: %w", err)
	}
	return st, nil
}

// Timeline returns accepted flags for every tick from 1 to tick.
func (s *Store) Timeline(ctx context.Context, tick int) ([]TickStats, error) {
	rows, err := s.read.QueryContext(ctx, `
		SELECT tick, COUNT(*) FROM flags
		WHERE status = 'accepted' AND tick BETWEEN 1 AND ?
		GROUP BY tick`, tick)
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}
	defer rows.Close()

	accepted := make(map[int]int)
	for rows.Next() {
		var t, n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		accepted[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	timeline := make([]TickStats, 0, max(tick, 0))
	for t := 1; t <= tick; t++ {
		timeline = append(timeline, TickStats{Tick: t, Accepted: accepted[t]})
	}
	return timeline, nil
}

// ExploitHistory returns, for every exploit with accepted flags in the ten
// ticks before tick, its accepted count per tick. Missing ticks are zero and
// the window never goes below tick 0.
func (s *Store) ExploitHistory(ctx context.Context, tick int) ([]ExploitHistory, error) {
	last := tick - 1
	first := max(last-9, 0)
	if last < first {
		return nil, nil
	}

	rows, err := s.read.QueryContext(ctx, `
		SELECT exploit, tick, COUNT(*) FROM flags
		WHERE status = 'accepted' AND tick BETWEEN ? AND ?
		GROUP BY exploit, tick
		ORDER BY exploit`, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to load exploit history: %w", err)
	}
	defer rows.Close()

	var (
		order    []string
		accepted = make(map[string]map[int]int)
	)
	for rows.Next() {
		var (
			exploit string
			t, n    int
		)
		if err := rows.Scan(&exploit, &t, &n); err != nil {
			return nil, err
		}
		if accepted[exploit] == nil {
			accepted[exploit] = make(map[int]int)
			order = append(order, exploit)
		}
		accepted[exploit][t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	history := make([]ExploitHistory, 0, len(order))
	for _, exploit := range order {
		h := ExploitHistory{Exploit: exploit, History: make([]TickStats, 0, last-first+1)}
		for t := first; t <= last; t++ {
			h.History = append(h.History, TickStats{Tick: t, Accepted: accepted[exploit][t]})
		}
		history = append(history, h)
	}
	return history, nil
}
