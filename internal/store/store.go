// Package store provides SQLite persistence for leads and emails.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/leaddesk/leaddesk/internal/crm"
)

const defaultSQLiteParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"

// ErrNotFound is returned when a lead does not exist.
var ErrNotFound = fmt.Errorf("lead not found")

// Store provides database operations for the CRM.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := dbPath + defaultSQLiteParams
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates the leads and emails tables if they do not exist.
func (s *Store) InitSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS leads (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    company_domain   TEXT NOT NULL UNIQUE,
    company_name     TEXT NOT NULL DEFAULT '',
    industry         TEXT NOT NULL DEFAULT '',
    description      TEXT NOT NULL DEFAULT '',
    research_summary TEXT,
    created_at       TEXT NOT NULL,
    updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    lead_id    INTEGER NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
    subject    TEXT NOT NULL DEFAULT '',
    body       TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL DEFAULT 'draft',
    created_at TEXT NOT NULL,
    sent_at    TEXT
);

CREATE INDEX IF NOT EXISTS idx_emails_lead_id ON emails(lead_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// now returns the current UTC time as ISO-8601 text, the format all
// timestamps are stored and served in.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// UpsertResult describes whether an upsert created or updated a lead.
type UpsertResult struct {
	Lead    crm.Lead
	Created bool
}

// UpsertLead creates a lead for the given domain, or updates the existing
// one in place. The domain is the natural key; repeated research runs for
// the same company refresh its fields rather than duplicating the lead.
func (s *Store) UpsertLead(lead crm.Lead) (*UpsertResult, error) {
	existing, err := s.GetLeadByDomain(lead.CompanyDomain)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	ts := now()
	if existing != nil {
		_, err := s.db.Exec(`
			UPDATE leads
			SET company_name = ?, industry = ?, description = ?, research_summary = ?, updated_at = ?
			WHERE id = ?`,
			lead.CompanyName, lead.Industry, lead.Description,
			nullable(lead.ResearchSummary), ts, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("update lead: %w", err)
		}
		updated, err := s.GetLead(existing.ID)
		if err != nil {
			return nil, err
		}
		return &UpsertResult{Lead: *updated, Created: false}, nil
	}

	res, err := s.db.Exec(`
		INSERT INTO leads (company_domain, company_name, industry, description, research_summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		lead.CompanyDomain, lead.CompanyName, lead.Industry, lead.Description,
		nullable(lead.ResearchSummary), ts, ts)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	created, err := s.GetLead(id)
	if err != nil {
		return nil, err
	}
	return &UpsertResult{Lead: *created, Created: true}, nil
}

// ListLeads returns leads ordered newest first.
func (s *Store) ListLeads(offset, limit int) ([]crm.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, company_domain, company_name, industry, description,
		       COALESCE(research_summary, ''), created_at, updated_at
		FROM leads
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []crm.Lead
	for rows.Next() {
		var l crm.Lead
		if err := rows.Scan(&l.ID, &l.CompanyDomain, &l.CompanyName, &l.Industry,
			&l.Description, &l.ResearchSummary, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// GetLead returns a single lead by ID, or ErrNotFound.
func (s *Store) GetLead(id int64) (*crm.Lead, error) {
	return s.getLead("id = ?", id)
}

// GetLeadByDomain returns a single lead by company domain, or ErrNotFound.
func (s *Store) GetLeadByDomain(domain string) (*crm.Lead, error) {
	return s.getLead("company_domain = ?", domain)
}

func (s *Store) getLead(where string, arg interface{}) (*crm.Lead, error) {
	var l crm.Lead
	err := s.db.QueryRow(`
		SELECT id, company_domain, company_name, industry, description,
		       COALESCE(research_summary, ''), created_at, updated_at
		FROM leads WHERE `+where, arg).
		Scan(&l.ID, &l.CompanyDomain, &l.CompanyName, &l.Industry,
			&l.Description, &l.ResearchSummary, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &l, nil
}

// DeleteLead removes a lead and, via the cascade, its emails.
// Returns ErrNotFound when no such lead exists.
func (s *Store) DeleteLead(id int64) error {
	res, err := s.db.Exec(`DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertEmail records a drafted or sent email for a lead.
func (s *Store) InsertEmail(email crm.Email) (*crm.Email, error) {
	ts := now()
	if email.Status == "" {
		email.Status = crm.StatusDraft
	}
	res, err := s.db.Exec(`
		INSERT INTO emails (lead_id, subject, body, status, created_at, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		email.LeadID, email.Subject, email.Body, email.Status, ts, nullable(email.SentAt))
	if err != nil {
		return nil, fmt.Errorf("insert email: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	email.ID = id
	email.CreatedAt = ts
	return &email, nil
}

// ListLeadEmails returns a lead's emails, newest first (entry 0 is the
// latest draft, which the dashboard shows as the summary).
func (s *Store) ListLeadEmails(leadID int64) ([]crm.Email, error) {
	return s.listEmails(`WHERE lead_id = ?`, leadID)
}

// ListEmails returns all emails, newest first.
func (s *Store) ListEmails(offset, limit int) ([]crm.Email, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.listEmails(`LIMIT ? OFFSET ?`, limit, offset)
}

func (s *Store) listEmails(clause string, args ...interface{}) ([]crm.Email, error) {
	query := `
		SELECT id, lead_id, subject, body, status, created_at, COALESCE(sent_at, '')
		FROM emails `
	// ORDER BY goes between an optional WHERE and an optional LIMIT.
	if len(clause) > 0 && clause[0] == 'W' {
		query += clause + ` ORDER BY created_at DESC, id DESC`
	} else {
		query += `ORDER BY created_at DESC, id DESC ` + clause
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	var emails []crm.Email
	for rows.Next() {
		var e crm.Email
		if err := rows.Scan(&e.ID, &e.LeadID, &e.Subject, &e.Body, &e.Status,
			&e.CreatedAt, &e.SentAt); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// nullable converts an empty string to NULL for optional text columns.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
