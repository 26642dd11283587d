package services

import (
	"context"
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes checked by Diagnose.
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

var (
	missingTableMsg  = regexp.MustCompile(`(?i)relation .* does not exist|no such table`)
	missingColumnMsg = regexp.MustCompile(`(?i)column .* does not exist|no such column`)
)

// DiagConfig echoes the settings the probe ran with.
type DiagConfig struct {
	Table    string `json:"table"`
	Column   string `json:"column"`
	RecordID string `json:"recordId"`
	Bucket   string `json:"bucket"`
}

// DiagChecks are the individual probe results.
type DiagChecks struct {
	TableOK   bool `json:"tableOk"`
	ColumnOK  bool `json:"columnOk"`
	RowExists bool `json:"rowExists"`
}

// Diagnosis is the result of probing the settings table.
type Diagnosis struct {
	OK     bool       `json:"ok"`
	Config DiagConfig `json:"config"`
	Checks DiagChecks `json:"checks"`
	Error  *string    `json:"error"`
}

// Diagnose probes the settings table, its logo column and the active row.
// Query errors are reported in the result, not returned.
func (s *SettingsService) Diagnose(ctx context.Context, bucket string) (*Diagnosis, error) {
	if s.db == nil {
		return nil, ErrDataStoreNotConfigured
	}
	d := &Diagnosis{
		Config: DiagConfig{Table: "company_settings", Column: "logo_url", RecordID: s.recordID, Bucket: bucket},
		Checks: DiagChecks{TableOK: true, ColumnOK: true},
	}

	var rows []map[string]interface{}
	q := s.db.WithContext(ctx).Table(d.Config.Table).Select("id, " + d.Config.Column)
	if s.recordID != "" {
		q = q.Where("id = ?", s.recordID)
	}
	err := q.Limit(1).Find(&rows).Error
	if err != nil {
		msg := err.Error()
		d.Error = &msg
		d.Checks.TableOK, d.Checks.ColumnOK = classifyProbeError(err)
	} else {
		d.Checks.RowExists = len(rows) > 0
	}
	d.OK = d.Checks.TableOK && d.Checks.ColumnOK
	return d, nil
}

func classifyProbeError(err error) (tableOK, columnOK bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code != pgUndefinedTable, pgErr.Code != pgUndefinedColumn
	}
	msg := err.Error()
	return !missingTableMsg.MatchString(msg), !missingColumnMsg.MatchString(msg)
}
