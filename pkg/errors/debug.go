package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Diagnostics is the loggable breakdown of a failure: the typed code,
// the full unwrap chain, and any database-level detail buried in it.
type Diagnostics struct {
	Message string
	Code    Code
	Chain   []string
	DB      *DBDetail
}

// DBDetail carries driver-level context from a postgres error.
type DBDetail struct {
	Code       string
	Message    string
	Detail     string
	Table      string
	Column     string
	Constraint string
}

// Diagnose walks err and collects everything worth logging. Both
// postgres drivers in use (pgx and lib/pq) are inspected.
func Diagnose(err error) Diagnostics {
	if err == nil {
		return Diagnostics{}
	}

	diag := Diagnostics{Message: err.Error()}
	if typed := As(err); typed != nil {
		diag.Code = typed.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		diag.Chain = append(diag.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		diag.DB = &DBDetail{
			Code:       pgxErr.Code,
			Message:    pgxErr.Message,
			Detail:     pgxErr.Detail,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Constraint: pgxErr.ConstraintName,
		}
		return diag
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		diag.DB = &DBDetail{
			Code:       string(pqErr.Code),
			Message:    pqErr.Message,
			Detail:     pqErr.Detail,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Constraint: pqErr.Constraint,
		}
	}
	return diag
}

// Fields flattens the diagnostics into a log-field map.
func (d Diagnostics) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.Message,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.DB != nil {
		fields["pg_code"] = d.DB.Code
		fields["pg_message"] = d.DB.Message
		fields["pg_detail"] = d.DB.Detail
		fields["pg_table"] = d.DB.Table
		fields["pg_column"] = d.DB.Column
		fields["pg_constraint"] = d.DB.Constraint
	}
	return fields
}
