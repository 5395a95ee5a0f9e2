package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"retirement-match/domain"

	_ "modernc.org/sqlite" // register sqlite driver
)

const calculationSchemaSQL = `
CREATE TABLE IF NOT EXISTS saved_calculations (
    id                           TEXT PRIMARY KEY,
    user_id                      TEXT NOT NULL,
    annual_salary                REAL NOT NULL,
    monthly_loan_payment         REAL NOT NULL,
    match_percentage             REAL NOT NULL,
    match_cap                    REAL NOT NULL,
    monthly_401k_contribution    REAL NOT NULL,
    annual_loan_payments         REAL NOT NULL,
    eligible_match_amount        REAL NOT NULL,
    total_asu_contribution       REAL NOT NULL,
    total_employee_contribution  REAL NOT NULL,
    projected_balance_10_year    REAL NOT NULL,
    monthly_match_amount         REAL NOT NULL,
    match_utilization_percent    REAL NOT NULL,
    created_at_ns                INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saved_calculations_user
    ON saved_calculations(user_id, created_at_ns DESC);
`

const calculationColumns = `id, user_id,
	annual_salary, monthly_loan_payment, match_percentage, match_cap, monthly_401k_contribution,
	annual_loan_payments, eligible_match_amount, total_asu_contribution, total_employee_contribution,
	projected_balance_10_year, monthly_match_amount, match_utilization_percent, created_at_ns`

// CalculationRepositorySQLite stores saved calculations in a SQLite file.
type CalculationRepositorySQLite struct {
	db *sql.DB
}

// OpenCalculationRepositorySQLite opens or creates the database at dbPath.
func OpenCalculationRepositorySQLite(dbPath string) (*CalculationRepositorySQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening calculations db: %w", err)
	}

	if _, err := db.Exec(calculationSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &CalculationRepositorySQLite{db: db}, nil
}

func (r *CalculationRepositorySQLite) Close() error {
	return r.db.Close()
}

func (r *CalculationRepositorySQLite) Save(ctx context.Context, calc domain.SavedCalculation) error {
	in, res := calc.Inputs, calc.Results
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO saved_calculations (`+calculationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		calc.ID, calc.UserID,
		in.AnnualSalary, in.MonthlyLoanPayment, in.MatchPercentage, in.MatchCap, in.Monthly401kContribution,
		res.AnnualLoanPayments, res.EligibleMatchAmount, res.TotalASUContribution, res.TotalEmployeeContribution,
		res.ProjectedBalance10Year, res.MonthlyMatchAmount, res.MatchUtilizationPercent,
		calc.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving calculation %s: %w", calc.ID, err)
	}
	return nil
}

func (r *CalculationRepositorySQLite) ListByUser(ctx context.Context, userID string, limit int) ([]domain.SavedCalculation, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+calculationColumns+`
		FROM saved_calculations
		WHERE user_id = ?
		ORDER BY created_at_ns DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing calculations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []domain.SavedCalculation{}
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, calc)
	}
	return result, rows.Err()
}

func (r *CalculationRepositorySQLite) Get(ctx context.Context, id string) (domain.SavedCalculation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+calculationColumns+` FROM saved_calculations WHERE id = ?`, id)

	calc, err := scanCalculation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SavedCalculation{}, ErrNotFound
	}
	return calc, err
}

func (r *CalculationRepositorySQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM saved_calculations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting calculation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row rowScanner) (domain.SavedCalculation, error) {
	var (
		calc      domain.SavedCalculation
		createdNs int64
	)
	in, res := &calc.Inputs, &calc.Results

	err := row.Scan(
		&calc.ID, &calc.UserID,
		&in.AnnualSalary, &in.MonthlyLoanPayment, &in.MatchPercentage, &in.MatchCap, &in.Monthly401kContribution,
		&res.AnnualLoanPayments, &res.EligibleMatchAmount, &res.TotalASUContribution, &res.TotalEmployeeContribution,
		&res.ProjectedBalance10Year, &res.MonthlyMatchAmount, &res.MatchUtilizationPercent,
		&createdNs,
	)
	if err != nil {
		return domain.SavedCalculation{}, err
	}

	calc.CreatedAt = time.Unix(0, createdNs).UTC()
	return calc, nil
}
