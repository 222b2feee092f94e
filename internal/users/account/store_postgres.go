// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

/*
Package account (Postgres) implements the storage layer for member identity.

# Schema Table Mapping
  - users.account: Master identity and profile data.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwellapp/inkwell/internal/platform/apperr"
	"github.com/inkwellapp/inkwell/internal/platform/database/schema"
	"github.com/inkwellapp/inkwell/internal/platform/dberr"
	"github.com/inkwellapp/inkwell/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the Postgres implementation for account storage.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// accountColumns is the canonical SELECT list, kept in sync with scanAccount.
func accountColumns() string {
	return strings.Join(schema.UserAccount.Columns(), ", ")
}

func scanAccount(row pgx.Row) (*Account, error) {
	acct := &Account{}
	err := row.Scan(
		&acct.ID,
		&acct.Username,
		&acct.Email,
		&acct.Slug,
		&acct.PasswordHash,
		&acct.FirstName,
		&acct.LastName,
		&acct.AvatarURL,
		&acct.Bio,
		&acct.BirthDate,
		&acct.Subscribed,
		&acct.EmailConfirmed,
		&acct.Role,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

/*
Create inserts a brand-new account row.

Parameters:
  - context: context.Context
  - acct: *Account (fully populated, including an allocated slug)

Returns:
  - error: apperr.Conflict when the email or slug unique constraint fires,
    or database execution failure
*/
func (repository *PostgresRepository) Create(context context.Context, acct *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		schema.UserAccount.Table, accountColumns(),
	)

	_, err := repository.pool.Exec(context, query,
		acct.ID,
		acct.Username,
		acct.Email,
		acct.Slug,
		acct.PasswordHash,
		acct.FirstName,
		acct.LastName,
		acct.AvatarURL,
		acct.Bio,
		acct.BirthDate,
		acct.Subscribed,
		acct.EmailConfirmed,
		acct.Role,
		acct.CreatedAt,
		acct.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Email or slug is already registered")
	}

	return nil
}

/*
FindByID retrieves an account record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Account: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.UserAccount.Table, schema.UserAccount.ID)

	acct, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return acct, nil
}

/*
FindByEmail retrieves an account by its login email. The lookup is exact;
callers normalize the address first.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - *Account: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.UserAccount.Table, schema.UserAccount.Email)

	acct, err := scanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}

	return acct, nil
}

/*
FindBySlug retrieves an account by its public handle.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Account: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.UserAccount.Table, schema.UserAccount.Slug)

	acct, err := scanAccount(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_slug_failed: %w", err)
	}

	return acct, nil
}

// SlugExists reports whether the exact slug is already taken.
func (repository *PostgresRepository) SlugExists(context context.Context, slug string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserAccount.Table, schema.UserAccount.Slug)

	var exists bool
	if err := repository.pool.QueryRow(context, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_account_repo_slug_exists_failed: %w", err)
	}

	return exists, nil
}

/*
Update modifies the mutable profile metadata of an account.

Description: This method syncs every editable profile field plus the email
and its confirmation flag. The slug and password hash are never written here.

Parameters:
  - context: context.Context
  - acct: *Account

Returns:
  - error: apperr.Conflict when the email unique constraint fires,
    or update failures
*/
func (repository *PostgresRepository) Update(context context.Context, acct *Account) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
			%s = $8, %s = $9, %s = $10, %s = $11, %s = $12
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.AvatarURL, schema.UserAccount.Bio,
		schema.UserAccount.BirthDate, schema.UserAccount.Subscribed, schema.UserAccount.EmailConfirmed,
		schema.UserAccount.Role, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	_, err := repository.pool.Exec(context, query,
		acct.ID,
		acct.Username,
		acct.Email,
		acct.FirstName,
		acct.LastName,
		acct.AvatarURL,
		acct.Bio,
		acct.BirthDate,
		acct.Subscribed,
		acct.EmailConfirmed,
		acct.Role,
		acct.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Email is already registered")
	}

	return nil
}

// UpdatePassword replaces only the stored password hash.
func (repository *PostgresRepository) UpdatePassword(context context.Context, accountID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	if _, err := repository.pool.Exec(context, query, accountID, newHash); err != nil {
		return fmt.Errorf("postgres_account_repo_update_password_failed: %w", err)
	}

	return nil
}

// MarkEmailConfirmed flips the confirmation flag.
func (repository *PostgresRepository) MarkEmailConfirmed(context context.Context, accountID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.EmailConfirmed,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	if _, err := repository.pool.Exec(context, query, accountID); err != nil {
		return fmt.Errorf("postgres_account_repo_confirm_email_failed: %w", err)
	}

	return nil
}

/*
List returns a page of accounts ordered oldest-first, plus the total row
count for pagination metadata.

Parameters:
  - context: context.Context
  - params: pagination.Params (already clamped by the transport layer)

Returns:
  - []*Account: Page of hydrated entities
  - int: Total row count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]*Account, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.UserAccount.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2`,
		accountColumns(), schema.UserAccount.Table, schema.UserAccount.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}
