// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/dberr"
)

/*
TestWrap_Classification verifies the error bridge every repository routes its
database failures through.

 1. nil stays nil.
 2. Missing rows map to not found.
 3. Unique violations map to conflict (e.g. a duplicate company slug).
 4. Foreign key violations map to unprocessable.
 5. Anything else becomes an internal error carrying the action.
*/
func TestWrap_Classification(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	err := dberr.Wrap(pgx.ErrNoRows, "find_company_by_id")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	err = dberr.Wrap(&pgconn.PgError{Code: "23505"}, "create_company")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)

	err = dberr.Wrap(&pgconn.PgError{Code: "23503"}, "set_company")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperr.As(err).HTTPStatus)

	err = dberr.Wrap(errors.New("connection reset"), "list_jobs")
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", apperr.As(err).Code)
	assert.Contains(t, apperr.As(err).Cause.Error(), "list_jobs")
}

/*
TestWrap_UnwrapsNestedCauses verifies classification still works when the
database error arrives already wrapped by a driver layer.
*/
func TestWrap_UnwrapsNestedCauses(t *testing.T) {
	nested := fmt.Errorf("exec failed: %w", &pgconn.PgError{Code: "23505"})

	err := dberr.Wrap(nested, "create_account")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}
