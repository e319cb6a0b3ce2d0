package util_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/homehelp-service/pkg/util"
)

func TestToDomainError(t *testing.T) {
	t.Run("passes domain errors through", func(t *testing.T) {
		err := util.NewDuplicateEmail("x@example.com")
		converted := util.ToDomainError(err)
		assert.Equal(t, "DUPLICATE_EMAIL", converted.Code)
		assert.Equal(t, http.StatusBadRequest, converted.HTTPStatus)
	})

	t.Run("unwraps wrapped domain errors", func(t *testing.T) {
		err := fmt.Errorf("sign in: %w", util.NewInvalidCredentials())
		converted := util.ToDomainError(err)
		assert.Equal(t, "INVALID_CREDENTIALS", converted.Code)
	})

	t.Run("maps pgx.ErrNoRows to not found", func(t *testing.T) {
		converted := util.ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, "NOT_FOUND", converted.Code)
		assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
	})

	t.Run("maps fiber errors by status", func(t *testing.T) {
		converted := util.ToDomainError(fiber.NewError(http.StatusBadRequest, "invalid payload"))
		assert.Equal(t, "VALIDATION_FAILED", converted.Code)
		assert.Equal(t, http.StatusBadRequest, converted.HTTPStatus)
		assert.Equal(t, "invalid payload", converted.Message)
	})

	t.Run("everything else is internal", func(t *testing.T) {
		converted := util.ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", converted.Code)
		assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	})
}

func TestHasCode(t *testing.T) {
	err := util.NewAlreadyProcessed("done")
	assert.True(t, util.HasCode(err, "ALREADY_PROCESSED"))
	assert.False(t, util.HasCode(err, "NOT_FOUND"))
	assert.False(t, util.HasCode(errors.New("boom"), "ALREADY_PROCESSED"))
}
