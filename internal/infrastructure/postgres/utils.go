package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magizh-industries/magizh-api/internal/domain"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeForeignKeyViolation  = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// writeErr traduce errores de escritura a errores de dominio; el resto se envuelve con op.
func writeErr(op string, err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, op)
	case codeSerializationFailure:
		return fmt.Errorf("%w: operación concurrente, reintente", domain.ErrConflict)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s referencia un registro inexistente", domain.ErrInvalidInput, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
