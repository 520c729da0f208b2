package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSchema(t *testing.T) string {
	t.Helper()
	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)
	return string(schema)
}

// ============================================================================
// Инварианты схемы участников
// ============================================================================

// Завершение игры удаляет строку quiz_games, но история счета игроков
// должна пережить это: game_id обнуляется, строка participants остается.
func TestParticipantsSurviveGameDelete(t *testing.T) {
	schema := readSchema(t)

	gameIDColumn := regexp.MustCompile(`(?m)^\s*game_id BIGINT[^,\n]*`).FindString(schema)
	require.NotEmpty(t, gameIDColumn, "колонка participants.game_id должна быть в схеме")

	assert.Contains(t, gameIDColumn, "ON DELETE SET NULL")
	assert.NotContains(t, gameIDColumn, "NOT NULL")
	assert.NotContains(t, gameIDColumn, "CASCADE")
}

// Не более одной активной записи участия на пользователя во всей системе
func TestParticipantsSingleActiveIndex(t *testing.T) {
	schema := readSchema(t)

	assert.Regexp(t,
		`CREATE UNIQUE INDEX [^;]*idx_participants_single_active[^;]*ON participants \(user_id\)\s*WHERE active`,
		schema)
}
