package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/quizroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

func recordedResponse(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)
	return w
}

// ============================================================================
// Маппинг ошибок сервисов в HTTP статусы
// ============================================================================

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"не найдено", apperrors.ErrNotFound, http.StatusNotFound},
		{"валидация", fmt.Errorf("%w: bet must not be negative", apperrors.ErrValidation), http.StatusBadRequest},
		{"конфликт", fmt.Errorf("%w: game #7 is already started", apperrors.ErrConflict), http.StatusConflict},
		{"нет авторизации", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"запрещено", apperrors.ErrForbidden, http.StatusForbidden},
		{"прочее", fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := recordedResponse(tt.err)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

// Повторный вход в игру при активном участии в другой — конфликт 409,
// а не внутренняя ошибка сервера
func TestRespondError_DuplicateParticipationIsConflict(t *testing.T) {
	err := fmt.Errorf("%w: %w: user #2", apperrors.ErrConflict, repository.ErrAlreadyInGame)

	w := recordedResponse(err)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}
