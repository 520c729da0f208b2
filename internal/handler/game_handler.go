package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/quizroom-api/internal/handler/dto"
	"github.com/yourusername/quizroom-api/internal/service"
)

// GameHandler обрабатывает запросы игровых сессий
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler создает новый обработчик игр
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// CreateGameRequest представляет запрос на создание игры из квиза
type CreateGameRequest struct {
	QuizID uint   `json:"quiz_id" binding:"required"`
	Name   string `json:"name" binding:"required,min=1,max=64"`
	Timer  bool   `json:"timer"`
}

// CreateGame создает игру: клонирует квиз и заводит комнату
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateFromQuiz(req.QuizID, req.Name, currentUserID(c), req.Timer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewGameResponse(game))
}

// ListAvailableGames возвращает еще не начатые игры
func (h *GameHandler) ListAvailableGames(c *gin.Context) {
	games, err := h.gameService.AvailableGames()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGameListResponse(games))
}

// JoinGame добавляет текущего пользователя в игру
func (h *GameHandler) JoinGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	participant, err := h.gameService.JoinGame(gameID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// StartGame запускает игру
func (h *GameHandler) StartGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	if err := h.gameService.StartGame(gameID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game started"})
}

// RoundQuestions возвращает вопросы текущего раунда, сгруппированные по темам
func (h *GameHandler) RoundQuestions(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	themes, round, err := h.gameService.CurrentRoundThemes(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"round":  round,
		"themes": dto.NewRoundThemeListResponse(themes),
	})
}

// RoundCompleted проверяет, исчерпан ли раунд, и при необходимости продвигает игру
func (h *GameHandler) RoundCompleted(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	completed, round, err := h.gameService.CheckRoundCompleted(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"completed":     completed,
		"current_round": round,
	})
}

// ListPlayers возвращает активных игроков игры
func (h *GameHandler) ListPlayers(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	players, err := h.gameService.ListPlayers(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantListResponse(players))
}

// Dashboard возвращает турнирную таблицу игры
func (h *GameHandler) Dashboard(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	rows, err := h.gameService.Dashboard(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// PlayerScore возвращает текущий счет пользователя
func (h *GameHandler) PlayerScore(c *gin.Context) {
	participant, err := h.gameService.PlayerScore(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// ResultsTable возвращает итоговую таблицу с точностью ответов
func (h *GameHandler) ResultsTable(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	rows, err := h.gameService.ResultsTable(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ExportResults выгружает итоговую таблицу в csv или xlsx
func (h *GameHandler) ExportResults(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)
	format := c.DefaultQuery("format", "csv")

	rows, err := h.gameService.ResultsTable(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	switch format {
	case "csv":
		h.exportCSV(c, gameID, rows)
	case "xlsx":
		h.exportXLSX(c, gameID, rows)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}

// exportCSV пишет итоговую таблицу в CSV прямо в ответ
func (h *GameHandler) exportCSV(c *gin.Context, gameID uint, rows []service.ResultRow) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="game_%d_results.csv"`, gameID))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write([]string{"Username", "Score", "Correct", "Attempts", "Accuracy %"}); err != nil {
		log.Printf("[GameHandler] Ошибка записи CSV для игры #%d: %v", gameID, err)
		return
	}
	for _, row := range rows {
		record := []string{
			row.Username,
			strconv.Itoa(row.Score),
			strconv.Itoa(row.CorrectAnswers),
			strconv.Itoa(row.AnswerAttempts),
			strconv.Itoa(row.Accuracy),
		}
		if err := writer.Write(record); err != nil {
			log.Printf("[GameHandler] Ошибка записи CSV для игры #%d: %v", gameID, err)
			return
		}
	}
}

// exportXLSX пишет итоговую таблицу в книгу Excel
func (h *GameHandler) exportXLSX(c *gin.Context, gameID uint, rows []service.ResultRow) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	index, err := f.NewSheet(sheet)
	if err != nil {
		respondError(c, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Username", "Score", "Correct", "Attempts", "Accuracy %"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for r, row := range rows {
		values := []interface{}{row.Username, row.Score, row.CorrectAnswers, row.AnswerAttempts, row.Accuracy}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="game_%d_results.xlsx"`, gameID))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[GameHandler] Ошибка записи XLSX для игры #%d: %v", gameID, err)
	}
}

// AnswerRequest представляет вердикт ведущего по ответу игрока
type AnswerRequest struct {
	UserID     uint `json:"user_id" binding:"required"`
	QuestionID uint `json:"question_id" binding:"required"`
}

// CorrectAnswer засчитывает игроку верный ответ
func (h *GameHandler) CorrectAnswer(c *gin.Context) {
	h.submitAnswer(c, true)
}

// WrongAnswer засчитывает игроку неверный ответ
func (h *GameHandler) WrongAnswer(c *gin.Context) {
	h.submitAnswer(c, false)
}

func (h *GameHandler) submitAnswer(c *gin.Context, correct bool) {
	gameID := c.MustGet("gameID").(uint)

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gameService.SubmitAnswer(gameID, req.UserID, req.QuestionID, correct)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"participant": dto.NewParticipantResponse(result.Participant),
		"delta":       result.Delta,
	}
	if result.NextPlayer != nil {
		next := dto.NewParticipantResponse(result.NextPlayer)
		resp["next_player"] = next
	}
	c.JSON(http.StatusOK, resp)
}

// NobodyRequest представляет снятие вопроса без ответа
type NobodyRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
}

// NobodyAnswered снимает вопрос с розыгрыша без изменения счета
func (h *GameHandler) NobodyAnswered(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	var req NobodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gameService.MarkNobodyAnswered(gameID, req.QuestionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question closed"})
}

// BetRequest представляет ставку супер-раунда
type BetRequest struct {
	Bet int `json:"bet"`
}

// PlaceBet фиксирует ставку текущего пользователя в супер-раунде
func (h *GameHandler) PlaceBet(c *gin.Context) {
	var req BetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.gameService.SubmitWager(currentUserID(c), req.Bet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// SuperAnswerRequest представляет текстовый ответ супер-раунда
type SuperAnswerRequest struct {
	Answer string `json:"answer" binding:"required,max=128"`
}

// SubmitSuperAnswer записывает ответ супер-раунда текущего пользователя
func (h *GameHandler) SubmitSuperAnswer(c *gin.Context) {
	var req SuperAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.gameService.SubmitWagerAnswer(currentUserID(c), req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// ResolveWagerRequest представляет вердикт ведущего по супер-ответу
type ResolveWagerRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// CorrectSuperAnswer начисляет игроку его ставку
func (h *GameHandler) CorrectSuperAnswer(c *gin.Context) {
	h.resolveWager(c, true)
}

// WrongSuperAnswer списывает с игрока его ставку
func (h *GameHandler) WrongSuperAnswer(c *gin.Context) {
	h.resolveWager(c, false)
}

func (h *GameHandler) resolveWager(c *gin.Context, correct bool) {
	gameID := c.MustGet("gameID").(uint)

	var req ResolveWagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.gameService.ResolveWager(gameID, req.UserID, correct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// CollectAnswers собирает ответы супер-раунда, когда все участвующие готовы
func (h *GameHandler) CollectAnswers(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	questionID, err := strconv.ParseUint(c.Query("question_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question_id"})
		return
	}

	answers, err := h.gameService.CollectWagerAnswers(gameID, uint(questionID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

// ReadyUp фиксирует нажатие кнопки текущим пользователем
func (h *GameHandler) ReadyUp(c *gin.Context) {
	participant, err := h.gameService.ReadyUp(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// FirstReadyPlayer возвращает игрока, нажавшего кнопку первым
func (h *GameHandler) FirstReadyPlayer(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	participant, err := h.gameService.FirstReadyPlayer(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// RoomName возвращает комнату текущего пользователя
func (h *GameHandler) RoomName(c *gin.Context) {
	roomName, err := h.gameService.RoomNameForUser(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_name": roomName})
}

// EndGame завершает игру и удаляет ее игровой квиз
func (h *GameHandler) EndGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	if err := h.gameService.EndGame(gameID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game ended"})
}
