package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizroom-api/internal/config"
	"github.com/yourusername/quizroom-api/internal/handler"
	"github.com/yourusername/quizroom-api/internal/middleware"
)

// routerHandlers — обработчики, подключаемые к роутеру
type routerHandlers struct {
	auth *handler.AuthHandler
	user *handler.UserHandler
	quiz *handler.QuizHandler
	game *handler.GameHandler
	ws   *handler.WSHandler
}

// newRouter собирает gin-роутер со всеми маршрутами API.
// Все /api маршруты, кроме регистрации и входа, требуют аутентификации.
func newRouter(cfg *config.Config, h routerHandlers, authMiddleware *middleware.AuthMiddleware) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.auth.Register)
			authGroup.POST("/login", h.auth.Login)
			authGroup.POST("/logout", authMiddleware.RequireAuth(), h.auth.Logout)
			authGroup.GET("/me", authMiddleware.RequireAuth(), h.auth.Me)
			authGroup.POST("/ws-ticket", authMiddleware.RequireAuth(), h.auth.WSTicket)
		}

		usersGroup := api.Group("/users", authMiddleware.RequireAuth())
		{
			usersGroup.GET("", h.user.ListUsers)
			usersGroup.POST("/change-password", h.user.ChangePassword)
			usersGroup.GET("/:id", middleware.ExtractUintParam("id", "userID"), h.user.GetUser)
		}

		authoring := api.Group("", authMiddleware.RequireAuth())
		{
			authoring.GET("/sections", h.quiz.ListSections)
			authoring.POST("/sections", h.quiz.CreateSection)
			authoring.GET("/question-types", h.quiz.ListQuestionTypes)

			authoring.GET("/quizzes", h.quiz.ListQuizzes)
			authoring.POST("/quizzes", h.quiz.CreateQuiz)
			authoring.GET("/quizzes/playable", h.quiz.ListPlayableQuizzes)

			quizGroup := authoring.Group("/quizzes/:id", middleware.ExtractUintParam("id", "quizID"))
			{
				quizGroup.GET("", h.quiz.GetQuiz)
				quizGroup.PATCH("", h.quiz.UpdateQuiz)
				quizGroup.DELETE("", h.quiz.DeleteQuiz)
				quizGroup.GET("/themes", h.quiz.ListThemes)
				quizGroup.POST("/themes", h.quiz.CreateTheme)
			}

			themeGroup := authoring.Group("/themes/:id", middleware.ExtractUintParam("id", "themeID"))
			{
				themeGroup.GET("", h.quiz.GetTheme)
				themeGroup.PATCH("", h.quiz.RenameTheme)
				themeGroup.DELETE("", h.quiz.DeleteTheme)
				themeGroup.POST("/arrange", h.quiz.ArrangeTheme)
				themeGroup.GET("/questions", h.quiz.ListQuestions)
				themeGroup.POST("/questions", h.quiz.CreateQuestion)
			}
			authoring.POST("/themes/swap-rounds", h.quiz.SwapThemeRounds)

			questionGroup := authoring.Group("/questions/:id", middleware.ExtractUintParam("id", "questionID"))
			{
				questionGroup.GET("", h.quiz.GetQuestion)
				questionGroup.PATCH("", h.quiz.UpdateQuestion)
				questionGroup.DELETE("", h.quiz.DeleteQuestion)
			}
			authoring.POST("/questions/swap-values", h.quiz.SwapQuestionValues)
		}

		games := api.Group("/games", authMiddleware.RequireAuth())
		{
			games.POST("", h.game.CreateGame)
			games.GET("/available", h.game.ListAvailableGames)
			games.GET("/score", h.game.PlayerScore)
			games.GET("/room-name", h.game.RoomName)
			games.POST("/ready", h.game.ReadyUp)
			games.POST("/bet", h.game.PlaceBet)
			games.POST("/super-answer", h.game.SubmitSuperAnswer)

			gameGroup := games.Group("/:id", middleware.ExtractUintParam("id", "gameID"))
			{
				gameGroup.POST("/join", h.game.JoinGame)
				gameGroup.POST("/start", h.game.StartGame)
				gameGroup.GET("/round", h.game.RoundQuestions)
				gameGroup.GET("/round-completed", h.game.RoundCompleted)
				gameGroup.GET("/players", h.game.ListPlayers)
				gameGroup.GET("/dashboard", h.game.Dashboard)
				gameGroup.GET("/results", h.game.ResultsTable)
				gameGroup.GET("/results/export", h.game.ExportResults)
				gameGroup.POST("/correct-answer", h.game.CorrectAnswer)
				gameGroup.POST("/wrong-answer", h.game.WrongAnswer)
				gameGroup.POST("/nobody", h.game.NobodyAnswered)
				gameGroup.POST("/correct-super-answer", h.game.CorrectSuperAnswer)
				gameGroup.POST("/wrong-super-answer", h.game.WrongSuperAnswer)
				gameGroup.GET("/collect-answers", h.game.CollectAnswers)
				gameGroup.GET("/first-ready", h.game.FirstReadyPlayer)
				gameGroup.POST("/end", h.game.EndGame)
			}
		}
	}

	// WebSocket комнат
	router.GET("/ws/game/:gamename/", h.ws.HandleConnection)

	return router
}
