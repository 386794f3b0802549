package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// AI tutor
	s.echo.POST("/api/ai/answer-doubt", s.handleAnswerDoubt)
	s.echo.POST("/api/ai/generate-quiz", s.handleGenerateQuiz)

	// Discussions
	s.echo.GET("/api/discussions", s.handleListDiscussions)
	s.echo.POST("/api/discussions", s.handleCreateDiscussion)

	// Sessions
	s.echo.POST("/api/sessions", s.handleCreateSession)
	s.echo.GET("/api/sessions", s.handleListSessions)
	s.echo.GET("/api/sessions/:id", s.handleGetSession)
	s.echo.GET("/api/sessions/:id/participants", s.handleGetParticipants)
	s.echo.POST("/api/sessions/:id/leave", s.handleLeaveSession)
	s.echo.POST("/api/sessions/:id/end", s.handleEndSession)
	s.echo.POST("/api/sessions/join", s.handleJoinSession)
	s.echo.POST("/api/sessions/enter", s.handleEnterSession)

	// Room presence
	s.echo.GET("/api/rooms/:id/presence", s.handleListPresence)
	s.echo.PUT("/api/rooms/:id/presence/:userId", s.handleEnterRoom)
	s.echo.PATCH("/api/rooms/:id/presence/:userId", s.handleUpdatePresence)
	s.echo.DELETE("/api/rooms/:id/presence/:userId", s.handleLeaveRoom)

	// Quizzes and leaderboard
	s.echo.POST("/api/quizzes", s.handleSaveQuiz)
	s.echo.GET("/api/quizzes", s.handleListQuizzes)
	s.echo.GET("/api/quizzes/:id", s.handleGetQuiz)
	s.echo.POST("/api/quizzes/:id/attempts", s.handleSubmitAttempt)
	s.echo.GET("/api/leaderboard", s.handleLeaderboard)
	s.echo.GET("/api/users/:userId/stats", s.handleUserStats)

	// Video room credentials
	s.echo.GET("/api/video/credentials", s.handleVideoCredentials)

	// Live views
	s.echo.GET("/ws/sessions", s.handleWatchSessions)
	s.echo.GET("/ws/sessions/:id", s.handleWatchSession)
	s.echo.GET("/ws/sessions/:id/participants", s.handleWatchParticipants)
	s.echo.GET("/ws/rooms/:id/presence", s.handleWatchPresence)
}
