package repository

import "errors"

var (
	// ErrGameAlreadyStarted означает, что игра уже переведена в Started=true.
	ErrGameAlreadyStarted = errors.New("game is already started")
	// ErrAlreadyInGame означает, что у пользователя уже есть активное участие в какой-то игре.
	ErrAlreadyInGame = errors.New("user already participates in an active game")
)
