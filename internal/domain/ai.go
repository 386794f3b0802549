package domain

import "context"

// TutorService answers free-form study questions and generates quizzes via the
// generative text API. Transient upstream failures surface directly to the
// caller; no retries are applied.
type TutorService interface {
	AnswerDoubt(ctx context.Context, question string) (string, error)
	GenerateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) (*Quiz, error)
}
