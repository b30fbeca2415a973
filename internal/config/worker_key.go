package config

type WorkerKeyStruct struct {
	PersistQuizAnswersQueue string
	// PersistQuizAnswersDead holds payloads that kept failing after every retry.
	PersistQuizAnswersDead string
}

var WorkerKey = &WorkerKeyStruct{
	PersistQuizAnswersQueue: "persist_quiz_answers_queue",
	PersistQuizAnswersDead:  "persist_quiz_answers_dead",
}
