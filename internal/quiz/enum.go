package quiz

type GenerationStatus string

const (
	GenerationIdle       GenerationStatus = "idle"
	GenerationInProgress GenerationStatus = "generating"
)

type QuestionSource string

const (
	SourceManual    QuestionSource = "manual"
	SourceGenerated QuestionSource = "generated"
)
