package transcriber

const (
	messageExtractionFailed  = "не удалось извлечь аудио"
	messageExtractedTooLarge = "аудио слишком большое после извлечения"
	messageFileTooLarge      = "файл слишком большой для загрузки"
	messageEmptyTranscript   = "получен пустой текст транскрипции"
	messageUnsupportedFormat = "неподдерживаемый формат файла"
	messageNetworkFailed     = "ошибка сети при обращении к сервису"
	messageServiceFailed     = "ошибка сервиса транскрибации"

	// ProcessingErrorPrefix opens every composed failure text returned
	// by the facade.
	ProcessingErrorPrefix = "❌ Произошла ошибка при обработке файла."
)

var errorCodeMessages = map[string]string{
	"audio_too_long":       "слишком долгое аудио",
	"audio_too_short":      "слишком короткое аудио",
	"invalid_audio":        "неверный формат аудио",
	"file_too_large":       "слишком большой файл",
	"rate_limit_exceeded":  "превышен лимит запросов",
	"insufficient_credits": "недостаточно кредитов",
	"internal_error":       "внутренняя ошибка сервиса",
}

// MessageForCode maps a remote error code onto its user-facing Russian
// message. Unknown codes collapse into a generic message.
func MessageForCode(code string) string {
	if msg, ok := errorCodeMessages[code]; ok {
		return msg
	}
	return "неизвестная ошибка"
}
