package session

const (
	slashCommandHelp  = "help"
	slashCommandStats = "stats"

	slashCommandHelpDescription  = "Как пользоваться ботом для транскрибации."
	slashCommandStatsDescription = "Сколько файлов уже расшифровано на этом сервере."

	messageHelp = "📝 Как пользоваться ботом:\n\n" +
		"1. Отправьте аудио или видео файл\n" +
		"2. Дождитесь обработки\n" +
		"3. Получите текст транскрипции\n\n" +
		"Поддерживаемые форматы:\n" +
		"🎵 Аудио: MP3, WAV, OGG, M4A, FLAC\n" +
		"🎥 Видео: MP4, AVI, MOV, MKV, WMV\n\n" +
		"Максимальный размер файла: 500 МБ"

	messageProcessingStart = "⏳ Получил ваш файл! Начинаю обработку..."

	messageUnsupportedFormat = "❌ Неподдерживаемый формат файла.\n\n" +
		"Поддерживаемые форматы:\n" +
		"🎵 Аудио: MP3, WAV, OGG, M4A, FLAC\n" +
		"🎥 Видео: MP4, AVI, MOV, MKV, WMV"

	messageFileTooLarge = "❌ Файл слишком большой. Максимальный размер: 500 МБ"

	messageProcessingError = "❌ Произошла ошибка при обработке файла. Попробуйте еще раз."

	messageTranscriptAttached = "📄 Транскрипция получилась длинной, отправляю файлом."

	messageEphemeralWrongGuild    = "⚠️ На этом сервере бот не работает."
	messageEphemeralUnknownCmd    = "⚠️ Неизвестная команда."
	messageEphemeralStatsFailed   = "⚠️ Не удалось получить статистику."
	messageEphemeralStatsFormat   = "📊 Расшифровано файлов на этом сервере: %d"
)
