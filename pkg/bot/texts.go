package bot

const (
	waitingForResponse = "Генерирую ответ..."
	apiNotAvailable    = "Сервис временно недоступен, попробуйте позже"
	choosePrompt       = "Выберайте лучший ответ"
	discardLabel       = "💩"

	candidateFormat = "Вариант %d:\n%s"

	helpMessage = "Напишите мне что-нибудь, и я отвечу несколькими вариантами — " +
		"выберите лучший кнопкой под сообщением.\n\n" +
		"Ответьте на сообщение бота своим текстом, чтобы заменить ответ вручную.\n\n" +
		"/get — показать историю диалога\n" +
		"/clear — очистить историю диалога\n" +
		"/remove — удалить все данные о себе\n" +
		"/help — это сообщение"
)

// Telegram's hard per-message size limit.
const maxTextLength = 4096

// One button label per candidate; generation must never exceed this.
const maxCandidates = 10
