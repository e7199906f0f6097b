package conversation

import (
	"fmt"
	"strings"

	"github.com/at-ishikawa/sonnik/internal/interpretation"
	"github.com/at-ishikawa/sonnik/internal/report"
)

const (
	helpText = "Доступные команды:\n" +
		"/analyze - проанализировать сон\n" +
		"/interpret - интерпретация символа\n" +
		"/stats - статистика\n" +
		"/cancel - отменить текущую операцию\n" +
		"Просто нажми /analyze и опиши свой сон, когда я попрошу."

	AnalyzePromptMessage   = "💭 Пожалуйста, опиши свой сон как можно подробнее:"
	InterpretPromptMessage = "🔮 Какой символ из сна ты хочешь интерпретировать?"
	CancelMessage          = "Операция отменена."
	UsageMessage           = "Чтобы проанализировать сон, отправь /analyze. Список команд: /help"
	NotFoundMessage        = "Интерпретация не найдена."
	AnalyzeErrorMessage    = "Произошла ошибка при анализе сна. Пожалуйста, попробуй позже."
	InterpretErrorMessage  = "Произошла ошибка при поиске интерпретации. Пожалуйста, попробуй позже."
	GenericErrorMessage    = "Произошла ошибка. Пожалуйста, попробуй позже."
	EmptySymbolMessage     = "Не понял, какой символ интерпретировать. Попробуй ещё раз: /interpret"
)

func greetingMessage(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "друг"
	}
	return fmt.Sprintf("Привет, %s! Я бот для анализа снов.\n%s", name, helpText)
}

func helpMessage() string {
	return helpText
}

func unknownCommandMessage() string {
	return "Неизвестная команда.\n" + helpText
}

func symbolMessage(symbol, text string) string {
	return report.Truncate(fmt.Sprintf("🔮 %s:\n%s", report.Capitalize(symbol), text), report.DefaultMaxLength)
}

func statsMessage(stats interpretation.Stats) string {
	var sb strings.Builder
	sb.WriteString("📊 Статистика снов:\n")
	fmt.Fprintf(&sb, "Сохранено интерпретаций: %d\n", stats.Records)
	fmt.Fprintf(&sb, "Пользователей: %d\n", stats.Requesters)
	if len(stats.TopTerms) == 0 {
		sb.WriteString("Частые символы: пока нет")
		return sb.String()
	}

	terms := make([]string, 0, len(stats.TopTerms))
	for _, tc := range stats.TopTerms {
		terms = append(terms, fmt.Sprintf("%s (%d)", tc.Term, tc.Count))
	}
	sb.WriteString("Частые символы: " + strings.Join(terms, ", "))
	return sb.String()
}
