package assistant

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/ui"
	"github.com/banca-dev/banca/prompts"
)

var (
	billingTmpl    = template.Must(template.New("billing").Parse(prompts.BillingMessageTemplate))
	suggestionTmpl = template.Must(template.New("suggestion").Parse(prompts.LessonSuggestionTemplate))
)

type billingLine struct {
	Date    string
	Minutes int
	Cost    string
}

// BillingPrompt renders the billing message prompt.
func BillingPrompt(student model.Student, sessions []model.ClassSession, total decimal.Decimal, currency, dateLayout string) (string, error) {
	lines := make([]billingLine, 0, len(sessions))
	for _, s := range sessions {
		lines = append(lines, billingLine{
			Date:    ui.FormatDate(dateLayout, s.Date),
			Minutes: s.DurationMinutes,
			Cost:    ui.FormatMoney(currency, s.Cost),
		})
	}

	var sb strings.Builder
	err := billingTmpl.Execute(&sb, map[string]any{
		"Student": student.Name,
		"Lessons": lines,
		"Total":   ui.FormatMoney(currency, total),
	})
	if err != nil {
		return "", fmt.Errorf("render billing prompt: %w", err)
	}
	return sb.String(), nil
}

// SuggestionPrompt renders the lesson suggestion prompt.
func SuggestionPrompt(student model.Student, previousNote string) (string, error) {
	var sb strings.Builder
	err := suggestionTmpl.Execute(&sb, map[string]any{
		"Student":      student.Name,
		"Subject":      student.Subject,
		"PreviousNote": previousNote,
	})
	if err != nil {
		return "", fmt.Errorf("render suggestion prompt: %w", err)
	}
	return sb.String(), nil
}
