package prompts

import _ "embed"

//go:embed billing/message.md.tmpl
var BillingMessageTemplate string

//go:embed lesson/suggestion.md.tmpl
var LessonSuggestionTemplate string
