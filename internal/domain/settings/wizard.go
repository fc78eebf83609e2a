package settings

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Step - состояние мастера настройки.
type Step int

const (
	StepIdle Step = iota
	StepURL
	StepDatabase
	StepUsername
	StepPassword
	StepAIKey
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepURL:
		return "url"
	case StepDatabase:
		return "database"
	case StepUsername:
		return "username"
	case StepPassword:
		return "password"
	case StepAIKey:
		return "ai_key"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

type transition struct {
	prompt string
	rule   string
	secret bool
	assign func(d *Draft, value string)
	next   Step
}

// transitions - линейная таблица переходов: один ответ на шаг.
var transitions = map[Step]transition{
	StepURL: {
		prompt: "Step 1/5: What is your Odoo URL? (e.g., https://company.odoo.com)",
		rule:   "required,http_url",
		assign: func(d *Draft, v string) { d.URL = strings.TrimRight(v, "/") },
		next:   StepDatabase,
	},
	StepDatabase: {
		prompt: "Step 2/5: Database Name?",
		rule:   "required,max=128",
		assign: func(d *Draft, v string) { d.Database = v },
		next:   StepUsername,
	},
	StepUsername: {
		prompt: "Step 3/5: Odoo Username/Email?",
		rule:   "required,max=256",
		assign: func(d *Draft, v string) { d.Username = v },
		next:   StepPassword,
	},
	StepPassword: {
		prompt: "Step 4/5: Odoo API Password?",
		rule:   "required",
		secret: true,
		assign: func(d *Draft, v string) { d.Password = v },
		next:   StepAIKey,
	},
	StepAIKey: {
		prompt: "Step 5/5: Gemini API Key?",
		rule:   "required",
		secret: true,
		assign: func(d *Draft, v string) { d.AIKey = v },
		next:   StepDone,
	},
}

var validate = validator.New()

// Wizard собирает пять ответов в фиксированном порядке.
// Брошенный до конца мастер ничего не сохраняет.
type Wizard struct {
	step  Step
	draft Draft
}

func NewWizard() *Wizard {
	return &Wizard{step: StepURL}
}

func (w *Wizard) Step() Step {
	return w.step
}

// Prompt возвращает вопрос текущего шага, пустую строку после завершения.
func (w *Wizard) Prompt() string {
	return transitions[w.step].prompt
}

// Secret сообщает, что ответ на текущий шаг нельзя показывать на экране.
func (w *Wizard) Secret() bool {
	return transitions[w.step].secret
}

// Submit принимает ответ на текущий шаг. При ошибке валидации шаг не меняется.
func (w *Wizard) Submit(text string) (bool, error) {
	t, ok := transitions[w.step]
	if !ok {
		return w.step == StepDone, fmt.Errorf("%w: wizard is %s", ErrInvalidInput, w.step)
	}

	// в секретах пробелы значимы
	value := strings.TrimRight(text, "\r\n")
	if !t.secret {
		value = strings.TrimSpace(value)
	}
	if err := validate.Var(value, t.rule); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidInput, w.step, err)
	}

	t.assign(&w.draft, value)
	w.step = t.next

	return w.step == StepDone, nil
}

// Draft возвращает собранные ответы только после последнего шага.
func (w *Wizard) Draft() (Draft, error) {
	if w.step != StepDone {
		return Draft{}, ErrWizardNotDone
	}
	return w.draft, nil
}
