package services

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/shopspring/decimal"
)

//go:embed advisor_templates.toml
var advisorTemplatesTOML string

type advisorTemplateFile struct {
	Currency       string            `toml:"currency"`
	NoTransactions string            `toml:"no_transactions"`
	Help           string            `toml:"help"`
	Answers        map[string]string `toml:"answers"`
	Advice         map[string]string `toml:"advice"`
	Fallback       map[string]string `toml:"fallback"`
}

// advisorTemplates is the parsed template set. Keys are "answers.<intent>",
// "advice.<topic>", "fallback.<kind>", "help" and "no_transactions".
type advisorTemplates struct {
	currency  string
	templates map[string]*template.Template
}

func loadAdvisorTemplates(raw string) (*advisorTemplates, error) {
	var file advisorTemplateFile
	if _, err := toml.Decode(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode advisor templates: %w", err)
	}

	t := &advisorTemplates{currency: file.Currency, templates: make(map[string]*template.Template)}
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return utils.FormatMoney(t.currency, d) },
	}

	sources := map[string]string{
		"help":            file.Help,
		"no_transactions": file.NoTransactions,
	}
	for section, entries := range map[string]map[string]string{"answers": file.Answers, "advice": file.Advice, "fallback": file.Fallback} {
		for name, text := range entries {
			sources[section+"."+name] = text
		}
	}
	for name, text := range sources {
		tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse advisor template %s: %w", name, err)
		}
		t.templates[name] = tmpl
	}
	return t, nil
}

func (t *advisorTemplates) render(name string, data any) (string, error) {
	tmpl, ok := t.templates[name]
	if !ok {
		return "", fmt.Errorf("advisor template %s is not defined", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render advisor template %s: %w", name, err)
	}
	return sb.String(), nil
}

func (t *advisorTemplates) money(d decimal.Decimal) string {
	return utils.FormatMoney(t.currency, d)
}

var defaultAdvisorTemplates = mustLoadAdvisorTemplates()

func mustLoadAdvisorTemplates() *advisorTemplates {
	t, err := loadAdvisorTemplates(advisorTemplatesTOML)
	if err != nil {
		panic(err)
	}
	return t
}
