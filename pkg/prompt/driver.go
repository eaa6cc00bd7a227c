package prompt

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes a free-text prompt.
type InputConfig struct {
	Message string
	Help    string
	Default string
	Secret  bool
}

// ConfirmConfig describes a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Help    string
	Default bool
}

// SelectConfig describes a single-choice prompt.
type SelectConfig struct {
	Message string
	Help    string
	Options []string
	Default string
}

// Driver abstracts the terminal interaction so sessions can run against a
// scripted fake in tests.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (string, error)
}

// ErrInterrupted reports that the user aborted the session.
var ErrInterrupted = errors.New("prompt: interrupted")

type surveyDriver struct{}

func newSurveyDriver() Driver { return &surveyDriver{} }

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	var err error
	if cfg.Secret {
		prompt := &survey.Password{Message: cfg.Message, Help: cfg.Help}
		err = survey.AskOne(prompt, &out)
	} else {
		prompt := &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}
		err = survey.AskOne(prompt, &out)
	}
	return out, translate(err)
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}
	err := survey.AskOne(prompt, &out)
	return out, translate(err)
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help}
	if cfg.Default != "" {
		prompt.Default = cfg.Default
	}
	err := survey.AskOne(prompt, &out)
	return out, translate(err)
}

func translate(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}
