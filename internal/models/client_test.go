package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gestorvip/fila/internal/models"
)

func TestStatus_Valid(t *testing.T) {
	assert.True(t, models.StatusPending.Valid())
	assert.True(t, models.StatusCalled.Valid())
	assert.False(t, models.Status("").Valid())
	assert.False(t, models.Status("done").Valid())
}

func TestDigits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "formatted phone", input: "(11) 98888-7777", expected: "11988887777"},
		{name: "international prefix", input: "+55 11 98888-7777", expected: "5511988887777"},
		{name: "digits only", input: "11988887777", expected: "11988887777"},
		{name: "no digits", input: "abc", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.Digits(tt.input))
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	assert.Equal(t, models.DefaultWhatsappMessage, models.DefaultSettings().WhatsappMessage)
}
