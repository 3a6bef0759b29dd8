package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactPii(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"email", "Contact john.tan@example.com for results", "Contact [EMAIL] for results"},
		{"local phone", "Call 9123 4567 tomorrow", "Call [PHONE] tomorrow"},
		{"international phone", "Phone: +65 9123-4567", "Phone: [PHONE]"},
		{"long phone", "Tel 0123456789", "Tel [PHONE]"},
		{"nric", "NRIC S1234567D on file", "NRIC [NRIC] on file"},
		{"fin", "FIN: G7654321K", "FIN: [NRIC]"},
		{"name line", "Name: John Tan\nAge: 45", "Name: [REDACTED]\nAge: 45"},
		{"patient line", "Patient: Mary Lim", "Name: [REDACTED]"},
		{"markdown name line", "**Patient Name:** Mary Lim", "**Name: [REDACTED]"},
		{"dob", "DOB: 12/03/1985, Male", "DOB: [DOB], Male"},
		{"date of birth", "Date of Birth - 1 January 1980", "Date of Birth - [DOB]"},
		{"dates are kept", "Collected on 2024-01-15", "Collected on 2024-01-15"},
		{"lab values are kept", "LDL 4.1 mmol/L, HbA1c 6.5%", "LDL 4.1 mmol/L, HbA1c 6.5%"},
		{"patient history is kept", "Patient history: diabetes", "Patient history: diabetes"},
		{"landline with dash", "Call the clinic at 6123-4567.", "Call the clinic at [PHONE]."},
		{"labelled mobile", "Mobile no: 8123 4567", "Mobile no: [PHONE]"},
		{"labelled phone in brackets", "Telephone (02) 9876 5432", "Telephone [PHONE]"},
		{
			"ranges years and compact dates are kept",
			"Normal fasting range 3500-5500 is fine; your result 20240115 was drawn in 2023-2024.",
			"Normal fasting range 3500-5500 is fine; your result 20240115 was drawn in 2023-2024.",
		},
		{"reference range is kept", "Reference range 6000-9000 for your count", "Reference range 6000-9000 for your count"},
		{"range with unit is kept", "Aim for 8000-9000 steps daily", "Aim for 8000-9000 steps daily"},
		{"range with percent is kept", "Saturation of 9000-9500 % is odd", "Saturation of 9000-9500 % is odd"},
		{"long identifiers are kept", "Sample ID 912345678901", "Sample ID 912345678901"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedactPii(tt.input))
		})
	}
}
