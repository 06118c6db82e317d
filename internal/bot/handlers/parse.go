package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/utils"
)

const readingFormatHelp = `Send the values separated by spaces, for example:
120/80 o2=97 sugar=110 urine=1500 slot=morning

Keys: bp (or S/D), o2, sugar, urine, slot, date (YYYY-MM-DD), note.
Date defaults to today and slot to the time of day.`

// ParseReading turns a chat message into a submission. Only the syntax is
// checked here; value rules are applied when the reading is recorded.
func ParseReading(text string, now time.Time) (domain.NewReading, error) {
	in := domain.NewReading{
		Date:     utils.FormatDay(now),
		TimeSlot: timeSlotAt(now),
	}

	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == ',' || r == '\n' || r == '\t' })
	if len(fields) == 0 {
		return in, fmt.Errorf("empty reading")
	}

	for _, field := range fields {
		key, value, hasKey := strings.Cut(field, "=")
		if !hasKey {
			key, value = "bp", field
		}
		key = strings.ToLower(key)

		switch key {
		case "bp":
			sys, dia, err := parseBloodPressure(value)
			if err != nil {
				return in, err
			}
			in.Systolic, in.Diastolic = &sys, &dia
		case "o2", "oxygen", "spo2":
			v, err := parseInt(key, value)
			if err != nil {
				return in, err
			}
			in.OxygenLevel = &v
		case "sugar", "bs", "glucose":
			v, err := parseInt(key, value)
			if err != nil {
				return in, err
			}
			in.BloodSugar = &v
		case "urine":
			v, err := parseInt(key, value)
			if err != nil {
				return in, err
			}
			in.UrineOutput = &v
		case "slot":
			in.TimeSlot = value
		case "date":
			in.Date = value
		case "note", "notes":
			note := value
			in.Notes = &note
		default:
			return in, fmt.Errorf("unknown value %q", field)
		}
	}
	return in, nil
}

func parseBloodPressure(value string) (int, int, error) {
	s, d, ok := strings.Cut(value, "/")
	if !ok {
		return 0, 0, fmt.Errorf("blood pressure must look like 120/80, got %q", value)
	}
	sys, err := parseInt("systolic", s)
	if err != nil {
		return 0, 0, err
	}
	dia, err := parseInt("diastolic", d)
	if err != nil {
		return 0, 0, err
	}
	return sys, dia, nil
}

func parseInt(name, value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", name, value)
	}
	return v, nil
}

func timeSlotAt(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 22:
		return "evening"
	default:
		return "night"
	}
}

// parseWindowDays accepts a positive number of days.
func parseWindowDays(text string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("enter a positive number of days, for example 14")
	}
	return days, nil
}
