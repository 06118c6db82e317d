package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

// Sender is the part of the Telegram API the menus use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const mainMenuText = `🩺 *Vitals Tracker*

Log blood pressure, oxygen, blood sugar and urine output, and get alerts and trend insights.

⚠️ *Important:* this is reference information only, always consult your doctor!

Choose an action:`

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, mainMenuText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

var metricTitles = []struct {
	key   string
	title string
}{
	{domain.MetricBloodPressure, "Blood pressure"},
	{domain.MetricOxygenLevel, "Oxygen"},
	{domain.MetricBloodSugar, "Blood sugar"},
}

var trendArrows = map[domain.Trend]string{
	domain.TrendIncreasing: "↗",
	domain.TrendDecreasing: "↘",
	domain.TrendStable:     "→",
}

// FormatInsights renders a summary as plain text.
func FormatInsights(summary *domain.InsightSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Insights for the last %d days\n\n", summary.WindowDays)
	fmt.Fprintf(&b, "Readings: %d over %d days (%.1f per day)\n",
		summary.Summary.TotalReadings, summary.Summary.DaysTracked, summary.Summary.AverageReadingsPerDay)

	if len(summary.Trends) > 0 {
		b.WriteString("\n")
	}
	for _, m := range metricTitles {
		trend, ok := summary.Trends[m.key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s %s: %s, %s (%s)\n", trendArrows[trend.Trend], m.title, trend.Average, trend.Status, trend.Trend)
	}

	if len(summary.Recommendations) > 0 {
		b.WriteString("\n💡 Recommendations:\n")
		for _, r := range summary.Recommendations {
			fmt.Fprintf(&b, "• %s\n", r)
		}
	}

	if len(summary.Alerts) > 0 {
		b.WriteString("\n⚠️ Recent alerts:\n")
		for _, a := range summary.Alerts {
			fmt.Fprintf(&b, "• %s %s: %s\n", a.Date, a.TimeSlot, a.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatReading renders one reading with its alerts.
func FormatReading(r domain.ReadingWithAlerts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🩺 %s, %s\n", r.Date, r.TimeSlot)
	if domain.Present(r.Systolic) && domain.Present(r.Diastolic) {
		fmt.Fprintf(&b, "Blood pressure: %d/%d mmHg\n", *r.Systolic, *r.Diastolic)
	}
	if domain.Present(r.OxygenLevel) {
		fmt.Fprintf(&b, "Oxygen: %d%%\n", *r.OxygenLevel)
	}
	if domain.Present(r.BloodSugar) {
		fmt.Fprintf(&b, "Blood sugar: %d mg/dL\n", *r.BloodSugar)
	}
	if domain.Present(r.UrineOutput) {
		fmt.Fprintf(&b, "Urine output: %d mL\n", *r.UrineOutput)
	}
	if r.Notes != nil {
		fmt.Fprintf(&b, "Notes: %s\n", *r.Notes)
	}
	if len(r.Alerts) > 0 {
		b.WriteString(FormatAlertList(r.Alerts))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAlertList renders alerts one per line.
func FormatAlertList(alerts []domain.Alert) string {
	var b strings.Builder
	for _, a := range alerts {
		fmt.Fprintf(&b, "%s %s\n", severityIcon(a.Severity), a.Message)
	}
	return b.String()
}

// FormatAlertNotification is what caregivers receive when a reading raises
// alerts.
func FormatAlertNotification(reading domain.Reading, alerts []domain.Alert) string {
	header := fmt.Sprintf("⚠️ Health alert for the %s reading of %s\n", reading.TimeSlot, reading.Date)
	return strings.TrimRight(header+FormatAlertList(alerts), "\n")
}

func severityIcon(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return "🔴"
	case domain.SeverityHigh:
		return "🟠"
	case domain.SeverityModerate:
		return "🟡"
	default:
		return "🔵"
	}
}
