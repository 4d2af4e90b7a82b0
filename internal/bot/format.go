package bot

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencyPrinter = message.NewPrinter(language.English)

// formatCurrency renders an amount with digit grouping, e.g.
// "1,500,000 VNĐ".
func formatCurrency(amount int64) string {
	return currencyPrinter.Sprintf("%d VNĐ", amount)
}

// progressBar renders a ten-slot bar where each filled slot stands for
// five percent.
func progressBar(percentage float64) string {
	filled := int(percentage / 5)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	bar := ""
	for i := 0; i < 10; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func percentOf(amount, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(amount) / float64(total) * 100
}
