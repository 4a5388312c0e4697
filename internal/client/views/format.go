package views

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/billed/internal/client/models"
)

const isoDate = "2006-01-02"

// shortMonths are French month abbreviations cut to three letters.
var shortMonths = [12]string{"Jan", "Fév", "Mar", "Avr", "Mai", "Jui", "Jui", "Aoû", "Sep", "Oct", "Nov", "Déc"}

// FormatDate turns an ISO date into the short French form used in the bills
// list: "2004-04-04" becomes "4 Avr. 04".
func FormatDate(iso string) (string, error) {
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		return "", fmt.Errorf("format date %q: %w", iso, err)
	}
	return fmt.Sprintf("%d %s. %02d", t.Day(), shortMonths[t.Month()-1], t.Year()%100), nil
}

// FormatStatus returns the label shown for a bill status. Unknown statuses
// are shown as received.
func FormatStatus(s models.Status) string {
	switch s {
	case models.StatusPending:
		return "En attente"
	case models.StatusAccepted:
		return "Accepté"
	case models.StatusRefused:
		return "Refused"
	}
	return string(s)
}
