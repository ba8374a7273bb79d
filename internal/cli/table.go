package cli

import (
	"fmt"
	"text/tabwriter"

	"jobtrack.local/internal/domain"
)

func (m *Menu) printApplications(apps []domain.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(m.out, "\nNo applications found.")
		return
	}

	fmt.Fprintf(m.out, "\n--- Applications (%d found) ---\n", len(apps))
	tw := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	if m.variant == Relational {
		fmt.Fprintln(tw, "ID\tCompany\tPosition\tDate Applied\tStatus\tLast Updated")
	} else {
		fmt.Fprintln(tw, "ID\tCompany\tPosition\tDate Applied\tStatus")
	}
	loc := m.now().Location()
	for _, a := range apps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s", a.ID, a.CompanyName, a.PositionTitle, a.DateApplied.In(loc).Format(domain.DateLayout), a.Status)
		if m.variant == Relational {
			updated := "N/A"
			if a.LastUpdated != nil {
				updated = a.LastUpdated.In(loc).Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "\t%s", updated)
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

func (m *Menu) printStatuses() {
	fmt.Fprintln(m.out, "\nAvailable statuses:")
	for i, s := range domain.KnownStatuses {
		fmt.Fprintf(m.out, "  %d. %s\n", i+1, s)
	}
}
