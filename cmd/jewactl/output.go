package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/services"
)

func formatTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("2006-01-02 15:04")
}

func printVisitorBoard(w io.Writer, board services.VisitorBoard) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	sections := []struct {
		title   string
		entries []models.VisitorEntry
	}{
		{"PENDING", board.Pending},
		{"ACTIVE", board.Active},
		{"RESOLVED", board.Resolved},
	}
	for _, section := range sections {
		fmt.Fprintf(tw, "%s (%d)\n", section.title, len(section.entries))
		for _, v := range section.entries {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\tOTP %s (%s)\t%s\n",
				v.ID, v.Name, v.Phone, v.ModeOfEntry, v.Status, v.OTP, v.OTPStatus, formatTime(v.CreatedAt))
		}
	}
	return tw.Flush()
}

func printDeliveryBoard(w io.Writer, board services.DeliveryBoard) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	sections := []struct {
		title   string
		entries []models.DeliveryEntry
	}{
		{"PENDING", board.Pending},
		{"ACTIVE", board.Active},
		{"RESOLVED", board.Resolved},
	}
	for _, section := range sections {
		fmt.Fprintf(tw, "%s (%d)\n", section.title, len(section.entries))
		for _, d := range section.entries {
			fmt.Fprintf(tw, "  %d\tnotif %d\t%s\t%s\t%s\t%s\n",
				d.ID, d.NotificationID, d.Name, d.Company, d.Status, formatTime(d.CreatedAt))
		}
	}
	return tw.Flush()
}
