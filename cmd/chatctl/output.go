package main

import (
	pbaccount "direct-chat/proto/account"
	pb "direct-chat/proto/chat"
	"fmt"
	"io"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

type printer struct {
	out     io.Writer
	colours bool
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func (p printer) messages(messages []*pb.Message) {
	table := newTable(p.out, []string{"Sent at", "From", "To", "Status", "Text", "ID"})
	for _, m := range messages {
		table.Append([]string{
			m.SentAt.Local().Format(time.DateTime),
			m.SenderId,
			m.ReceiverId,
			p.status(m.Status),
			m.Text,
			m.Id,
		})
	}
	table.Render()
}

func (p printer) users(users []*pbaccount.UserSummary) {
	table := newTable(p.out, []string{"ID", "Name", "Email", "Role"})
	for _, u := range users {
		table.Append([]string{u.Id, u.Name, u.Email, u.Role})
	}
	table.Render()
}

func (p printer) delivery(d *pb.Delivery) {
	from := d.SenderId
	if p.colours {
		from = color.New(color.FgCyan, color.OpBold).Render(from)
	}
	fmt.Fprintf(p.out, "[%s] %s -> %s: %s\n", d.SentAt.Local().Format(time.TimeOnly), from, d.ReceiverId, d.Text)
}

func (p printer) status(s string) string {
	if !p.colours {
		return s
	}
	switch s {
	case "SEEN":
		return color.FgGreen.Render(s)
	case "DELIVERED":
		return color.FgYellow.Render(s)
	default:
		return color.FgGray.Render(s)
	}
}

func (p printer) success(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if p.colours {
		line = color.New(color.FgGreen).Render(line)
	}
	fmt.Fprintln(p.out, line)
}
