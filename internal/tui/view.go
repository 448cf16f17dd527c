package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/boothworks/voterscan/internal/model"
	"github.com/boothworks/voterscan/internal/session"
	"github.com/boothworks/voterscan/internal/virtual"
)

const voterRowHeight = 1

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	userMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// chromeLines is everything on screen besides the voter table: title,
// tabs, document line, search box frame, table header and status line.
const chromeLines = 9

// View renders the active tab.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Voter List Scanner"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderDocumentLine())
	b.WriteString("\n")

	if m.uploading {
		b.WriteString(boxStyle.Render(m.pathInput.View()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Enter to upload, Esc to cancel"))
		b.WriteString("\n")
		return b.String()
	}

	if m.sess.ActiveView == model.ViewChat {
		b.WriteString(m.renderChat())
	} else {
		b.WriteString(m.renderData())
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	return b.String()
}

func (m Model) renderTabs() string {
	data := tabStyle.Render(" Data ")
	chat := tabStyle.Render(" Chat ")
	if m.sess.ActiveView == model.ViewChat {
		chat = activeTabStyle.Render(" Chat ")
	} else {
		data = activeTabStyle.Render(" Data ")
	}
	return data + "|" + chat
}

func (m Model) renderDocumentLine() string {
	switch m.sess.Stage {
	case session.StageEmpty:
		return dimStyle.Render("No document. Ctrl+O to upload a scanned page.")
	case session.StageReady:
		return fmt.Sprintf("%s  %s", m.sess.Document.Name, dimStyle.Render("uploaded, Ctrl+X to extract"))
	case session.StageExtracting:
		return fmt.Sprintf("%s  %s", m.sess.Document.Name, dimStyle.Render("extracting..."))
	case session.StageFailed:
		return fmt.Sprintf("%s  %s", m.sess.Document.Name, errorStyle.Render(m.sess.LastError))
	default:
		return fmt.Sprintf("%s  %s", m.sess.Document.Name, dimStyle.Render(m.extractedSummary()))
	}
}

func (m Model) extractedSummary() string {
	rs := m.sess.Records
	return fmt.Sprintf("part %d, %s, %d voters",
		rs.PollingStationInfo.PartNumber,
		rs.ConstituencyInfo.Assembly.Name,
		len(rs.Voters),
	)
}

func (m Model) renderData() string {
	var b strings.Builder
	b.WriteString(boxStyle.Render(m.searchInput.View()))
	b.WriteString("\n")

	if m.sess.Records == nil {
		b.WriteString(dimStyle.Render("No extracted records yet."))
		return b.String()
	}

	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-6s %-12s %-24s %-20s %-8s %-6s %-3s %-6s",
		"Sl.No", "Voter ID", "Name", "Relation", "Type", "House", "Age", "Gender")))
	b.WriteString("\n")

	n := len(m.filtered)
	if n == 0 {
		b.WriteString(dimStyle.Render("No voters match."))
		return b.String()
	}

	w := virtual.Window(n, voterRowHeight, m.tableHeight(), m.scroll, m.overscan)
	visibleTop := m.scroll / voterRowHeight
	visibleBottom := visibleTop + m.tableHeight() - 1

	for i := w.Lo; i <= w.Hi; i++ {
		// Overscan rows exist in the window for smooth scrolling but
		// only the visible slice is printed.
		if i < visibleTop || i > visibleBottom {
			continue
		}
		v := m.filtered[i]
		b.WriteString(fmt.Sprintf("%-6s %-12s %-24s %-20s %-8s %-6s %3d %-6s",
			v.SerialNumber, v.VoterID, truncate(v.Name, 24), truncate(v.RelationName, 20),
			v.RelationType, v.HouseNumber, v.Age, v.Gender))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d voters, rows %d-%d", n, len(m.sess.Records.Voters), w.Lo+1, w.Hi+1)))
	return b.String()
}

func (m Model) renderChat() string {
	var b strings.Builder
	if len(m.sess.ChatLog) == 0 {
		b.WriteString(dimStyle.Render("Extract a document to start the conversation."))
		b.WriteString("\n")
	}
	for _, msg := range m.sess.ChatLog {
		if msg.Role == model.RoleUser {
			b.WriteString(userMsgStyle.Render("you: " + msg.Text))
		} else {
			b.WriteString("assistant: " + msg.Text)
		}
		b.WriteString("\n")
		for _, v := range msg.Voters {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %s  %s  %s  age %d", v.SerialNumber, v.VoterID, v.Name, v.Age)))
			b.WriteString("\n")
		}
	}
	b.WriteString(boxStyle.Render(m.chatInput.View()))
	return b.String()
}

// tableHeight is the number of voter rows that fit on screen.
func (m Model) tableHeight() int {
	h := m.height - chromeLines
	if h < 3 {
		return 3
	}
	return h
}

func (m Model) maxScroll() int {
	return virtual.MaxScroll(len(m.filtered), voterRowHeight, m.tableHeight())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
