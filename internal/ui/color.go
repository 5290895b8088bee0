package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	updStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trkStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	delStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func UpdLine(w io.Writer, path string) {
	fmt.Fprintln(w, updStyle.Render("upd")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

// ErrLine reports a file that is tracked but not a valid recipe.
func ErrLine(w io.Writer, path string, msg string) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path+"  "+faintStyle.Render(msg))
}

func DelLine(w io.Writer, path string) {
	fmt.Fprintln(w, delStyle.Render("del")+"  "+path)
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "synced %d files\n", count)
}

// ListRow prints one indexed recipe, padding the id, file and title
// columns to the given widths.
func ListRow(w io.Writer, id int64, fileName, title string, tags []string, idWidth, fileWidth, titleWidth int) {
	idStr := fmt.Sprintf("%-*s", idWidth, fmt.Sprintf("#%d", id))
	fileStr := fmt.Sprintf("%-*s", fileWidth, fileName)
	titleStr := fmt.Sprintf("%-*s", titleWidth, title)
	line := idStyle.Render(idStr) + "  " + faintStyle.Render(fileStr) + "  " + titleStr
	if len(tags) > 0 {
		line += "  " + tagStyle.Render(strings.Join(tags, ", "))
	}
	fmt.Fprintln(w, strings.TrimRight(line, " "))
}

// TagRow prints a tag with the number of recipes carrying it.
func TagRow(w io.Writer, name string, count, nameWidth int) {
	fmt.Fprintf(w, "%s  %d\n", tagStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)), count)
}
