package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/nlcemu/internal/emulator"
)

// Browser is a bubbletea model for paging through an NLC matrix: one
// redshift at a time, with a wavenumber cursor.
type Browser struct {
	title  string
	m      *emulator.NLCMatrix
	iz, ik int
	width  int
	height int
}

func NewBrowser(title string, m *emulator.NLCMatrix) Browser {
	return Browser{title: title, m: m, width: 80, height: 24}
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	case tea.KeyMsg:
		nz, nk := len(b.m.Redshifts), len(b.m.Wavenumbers)
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return b, tea.Quit
		case "up", "k":
			b.iz = max(b.iz-1, 0)
		case "down", "j":
			b.iz = min(b.iz+1, max(nz-1, 0))
		case "left", "h":
			b.ik = max(b.ik-1, 0)
		case "right", "l":
			b.ik = min(b.ik+1, max(nk-1, 0))
		case "home", "g":
			b.ik = 0
		case "end", "G":
			b.ik = max(nk-1, 0)
		}
	}
	return b, nil
}

// Cursor is the selected (redshift, wavenumber) index pair.
func (b Browser) Cursor() (iz, ik int) { return b.iz, b.ik }

func (b Browser) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(b.title))
	s.WriteString("\n\n")

	if b.m.Empty() {
		s.WriteString(Subtle.Render("empty matrix"))
		s.WriteString("\n\n")
		s.WriteString(KeyHint.Render("q quit"))
		return s.String()
	}

	row := b.m.Row(b.iz)
	z, k, v := b.m.Redshifts[b.iz], b.m.Wavenumbers[b.ik], row[b.ik]
	step := ""
	if b.iz < len(b.m.Steps) {
		step = fmt.Sprintf("  %s %s", Label.Render("step"), Value.Render(fmt.Sprintf("%.3f", b.m.Steps[b.iz])))
	}
	fmt.Fprintf(&s, "%s %s%s  %s %s  %s %s\n\n",
		Label.Render("z"), Value.Render(fmt.Sprintf("%g", z)), step,
		Label.Render("k"), Value.Render(fmt.Sprintf("%.4g", k)),
		Label.Render("NLC"), Selected.Render(fmt.Sprintf("%.6f", v)))

	width := max(b.width-12, 20)
	height := max(b.height-14, 5)
	single := &emulator.NLCMatrix{
		Redshifts:   []float64{z},
		Wavenumbers: b.m.Wavenumbers,
		Values:      [][]float64{row},
	}
	s.WriteString(PlotNLC(single, width, height))
	s.WriteString("\n\n")

	spark := Sparkline(b.m.Column(b.ik), min(len(b.m.Redshifts), width))
	fmt.Fprintf(&s, "%s %s\n\n", Label.Render("NLC(z) at this k"), spark)

	s.WriteString(KeyHint.Render(fmt.Sprintf("↑/↓ redshift %d/%d  ←/→ wavenumber %d/%d  q quit",
		b.iz+1, len(b.m.Redshifts), b.ik+1, len(b.m.Wavenumbers))))
	return Panel.Render(s.String())
}

// Browse runs the browser full-screen until the user quits.
func Browse(title string, m *emulator.NLCMatrix) error {
	_, err := tea.NewProgram(NewBrowser(title, m), tea.WithAltScreen()).Run()
	return err
}
