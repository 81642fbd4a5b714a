package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/pipeline"
	"github.com/matzehuels/shotgrid/pkg/shot"
	"github.com/matzehuels/shotgrid/pkg/source"
)

// Terminal cells are mapped to layout pixels with a fixed metric so that the
// solver sees roughly square pixels.
const (
	cellW = 8.0
	cellH = 16.0

	// panelCols is the width of the shot panel drawn over the right edge.
	panelCols = 28
)

// Viewer styles
var (
	tileStyle     = lipgloss.NewStyle().Foreground(colorGray)
	labelStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	captionStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	titleBarStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	statusStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

type cellKind uint8

const (
	cellPlain cellKind = iota
	cellTile
	cellLabel
	cellSelected
	cellCaption
	cellTitle
	cellPanel
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellTile:     tileStyle,
	cellLabel:    labelStyle,
	cellSelected: selectedStyle,
	cellCaption:  captionStyle,
	cellTitle:    titleBarStyle,
	cellPanel:    statusStyle,
}

// editChangedMsg carries a reloaded edit after its file changed on disk.
type editChangedMsg struct {
	edit *shot.Edit
	err  error
}

// =============================================================================
// viewModel - Interactive layout viewer
// =============================================================================

// viewModel is the bubbletea model of the interactive viewer. It keeps a
// live layout state and only solves again when the terminal size, the
// grouping or the edit changes.
type viewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	opts   pipeline.Options

	edit    *shot.Edit
	path    string
	changes <-chan source.Change

	state    *layout.State
	snap     layout.Snapshot
	criteria []string
	critIdx  int
	selected int
	panel    bool

	cols, rows int
	err        error
}

func newViewModel(ctx context.Context, runner *pipeline.Runner, e *shot.Edit, opts pipeline.Options) *viewModel {
	m := &viewModel{
		ctx:      ctx,
		runner:   runner,
		opts:     opts,
		edit:     e,
		state:    &layout.State{},
		selected: -1,
	}
	// The title row and the panel are drawn over the host area.
	m.opts.Header = cellH
	m.opts.Left, m.opts.Right, m.opts.Overlap = 0, 0, true
	m.criteria = groupingCriteria(e)
	want := opts.GroupBy
	if idx := e.FindProp(want); idx >= 0 {
		want = e.Props[idx].ID
	}
	for i, c := range m.criteria {
		if c == want {
			m.critIdx = i
		}
	}
	return m
}

// groupingCriteria lists the criteria the edit can be grouped by.
func groupingCriteria(e *shot.Edit) []string {
	out := []string{shot.SceneKey}
	for _, p := range e.Props {
		if _, err := shot.ResolveCriterion(e, p.ID); err == nil {
			out = append(out, p.ID)
		}
	}
	return out
}

func (m *viewModel) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the file watcher and reloads the edit.
func (m *viewModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		e, err := m.runner.Load(m.ctx, pipeline.Options{Path: m.path})
		return editChangedMsg{edit: e, err: err}
	}
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.relayout()
	case editChangedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.edit = msg.edit
			m.criteria = groupingCriteria(msg.edit)
			if m.critIdx >= len(m.criteria) {
				m.critIdx = 0
			}
			if m.selected >= len(m.edit.Shots) {
				m.selected = -1
			}
			m.relayout()
		}
		return m, m.waitForChange()
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "g":
			m.opts.Grouped = !m.opts.Grouped
			m.relayout()
		case "t":
			m.critIdx = (m.critIdx + 1) % len(m.criteria)
			m.opts.Grouped = true
			m.relayout()
		case "u":
			m.opts.Unassigned = !m.opts.Unassigned
			m.relayout()
		case "p":
			m.panel = !m.panel
			m.relayout()
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case "up", "k":
			m.move(0, 1)
		case "down", "j":
			m.move(0, -1)
		}
	}
	return m, nil
}

// relayout syncs the layout state with the terminal geometry.
func (m *viewModel) relayout() {
	if m.cols <= 0 || m.rows <= 1 {
		return
	}
	m.opts.Width = float64(m.cols) * cellW
	m.opts.Height = float64(m.rows-1) * cellH
	m.opts.Right = 0
	if m.panel {
		m.opts.Right = panelCols * cellW
	}
	m.opts.GroupBy = m.criteria[m.critIdx]
	snap, err := m.runner.Sync(m.ctx, m.state, m.edit, m.opts)
	if err != nil {
		m.err = err
		return
	}
	m.snap = snap
}

// toLayout returns the layout point at the center of a terminal cell. Layout
// space grows upward from the bottom of the host area.
func (m *viewModel) toLayout(x, y int) layout.Point {
	return layout.Point{X: (float64(x) + 0.5) * cellW, Y: m.opts.Height - (float64(y)+0.5)*cellH}
}

// click selects the shot under a terminal cell. Clicks outside the draw
// region, on the title row or the panel, are ignored; whitespace inside it
// clears the selection.
func (m *viewModel) click(x, y int) {
	p := m.toLayout(x, y)
	if !m.snap.InRegion(p) {
		return
	}
	if pl, ok := m.snap.At(p); ok {
		m.selected = pl.Shot
	} else {
		m.selected = -1
	}
}

// move selects the nearest placement in the layout direction (dx, dy).
func (m *viewModel) move(dx, dy float64) {
	if len(m.snap.Placements) == 0 {
		return
	}
	cur := m.snap.PlacementsOf(m.selected)
	if len(cur) == 0 {
		m.selected = m.snap.Placements[0].Shot
		return
	}
	from := center(cur[0].Rect(m.snap.Size))

	best, bestScore := -1, math.Inf(1)
	for i, pl := range m.snap.Placements {
		c := center(pl.Rect(m.snap.Size))
		along := (c.X-from.X)*dx + (c.Y-from.Y)*dy
		if along <= 0.5 {
			continue
		}
		across := math.Abs((c.X-from.X)*dy) + math.Abs((c.Y-from.Y)*dx)
		if score := along + 2*across; score < bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		m.selected = m.snap.Placements[best].Shot
	}
}

func center(r layout.Rect) layout.Point {
	return layout.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// =============================================================================
// Drawing
// =============================================================================

// canvas is a grid of runes with a style per cell. Rects given to it are in
// layout space and flipped so that row 0 is the top of the host area.
type canvas struct {
	cols, rows int
	runes      [][]rune
	kinds      [][]cellKind
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, runes: make([][]rune, rows), kinds: make([][]cellKind, rows)}
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", cols))
		c.kinds[y] = make([]cellKind, cols)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, k cellKind) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.runes[y][x] = r
	c.kinds[y][x] = k
}

func (c *canvas) text(x, y, n int, s string, k cellKind) int {
	i := 0
	for _, r := range s {
		if i >= n {
			break
		}
		c.set(x+i, y, r, k)
		i++
	}
	return i
}

// box draws a placement. Tiles too small for a border show only their label.
func (c *canvas) box(r layout.Rect, label string, k cellKind) {
	top := c.height() - (r.Y + r.H)
	x0 := int(math.Round(r.X / cellW))
	y0 := int(math.Round(top / cellH))
	x1 := int(math.Round((r.X+r.W)/cellW)) - 1
	y1 := int(math.Round((top+r.H)/cellH)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	border := cellTile
	if k == cellSelected {
		border = cellSelected
	}
	if y1-y0 < 2 || x1-x0 < 3 {
		c.text(x0, y0, x1-x0+1, label, k)
		return
	}
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', border)
		c.set(x, y1, '─', border)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', border)
		c.set(x1, y, '│', border)
	}
	c.set(x0, y0, '┌', border)
	c.set(x1, y0, '┐', border)
	c.set(x0, y1, '└', border)
	c.set(x1, y1, '┘', border)
	c.text(x0+1, y0+(y1-y0)/2, x1-x0-1, label, k)
}

// height is the canvas height in layout pixels.
func (c *canvas) height() float64 {
	return float64(c.rows) * cellH
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := range c.runes {
		start := 0
		for x := 1; x <= c.cols; x++ {
			if x < c.cols && c.kinds[y][x] == c.kinds[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if st, ok := cellStyles[c.kinds[y][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		if y < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *viewModel) View() string {
	if m.cols <= 0 || m.rows <= 1 {
		return ""
	}
	c := newCanvas(m.cols, m.rows-1)
	name, mode := m.title()
	w := c.text(0, 0, m.cols, name, cellTitle)
	c.text(w, 0, m.cols-w, "  "+mode, cellPlain)

	switch m.snap.Status {
	case layout.StatusOK:
		for _, g := range m.snap.Groups {
			// Captions sit on the bottom row of the header band.
			y := int(math.Round((c.height()-g.Header.Y)/cellH)) - 1
			x := int(math.Round(g.Header.X / cellW))
			c.text(x, y, m.regionCols()-x, g.Caption, cellCaption)
		}
		for _, pl := range m.snap.Placements {
			k := cellLabel
			if pl.Shot == m.selected {
				k = cellSelected
			}
			c.box(pl.Rect(m.snap.Size), m.edit.Shots[pl.Shot].Name, k)
		}
	default:
		msg := fmt.Sprintf("nothing to show: %s", m.snap.Status)
		c.text(2, 2, m.cols-2, msg, cellCaption)
	}
	if m.panel {
		m.drawPanel(c)
	}

	return c.String() + "\n" + statusStyle.Render(truncate(m.status(), m.cols))
}

// regionCols is the number of columns left of the panel.
func (m *viewModel) regionCols() int {
	if m.panel {
		return max(0, m.cols-panelCols)
	}
	return m.cols
}

// drawPanel draws the shot panel over the right edge of the canvas.
func (m *viewModel) drawPanel(c *canvas) {
	x0 := m.regionCols()
	for y := 1; y < c.rows; y++ {
		for x := x0; x < m.cols; x++ {
			c.set(x, y, ' ', cellPlain)
		}
		c.set(x0, y, '│', cellPanel)
	}
	w := m.cols - x0 - 2
	y := 2
	line := func(s string, k cellKind) {
		c.text(x0+2, y, w, s, k)
		y++
	}
	if m.selected < 0 || m.selected >= len(m.edit.Shots) {
		line("no shot selected", cellPanel)
		return
	}
	s := m.edit.Shots[m.selected]
	line(s.Name, cellTitle)
	line(shot.Timestamp(s.FrameStart, m.edit.FPS), cellLabel)
	line(fmt.Sprintf("%d frames", s.Duration), cellLabel)
	if idx := m.edit.FindScene(s.SceneID); idx >= 0 {
		line("scene "+m.edit.Scenes[idx].Name, cellLabel)
	}
	y++
	for i := range m.edit.Props {
		p := &m.edit.Props[i]
		line(fmt.Sprintf("%s: %s", p.Name, p.Format(s.Tag(p.ID))), cellPanel)
	}
}

func (m *viewModel) title() (string, string) {
	mode := "ungrouped"
	if m.opts.Grouped {
		mode = "by " + m.criterionName()
		if m.opts.Unassigned {
			mode += " + unassigned"
		}
	}
	name := m.edit.Name
	if name == "" {
		name = m.edit.ID
	}
	return name, fmt.Sprintf("%d shots · %s", len(m.edit.Shots), mode)
}

func (m *viewModel) criterionName() string {
	key := m.criteria[m.critIdx]
	if idx := m.edit.FindProp(key); idx >= 0 {
		return m.edit.Props[idx].Name
	}
	return key
}

func (m *viewModel) status() string {
	if m.err != nil {
		return "error: " + m.err.Error()
	}
	var parts []string
	if m.selected >= 0 && m.selected < len(m.edit.Shots) {
		s := m.edit.Shots[m.selected]
		parts = append(parts, fmt.Sprintf("%s  %s  %df", s.Name, shot.Timestamp(s.FrameStart, m.edit.FPS), s.Duration))
	}
	if m.snap.Grouped && !m.snap.Converged {
		parts = append(parts, "not converged")
	}
	parts = append(parts, "←↑↓→ select  g group  t criterion  u unassigned  p panel  q quit")
	return strings.Join(parts, "  │  ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
