package viewz

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

// hueStep is the hue rotation in degrees of one color picker adjustment.
const hueStep = 15

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F5E0DC"))
	crumbStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F849C"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// postMsg carries a callback posted from a worker goroutine.
type postMsg func()

// Browser is the interactive terminal host. It owns the renderer and the
// navigation stack and rebuilds the visible screen after every message.
type Browser struct {
	r       *Renderer
	stack   *Stack
	painter *Painter
	keys    KeyMap
	help    help.Model
	input   textinput.Model
	spin    spinner.Model
	posts   chan func()
	cancel  context.CancelFunc

	// Photos is the library the photo picker cycles through.
	Photos []*PhotoItem

	width, height int
	editing       bool
	searching     bool
	searchFrom    int
	status        string
}

// NewBrowser creates a browser showing produce under title.
func NewBrowser(r *Renderer, title string, produce func() any) *Browser {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Browser{
		r:       r,
		painter: NewPainter(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   textinput.New(),
		spin:    spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		posts:   make(chan func(), 64),
		cancel:  cancel,
		width:   80,
	}
	b.input.Prompt = ""
	r.Context(ctx).Post(func(fn func()) { b.posts <- fn })
	b.stack = NewStack(title, func() *Node { return r.RenderRoot(produce) })
	b.refresh()
	return b
}

// Painter returns the painter, for configuration before the program starts.
func (b *Browser) Painter() *Painter {
	return b.painter
}

// Stack returns the navigation stack.
func (b *Browser) Stack() *Stack {
	return b.stack
}

// Post returns the function the renderer uses to marshal callbacks onto the
// browser's goroutine. Actions bound with Perform should use it too.
func (b *Browser) Post() func(func()) {
	return func(fn func()) { b.posts <- fn }
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return tea.Batch(b.waitPost(), b.spin.Tick)
}

func (b *Browser) waitPost() tea.Cmd {
	return func() tea.Msg {
		return postMsg(<-b.posts)
	}
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.help.Width = msg.Width
	case postMsg:
		msg()
		cmds = append(cmds, b.waitPost())
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spin, cmd = b.spin.Update(msg)
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		switch {
		case b.editing:
			cmds = append(cmds, b.updateEdit(msg))
		case b.searching:
			cmds = append(cmds, b.updateSearch(msg))
		default:
			if quit := b.handleKey(msg); quit {
				b.Close()
				return b, tea.Quit
			}
		}
	}
	b.refresh()
	return b, tea.Batch(cmds...)
}

func (b *Browser) handleKey(msg tea.KeyMsg) (quit bool) {
	top := b.stack.Top()
	b.status = ""
	switch {
	case key.Matches(msg, b.keys.Quit):
		return true
	case key.Matches(msg, b.keys.Up):
		top.MoveFocus(-1)
	case key.Matches(msg, b.keys.Down):
		top.MoveFocus(1)
	case key.Matches(msg, b.keys.PageUp):
		top.ScrollBy(-max(b.viewHeight()/2, 1))
	case key.Matches(msg, b.keys.PageDown):
		top.ScrollBy(max(b.viewHeight()/2, 1))
	case key.Matches(msg, b.keys.Left):
		b.adjust(top.Focused(), -1)
	case key.Matches(msg, b.keys.Right):
		b.adjust(top.Focused(), 1)
	case key.Matches(msg, b.keys.Activate):
		b.activate(top.Focused())
	case key.Matches(msg, b.keys.Back):
		b.stack.Pop()
	case key.Matches(msg, b.keys.Search):
		b.searching = true
		b.searchFrom = top.FocusIndex()
		b.startInput("")
	case key.Matches(msg, b.keys.Help):
		b.help.ShowAll = !b.help.ShowAll
	}
	return false
}

// activate performs the primary interaction of the focused node.
func (b *Browser) activate(n *Node) {
	if n == nil {
		return
	}
	if n.Kind == NodeDrill {
		top := b.stack.Top()
		idx := drillIndex(top.Root(), n)
		b.stack.Push(n.Text, LivePath(top.Build, idx, n.Open))
		return
	}
	l := n.Leaf
	switch l.Kind {
	case LeafToggle:
		on, _ := l.Data.(bool)
		b.set(l, !on)
	case LeafButton:
		b.set(l, ActionBeginning)
	case LeafTextField:
		s, _ := l.Data.(string)
		b.startEdit(s)
	case LeafContactEditor:
		name := ""
		if c, _ := l.Data.(*Contact); c != nil {
			name = c.FullName()
		}
		b.startEdit(name)
	case LeafPhotoPicker:
		b.nextPhoto(l)
	default:
		b.adjust(n, 1)
	}
}

// adjust steps the value of an adjustable leaf by delta.
func (b *Browser) adjust(n *Node, delta int) {
	if n == nil || n.Kind != NodeLeaf {
		return
	}
	l := n.Leaf
	switch v := l.Data.(type) {
	case int:
		if l.Kind == LeafStepper {
			b.set(l, v+delta)
		}
	case time.Time:
		b.set(l, v.AddDate(0, 0, delta))
	case Region:
		b.set(l, v.Pan(0, float64(delta)/4))
	case color.RGBA:
		b.set(l, rotateHue(v, float64(delta*hueStep)))
	case bool:
		if l.Kind == LeafToggle {
			b.set(l, delta > 0)
		}
	}
}

func (b *Browser) set(l *Leaf, v any) {
	if l.Set == nil || l.Disabled {
		return
	}
	if !l.Set(v) {
		b.status = fmt.Sprintf("rejected %v", v)
		Logger().Debug("write rejected", zap.Stringer("leaf", l.Kind), zap.Any("value", v))
	}
}

// rotateHue turns c around the HSV color wheel by deg, keeping alpha.
func rotateHue(c color.RGBA, deg float64) color.RGBA {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	h, s, v := cf.Hsv()
	if s == 0 {
		s = 1
	}
	h = math.Mod(h+deg+360, 360)
	r, g, bl := colorful.Hsv(h, s, v).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: c.A}
}

func (b *Browser) nextPhoto(l *Leaf) {
	if len(b.Photos) == 0 {
		b.status = "photo library is empty"
		return
	}
	next := b.Photos[0]
	for i, p := range b.Photos {
		if b.selectedPhoto(l, p) {
			next = b.Photos[(i+1)%len(b.Photos)]
			break
		}
	}
	b.set(l, next)
}

func (b *Browser) selectedPhoto(l *Leaf, p *PhotoItem) bool {
	img, _ := l.Data.(*Image)
	return img != nil && img.Name == p.ID
}

func (b *Browser) startEdit(s string) {
	b.editing = true
	b.startInput(s)
}

func (b *Browser) startInput(s string) {
	b.input.SetValue(s)
	b.input.CursorEnd()
	b.input.Focus()
}

// updateSearch moves focus to the best match as the query is typed.
// Cancelling restores the focus the search started from.
func (b *Browser) updateSearch(msg tea.KeyMsg) tea.Cmd {
	top := b.stack.Top()
	switch {
	case key.Matches(msg, b.keys.Commit):
		b.stopInput()
		return nil
	case key.Matches(msg, b.keys.Cancel):
		top.SetFocus(b.searchFrom)
		b.stopInput()
		return nil
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if q := b.input.Value(); q != "" && top.Root() != nil {
		if hits := Search(top.Root(), q); len(hits) > 0 {
			top.SetFocus(hits[0])
		}
	}
	return cmd
}

func (b *Browser) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keys.Commit):
		b.commitEdit()
		return nil
	case key.Matches(msg, b.keys.Cancel):
		b.stopInput()
		return nil
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return cmd
}

func (b *Browser) commitEdit() {
	defer b.stopInput()
	n := b.stack.Top().Focused()
	if n == nil || n.Kind != NodeLeaf {
		return
	}
	value := b.input.Value()
	switch n.Leaf.Kind {
	case LeafTextField:
		b.set(n.Leaf, value)
	case LeafContactEditor:
		old, _ := n.Leaf.Data.(*Contact)
		b.set(n.Leaf, editContact(old, value))
	}
}

func (b *Browser) stopInput() {
	b.editing = false
	b.searching = false
	b.input.Blur()
}

// editContact returns a copy of old named name: the first word becomes the
// given name and the rest the family name.
func editContact(old *Contact, name string) *Contact {
	c := &Contact{}
	if old != nil {
		*c = *old
	}
	given, family, _ := strings.Cut(strings.TrimSpace(name), " ")
	c.GivenName = given
	c.FamilyName = strings.TrimSpace(family)
	return c
}

func (b *Browser) viewHeight() int {
	if b.height <= 0 {
		return 0
	}
	return max(b.height-2, 1)
}

func (b *Browser) refresh() {
	b.painter.Frame = b.spin.View()
	b.painter.Editing = b.editing
	b.painter.EditValue = b.input.Value()
	b.stack.Top().Refresh(b.painter, b.width, b.viewHeight())
}

// View implements tea.Model.
func (b *Browser) View() string {
	var sb strings.Builder
	titles := b.stack.Titles()
	if len(titles) > 1 {
		sb.WriteString(crumbStyle.Render(strings.Join(titles[:len(titles)-1], " › ") + " › "))
	}
	sb.WriteString(titleStyle.Render(titles[len(titles)-1]))
	sb.WriteByte('\n')
	sb.WriteString(b.stack.Top().View().ANSI())
	sb.WriteByte('\n')
	switch {
	case b.status != "":
		sb.WriteString(errorStyle.Render(b.status))
	case b.searching:
		sb.WriteString("/" + b.input.View())
	case b.editing:
		sb.WriteString(b.help.View(editKeys{b.keys}))
	default:
		sb.WriteString(b.help.View(b.keys))
	}
	return sb.String()
}

// Close cancels pending loads and drops the renderer's subscriptions.
func (b *Browser) Close() {
	b.cancel()
	b.r.Close()
}

// Dump paints produce once at width columns, for non-interactive output.
// With ansi false the result is plain text.
func Dump(r *Renderer, p *Painter, produce func() any, width int, ansi bool) string {
	buf := p.Paint(r.RenderRoot(produce), width)
	if ansi {
		return buf.ANSI()
	}
	return buf.StringTrimmed()
}
