package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/coilgun/internal/recorder"
)

const (
	canvasWidth  = 80
	canvasHeight = 12
	frameRate    = 30
	graphWindow  = 300
	targetFrames = 300
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay plays the records of a stored run back along the tube.
type Replay struct {
	name     string
	records  []recorder.Record
	params   recorder.Parameters
	firedAt  []int
	scale    float64
	canvas   *Canvas
	theme    Theme
	playHead int
	speed    int
	running  bool
	showHelp bool

	recording bool
	frames    []*image.Paletted
	gifPath   string
	status    string
}

// NewReplay prepares a replay of records. params supplies the tube and
// stage layout.
func NewReplay(name string, records []recorder.Record, params recorder.Parameters) Replay {
	tube := params.TubeLength
	for _, r := range records {
		tube = math.Max(tube, r.Position)
	}
	if tube <= 0 {
		tube = 1
	}

	return Replay{
		name:    name,
		records: records,
		params:  params,
		firedAt: firingIndices(records, params.Stages),
		scale:   float64(canvasWidth*2-1) / tube,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		theme:   ThemeLab,
		speed:   max(1, len(records)/targetFrames),
		running: true,
		gifPath: "replay.gif",
	}
}

// SetGIFPath sets where G recordings are written.
func (m *Replay) SetGIFPath(path string) { m.gifPath = path }

func (m *Replay) SetTheme(t Theme) { m.theme = t }

// firingIndices returns, per stage, the first record whose capsule position
// is within the stage's trigger reach, or -1.
func firingIndices(records []recorder.Record, stages []recorder.StageParameters) []int {
	fired := make([]int, len(stages))
	for i, st := range stages {
		fired[i] = -1
		reach := math.Max(st.Length, 0.01)
		for j, r := range records {
			if math.Abs(r.Position-st.Position) <= reach {
				fired[i] = j
				break
			}
		}
	}
	return fired
}

func (m Replay) Init() tea.Cmd { return tick() }

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.playHead = 0
		case "[":
			m.running = false
			m.seek(-m.speed)
		case "]":
			m.running = false
			m.seek(m.speed)
		case "+", "=":
			m.speed *= 2
		case "-", "_":
			m.speed = max(1, m.speed/2)
		case "t":
			m.theme = nextTheme(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.seek(m.speed)
			if m.playHead == len(m.records)-1 {
				m.running = false
			}
		}
		if m.recording {
			m.draw()
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Replay) seek(delta int) {
	if len(m.records) == 0 {
		return
	}
	m.playHead = min(max(m.playHead+delta, 0), len(m.records)-1)
}

func (m *Replay) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		m.status = "recording"
		return
	}
	m.recording = false
	if err := m.saveGIF(); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.gifPath)
	}
	m.frames = nil
}

// px maps a tube position to a canvas column.
func (m *Replay) px(x float64) int { return int(math.Round(x * m.scale)) }

// draw renders the tube, the stage coils and the capsule at the play head.
// Coils that have fired are filled.
func (m *Replay) draw() {
	c := m.canvas
	c.Clear()
	h := c.PixelHeight()
	wallTop, wallBottom := h/4, h-1-h/4

	c.DrawLine(0, wallTop, c.PixelWidth()-1, wallTop)
	c.DrawLine(0, wallBottom, c.PixelWidth()-1, wallBottom)

	for i, st := range m.params.Stages {
		x0, x1 := m.px(st.Position-st.Length/2), m.px(st.Position+st.Length/2)
		if f := m.firedAt[i]; f >= 0 && f <= m.playHead {
			c.FillRect(x0, 0, x1, wallTop-2)
			c.FillRect(x0, wallBottom+2, x1, h-1)
		} else {
			c.Rect(x0, 0, x1, wallTop-2)
			c.Rect(x0, wallBottom+2, x1, h-1)
		}
	}

	if len(m.records) == 0 {
		return
	}
	x := m.records[m.playHead].Position
	half := math.Max(m.params.CapsuleLength/2, 0.5/m.scale)
	c.FillRect(m.px(x-half), wallTop+2, m.px(x+half), wallBottom-2)
}

func (m Replay) View() string {
	s := newStyles(m.theme)
	m.draw()

	var b strings.Builder
	b.WriteString(s.title.Render(strings.ToUpper(m.name)) + "\n\n")

	status := "PLAYING"
	switch {
	case !m.running && len(m.records) > 0 && m.playHead == len(m.records)-1:
		status = "END"
	case !m.running:
		status = "PAUSED"
	}
	if m.recording {
		status += " " + s.warning.Render("● REC")
	}
	b.WriteString(s.active.Render(status) + fmt.Sprintf("  x%d\n\n", m.speed))

	if len(m.records) > 0 {
		r := m.records[m.playHead]
		b.WriteString(s.row("Time", fmt.Sprintf("%.5f s", r.Time)))
		b.WriteString(s.row("Position", fmt.Sprintf("%.4f m", r.Position)))
		b.WriteString(s.row("Velocity", fmt.Sprintf("%.4f m/s", r.Velocity)))
		b.WriteString(s.row("Force", fmt.Sprintf("%.3g N", r.Force)))
		b.WriteString(s.row("Capsule I", fmt.Sprintf("%.3g A", r.CapsuleCurrent)))
		b.WriteString(s.row("Stage I", fmt.Sprintf("%.3g A", r.StageCurrent)))
		b.WriteString(s.row("Active stages", fmt.Sprintf("%d/%d", r.ActiveStages, len(m.params.Stages))))

		if m.playHead > 1 {
			from := max(0, m.playHead-graphWindow)
			vs := make([]float64, 0, m.playHead-from+1)
			for _, rec := range m.records[from : m.playHead+1] {
				vs = append(vs, rec.Velocity)
			}
			chart := asciigraph.Plot(vs, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("velocity"))
			b.WriteString("\n" + chart + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + s.subtle.Render(m.status) + "\n")
	}
	b.WriteString(s.subtle.Render("\nSP:Pause [ ]:Step +/-:Speed R:Restart\nT:Theme G:Record ?:Help Q:Quit"))

	tubeView := lipgloss.NewStyle().Foreground(m.theme.Primary).Padding(1, 2).Render(m.canvas.String())
	statsView := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(m.theme.Muted).
		Padding(1, 2).
		Width(48).
		Render(b.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, tubeView, statsView)

	if m.showHelp {
		return s.panel.Render(strings.Join([]string{
			"Space  pause or resume",
			"[ ]    step back or forward",
			"+ -    double or halve speed",
			"R      restart",
			"T      cycle themes",
			"G      toggle GIF recording",
			"Q      quit",
		}, "\n")) + "\n\n" + main
	}
	return main
}

// captureFrame rasterizes the canvas, one 4×4 block per Braille dot.
func (m *Replay) captureFrame() {
	const dot = 4
	c := m.canvas
	img := image.NewPaletted(
		image.Rect(0, 0, c.PixelWidth()*dot, c.PixelHeight()*dot),
		color.Palette{color.Black, color.White},
	)
	for y := 0; y < c.PixelHeight(); y++ {
		for x := 0; x < c.PixelWidth(); x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.SetColorIndex(x*dot+px, y*dot+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Replay) saveGIF() error {
	if len(m.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/frameRate)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
