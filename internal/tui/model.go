// Package tui is the interactive session UI: a data tab with debounced
// search over a virtualized voter table, and a chat tab for grounded
// questions about the extracted list.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/boothworks/voterscan/internal/config"
	"github.com/boothworks/voterscan/internal/ingest"
	"github.com/boothworks/voterscan/internal/model"
	"github.com/boothworks/voterscan/internal/search"
	"github.com/boothworks/voterscan/internal/session"
)

// Extractor runs document extraction. Satisfied by *extract.Pipeline.
type Extractor interface {
	Run(ctx context.Context, doc *model.DocumentHandle) (*model.RecordSet, error)
}

// Asker runs one QA turn. Satisfied by *qa.Controller.
type Asker interface {
	Ask(ctx context.Context, question string, rs *model.RecordSet, log []model.ChatMessage) ([]model.ChatMessage, bool)
}

type debounceMsg struct {
	seq int
}

type extractDoneMsg struct {
	gen int
	rs  *model.RecordSet
	err error
}

type askDoneMsg struct {
	gen int
	log []model.ChatMessage
	ok  bool
}

// Model is the Bubble Tea model for the session UI.
type Model struct {
	coord     *session.Coordinator
	extractor Extractor
	asker     Asker

	sess session.Session

	searchInput textinput.Model
	chatInput   textinput.Model
	pathInput   textinput.Model
	uploading   bool // path prompt open
	asking      bool // QA turn in flight

	deb      search.Debouncer
	debounce time.Duration
	overscan int

	filtered []model.VoterRecord
	scroll   int

	width  int
	height int
	ready  bool
	status string
}

// New creates the session UI over an already-loaded coordinator.
func New(coord *session.Coordinator, extractor Extractor, asker Asker, cfg config.Config) Model {
	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "Search name, voter ID or serial number"
	si.CharLimit = 0
	si.Focus()

	ci := textinput.New()
	ci.Prompt = "> "
	ci.Placeholder = "Ask about the voter list and press Enter"
	ci.CharLimit = 0

	pi := textinput.New()
	pi.Prompt = "file: "
	pi.Placeholder = "path to scanned page (png, jpg, pdf)"
	pi.CharLimit = 0

	m := Model{
		coord:       coord,
		extractor:   extractor,
		asker:       asker,
		sess:        coord.Snapshot(),
		searchInput: si,
		chatInput:   ci,
		pathInput:   pi,
		debounce:    time.Duration(cfg.Search.DebounceMS) * time.Millisecond,
		overscan:    cfg.TUI.Overscan,
		status:      "Ctrl+O upload, Ctrl+X extract, Tab switch view, Ctrl+R reset, Ctrl+C quit",
	}
	m.refilter()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, timer and completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case debounceMsg:
		if m.deb.Commit(msg.seq) {
			m.refilter()
			m.scroll = 0
		}
		return m, nil

	case extractDoneMsg:
		return m.finishExtraction(msg)

	case askDoneMsg:
		m.asking = false
		if msg.gen != m.coord.Snapshot().Generation {
			zap.L().Info("discarding stale answer",
				zap.Int("result_generation", msg.gen),
				zap.Int("current_generation", m.coord.Snapshot().Generation),
			)
			return m, nil
		}
		if err := m.coord.SetChatLog(context.Background(), msg.log); err != nil {
			zap.L().Error("persist chat log", zap.Error(err))
		}
		m.sess = m.coord.Snapshot()
		if msg.ok {
			m.status = "Answered."
		} else {
			m.status = "Answer failed, see the chat log."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.uploading {
		return m.handleUploadKey(msg)
	}

	switch msg.String() {
	case "tab":
		return m.switchView()
	case "ctrl+o":
		m.uploading = true
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		m.searchInput.Blur()
		m.chatInput.Blur()
		return m, nil
	case "ctrl+x":
		return m.startExtraction()
	case "ctrl+r":
		if err := m.coord.Clear(context.Background()); err != nil {
			m.status = "Reset failed: " + err.Error()
			return m, nil
		}
		m.sess = m.coord.Snapshot()
		m.deb = search.Debouncer{}
		m.searchInput.SetValue("")
		m.scroll = 0
		m.refilter()
		m.status = "Session cleared."
		return m, nil
	}

	if m.sess.ActiveView == model.ViewChat {
		if msg.String() == "enter" {
			return m.startAsk()
		}
		return m.updateFocusedInput(msg)
	}

	switch msg.String() {
	case "up":
		m.scroll = clamp(m.scroll-1, 0, m.maxScroll())
		return m, nil
	case "down":
		m.scroll = clamp(m.scroll+1, 0, m.maxScroll())
		return m, nil
	case "pgup":
		m.scroll = clamp(m.scroll-m.tableHeight(), 0, m.maxScroll())
		return m, nil
	case "pgdown":
		m.scroll = clamp(m.scroll+m.tableHeight(), 0, m.maxScroll())
		return m, nil
	case "enter":
		// Skip the debounce window.
		m.deb.Flush()
		m.refilter()
		m.scroll = 0
		return m, nil
	}

	// Everything else edits the search box, which debounces.
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	seq := m.deb.Input(m.searchInput.Value())
	return m, tea.Batch(cmd, m.debounceTick(seq))
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.uploading = false
		m.pathInput.Blur()
		m.focusActiveView()
		return m, nil
	case "enter":
		path := m.pathInput.Value()
		m.uploading = false
		m.pathInput.Blur()
		m.focusActiveView()

		doc, err := ingest.Ingest(path)
		if err != nil {
			m.status = "Upload failed: " + err.Error()
			return m, nil
		}
		if err := m.coord.SetDocument(context.Background(), doc); err != nil {
			m.status = "Upload failed: " + err.Error()
			return m, nil
		}
		m.sess = m.coord.Snapshot()
		m.deb = search.Debouncer{}
		m.searchInput.SetValue("")
		m.scroll = 0
		m.refilter()
		m.status = "Uploaded " + doc.Name + ". Ctrl+X to extract."
		return m, nil
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) switchView() (tea.Model, tea.Cmd) {
	next := model.ViewChat
	if m.sess.ActiveView == model.ViewChat {
		next = model.ViewData
	}
	if err := m.coord.SetActiveView(context.Background(), next); err != nil {
		m.status = "View switch failed: " + err.Error()
		return m, nil
	}
	m.sess = m.coord.Snapshot()
	m.focusActiveView()
	return m, nil
}

func (m *Model) focusActiveView() {
	if m.sess.ActiveView == model.ViewChat {
		m.searchInput.Blur()
		m.chatInput.Focus()
	} else {
		m.chatInput.Blur()
		m.searchInput.Focus()
	}
}

func (m Model) startExtraction() (tea.Model, tea.Cmd) {
	if m.sess.Document == nil {
		m.status = "Upload a document first (Ctrl+O)."
		return m, nil
	}
	if m.sess.Stage == session.StageExtracting {
		m.status = "Extraction already running."
		return m, nil
	}
	gen, err := m.coord.BeginExtraction(context.Background())
	if err != nil {
		m.status = "Extraction failed to start: " + err.Error()
		return m, nil
	}
	m.sess = m.coord.Snapshot()
	m.refilter()
	m.status = "Extracting " + m.sess.Document.Name + "..."

	doc := m.sess.Document
	extractor := m.extractor
	return m, func() tea.Msg {
		rs, err := extractor.Run(context.Background(), doc)
		return extractDoneMsg{gen: gen, rs: rs, err: err}
	}
}

func (m Model) finishExtraction(msg extractDoneMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	if msg.err != nil {
		applied, err := m.coord.FailExtraction(ctx, msg.gen, msg.err.Error())
		if err != nil {
			zap.L().Error("persist extraction failure", zap.Error(err))
		}
		if applied {
			m.sess = m.coord.Snapshot()
			m.status = "Extraction failed: " + msg.err.Error()
		}
		return m, nil
	}

	applied, err := m.coord.CompleteExtraction(ctx, msg.gen, msg.rs)
	if err != nil {
		zap.L().Error("persist extraction result", zap.Error(err))
	}
	if applied {
		m.sess = m.coord.Snapshot()
		m.refilter()
		m.scroll = 0
		m.status = "Extraction complete."
	}
	return m, nil
}

func (m Model) startAsk() (tea.Model, tea.Cmd) {
	question := m.chatInput.Value()
	if question == "" || m.asking {
		return m, nil
	}
	if m.sess.Records == nil {
		m.status = "Extract a document before asking questions."
		return m, nil
	}
	m.asking = true
	m.chatInput.SetValue("")
	m.status = "Thinking..."

	asker := m.asker
	rs := m.sess.Records
	log := m.sess.ChatLog
	gen := m.sess.Generation
	return m, func() tea.Msg {
		out, ok := asker.Ask(context.Background(), question, rs, log)
		return askDoneMsg{gen: gen, log: out, ok: ok}
	}
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.uploading:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case m.sess.ActiveView == model.ViewChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	default:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

func (m Model) debounceTick(seq int) tea.Cmd {
	window := m.debounce
	if window <= 0 {
		window = search.DefaultWindow
	}
	return tea.Tick(window, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m *Model) refilter() {
	if m.sess.Records == nil {
		m.filtered = nil
		return
	}
	m.filtered = search.Filter(m.sess.Records.Voters, m.deb.Term())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
