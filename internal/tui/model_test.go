package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothworks/voterscan/internal/config"
	"github.com/boothworks/voterscan/internal/model"
	"github.com/boothworks/voterscan/internal/session"
	"github.com/boothworks/voterscan/internal/store"
)

type fakeExtractor struct {
	rs  *model.RecordSet
	err error
}

func (f *fakeExtractor) Run(context.Context, *model.DocumentHandle) (*model.RecordSet, error) {
	return f.rs, f.err
}

type fakeAsker struct {
	out []model.ChatMessage
	ok  bool
}

func (f *fakeAsker) Ask(_ context.Context, _ string, _ *model.RecordSet, _ []model.ChatMessage) ([]model.ChatMessage, bool) {
	return f.out, f.ok
}

func testRecordSet() *model.RecordSet {
	return &model.RecordSet{
		ConstituencyInfo: model.ConstituencyInfo{
			Assembly:      model.ConstituencyBlock{Number: 42, Name: "Mylapore", Category: "GEN"},
			Parliamentary: model.ConstituencyBlock{Number: 3, Name: "Chennai South", Category: "GEN"},
		},
		PollingStationInfo: model.PollingStationInfo{PartNumber: 117, Name: "School", Address: "Rd", MainTownOrVillage: "Mylapore", PoliceStation: "Mylapore", District: "Chennai", PinCode: "600004"},
		VoterStats:         model.VoterStats{StartingSerialNumber: 1, EndingSerialNumber: 2, MaleVoters: 1, FemaleVoters: 1, TotalVoters: 2},
		Voters: []model.VoterRecord{
			{SerialNumber: "1", VoterID: "ABC1234567", Name: "Kumar Raja", RelationName: "Raja", RelationType: model.RelationFather, HouseNumber: "12", Age: 34, Gender: model.GenderMale},
			{SerialNumber: "2", VoterID: "XYZ7654321", Name: "Lakshmi Devi", RelationName: "Murugan", RelationType: model.RelationHusband, HouseNumber: "14A", Age: 29, Gender: model.GenderFemale},
		},
	}
}

func testCoordinator(t *testing.T) *session.Coordinator {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return session.NewCoordinator(st)
}

func testModel(t *testing.T, extractor Extractor, asker Asker) Model {
	t.Helper()
	cfg := config.Config{
		Search: config.SearchConfig{DebounceMS: 300},
		TUI:    config.TUIConfig{Overscan: 5},
	}
	m := New(testCoordinator(t), extractor, asker, cfg)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func extractedModel(t *testing.T) Model {
	t.Helper()
	m := testModel(t, &fakeExtractor{rs: testRecordSet()}, &fakeAsker{})
	require.NoError(t, m.coord.SetDocument(context.Background(), &model.DocumentHandle{
		DataURL: "data:image/png;base64,AAAA", MimeType: "image/png", Name: "part-117.png",
	}))
	m.sess = m.coord.Snapshot()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	return updated.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestUpdate_ExtractionPublishesRecords(t *testing.T) {
	m := extractedModel(t)

	s := m.coord.Snapshot()
	assert.Equal(t, session.StageExtracted, s.Stage)
	require.NotNil(t, s.Records)
	assert.Len(t, m.filtered, 2)
	require.Len(t, s.ChatLog, 1)
	assert.Equal(t, session.SeedMessage, s.ChatLog[0].Text)
}

func TestUpdate_ExtractionFailureKeepsDocument(t *testing.T) {
	m := testModel(t, &fakeExtractor{err: eris.New("timed out")}, &fakeAsker{})
	require.NoError(t, m.coord.SetDocument(context.Background(), &model.DocumentHandle{
		DataURL: "data:image/png;base64,AAAA", MimeType: "image/png", Name: "part-117.png",
	}))
	m.sess = m.coord.Snapshot()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	s := m.coord.Snapshot()
	assert.Equal(t, session.StageFailed, s.Stage)
	assert.Equal(t, "timed out", s.LastError)
	assert.NotNil(t, s.Document, "failed extraction keeps the upload")
	assert.Nil(t, s.Records)
}

func TestUpdate_StaleExtractionResultDropped(t *testing.T) {
	m := testModel(t, &fakeExtractor{rs: testRecordSet()}, &fakeAsker{})
	require.NoError(t, m.coord.SetDocument(context.Background(), &model.DocumentHandle{
		DataURL: "data:image/png;base64,AAAA", MimeType: "image/png", Name: "part-117.png",
	}))
	m.sess = m.coord.Snapshot()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(Model)
	require.NotNil(t, cmd)

	// The user resets the session while extraction is in flight.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)

	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.Nil(t, m.coord.Snapshot().Records, "late result must not resurrect cleared state")
	assert.Equal(t, session.StageEmpty, m.coord.Snapshot().Stage)
}

func TestUpdate_SearchDebounces(t *testing.T) {
	m := extractedModel(t)

	updated, _ := m.Update(keyRunes("l"))
	m = updated.(Model)
	assert.Len(t, m.filtered, 2, "filter unchanged before the window elapses")

	updated, _ = m.Update(keyRunes("a"))
	m = updated.(Model)

	// The first keystroke's timer fires late and must be ignored.
	updated, _ = m.Update(debounceMsg{seq: 1})
	m = updated.(Model)
	assert.Len(t, m.filtered, 2)

	updated, _ = m.Update(debounceMsg{seq: 2})
	m = updated.(Model)
	require.Len(t, m.filtered, 1)
	assert.Equal(t, "Lakshmi Devi", m.filtered[0].Name)
}

func TestUpdate_EnterFlushesSearch(t *testing.T) {
	m := extractedModel(t)

	updated, _ := m.Update(keyRunes("kumar"))
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	require.Len(t, m.filtered, 1)
	assert.Equal(t, "Kumar Raja", m.filtered[0].Name)
}

func TestUpdate_TabSwitchesAndPersistsView(t *testing.T) {
	m := extractedModel(t)
	assert.Equal(t, model.ViewData, m.sess.ActiveView)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, model.ViewChat, m.sess.ActiveView)
	assert.Equal(t, model.ViewChat, m.coord.Snapshot().ActiveView, "view survives restart")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, model.ViewData, m.sess.ActiveView)
}

func TestUpdate_AskAppendsToLog(t *testing.T) {
	answer := []model.ChatMessage{
		{Role: model.RoleModel, Text: session.SeedMessage},
		{Role: model.RoleUser, Text: "How many voters?"},
		{Role: model.RoleModel, Text: "Two voters."},
	}
	m := extractedModel(t)
	m.asker = &fakeAsker{out: answer, ok: true}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	m.chatInput.SetValue("How many voters?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.asking)

	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.False(t, m.asking)
	require.Len(t, m.sess.ChatLog, 3)
	assert.Equal(t, "Two voters.", m.sess.ChatLog[2].Text)
	assert.Len(t, m.coord.Snapshot().ChatLog, 3, "log persisted")
}

func TestUpdate_StaleAskResultDropped(t *testing.T) {
	answer := []model.ChatMessage{
		{Role: model.RoleModel, Text: session.SeedMessage},
		{Role: model.RoleUser, Text: "How many voters?"},
		{Role: model.RoleModel, Text: "Two voters."},
	}
	m := extractedModel(t)
	m.asker = &fakeAsker{out: answer, ok: true}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	m.chatInput.SetValue("How many voters?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	// The user resets the session while the answer is in flight.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)

	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.False(t, m.asking)
	s := m.coord.Snapshot()
	assert.Empty(t, s.ChatLog, "late answer must not resurrect the cleared chat log")
	assert.Equal(t, session.StageEmpty, s.Stage)
}

func TestUpdate_AskWithoutRecordsRefused(t *testing.T) {
	m := testModel(t, &fakeExtractor{}, &fakeAsker{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	m.chatInput.SetValue("anything")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.asking)
}

func TestUpdate_ScrollClamped(t *testing.T) {
	m := extractedModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, 0, m.scroll, "cannot scroll above the first row")

	for i := 0; i < 50; i++ {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = updated.(Model)
	}
	assert.Equal(t, m.maxScroll(), m.scroll)
}

func TestView_RendersVoters(t *testing.T) {
	m := extractedModel(t)
	out := m.View()
	assert.Contains(t, out, "Kumar Raja")
	assert.Contains(t, out, "ABC1234567")
	assert.Contains(t, out, "2 of 2 voters")
}

func TestView_ChatShowsSeedMessage(t *testing.T) {
	m := extractedModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)

	assert.Contains(t, m.View(), session.SeedMessage)
}
