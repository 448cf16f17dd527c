// Package session coordinates the durable scanning session: the
// uploaded document, its extracted records, the conversation log and
// the active view. Every mutation is persisted field by field so a
// restart restores exactly what was on screen.
package session

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boothworks/voterscan/internal/model"
	"github.com/boothworks/voterscan/internal/store"
)

// SeedMessage opens the conversation after a successful extraction.
const SeedMessage = "Data extracted successfully. You can now ask me questions about the voter list."

// Stage is the extraction lifecycle of the current document.
type Stage string

const (
	StageEmpty      Stage = "empty"      // no document uploaded
	StageReady      Stage = "ready"      // document uploaded, not extracted
	StageExtracting Stage = "extracting" // extraction in flight
	StageExtracted  Stage = "extracted"  // records available
	StageFailed     Stage = "failed"     // last extraction attempt failed
)

// Session is a snapshot of the coordinator's state. Snapshots are
// copies; mutating one never affects the coordinator.
type Session struct {
	Document   *model.DocumentHandle
	Records    *model.RecordSet
	ChatLog    []model.ChatMessage
	ActiveView model.View
	Stage      Stage
	LastError  string

	// Generation identifies the current document upload. Extraction
	// results carry the generation they started under; results from a
	// superseded generation are discarded.
	Generation int
}

// Coordinator owns the live session and its persistence. It is not
// goroutine safe; the TUI event loop and the CLI commands both drive
// it from a single goroutine.
type Coordinator struct {
	st   store.Store
	sess Session
}

// NewCoordinator creates a coordinator over st with an empty session.
func NewCoordinator(st store.Store) *Coordinator {
	return &Coordinator{
		st:   st,
		sess: Session{ActiveView: model.ViewData, Stage: StageEmpty},
	}
}

// Snapshot returns a copy of the current session.
func (c *Coordinator) Snapshot() Session {
	s := c.sess
	s.ChatLog = append([]model.ChatMessage(nil), c.sess.ChatLog...)
	return s
}

// Load restores the session from the store. Restoration is tolerant:
// a field that is absent, unreadable or unparseable is dropped with a
// warning and the rest of the session still loads. An in-flight
// extraction never survives a restart, so a loaded session is never
// extracting.
func (c *Coordinator) Load(ctx context.Context) {
	sess := Session{ActiveView: model.ViewData, Stage: StageEmpty, Generation: c.sess.Generation}

	if data, ok := c.loadField(ctx, store.FieldDocumentData); ok {
		name, _ := c.loadField(ctx, store.FieldDocumentName)
		mime, _ := c.loadField(ctx, store.FieldDocumentMime)
		sess.Document = &model.DocumentHandle{DataURL: data, MimeType: mime, Name: name}
		sess.Stage = StageReady
	}

	if raw, ok := c.loadField(ctx, store.FieldRecords); ok {
		if rs, perr := model.ParseRecordSet(raw); perr != nil {
			zap.L().Warn("dropping unparseable stored records", zap.Error(perr))
		} else {
			sess.Records = rs
			sess.Stage = StageExtracted
		}
	}

	if raw, ok := c.loadField(ctx, store.FieldChatLog); ok {
		var log []model.ChatMessage
		if perr := json.Unmarshal([]byte(raw), &log); perr != nil {
			zap.L().Warn("dropping unparseable stored chat log", zap.Error(perr))
		} else {
			sess.ChatLog = log
		}
	}

	if raw, ok := c.loadField(ctx, store.FieldActiveView); ok {
		switch model.View(raw) {
		case model.ViewData, model.ViewChat:
			sess.ActiveView = model.View(raw)
		default:
			zap.L().Warn("dropping unknown stored view", zap.String("view", raw))
		}
	}

	c.sess = sess
}

// loadField reads one persisted field, degrading a read failure to an
// absent value so a damaged store never blocks startup.
func (c *Coordinator) loadField(ctx context.Context, f store.Field) (string, bool) {
	v, ok, err := c.st.Get(ctx, f)
	if err != nil {
		zap.L().Warn("treating unreadable session field as absent",
			zap.String("field", string(f)),
			zap.Error(err),
		)
		return "", false
	}
	return v, ok
}

// SetDocument replaces the uploaded document. Records and conversation
// belonging to the previous document are cleared quietly, and the
// generation advances so any in-flight extraction result for the old
// document is discarded on arrival.
func (c *Coordinator) SetDocument(ctx context.Context, doc *model.DocumentHandle) error {
	c.sess.Document = doc
	c.sess.Records = nil
	c.sess.ChatLog = nil
	c.sess.Stage = StageReady
	c.sess.LastError = ""
	c.sess.Generation++
	return c.persist(ctx)
}

// BeginExtraction marks extraction in flight and returns the
// generation the attempt runs under. Results and conversation from a
// previous attempt are cleared, and the clear is persisted, so a crash
// mid-extraction never restores superseded records.
func (c *Coordinator) BeginExtraction(ctx context.Context) (int, error) {
	if c.sess.Document == nil {
		return 0, eris.New("session: no document to extract")
	}
	if c.sess.Stage == StageExtracting {
		return 0, eris.New("session: extraction already in flight")
	}
	c.sess.Records = nil
	c.sess.ChatLog = nil
	c.sess.Stage = StageExtracting
	c.sess.LastError = ""
	return c.sess.Generation, c.persist(ctx)
}

// CompleteExtraction publishes rs atomically: records and the seeded
// conversation appear together or not at all. A result from a stale
// generation is dropped and the method reports false.
func (c *Coordinator) CompleteExtraction(ctx context.Context, gen int, rs *model.RecordSet) (bool, error) {
	if gen != c.sess.Generation || c.sess.Stage != StageExtracting {
		zap.L().Info("discarding stale extraction result",
			zap.Int("result_generation", gen),
			zap.Int("current_generation", c.sess.Generation),
		)
		return false, nil
	}
	c.sess.Records = rs
	c.sess.ChatLog = []model.ChatMessage{{Role: model.RoleModel, Text: SeedMessage}}
	c.sess.Stage = StageExtracted
	c.sess.LastError = ""
	return true, c.persist(ctx)
}

// FailExtraction records an extraction failure. Stale failures are
// dropped the same way stale results are.
func (c *Coordinator) FailExtraction(ctx context.Context, gen int, msg string) (bool, error) {
	if gen != c.sess.Generation || c.sess.Stage != StageExtracting {
		return false, nil
	}
	c.sess.Stage = StageFailed
	c.sess.LastError = msg
	return true, c.persist(ctx)
}

// SetChatLog replaces the conversation log, typically with the output
// of a QA turn.
func (c *Coordinator) SetChatLog(ctx context.Context, log []model.ChatMessage) error {
	c.sess.ChatLog = log
	return c.persist(ctx)
}

// SetActiveView switches the persisted tab.
func (c *Coordinator) SetActiveView(ctx context.Context, v model.View) error {
	c.sess.ActiveView = v
	return c.persist(ctx)
}

// Clear resets the session to empty and removes every stored field.
// The generation advances so in-flight work cannot resurrect state.
func (c *Coordinator) Clear(ctx context.Context) error {
	gen := c.sess.Generation + 1
	c.sess = Session{ActiveView: model.ViewData, Stage: StageEmpty, Generation: gen}
	for _, f := range store.Fields {
		if err := c.st.Delete(ctx, f); err != nil {
			return eris.Wrapf(err, "session: clear field %s", f)
		}
	}
	return nil
}

// persist writes every present field and deletes every absent one, so
// the store always mirrors the session exactly.
func (c *Coordinator) persist(ctx context.Context) error {
	if err := c.putOrDelete(ctx, store.FieldDocumentData, c.documentValue(func(d *model.DocumentHandle) string { return d.DataURL })); err != nil {
		return err
	}
	if err := c.putOrDelete(ctx, store.FieldDocumentName, c.documentValue(func(d *model.DocumentHandle) string { return d.Name })); err != nil {
		return err
	}
	if err := c.putOrDelete(ctx, store.FieldDocumentMime, c.documentValue(func(d *model.DocumentHandle) string { return d.MimeType })); err != nil {
		return err
	}

	var records string
	if c.sess.Records != nil {
		b, err := json.Marshal(c.sess.Records)
		if err != nil {
			return eris.Wrap(err, "session: marshal records")
		}
		records = string(b)
	}
	if err := c.putOrDelete(ctx, store.FieldRecords, records); err != nil {
		return err
	}

	var chatLog string
	if len(c.sess.ChatLog) > 0 {
		b, err := json.Marshal(c.sess.ChatLog)
		if err != nil {
			return eris.Wrap(err, "session: marshal chat log")
		}
		chatLog = string(b)
	}
	if err := c.putOrDelete(ctx, store.FieldChatLog, chatLog); err != nil {
		return err
	}

	return c.putOrDelete(ctx, store.FieldActiveView, string(c.sess.ActiveView))
}

func (c *Coordinator) documentValue(get func(*model.DocumentHandle) string) string {
	if c.sess.Document == nil {
		return ""
	}
	return get(c.sess.Document)
}

func (c *Coordinator) putOrDelete(ctx context.Context, f store.Field, value string) error {
	if value == "" {
		if err := c.st.Delete(ctx, f); err != nil {
			return eris.Wrapf(err, "session: delete field %s", f)
		}
		return nil
	}
	if err := c.st.Put(ctx, f, value); err != nil {
		return eris.Wrapf(err, "session: put field %s", f)
	}
	return nil
}
